// Package main provides the ticket-scanner command: extract the plays from a
// Powerball ticket photo and, when a draw database is available, score them.
package main

import (
	"errors"
	"fmt"
	"os"

	"ticket-scanner/internal/draws"
	"ticket-scanner/internal/imageio"
	"ticket-scanner/internal/logging"
	"ticket-scanner/internal/match"
	"ticket-scanner/internal/ocr"
	"ticket-scanner/internal/pipeline"
	"ticket-scanner/internal/play"
	"ticket-scanner/internal/prize"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

func main() {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("ticket-scanner")
	var (
		imagePath   = fs.StringLong("image", "", "Path to ticket photo (PNG, JPEG, TIFF, or HEIC)")
		templateDir = fs.StringLong("templates", "digit_templates", "Directory with digit and PB templates")
		dbPath      = fs.StringLong("db", "", "Draw database path (optional)")
		drawDate    = fs.StringLong("draw-date", "", "Drawing date YYYY-MM-DD to score plays against")
		debugDir    = fs.StringLong("debug-dir", "", "Directory for intermediate debug images")
		logFile     = fs.StringLong("log-file", "", "Log file path (rotated)")
		noFallback  = fs.BoolLong("no-fallback", "Disable the OCR fallback path")
		profile     = fs.BoolLong("profile", "Log per-step timings")
		verbose     = fs.BoolLong("verbose", "Enable debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("TICKET_SCANNER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *imagePath == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --image is required")
		os.Exit(1)
	}

	log := logging.New(*verbose, *logFile)

	if err := run(log, *imagePath, *templateDir, *dbPath, *drawDate, *debugDir, *noFallback, *profile); err != nil {
		log.WithError(err).Error("scan failed")
		os.Exit(1)
	}
}

func run(log *logrus.Logger, imagePath, templateDir, dbPath, drawDate, debugDir string, noFallback, profile bool) error {
	frame, err := imageio.LoadFrame(imagePath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", imagePath, err)
	}
	defer frame.Close()

	templates := loadTemplates(log, templateDir)
	defer templates.Close()

	var recognizer pipeline.Recognizer
	if !noFallback {
		engine, err := ocr.NewEngine()
		if err != nil {
			log.WithError(err).Warn("OCR engine unavailable, fallback disabled")
		} else {
			defer engine.Close()
			recognizer = engine
		}
	}

	p := pipeline.New(templates, pipeline.Options{
		Recognizer: recognizer,
		Logger:     log,
		DebugDir:   debugDir,
		Profile:    profile,
	})

	plays, err := p.Extract(frame)
	if err != nil {
		return err
	}

	if len(plays) == 0 {
		fmt.Println("No plays recovered.")
		return nil
	}

	for _, pl := range plays {
		fmt.Printf("Play %d: ", pl.Number)
		for _, n := range pl.White {
			fmt.Printf("%02d ", n)
		}
		fmt.Printf("PB %02d\n", pl.Powerball)
	}

	if dbPath != "" && drawDate != "" {
		return scorePlays(log, plays, dbPath, drawDate)
	}
	return nil
}

// loadTemplates loads the template library, falling back to an empty set so
// the textual path still runs when the library is missing.
func loadTemplates(log *logrus.Logger, dir string) *match.TemplateSet {
	templates, err := match.LoadTemplateSet(dir)
	if err != nil {
		log.WithError(err).Warn("template library unavailable")
		return &match.TemplateSet{Digits: map[int]gocv.Mat{}, PB: gocv.NewMat()}
	}
	return templates
}

// scorePlays looks up the drawing and prints each play's prize tier.
func scorePlays(log *logrus.Logger, plays []play.Play, dbPath, drawDate string) error {
	store, err := draws.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	draw, err := store.Get(drawDate)
	if errors.Is(err, draws.ErrNotFound) {
		log.WithField("date", drawDate).Warn("no stored drawing for date")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nDrawing %s: %v PB %d\n", drawDate, draw.White, draw.Powerball)
	for _, pl := range plays {
		category := prize.Evaluate(pl.White, pl.Powerball, draw)
		fmt.Printf("Play %d: %s\n", pl.Number, category)
	}
	return nil
}
