// Package pipeline wires the extraction stages together: the primary
// template-matching path, and the textual fallback that runs only when the
// primary path produces nothing.
package pipeline

import (
	"fmt"
	"image"
	"io"

	"ticket-scanner/internal/binarize"
	"ticket-scanner/internal/match"
	"ticket-scanner/internal/play"
	"ticket-scanner/internal/qr"
	"ticket-scanner/internal/region"
	"ticket-scanner/internal/textual"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Recognizer produces raw text from a binary image. The fallback path feeds
// its output through the textual extractor.
type Recognizer interface {
	RecognizeImage(img gocv.Mat) (string, error)
}

// Options configures a Pipeline.
type Options struct {
	// Recognizer powers the fallback path. Nil disables it.
	Recognizer Recognizer

	// Logger receives stage logging. Nil silences the pipeline.
	Logger *logrus.Logger

	// DebugDir, when set, receives intermediate images per extraction.
	DebugDir string

	// Profile enables per-step timing logs.
	Profile bool
}

// Pipeline extracts plays from captured ticket frames. It holds no mutable
// state between calls beyond the immutable template set, so one Pipeline
// serves any number of extractions.
type Pipeline struct {
	templates  *match.TemplateSet
	recognizer Recognizer
	log        *logrus.Logger
	debug      *debugSink
	profile    bool
}

// New creates a Pipeline. An incomplete template set disables the primary
// path; that is reported here, once, rather than on every extraction.
func New(templates *match.TemplateSet, opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	if !templates.Complete() {
		log.Warn("template set incomplete: primary extraction path disabled")
	}

	return &Pipeline{
		templates:  templates,
		recognizer: opts.Recognizer,
		log:        log,
		debug:      newDebugSink(opts.DebugDir, log),
		profile:    opts.Profile,
	}
}

// Extract runs the full pipeline over one captured frame and returns the
// validated plays in ticket order, top to bottom. An empty slice means no
// validated play could be recovered; that is a result, not an error.
func (p *Pipeline) Extract(frame gocv.Mat) ([]play.Play, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	prof := newProfiler(p.log, p.profile)
	defer prof.report()

	done := prof.step("binarize")
	binary, err := binarize.Binarize(frame)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	defer binary.Close()
	done()
	p.debug.save("01_binary", binary)

	plays := p.primary(binary, prof)
	if len(plays) == 0 {
		plays = p.fallback(binary, prof)
	}
	if plays == nil {
		plays = []play.Play{}
	}

	p.log.WithField("plays", len(plays)).Info("extraction finished")
	return plays, nil
}

// primary runs the template-matching path. Any failure along the way returns
// an empty result so the dispatcher can fall back; nothing here is retried.
func (p *Pipeline) primary(binary gocv.Mat, prof *profiler) []play.Play {
	if !p.templates.Complete() {
		return nil
	}

	done := prof.step("normalize")
	anchor, found := qr.DetectAnchor(binary)
	if !found {
		done()
		p.log.Info("no QR anchor: primary path unavailable")
		return nil
	}

	normalized, canvas, err := qr.Normalize(binary, anchor)
	defer normalized.Close()
	done()
	if err != nil {
		p.log.WithError(err).Warn("normalization failed")
		return nil
	}
	p.debug.save("02_normalized", normalized)

	done = prof.step("locate_region")
	bounds, err := region.Locate(normalized, canvas.QRTop())
	done()
	if err != nil {
		p.log.WithError(err).Info("plays region not found")
		return nil
	}

	playsRegion := normalized.Region(image.Rect(bounds.X, bounds.Y, bounds.X+bounds.Width, bounds.Y+bounds.Height))
	defer playsRegion.Close()
	p.debug.save("03_plays_region", playsRegion)

	done = prof.step("clean")
	cleaned := binarize.CloseGaps(playsRegion)
	defer cleaned.Close()
	done()

	done = prof.step("match")
	markers := match.FindMarkers(cleaned, p.templates.PB)
	hits := match.DetectDigits(cleaned, p.templates)
	done()
	p.log.WithFields(logrus.Fields{
		"markers": len(markers),
		"digits":  len(hits),
	}).Debug("template matching")

	if len(hits) == 0 {
		p.log.Info("no digits recovered: primary path yields nothing")
		return nil
	}

	done = prof.step("assemble")
	plays := play.AssemblePlays(play.GroupRows(hits), markers)
	done()
	return plays
}

// fallback recognizes the un-normalized binary image as text and extracts
// plays from the repaired transcript. It is deliberately conservative:
// fewer plays, but only ones that validate.
func (p *Pipeline) fallback(binary gocv.Mat, prof *profiler) []play.Play {
	if p.recognizer == nil {
		return nil
	}

	done := prof.step("fallback_ocr")
	text, err := p.recognizer.RecognizeImage(binary)
	done()
	if err != nil {
		p.log.WithError(err).Warn("fallback recognition failed")
		return nil
	}

	done = prof.step("fallback_extract")
	plays := textual.ExtractPlays(text)
	done()
	return plays
}
