// Command templatetrain cuts digit and PB-marker templates out of a labeled
// sample ticket. Point it at a straight-on, well-lit capture, give it the
// digit sequence printed on the ticket, and it writes the template library
// the scanner matches against.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"ticket-scanner/internal/binarize"
	"ticket-scanner/internal/imageio"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// Contour gates matching the runtime digit detector.
const (
	minHeight = 30
	minWidth  = 15
	maxWidth  = 90
	minArea   = 800
	maxArea   = 6000
)

func main() {
	imagePath := flag.String("image", "", "Sample ticket image (upright, plays area visible)")
	labels := flag.String("labels", "", "Digit sequence as printed, left to right, top to bottom (e.g. 0714224561)")
	pbRect := flag.String("pb-rect", "", "PB marker bounds as x,y,w,h (optional)")
	outDir := flag.String("out", "digit_templates", "Output template directory")
	flag.Parse()

	if *imagePath == "" || (*labels == "" && *pbRect == "") {
		fmt.Println("Usage: templatetrain -image <path> -labels <digits> [-pb-rect x,y,w,h] [-out dir]")
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	binary, err := loadBinary(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer binary.Close()

	if *labels != "" {
		if err := cutDigits(binary, *labels, *outDir); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	if *pbRect != "" {
		if err := cutMarker(binary, *pbRect, *outDir); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
}

// loadBinary opens the sample, evens out its contrast, and binarizes it with
// the runtime convention so templates and runtime agree pixel for pixel.
func loadBinary(path string) (gocv.Mat, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("opening %s: %w", path, err)
	}

	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)

	mat, err := imageio.ImageToMat(gray)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer mat.Close()

	binary, err := binarize.Binarize(mat)
	if err != nil {
		return gocv.NewMat(), err
	}

	cleaned := binarize.CloseGaps(binary)
	binary.Close()
	return cleaned, nil
}

// cutDigits finds digit-sized contours, pairs them with the label sequence
// in reading order, and saves the first specimen of each digit.
func cutDigits(binary gocv.Mat, labels, outDir string) error {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, labels)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var boxes []image.Rectangle
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		rect := gocv.BoundingRect(contour)
		w, h := rect.Dx(), rect.Dy()
		area := gocv.ContourArea(contour)
		if h < minHeight || w < minWidth || w > maxWidth || area < minArea || area > maxArea {
			continue
		}
		boxes = append(boxes, rect)
	}

	// Reading order: cluster into rows, left to right inside each.
	sort.Slice(boxes, func(i, j int) bool {
		if abs(boxes[i].Min.Y-boxes[j].Min.Y) > 40 {
			return boxes[i].Min.Y < boxes[j].Min.Y
		}
		return boxes[i].Min.X < boxes[j].Min.X
	})

	if len(boxes) != len(digits) {
		return fmt.Errorf("found %d digit contours but %d labels; crop tighter or fix labels", len(boxes), len(digits))
	}

	saved := map[int]bool{}
	for i, rect := range boxes {
		d := int(digits[i] - '0')
		if saved[d] {
			continue
		}
		region := binary.Region(rect)
		path := filepath.Join(outDir, fmt.Sprintf("digit_%d.png", d))
		ok := gocv.IMWrite(path, region)
		region.Close()
		if !ok {
			return fmt.Errorf("failed to write %s", path)
		}
		fmt.Printf("Saved %s (%dx%d)\n", path, rect.Dx(), rect.Dy())
		saved[d] = true
	}

	for d := 0; d < 10; d++ {
		if !saved[d] {
			fmt.Printf("Warning: no specimen for digit %d in this sample\n", d)
		}
	}
	return nil
}

// cutMarker saves the region given as x,y,w,h as the PB marker template.
func cutMarker(binary gocv.Mat, spec, outDir string) error {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return fmt.Errorf("invalid -pb-rect %q, want x,y,w,h", spec)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("invalid -pb-rect %q: %w", spec, err)
		}
		vals[i] = v
	}

	rect := image.Rect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3])
	if !rect.In(image.Rect(0, 0, binary.Cols(), binary.Rows())) {
		return fmt.Errorf("-pb-rect %q outside image", spec)
	}

	region := binary.Region(rect)
	defer region.Close()

	path := filepath.Join(outDir, "marker_pb.png")
	if ok := gocv.IMWrite(path, region); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	fmt.Printf("Saved %s (%dx%d)\n", path, rect.Dx(), rect.Dy())
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
