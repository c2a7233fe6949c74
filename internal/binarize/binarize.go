// Package binarize converts captured frames to the pipeline's binary
// convention: ink is 255 on a 0 background.
package binarize

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Binarize converts a color frame to a single-channel binary image using
// Otsu's threshold, inverted so printed ink reads as foreground (255).
// Downstream correlation, contour finding, and projections all rely on this
// convention. The caller owns the returned Mat.
func Binarize(frame gocv.Mat) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)
	return binary, nil
}

// CloseGaps applies a 3x3 morphological closing, twice, joining broken digit
// strokes without merging adjacent digits. The caller owns the returned Mat.
func CloseGaps(binary gocv.Mat) gocv.Mat {
	if binary.Empty() {
		return gocv.NewMat()
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	closed := binary.Clone()
	for i := 0; i < 2; i++ {
		gocv.MorphologyEx(closed, &closed, gocv.MorphClose, kernel)
	}
	return closed
}
