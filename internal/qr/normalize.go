package qr

import (
	"fmt"
	"image"
	"math"

	"ticket-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// Canvas layout constants. The ticket is close to 10.8 QR edges square, and
// the QR sits one edge plus a 0.2-edge margin in from the bottom-right
// corner. Both ratios were measured off printed tickets.
const (
	canvasRatio = 10.8
	qrMargin    = 0.2
)

// CanvasSpec describes the normalized destination canvas: a square of Size
// pixels with the QR warped onto Target.
type CanvasSpec struct {
	Size   int
	Target geometry.Quad
}

// QRTop returns the row of the QR code's top edge in the canvas.
func (c CanvasSpec) QRTop() int {
	return int(c.Target.TopY())
}

// CanvasFor computes the destination canvas for a QR of the given edge
// length.
func CanvasFor(edge float64) CanvasSpec {
	size := int(math.Round(canvasRatio * edge))
	x := float64(size) - edge - math.Round(qrMargin*edge)
	y := float64(size) - edge - math.Round(qrMargin*edge)

	return CanvasSpec{
		Size: size,
		Target: geometry.Quad{
			{X: x, Y: y},
			{X: x + edge, Y: y},
			{X: x + edge, Y: y + edge},
			{X: x, Y: y + edge},
		},
	}
}

// Normalize warps the binary frame onto the canvas defined by the anchor,
// leaving the ticket upright with the QR in its fixed bottom-right position.
// Undefined canvas regions are filled with background (0). The caller owns
// the returned Mat.
func Normalize(binary gocv.Mat, anchor Anchor) (gocv.Mat, CanvasSpec, error) {
	if binary.Empty() {
		return gocv.NewMat(), CanvasSpec{}, fmt.Errorf("empty image")
	}
	if anchor.Edge <= 0 {
		return gocv.NewMat(), CanvasSpec{}, fmt.Errorf("degenerate anchor edge %.2f", anchor.Edge)
	}

	spec := CanvasFor(anchor.Edge)

	h, err := SolveHomography(anchor.Corners, spec.Target)
	if err != nil {
		return gocv.NewMat(), CanvasSpec{}, fmt.Errorf("homography: %w", err)
	}

	transform := h.ToMat()
	defer transform.Close()

	warped := gocv.NewMat()
	gocv.WarpPerspective(binary, &warped, transform, image.Pt(spec.Size, spec.Size))
	return warped, spec, nil
}
