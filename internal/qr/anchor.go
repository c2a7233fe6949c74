// Package qr locates the ticket's QR code and uses it as the geometric anchor
// for perspective normalization.
package qr

import (
	"ticket-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// Anchor is a detected QR code: ordered corner quadrilateral plus the mean
// edge length used to scale the normalized canvas.
type Anchor struct {
	Corners geometry.Quad
	Edge    float64
}

// DetectAnchor runs QR detection against the binary frame. The detector wants
// dark modules on a light background, so the inverted binary goes first; the
// raw binary and a histogram-equalized inverse follow before giving up.
func DetectAnchor(binary gocv.Mat) (Anchor, bool) {
	if binary.Empty() {
		return Anchor{}, false
	}

	detector := gocv.NewQRCodeDetector()
	defer detector.Close()

	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(binary, &inverted)

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(inverted, &equalized)

	for _, candidate := range []gocv.Mat{inverted, binary, equalized} {
		corners, ok := detectCorners(&detector, candidate)
		if !ok {
			continue
		}
		quad := geometry.OrderQuad(corners)
		return Anchor{Corners: quad, Edge: quad.EdgeLength()}, true
	}
	return Anchor{}, false
}

// detectCorners runs one detection attempt and reads the four corner points
// out of the result Mat. The detector reports corners either as a 4x1 or a
// 1x4 two-channel float matrix depending on version.
func detectCorners(detector *gocv.QRCodeDetector, img gocv.Mat) ([4]geometry.Point2D, bool) {
	points := gocv.NewMat()
	defer points.Close()

	if !detector.Detect(img, &points) || points.Empty() {
		return [4]geometry.Point2D{}, false
	}
	if points.Rows()*points.Cols() < 4 {
		return [4]geometry.Point2D{}, false
	}

	var corners [4]geometry.Point2D
	for i := 0; i < 4; i++ {
		var v gocv.Vecf
		if points.Rows() >= 4 {
			v = points.GetVecfAt(i, 0)
		} else {
			v = points.GetVecfAt(0, i)
		}
		if len(v) < 2 {
			return [4]geometry.Point2D{}, false
		}
		corners[i] = geometry.Point2D{X: float64(v[0]), Y: float64(v[1])}
	}
	return corners, true
}
