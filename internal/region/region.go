// Package region isolates the horizontal band of a normalized ticket that
// carries the numeric plays: below the dashed header separator, above the QR
// code.
package region

import (
	"errors"
	"fmt"
	"image"

	"ticket-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// ErrNoSeparator reports that no dashed separator row was found in the
// search band.
var ErrNoSeparator = errors.New("no dashed separator found")

// Search band within the strip above the QR code. The separator sits just
// under the header, around two thirds of the way down.
const (
	searchLow  = 0.58
	searchHigh = 0.72
	margin     = 10
)

// Locate finds the plays region in a normalized binary image. qrTop is the
// row of the QR code's top edge; everything below it is barcode and margin.
func Locate(normalized gocv.Mat, qrTop int) (geometry.RectInt, error) {
	if normalized.Empty() {
		return geometry.RectInt{}, fmt.Errorf("empty image")
	}
	if qrTop <= 0 || qrTop > normalized.Rows() {
		return geometry.RectInt{}, fmt.Errorf("QR top row %d outside image of %d rows", qrTop, normalized.Rows())
	}

	start := int(searchLow * float64(qrTop))
	end := int(searchHigh * float64(qrTop))
	if end <= start {
		return geometry.RectInt{}, fmt.Errorf("search band [%d,%d) is empty", start, end)
	}

	projection := rowProjection(normalized, start, end)
	offset, ok := FindSeparator(projection)
	if !ok {
		return geometry.RectInt{}, ErrNoSeparator
	}
	separator := start + offset

	top := separator + margin
	bottom := qrTop - margin
	if bottom-top < 1 {
		return geometry.RectInt{}, fmt.Errorf("region collapsed: separator %d, QR top %d", separator, qrTop)
	}

	return geometry.RectInt{X: 0, Y: top, Width: normalized.Cols(), Height: bottom - top}, nil
}

// rowProjection counts foreground pixels per row over [start, end).
func rowProjection(binary gocv.Mat, start, end int) []int {
	projection := make([]int, 0, end-start)
	for y := start; y < end; y++ {
		row := binary.Region(image.Rect(0, y, binary.Cols(), y+1))
		projection = append(projection, gocv.CountNonZero(row))
		row.Close()
	}
	return projection
}

// FindSeparator returns the offset of the first row whose projection falls in
// [0.3, 0.7] of the observed maximum. A dashed line covers a moderate share
// of the width; solid rules and barcode rows sit near the maximum, text rows
// and gaps near zero.
func FindSeparator(projection []int) (int, bool) {
	maxProj := 0
	for _, v := range projection {
		if v > maxProj {
			maxProj = v
		}
	}
	if maxProj == 0 {
		return 0, false
	}

	low := 0.3 * float64(maxProj)
	high := 0.7 * float64(maxProj)
	for i, v := range projection {
		if float64(v) >= low && float64(v) <= high {
			return i, true
		}
	}
	return 0, false
}
