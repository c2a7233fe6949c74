// Package play defines the extracted play types and the row-level logic that
// turns classified digit detections into plays.
package play

// DigitHit is a single classified digit detection. X is the left edge of the
// digit's bounding box, Y its vertical center.
type DigitHit struct {
	X          int
	Y          int
	Digit      int
	Confidence float64
}

// Marker is a detected "PB" glyph. X, Y are the top-left corner of the match.
type Marker struct {
	X          int
	Y          int
	Width      int
	Height     int
	Confidence float64
}

// CenterY returns the vertical center of the marker.
func (m Marker) CenterY() int {
	return m.Y + m.Height/2
}

// Play is one ticket row: five white balls and a powerball.
type Play struct {
	Number    int   `json:"play_number"`
	White     []int `json:"white" validate:"len=5,unique,dive,gte=1,lte=69"`
	Powerball int   `json:"powerball" validate:"gte=1,lte=26"`
}
