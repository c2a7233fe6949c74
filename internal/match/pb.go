package match

import (
	"sort"

	"ticket-scanner/internal/play"

	"gocv.io/x/gocv"
)

const (
	// pbThreshold is the minimum normalized correlation for a PB marker.
	pbThreshold = 0.75

	// pbSuppressDist is the non-maximum-suppression radius: two markers
	// within this distance in both axes are the same glyph.
	pbSuppressDist = 30
)

// FindMarkers slides the PB template over the plays region and returns the
// surviving matches sorted top to bottom.
func FindMarkers(region gocv.Mat, tpl gocv.Mat) []play.Marker {
	if region.Empty() || tpl.Empty() {
		return nil
	}
	if region.Rows() < tpl.Rows() || region.Cols() < tpl.Cols() {
		return nil
	}

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(region, tpl, &result, gocv.TmCcoeffNormed, mask)

	var candidates []play.Marker
	for y := 0; y < result.Rows(); y++ {
		for x := 0; x < result.Cols(); x++ {
			score := float64(result.GetFloatAt(y, x))
			if score < pbThreshold {
				continue
			}
			candidates = append(candidates, play.Marker{
				X: x, Y: y,
				Width:      tpl.Cols(),
				Height:     tpl.Rows(),
				Confidence: score,
			})
		}
	}

	return SuppressMarkers(candidates)
}

// SuppressMarkers applies non-maximum suppression: candidates are visited in
// descending confidence order and kept only when no already-kept marker lies
// within 30 px in both x and y. The survivors come back sorted by y.
func SuppressMarkers(candidates []play.Marker) []play.Marker {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]play.Marker, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	var kept []play.Marker
	for _, c := range sorted {
		duplicate := false
		for _, k := range kept {
			if abs(c.X-k.X) < pbSuppressDist && abs(c.Y-k.Y) < pbSuppressDist {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Y < kept[j].Y })
	return kept
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
