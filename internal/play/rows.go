package play

import (
	"math"
	"sort"
)

const (
	// rowTolerance is the maximum vertical distance between a row's first
	// digit and any other digit in the same row. Absorbs the slight skew
	// left over after homography normalization.
	rowTolerance = 40

	// pairDistance is the maximum horizontal gap between two digits that
	// form one two-digit number.
	pairDistance = 110
)

// GroupRows clusters digit hits into ticket rows by vertical position.
// Hits are sorted by y; a new row starts whenever a hit is more than 40 px
// below the first hit of the current row. Input order is not preserved.
func GroupRows(hits []DigitHit) [][]DigitHit {
	if len(hits) == 0 {
		return nil
	}

	sorted := make([]DigitHit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	var rows [][]DigitHit
	current := []DigitHit{sorted[0]}
	for _, h := range sorted[1:] {
		if abs(h.Y-current[0].Y) <= rowTolerance {
			current = append(current, h)
		} else {
			rows = append(rows, current)
			current = []DigitHit{h}
		}
	}
	return append(rows, current)
}

// AssemblePlays turns digit rows and PB markers into validated plays, one per
// row, in top-to-bottom ticket order. Rows without a PB marker or failing
// validation are dropped; the remaining rows still produce plays.
func AssemblePlays(rows [][]DigitHit, markers []Marker) []Play {
	plays := []Play{}
	number := 1

	for _, row := range rows {
		p, ok := assembleRow(row, markers)
		if !ok {
			continue
		}
		if err := Validate(&p); err != nil {
			continue
		}
		p.Number = number
		number++
		plays = append(plays, p)
	}
	return plays
}

// assembleRow splits one row of digits around its nearest PB marker and
// reconstructs the white balls and the powerball.
func assembleRow(row []DigitHit, markers []Marker) (Play, bool) {
	if len(row) == 0 {
		return Play{}, false
	}

	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var sumY int
	for _, h := range row {
		sumY += h.Y
	}
	meanY := float64(sumY) / float64(len(row))

	pb, ok := nearestMarker(markers, meanY)
	if !ok {
		return Play{}, false
	}

	var before, after []DigitHit
	for _, h := range row {
		switch {
		case h.X < pb.X:
			before = append(before, h)
		case h.X > pb.X+pb.Width:
			after = append(after, h)
		}
	}

	// Digits left of the last ten are the printed play number; drop them.
	if len(before) > 10 {
		before = before[len(before)-10:]
	}
	if len(after) > 2 {
		after = after[:2]
	}

	white := PairDigits(before)
	pbNums := PairDigits(after)
	if len(pbNums) == 0 {
		return Play{}, false
	}

	return Play{White: white, Powerball: pbNums[0]}, true
}

// nearestMarker finds the marker whose vertical center is closest to y.
// Ties go to the marker with the smaller y. A marker further than the row
// tolerance belongs to another row, so the search fails rather than adopt it.
func nearestMarker(markers []Marker, y float64) (Marker, bool) {
	var best Marker
	bestDist := math.Inf(1)
	found := false

	for _, m := range markers {
		dist := math.Abs(float64(m.CenterY()) - y)
		if dist < bestDist || (dist == bestDist && m.Y < best.Y) {
			bestDist = dist
			best = m
			found = true
		}
	}
	if bestDist > rowTolerance {
		return Marker{}, false
	}
	return best, found
}

// PairDigits reconstructs two-digit numbers from x-sorted digit hits. Adjacent
// digits within 110 px combine as d1*10+d2; an isolated digit stands alone.
func PairDigits(hits []DigitHit) []int {
	if len(hits) == 0 {
		return nil
	}

	sorted := make([]DigitHit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var numbers []int
	for i := 0; i < len(sorted); {
		if i+1 < len(sorted) && sorted[i+1].X-sorted[i].X < pairDistance {
			numbers = append(numbers, sorted[i].Digit*10+sorted[i+1].Digit)
			i += 2
			continue
		}
		numbers = append(numbers, sorted[i].Digit)
		i++
	}
	return numbers
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
