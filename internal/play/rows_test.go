package play

import (
	"reflect"
	"testing"
)

// ticketRow lays out one printed row of digit hits: ten white-ball digits, a
// PB marker, and two powerball digits, using spacing measured off real
// normalized tickets.
func ticketRow(y int, digits [10]int, pbDigits [2]int) ([]DigitHit, Marker) {
	var hits []DigitHit
	x := 100
	for i, d := range digits {
		hits = append(hits, DigitHit{X: x, Y: y, Digit: d, Confidence: 0.9})
		if i%2 == 0 {
			x += 60 // within a number
		} else {
			x += 90 // gap to the next number
		}
	}
	marker := Marker{X: x + 40, Y: y - 20, Width: 90, Height: 44, Confidence: 0.9}
	x += 180
	hits = append(hits, DigitHit{X: x, Y: y, Digit: pbDigits[0], Confidence: 0.9})
	hits = append(hits, DigitHit{X: x + 60, Y: y, Digit: pbDigits[1], Confidence: 0.9})
	return hits, marker
}

func TestAssemblePlaysCanonicalTicket(t *testing.T) {
	rows := [][10]int{
		{0, 7, 1, 4, 2, 2, 4, 5, 6, 1},
		{0, 3, 1, 8, 2, 7, 4, 4, 6, 0},
		{0, 1, 0, 5, 3, 0, 5, 1, 6, 6},
		{1, 1, 1, 9, 3, 3, 4, 7, 5, 8},
		{0, 2, 1, 6, 2, 9, 4, 2, 6, 9},
	}
	pbs := [][2]int{{0, 9}, {1, 2}, {0, 4}, {2, 1}, {2, 6}}

	var hits []DigitHit
	var markers []Marker
	for i := range rows {
		rh, m := ticketRow(100+i*120, rows[i], pbs[i])
		hits = append(hits, rh...)
		markers = append(markers, m)
	}

	plays := AssemblePlays(GroupRows(hits), markers)
	if len(plays) != 5 {
		t.Fatalf("expected 5 plays, got %d", len(plays))
	}

	wantWhite := [][]int{
		{7, 14, 22, 45, 61},
		{3, 18, 27, 44, 60},
		{1, 5, 30, 51, 66},
		{11, 19, 33, 47, 58},
		{2, 16, 29, 42, 69},
	}
	wantPB := []int{9, 12, 4, 21, 26}

	for i, p := range plays {
		if p.Number != i+1 {
			t.Errorf("play %d: number = %d", i, p.Number)
		}
		if !reflect.DeepEqual(p.White, wantWhite[i]) {
			t.Errorf("play %d: white = %v, want %v", i, p.White, wantWhite[i])
		}
		if p.Powerball != wantPB[i] {
			t.Errorf("play %d: powerball = %d, want %d", i, p.Powerball, wantPB[i])
		}
	}
}

func TestAssemblePlaysMissingMarkerDropsRow(t *testing.T) {
	rows := [][10]int{
		{0, 7, 1, 4, 2, 2, 4, 5, 6, 1},
		{0, 3, 1, 8, 2, 7, 4, 4, 6, 0},
		{0, 1, 0, 5, 3, 0, 5, 1, 6, 6},
		{1, 1, 1, 9, 3, 3, 4, 7, 5, 8},
		{0, 2, 1, 6, 2, 9, 4, 2, 6, 9},
	}
	pbs := [][2]int{{0, 9}, {1, 2}, {0, 4}, {2, 1}, {2, 6}}

	var hits []DigitHit
	var markers []Marker
	for i := range rows {
		rh, m := ticketRow(100+i*120, rows[i], pbs[i])
		hits = append(hits, rh...)
		if i != 2 {
			markers = append(markers, m)
		}
	}

	plays := AssemblePlays(GroupRows(hits), markers)
	if len(plays) != 4 {
		t.Fatalf("expected 4 plays, got %d", len(plays))
	}
	// Row 3 is gone; row 4's play moves up to number 3. Its nearest marker
	// vertically is row 4's own.
	wantPB := []int{9, 12, 21, 26}
	for i, p := range plays {
		if p.Number != i+1 {
			t.Errorf("play %d: number = %d", i, p.Number)
		}
		if p.Powerball != wantPB[i] {
			t.Errorf("play %d: powerball = %d, want %d", i, p.Powerball, wantPB[i])
		}
	}
}

func TestAssemblePlaysInvalidPowerballDropsRow(t *testing.T) {
	hits, marker := ticketRow(100, [10]int{0, 7, 1, 4, 2, 2, 4, 5, 6, 1}, [2]int{3, 3})
	plays := AssemblePlays(GroupRows(hits), []Marker{marker})
	if len(plays) != 0 {
		t.Fatalf("powerball 33 must be rejected, got %v", plays)
	}
}

func TestAssemblePlaysIgnoresLeadingPlayNumber(t *testing.T) {
	hits, marker := ticketRow(100, [10]int{0, 7, 1, 4, 2, 2, 4, 5, 6, 1}, [2]int{0, 9})
	// Printed play counter "001" far to the left of the white balls.
	hits = append(hits,
		DigitHit{X: 10, Y: 100, Digit: 0, Confidence: 0.9},
		DigitHit{X: 40, Y: 100, Digit: 0, Confidence: 0.9},
		DigitHit{X: 70, Y: 100, Digit: 1, Confidence: 0.9},
	)

	plays := AssemblePlays(GroupRows(hits), []Marker{marker})
	if len(plays) != 1 {
		t.Fatalf("expected 1 play, got %d", len(plays))
	}
	want := []int{7, 14, 22, 45, 61}
	if !reflect.DeepEqual(plays[0].White, want) {
		t.Errorf("white = %v, want %v", plays[0].White, want)
	}
}

func TestGroupRows(t *testing.T) {
	hits := []DigitHit{
		{X: 0, Y: 100, Digit: 1},
		{X: 50, Y: 135, Digit: 2}, // within 40 px of the row anchor
		{X: 0, Y: 240, Digit: 3},
		{X: 50, Y: 245, Digit: 4},
	}
	rows := GroupRows(hits)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(rows[0]) != 2 || len(rows[1]) != 2 {
		t.Errorf("row sizes = %d, %d", len(rows[0]), len(rows[1]))
	}
}

func TestGroupRowsEmpty(t *testing.T) {
	if rows := GroupRows(nil); rows != nil {
		t.Errorf("expected nil, got %v", rows)
	}
}

func TestPairDigits(t *testing.T) {
	cases := []struct {
		name string
		hits []DigitHit
		want []int
	}{
		{
			name: "five pairs from ten digits",
			hits: []DigitHit{
				{X: 0, Digit: 0}, {X: 60, Digit: 7},
				{X: 150, Digit: 1}, {X: 210, Digit: 4},
				{X: 300, Digit: 2}, {X: 360, Digit: 2},
				{X: 450, Digit: 4}, {X: 510, Digit: 5},
				{X: 600, Digit: 6}, {X: 660, Digit: 1},
			},
			want: []int{7, 14, 22, 45, 61},
		},
		{
			name: "isolated digit stands alone",
			hits: []DigitHit{{X: 0, Digit: 3}, {X: 200, Digit: 5}, {X: 260, Digit: 9}},
			want: []int{3, 59},
		},
		{
			name: "unsorted input",
			hits: []DigitHit{{X: 60, Digit: 7}, {X: 0, Digit: 0}},
			want: []int{7},
		},
		{
			name: "empty",
			hits: nil,
			want: nil,
		},
	}

	for _, tc := range cases {
		if got := PairDigits(tc.hits); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
