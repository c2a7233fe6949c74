// Package textual salvages plays from noisy recognized text when the
// image-analysis path has nothing to anchor on. It repairs the known
// miscognitions of the ticket's OCR font, then extracts per-line play
// candidates around the "PB" marker.
package textual

import (
	"regexp"
	"strconv"
	"strings"

	"ticket-scanner/internal/play"
)

// minLineLength drops fragments too short to hold a play.
const minLineLength = 10

// Repair substitutions, applied in order. The ticket font's "PB" glyph reads
// as MB, KB, m-runs or a bare B; "O" stands in for zero; run-together digit
// sequences lose their spacing.
var (
	reMarkerWord = regexp.MustCompile(`\b(?:MB|KB)\b`)
	reMarkerMs   = regexp.MustCompile(`m+\s*(\d)`)
	reMarkerB    = regexp.MustCompile(`\bB(\d{1,2})\b`)
	reTrailingB  = regexp.MustCompile(`(\d)B\b`)
	reDigitPB    = regexp.MustCompile(`(\d)PB`)
	reOhDigit    = regexp.MustCompile(`O(\d)`)
	reDigitRun   = regexp.MustCompile(`\d{4,}`)
	rePowerball  = regexp.MustCompile(`PB\s*(\d{1,2})`)
	reNumber     = regexp.MustCompile(`\d+`)
)

// Repair applies the fixed substitution list to raw recognized text.
func Repair(text string) string {
	text = reMarkerWord.ReplaceAllString(text, "PB")
	text = reMarkerMs.ReplaceAllString(text, "PB $1")
	text = reMarkerB.ReplaceAllString(text, "PB $1")
	text = reTrailingB.ReplaceAllString(text, "$1")
	text = reDigitPB.ReplaceAllString(text, "$1 PB")
	text = strings.ReplaceAll(text, "Ba", "04")
	text = strings.ReplaceAll(text, "Oa", "04")
	text = reOhDigit.ReplaceAllString(text, "0$1")
	text = reDigitRun.ReplaceAllStringFunc(text, splitRun)
	return text
}

// splitRun breaks a run of four or more digits into two-digit chunks; an odd
// trailing digit stands alone.
func splitRun(run string) string {
	var chunks []string
	for len(run) >= 2 {
		chunks = append(chunks, run[:2])
		run = run[2:]
	}
	if run != "" {
		chunks = append(chunks, run)
	}
	return strings.Join(chunks, " ")
}

// number is an integer token with its position in the line.
type number struct {
	value int
	start int
}

// ExtractPlays parses repaired-text play candidates, one per line. A line
// qualifies when it carries at least six integers in white-ball range; the
// powerball is the number following "PB" when present, otherwise the last
// valid number, and the five numbers immediately preceding it become the
// white balls. Invalid candidates are skipped, never guessed at.
func ExtractPlays(text string) []play.Play {
	repaired := Repair(text)

	plays := []play.Play{}
	count := 1

	for _, line := range strings.Split(repaired, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLength {
			continue
		}

		p, ok := extractLine(line)
		if !ok {
			continue
		}
		if err := play.Validate(&p); err != nil {
			continue
		}
		p.Number = count
		count++
		plays = append(plays, p)
	}
	return plays
}

// extractLine pulls one play candidate out of a repaired line.
func extractLine(line string) (play.Play, bool) {
	var valid []number
	for _, loc := range reNumber.FindAllStringIndex(line, -1) {
		v, err := strconv.Atoi(line[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		if v >= 1 && v <= 69 {
			valid = append(valid, number{value: v, start: loc[0]})
		}
	}
	if len(valid) < 6 {
		return play.Play{}, false
	}

	pivot := -1
	if m := rePowerball.FindStringSubmatchIndex(line); m != nil {
		pb, err := strconv.Atoi(line[m[2]:m[3]])
		if err == nil && pb >= 1 && pb <= 26 {
			for i, n := range valid {
				if n.start == m[2] {
					pivot = i
					break
				}
			}
		}
	}
	if pivot < 0 {
		pivot = len(valid) - 1
	}
	if pivot < 5 {
		return play.Play{}, false
	}

	white := make([]int, 5)
	for i, n := range valid[pivot-5 : pivot] {
		white[i] = n.value
	}
	return play.Play{White: white, Powerball: valid[pivot].value}, true
}
