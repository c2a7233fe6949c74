package match

import (
	"image"

	"ticket-scanner/internal/play"

	"gocv.io/x/gocv"
)

// Contour size gates isolating printed digits from noise and from glued
// double digits.
const (
	minDigitHeight = 30
	minDigitWidth  = 15
	maxDigitWidth  = 90
	minDigitArea   = 800
	maxDigitArea   = 6000
)

// digitThreshold is the minimum correlation to accept a classification.
const digitThreshold = 0.40

// dedupeRadius merges overlapping detections of the same glyph.
const dedupeRadius = 10

// digitScales is the multi-scale sweep, tolerating the ±15% size mismatch
// left over after QR normalization.
var digitScales = []float64{0.85, 0.925, 1.0, 1.075, 1.15}

// DetectDigits finds digit-sized contours in the plays region and classifies
// each against the template library. Overlapping detections collapse to the
// higher-scoring one.
func DetectDigits(region gocv.Mat, set *TemplateSet) []play.DigitHit {
	if region.Empty() || set == nil || len(set.Digits) == 0 {
		return nil
	}

	contours := gocv.FindContours(region, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var hits []play.DigitHit
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		rect := gocv.BoundingRect(contour)
		w, h := rect.Dx(), rect.Dy()
		area := gocv.ContourArea(contour)

		if h < minDigitHeight || w < minDigitWidth || w > maxDigitWidth {
			continue
		}
		if area < minDigitArea || area > maxDigitArea {
			continue
		}

		candidate := region.Region(rect)
		digit, score := classifyDigit(candidate, set)
		candidate.Close()

		if digit < 0 {
			continue
		}
		hits = append(hits, play.DigitHit{
			X:          rect.Min.X,
			Y:          rect.Min.Y + h/2,
			Digit:      digit,
			Confidence: score,
		})
	}

	return DedupeHits(hits)
}

// classifyDigit matches a candidate region against every digit template at
// every scale and returns the best digit, or -1 when the best correlation
// stays under the confidence floor.
func classifyDigit(candidate gocv.Mat, set *TemplateSet) (int, float64) {
	best := -1
	bestScore := 0.0

	// Fixed digit order keeps classification deterministic on tied scores.
	for digit := 0; digit < 10; digit++ {
		tpl, ok := set.Digits[digit]
		if !ok {
			continue
		}
		score := multiScaleScore(candidate, tpl)
		if score > bestScore {
			bestScore = score
			best = digit
		}
	}

	if bestScore < digitThreshold {
		return -1, bestScore
	}
	return best, bestScore
}

// multiScaleScore returns the maximum correlation of candidate against tpl
// across the scale sweep. Candidate and scaled template are brought to the
// same size so the match result is a single score.
func multiScaleScore(candidate, tpl gocv.Mat) float64 {
	best := 0.0

	for _, scale := range digitScales {
		w := int(float64(tpl.Cols()) * scale)
		h := int(float64(tpl.Rows()) * scale)
		if w < 1 || h < 1 {
			continue
		}

		scaledTpl := gocv.NewMat()
		gocv.Resize(tpl, &scaledTpl, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)

		resized := gocv.NewMat()
		gocv.Resize(candidate, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)

		result := gocv.NewMat()
		mask := gocv.NewMat()
		gocv.MatchTemplate(resized, scaledTpl, &result, gocv.TmCcoeffNormed, mask)

		if !result.Empty() {
			if score := float64(result.GetFloatAt(0, 0)); score > best {
				best = score
			}
		}

		mask.Close()
		result.Close()
		resized.Close()
		scaledTpl.Close()
	}
	return best
}

// DedupeHits collapses hits within a 10 px radius of each other, keeping the
// higher-confidence classification. Contour detection occasionally emits two
// boxes for one glyph.
func DedupeHits(hits []play.DigitHit) []play.DigitHit {
	var kept []play.DigitHit
	for _, h := range hits {
		duplicate := false
		for i, k := range kept {
			dx, dy := h.X-k.X, h.Y-k.Y
			if dx*dx+dy*dy > dedupeRadius*dedupeRadius {
				continue
			}
			duplicate = true
			if h.Confidence > k.Confidence {
				kept[i] = h
			}
			break
		}
		if !duplicate {
			kept = append(kept, h)
		}
	}
	return kept
}
