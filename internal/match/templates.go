// Package match locates PB markers and classifies digits in the plays region
// by normalized cross-correlation against a template library.
package match

import (
	"fmt"
	"path/filepath"

	"gocv.io/x/gocv"
)

// Template file names inside a template directory.
const (
	digitFilePattern = "digit_%d.png"
	pbFileName       = "marker_pb.png"
)

// TemplateSet is the digit and PB-marker template library. Templates are
// grayscale, binarized with the runtime convention (ink = 255), loaded once
// at startup and shared read-only across extractions.
type TemplateSet struct {
	Digits map[int]gocv.Mat
	PB     gocv.Mat
}

// LoadTemplateSet reads digit_0.png..digit_9.png and marker_pb.png from dir.
// Missing files are tolerated: an incomplete set disables the primary
// matching path but leaves the textual fallback available.
func LoadTemplateSet(dir string) (*TemplateSet, error) {
	set := &TemplateSet{
		Digits: make(map[int]gocv.Mat, 10),
		PB:     gocv.NewMat(),
	}

	for d := 0; d < 10; d++ {
		path := filepath.Join(dir, fmt.Sprintf(digitFilePattern, d))
		m := gocv.IMRead(path, gocv.IMReadGrayScale)
		if m.Empty() {
			m.Close()
			continue
		}
		set.Digits[d] = m
	}

	pb := gocv.IMRead(filepath.Join(dir, pbFileName), gocv.IMReadGrayScale)
	if !pb.Empty() {
		set.PB.Close()
		set.PB = pb
	} else {
		pb.Close()
	}

	if len(set.Digits) == 0 && set.PB.Empty() {
		set.Close()
		return nil, fmt.Errorf("no templates found in %s", dir)
	}
	return set, nil
}

// Complete reports whether all ten digits and the PB marker are loaded.
func (s *TemplateSet) Complete() bool {
	return s != nil && len(s.Digits) == 10 && !s.PB.Empty()
}

// Close releases all template matrices.
func (s *TemplateSet) Close() {
	if s == nil {
		return
	}
	for d, m := range s.Digits {
		m.Close()
		delete(s.Digits, d)
	}
	s.PB.Close()
}
