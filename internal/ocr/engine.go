// Package ocr provides text recognition for the fallback extraction path.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// TicketChars is the character set of the ticket's play area, plus the
// letters its print is commonly misread as (M/K for the PB glyph, O and a
// for zero and four). The repair pass depends on seeing those misreads.
const TicketChars = "0123456789PBKMOab "

// Engine wraps a Tesseract client configured for ticket text.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Ticket numbers aren't English words; keep the dictionary out of it.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// RecognizeImage runs OCR over a whole binary image and returns the raw
// multi-line text. Tesseract wants dark ink on a light background, the
// opposite of the pipeline convention, so the image is inverted first.
func (e *Engine) RecognizeImage(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("empty image")
	}

	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(img, &inverted)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, inverted)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(TicketChars); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
