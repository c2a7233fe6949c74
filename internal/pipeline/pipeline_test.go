package pipeline

import (
	"errors"
	"reflect"
	"testing"

	"ticket-scanner/internal/match"

	"gocv.io/x/gocv"
)

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) RecognizeImage(gocv.Mat) (string, error) {
	return f.text, f.err
}

func emptyTemplates() *match.TemplateSet {
	return &match.TemplateSet{Digits: map[int]gocv.Mat{}, PB: gocv.NewMat()}
}

func TestExtractFallsBackWithoutTemplates(t *testing.T) {
	templates := emptyTemplates()
	defer templates.Close()

	p := New(templates, Options{
		Recognizer: fakeRecognizer{text: "07 14 22 45 61 PB 09\n03 18 27 44 60 PB 12"},
	})

	frame := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8U)
	defer frame.Close()

	plays, err := p.Extract(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(plays) != 2 {
		t.Fatalf("expected 2 fallback plays, got %d", len(plays))
	}
	if !reflect.DeepEqual(plays[0].White, []int{7, 14, 22, 45, 61}) || plays[0].Powerball != 9 {
		t.Errorf("play 1 = %+v", plays[0])
	}
}

func TestExtractDeterministic(t *testing.T) {
	templates := emptyTemplates()
	defer templates.Close()

	p := New(templates, Options{
		Recognizer: fakeRecognizer{text: "07 14 22 45 61 PB 09"},
	})

	frame := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8U)
	defer frame.Close()

	first, err := p.Extract(frame)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Extract(frame)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %v vs %v", first, second)
	}
}

func TestExtractEmptyTextYieldsEmptyResult(t *testing.T) {
	templates := emptyTemplates()
	defer templates.Close()

	p := New(templates, Options{Recognizer: fakeRecognizer{text: ""}})

	frame := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8U)
	defer frame.Close()

	plays, err := p.Extract(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(plays) != 0 {
		t.Errorf("expected empty result, got %v", plays)
	}
}

func TestExtractRecognizerErrorYieldsEmptyResult(t *testing.T) {
	templates := emptyTemplates()
	defer templates.Close()

	p := New(templates, Options{Recognizer: fakeRecognizer{err: errors.New("tesseract unavailable")}})

	frame := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8U)
	defer frame.Close()

	plays, err := p.Extract(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(plays) != 0 {
		t.Errorf("expected empty result, got %v", plays)
	}
}

func TestExtractEmptyFrame(t *testing.T) {
	templates := emptyTemplates()
	defer templates.Close()

	p := New(templates, Options{})

	frame := gocv.NewMat()
	defer frame.Close()

	if _, err := p.Extract(frame); err == nil {
		t.Error("expected error for empty frame")
	}
}
