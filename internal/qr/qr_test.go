package qr

import (
	"math"
	"testing"

	"ticket-scanner/pkg/geometry"
)

func TestCanvasFor(t *testing.T) {
	spec := CanvasFor(100)
	if spec.Size != 1080 {
		t.Errorf("canvas size = %d, want 1080", spec.Size)
	}

	// QR top-left at (W - s - round(0.2s), H - s - round(0.2s)).
	wantX, wantY := 960.0, 960.0
	if spec.Target[0].X != wantX || spec.Target[0].Y != wantY {
		t.Errorf("target TL = %v, want (%v, %v)", spec.Target[0], wantX, wantY)
	}
	if spec.QRTop() != 960 {
		t.Errorf("QRTop = %d, want 960", spec.QRTop())
	}
	if got := spec.Target.EdgeLength(); math.Abs(got-100) > 1e-9 {
		t.Errorf("target edge = %v, want 100", got)
	}
}

func TestSolveHomographyMapsCorners(t *testing.T) {
	// A rotated, perspective-distorted QR as the camera would see it.
	src := geometry.Quad{
		{X: 320, Y: 812}, {X: 415, Y: 820}, {X: 408, Y: 918}, {X: 311, Y: 908},
	}
	dst := CanvasFor(100).Target

	h, err := SolveHomography(src, dst)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		got := h.Apply(src[i])
		if got.Distance(dst[i]) > 1e-6 {
			t.Errorf("corner %d: mapped to %v, want %v", i, got, dst[i])
		}
	}
}

func TestSolveHomographyRotatedTicket(t *testing.T) {
	// A quarter-turn capture still lands the QR on the same fixed target, so
	// downstream coordinates are rotation-invariant.
	upright := geometry.Quad{
		{X: 500, Y: 900}, {X: 600, Y: 900}, {X: 600, Y: 1000}, {X: 500, Y: 1000},
	}
	// The same corners after rotating the frame 90 degrees clockwise in a
	// 1200-px-tall image, reordered as the detector would report them.
	rotated := geometry.OrderQuad([4]geometry.Point2D{
		{X: 300, Y: 500}, {X: 300, Y: 600}, {X: 200, Y: 600}, {X: 200, Y: 500},
	})

	dst := CanvasFor(100).Target

	for _, src := range []geometry.Quad{upright, rotated} {
		h, err := SolveHomography(src, dst)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 4; i++ {
			if got := h.Apply(src[i]); got.Distance(dst[i]) > 1e-6 {
				t.Errorf("corner %d: mapped to %v, want %v", i, got, dst[i])
			}
		}
	}
}

func TestSolveHomographyDegenerate(t *testing.T) {
	// All four corners collinear: no valid perspective transform.
	src := geometry.Quad{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	dst := CanvasFor(50).Target
	if _, err := SolveHomography(src, dst); err == nil {
		t.Error("expected error for collinear corners")
	}
}
