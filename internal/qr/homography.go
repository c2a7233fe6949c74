package qr

import (
	"fmt"

	"ticket-scanner/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 projective transform with h33 fixed to 1.
type Homography [3][3]float64

// SolveHomography computes the perspective transform mapping the four source
// corners onto the four destination corners. Each correspondence contributes
// two rows to an 8x8 linear system in the first eight matrix entries.
func SolveHomography(src, dst geometry.Quad) (Homography, error) {
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		// u = (h11 x + h12 y + h13) / (h31 x + h32 y + 1)
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -u*x)
		A.Set(i*2, 7, -u*y)
		B.SetVec(i*2, u)

		// v = (h21 x + h22 y + h23) / (h31 x + h32 y + 1)
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -v*x)
		A.Set(i*2+1, 7, -v*y)
		B.SetVec(i*2+1, v)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return Homography{}, fmt.Errorf("singular corner configuration: %w", err)
	}

	return Homography{
		{params.AtVec(0), params.AtVec(1), params.AtVec(2)},
		{params.AtVec(3), params.AtVec(4), params.AtVec(5)},
		{params.AtVec(6), params.AtVec(7), 1},
	}, nil
}

// Apply maps a point through the homography.
func (h Homography) Apply(p geometry.Point2D) geometry.Point2D {
	w := h[2][0]*p.X + h[2][1]*p.Y + h[2][2]
	return geometry.Point2D{
		X: (h[0][0]*p.X + h[0][1]*p.Y + h[0][2]) / w,
		Y: (h[1][0]*p.X + h[1][1]*p.Y + h[1][2]) / w,
	}
}

// ToMat converts the homography to a 3x3 matrix for gocv warping. The caller
// owns the returned Mat.
func (h Homography) ToMat() gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, h[r][c])
		}
	}
	return m
}
