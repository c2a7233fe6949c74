// Package imageio loads captured ticket photos into gocv matrices. Phones
// hand over HEIC as readily as JPEG, so both go through here.
package imageio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/heic"
	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"
)

// LoadFrame reads a ticket photo from disk as a BGR matrix. HEIC/HEIF goes
// through the dedicated decoder; everything else through OpenCV. The caller
// owns the returned Mat.
func LoadFrame(path string) (gocv.Mat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".heic" || ext == ".heif" {
		return loadHEIC(path)
	}

	m := gocv.IMRead(path, gocv.IMReadColor)
	if m.Empty() {
		m.Close()
		// OpenCV builds don't always carry TIFF; retry via image.Decode.
		return loadDecoded(path)
	}
	return m, nil
}

func loadHEIC(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := heic.Decode(f)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decoding HEIC %s: %w", path, err)
	}
	return ImageToMat(img)
}

func loadDecoded(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decoding %s: %w", path, err)
	}
	return ImageToMat(img)
}

// ImageToMat converts a Go image.Image to a gocv.Mat in BGR format.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}
