// Package preview renders a result grid as an ordinary raster image so it
// can be opened in a viewer. The encoder follows the file extension.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/jpfielding/greygrid.go/pkg/grid"
)

// Formats lists the supported preview extensions.
var Formats = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp"}

// ToGray converts img to an 8-bit greyscale raster, clamping samples to
// [0, MaxValue].
func ToGray(img *grid.Image) *image.Gray {
	n := img.Size()
	out := image.NewGray(image.Rect(0, 0, n, n))
	for row := range n {
		for col, v := range img.Row(row) {
			out.SetGray(col, row, color.Gray{Y: uint8(min(max(v, 0), grid.MaxValue))})
		}
	}
	return out
}

// Scale enlarges src by an integer factor with nearest neighbour sampling so
// single pixels stay crisp.
func Scale(src *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Save writes img to path, scaled by factor.
func Save(path string, img *grid.Image, factor int) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supported(ext) {
		return fmt.Errorf("unsupported preview format: %q", ext)
	}
	gray := Scale(ToGray(img), factor)

	if ext == "webp" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create preview file: %w", err)
		}
		if err := webp.Encode(f, gray, &webp.Options{Lossless: true}); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode webp preview: %w", err)
		}
		return f.Close()
	}
	if err := imaging.Save(gray, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

func supported(ext string) bool {
	for _, f := range Formats {
		if f == ext {
			return true
		}
	}
	return false
}
