package kraster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/tiff"
)

// ErrNotTwoDimensional reports an image conversion of a raster whose
// dimension is not 2.
var ErrNotTwoDimensional = errors.New("kraster: raster is not two-dimensional")

// FromGray wraps the pixels of an 8-bit grayscale image into a new
// 2-D raster, rows along axis 0 and columns along axis 1.
func FromGray(img *image.Gray) *Raster[uint8] {
	b := img.Bounds()
	out := NewRaster[uint8](Position{b.Dy(), b.Dx()})
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()]
		copy(out.Data()[y*b.Dx():], row)
	}
	return out
}

// ToGray converts a 2-D uint8 raster to an 8-bit grayscale image.
func ToGray(r *Raster[uint8]) (*image.Gray, error) {
	if r.Dimension() != 2 {
		return nil, fmt.Errorf("%w: dimension %d", ErrNotTwoDimensional, r.Dimension())
	}
	h, w := r.Shape()[0], r.Shape()[1]
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:], r.Data()[y*w:(y+1)*w])
	}
	return img, nil
}

// FromGray16 wraps the pixels of a 16-bit grayscale image into a new
// 2-D raster.
func FromGray16(img *image.Gray16) *Raster[uint16] {
	b := img.Bounds()
	out := NewRaster[uint16](Position{b.Dy(), b.Dx()})
	data := out.Data()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			data[y*b.Dx()+x] = img.Gray16At(b.Min.X+x, b.Min.Y+y).Y
		}
	}
	return out
}

// ToGray16 converts a 2-D uint16 raster to a 16-bit grayscale image.
func ToGray16(r *Raster[uint16]) (*image.Gray16, error) {
	if r.Dimension() != 2 {
		return nil, fmt.Errorf("%w: dimension %d", ErrNotTwoDimensional, r.Dimension())
	}
	h, w := r.Shape()[0], r.Shape()[1]
	img := image.NewGray16(image.Rect(0, 0, w, h))
	data := r.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := data[y*w+x]
			img.Pix[y*img.Stride+x*2] = uint8(v >> 8)
			img.Pix[y*img.Stride+x*2+1] = uint8(v)
		}
	}
	return img, nil
}

// grayFromImage converts any decoded image to 8-bit grayscale using
// the standard luminance weights.
func grayFromImage(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return g
}

// DecodePNG reads a PNG stream into a grayscale raster.
func DecodePNG(r io.Reader) (*Raster[uint8], error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("kraster: decode png: %w", err)
	}
	return FromGray(grayFromImage(img)), nil
}

// EncodePNG writes a 2-D uint8 raster as a grayscale PNG.
func EncodePNG(w io.Writer, r *Raster[uint8]) error {
	img, err := ToGray(r)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("kraster: encode png: %w", err)
	}
	return nil
}

// LoadPNG reads a PNG file into a grayscale raster.
func LoadPNG(path string) (*Raster[uint8], error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodePNG(f)
}

// SavePNG writes a 2-D uint8 raster to a grayscale PNG file.
func SavePNG(path string, r *Raster[uint8]) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return EncodePNG(f, r)
}

// DecodeTIFF reads a TIFF stream into a grayscale raster.
func DecodeTIFF(r io.Reader) (*Raster[uint8], error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("kraster: decode tiff: %w", err)
	}
	return FromGray(grayFromImage(img)), nil
}

// EncodeTIFF writes a 2-D uint8 raster as a deflate-compressed
// grayscale TIFF.
func EncodeTIFF(w io.Writer, r *Raster[uint8]) error {
	img, err := ToGray(r)
	if err != nil {
		return err
	}
	opts := &tiff.Options{Compression: tiff.Deflate}
	if err := tiff.Encode(w, img, opts); err != nil {
		return fmt.Errorf("kraster: encode tiff: %w", err)
	}
	return nil
}

// LoadTIFF reads a TIFF file into a grayscale raster.
func LoadTIFF(path string) (*Raster[uint8], error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeTIFF(f)
}

// SaveTIFF writes a 2-D uint8 raster to a grayscale TIFF file.
func SaveTIFF(path string, r *Raster[uint8]) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return EncodeTIFF(f, r)
}
