package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Frame is a full image as row-major RGBA floats, 4 per pixel
type Frame struct {
	Width  int
	Height int
	Pixels []float32
	Stats  RenderStats
}

// NewFrame creates a black, transparent frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]float32, 4*width*height),
	}
}

// SetBand copies a worker response into the frame. Pixels are applied in buffer order
// with a running index starting at the band's first row.
func (f *Frame) SetBand(resp RenderResponse) error {
	if resp.StartRow < 0 || resp.EndRow > f.Height || resp.EndRow < resp.StartRow {
		return fmt.Errorf("%w: band [%d, %d) outside frame height %d", ErrInvalidRequest, resp.StartRow, resp.EndRow, f.Height)
	}
	expected := 4 * f.Width * (resp.EndRow - resp.StartRow)
	if len(resp.Image) != expected {
		return fmt.Errorf("%w: band [%d, %d) has %d floats, want %d", ErrInvalidRequest, resp.StartRow, resp.EndRow, len(resp.Image), expected)
	}

	index := 4 * f.Width * resp.StartRow
	for _, v := range resp.Image {
		f.Pixels[index] = v
		index++
	}
	return nil
}

// At returns the color of pixel (x, y), row 0 at the top
func (f *Frame) At(x, y int) core.Color {
	i := 4 * (y*f.Width + x)
	return core.NewColor(float64(f.Pixels[i]), float64(f.Pixels[i+1]), float64(f.Pixels[i+2]))
}

// AverageLuminance returns the mean luminance of the frame's pixels after gamma
func (f *Frame) AverageLuminance() float64 {
	if f.Width*f.Height == 0 {
		return 0
	}
	total := 0.0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			total += f.At(x, y).Luminance()
		}
	}
	return total / float64(f.Width*f.Height)
}

// ToImage quantizes the frame to 8-bit RGBA, clamping channels to [0, 1]
func (f *Frame) ToImage() *image.RGBA {
	return f.BandImage(Band{StartRow: 0, EndRow: f.Height})
}

// BandImage quantizes the rows of one band. The image's row 0 is the band's first row.
func (f *Frame) BandImage(b Band) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, b.Rows()))
	for y := b.StartRow; y < b.EndRow; y++ {
		for x := 0; x < f.Width; x++ {
			i := 4 * (y*f.Width + x)
			img.SetRGBA(x, y-b.StartRow, color.RGBA{
				R: quantize(f.Pixels[i]),
				G: quantize(f.Pixels[i+1]),
				B: quantize(f.Pixels[i+2]),
				A: quantize(f.Pixels[i+3]),
			})
		}
	}
	return img
}

func quantize(v float32) uint8 {
	if math32.IsNaN(v) {
		return 0
	}
	v = math32.Min(math32.Max(v, 0), 1)
	return uint8(math32.Floor(v*255 + 0.5))
}
