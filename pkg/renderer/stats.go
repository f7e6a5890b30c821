package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width        int           // Image width
	Height       int           // Image height
	Bands        int           // Number of bands dispatched
	Workers      int           // Size of the worker pool
	TotalSamples int           // Primary samples traced
	Duration     time.Duration // Wall time from dispatch to the last band
	Luminance    float64       // Mean luminance of the output
}

// SamplesPerSecond returns the primary sample throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%dx%d, %d bands on %d workers, %d samples in %v (%.0f samples/s), mean luminance %.3f",
		s.Width, s.Height, s.Bands, s.Workers, s.TotalSamples, s.Duration.Round(time.Millisecond), s.SamplesPerSecond(), s.Luminance)
}

// AverageLuminance returns the mean luminance of an 8-bit image, channels scaled to [0, 1]
func AverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return 0
	}
	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += core.NewColor(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff).Luminance()
		}
	}
	return total / float64(n)
}
