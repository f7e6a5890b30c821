package renderer

import (
	"errors"
	"testing"
)

func TestFrameSetBand(t *testing.T) {
	f := NewFrame(2, 3)
	resp := RenderResponse{
		StartRow: 1,
		EndRow:   2,
		Image:    []float32{0.1, 0.2, 0.3, 1, 0.4, 0.5, 0.6, 1},
	}
	if err := f.SetBand(resp); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if c := f.At(1, 1); c.R != float64(float32(0.4)) || c.B != float64(float32(0.6)) {
		t.Errorf("Expected pixel (1,1) from the band, got %v", c)
	}
	if c := f.At(0, 0); !c.IsBlack() {
		t.Errorf("Row 0 should be untouched, got %v", c)
	}
	if c := f.At(0, 2); !c.IsBlack() {
		t.Errorf("Row 2 should be untouched, got %v", c)
	}
}

func TestFrameSetBandErrors(t *testing.T) {
	f := NewFrame(2, 2)
	tests := []struct {
		name string
		resp RenderResponse
	}{
		{"short buffer", RenderResponse{StartRow: 0, EndRow: 1, Image: make([]float32, 4)}},
		{"past the end", RenderResponse{StartRow: 1, EndRow: 3, Image: make([]float32, 16)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.SetBand(tt.resp); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestFrameToImage(t *testing.T) {
	f := NewFrame(3, 1)
	copy(f.Pixels, []float32{
		0, 0.5, 1, 1,
		2, -1, 0.25, 1,
		0, 0, 0, 0,
	})
	img := f.ToImage()

	tests := []struct {
		x          int
		r, g, b, a uint8
	}{
		{0, 0, 128, 255, 255},
		{1, 255, 0, 64, 255},
		{2, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		got := img.RGBAAt(tt.x, 0)
		if got.R != tt.r || got.G != tt.g || got.B != tt.b || got.A != tt.a {
			t.Errorf("Pixel %d: expected (%d,%d,%d,%d), got %v", tt.x, tt.r, tt.g, tt.b, tt.a, got)
		}
	}
}

func TestFrameBandImage(t *testing.T) {
	f := NewFrame(2, 4)
	for i := range f.Pixels {
		f.Pixels[i] = float32(i%4+i/8) / 10
	}
	full := f.ToImage()
	band := Band{StartRow: 1, EndRow: 3}
	img := f.BandImage(band)

	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("Expected a 2x2 image, got %v", b)
	}
	for y := band.StartRow; y < band.EndRow; y++ {
		for x := 0; x < 2; x++ {
			if got, want := img.RGBAAt(x, y-band.StartRow), full.RGBAAt(x, y); got != want {
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}
