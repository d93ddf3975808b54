package shade

import (
	"image/color"
	"testing"
)

// Verify at compile time that RGBA implements color.Color.
var _ color.Color = RGBA{}

func TestRGBA_ColorInterface(t *testing.T) {
	tests := []struct {
		name                       string
		c                          RGBA
		wantR, wantG, wantB, wantA uint32
	}{
		{"opaque black", Black, 0, 0, 0, 0xffff},
		{"opaque white", White, 0xffff, 0xffff, 0xffff, 0xffff},
		{"opaque red", Red, 0xffff, 0, 0, 0xffff},
		{"transparent", Transparent, 0, 0, 0, 0},
		{"out of range clamps", RGBA{2, -1, 0, 1}, 0xffff, 0, 0, 0xffff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			if r != tt.wantR || g != tt.wantG || b != tt.wantB || a != tt.wantA {
				t.Errorf("RGBA() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					r, g, b, a, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestFromColor_Straight(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 0})
	if got.R != 1 || got.A != 0 {
		t.Errorf("FromColor(transparent red) = %+v, want R=1 A=0", got)
	}

	got = FromColor(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	if got != White {
		t.Errorf("FromColor(white) = %+v, want %+v", got, White)
	}
}

func TestRGBA_Vec4RoundTrip(t *testing.T) {
	c := RGBA{0.1, 0.2, 0.3, 0.4}
	if got := FromVec4(c.Vec4()); got != c {
		t.Errorf("FromVec4(Vec4()) = %+v, want %+v", got, c)
	}
}

func TestRGBA_LerpIdenticalIsExact(t *testing.T) {
	c := RGBA{0.2, 0.4, 0.6, 1}
	for _, tt := range []float32{0, 0.25, 0.5, 0.9, 1} {
		if got := c.Lerp(c, tt); got != c {
			t.Errorf("Lerp(c, c, %v) = %+v, want %+v", tt, got, c)
		}
	}
}

func TestRGBA_Clamp(t *testing.T) {
	got := RGBA{-0.5, 0.5, 1.5, 2}.Clamp()
	want := RGBA{0, 0.5, 1, 1}
	if got != want {
		t.Errorf("Clamp() = %+v, want %+v", got, want)
	}
}
