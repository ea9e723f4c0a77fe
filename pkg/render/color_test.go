package render

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ffd700", color.RGBA{255, 215, 0, 255}},
		{"#000000", color.RGBA{0, 0, 0, 255}},
		{"gold", color.RGBA{255, 255, 255, 255}},
		{"", color.RGBA{255, 255, 255, 255}},
	}
	for _, tc := range tests {
		if got := ParseHex(tc.in); got != tc.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWithAlpha(t *testing.T) {
	c := color.RGBA{200, 100, 50, 255}
	if got := WithAlpha(c, 0.5); got != (color.RGBA{100, 50, 25, 127}) {
		t.Errorf("WithAlpha(0.5) = %v", got)
	}
	if got := WithAlpha(c, 2); got != c {
		t.Errorf("WithAlpha clamps above 1, got %v", got)
	}
}

func TestDarkenColor(t *testing.T) {
	if got := DarkenColor(color.RGBA{200, 100, 50, 255}); got != (color.RGBA{100, 50, 25, 255}) {
		t.Errorf("DarkenColor = %v", got)
	}
}
