package blockbuilder

import (
	"image/color"
	"math"
	"testing"
)

func TestBlendMode_Channel(t *testing.T) {
	cases := []struct {
		mode   BlendMode
		cb, cs float64
		want   float64
	}{
		{BlendNormal, 0.2, 0.6, 0.6},
		{BlendMultiply, 0.5, 0.5, 0.25},
		{BlendScreen, 0.5, 0.5, 0.75},
		{BlendOverlay, 0.25, 0.5, 0.25},
		{BlendOverlay, 0.75, 1, 1},
		{BlendDarken, 0.3, 0.6, 0.3},
		{BlendLighten, 0.3, 0.6, 0.6},
		{BlendColorDodge, 0, 0.9, 0},
		{BlendColorDodge, 0.5, 1, 1},
		{BlendColorDodge, 0.25, 0.5, 0.5},
		{BlendColorBurn, 1, 0, 1},
		{BlendColorBurn, 0.5, 0, 0},
		{BlendColorBurn, 0.75, 0.5, 0.5},
		{BlendHardLight, 0.5, 0.25, 0.25},
		{BlendHardLight, 0.5, 0.75, 0.75},
		{BlendSoftLight, 0.5, 0.5, 0.5},
		{BlendSoftLight, 0, 1, 0},
		{BlendDifference, 0.2, 0.7, 0.5},
		{BlendExclusion, 0.5, 0.5, 0.5},
	}
	for _, c := range cases {
		if got := c.mode.channel(c.cb, c.cs); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%s(%v,%v) got=%v want %v", c.mode, c.cb, c.cs, got, c.want)
		}
	}
}

func TestBlendMode_Blend(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	black := color.NRGBA{A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	if got, want := BlendMultiply.Blend(red, gray, 1), (color.NRGBA{R: 128, A: 255}); got != want {
		t.Fatalf("multiply got=%v want %v", got, want)
	}
	if got, want := BlendNormal.Blend(black, white, 0.5), (color.NRGBA{R: 128, G: 128, B: 128, A: 255}); got != want {
		t.Fatalf("half normal got=%v want %v", got, want)
	}
	if got := BlendScreen.Blend(black, gray, 1); got != gray {
		t.Fatalf("screen over black got=%v want %v", got, gray)
	}
	if got := BlendDifference.Blend(white, white, 1); got != black {
		t.Fatalf("difference got=%v want %v", got, black)
	}
}

func TestBlendMode_TransparentSourceKeepsDst(t *testing.T) {
	dst := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	for _, m := range BlendModes {
		if got := m.Blend(dst, color.NRGBA{R: 200, A: 0}, 1); got != dst {
			t.Fatalf("%s transparent src got=%v want %v", m, got, dst)
		}
		if got := m.Blend(dst, color.NRGBA{R: 200, A: 255}, 0); got != dst {
			t.Fatalf("%s zero opacity got=%v want %v", m, got, dst)
		}
	}
}

func TestBlendMode_OpaqueResult(t *testing.T) {
	dst := color.NRGBA{R: 90, G: 140, B: 60, A: 255}
	src := color.NRGBA{R: 200, G: 30, B: 170, A: 128}
	for _, m := range BlendModes {
		if got := m.Blend(dst, src, 0.7); got.A != 255 {
			t.Fatalf("%s alpha got=%d want 255", m, got.A)
		}
	}
}

func TestParseBlendMode(t *testing.T) {
	for _, m := range BlendModes {
		got, err := ParseBlendMode(string(m))
		if err != nil || got != m {
			t.Fatalf("parse %s got=%v err=%v", m, got, err)
		}
	}
	if _, err := ParseBlendMode("hue"); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
}

func TestTintAtop(t *testing.T) {
	dst := color.NRGBA{A: 255}
	got := tintAtop(dst, toColorful(color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	if want := (color.NRGBA{R: 128, G: 128, B: 128, A: 255}); got != want {
		t.Fatalf("got=%v want %v", got, want)
	}
	transparent := color.NRGBA{}
	if got := tintAtop(transparent, toColorful(color.NRGBA{R: 255, A: 255})); got != transparent {
		t.Fatalf("transparent dst got=%v want %v", got, transparent)
	}
}
