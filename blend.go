package blockbuilder

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendDarken     BlendMode = "darken"
	BlendLighten    BlendMode = "lighten"
	BlendColorDodge BlendMode = "color-dodge"
	BlendColorBurn  BlendMode = "color-burn"
	BlendHardLight  BlendMode = "hard-light"
	BlendSoftLight  BlendMode = "soft-light"
	BlendDifference BlendMode = "difference"
	BlendExclusion  BlendMode = "exclusion"
)

var BlendModes = []BlendMode{
	BlendNormal, BlendMultiply, BlendScreen, BlendOverlay, BlendDarken, BlendLighten,
	BlendColorDodge, BlendColorBurn, BlendHardLight, BlendSoftLight, BlendDifference, BlendExclusion,
}

func ParseBlendMode(s string) (BlendMode, error) {
	for _, m := range BlendModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown blend mode %q", s)
}

// channel returns B(cb, cs) for one separable channel in [0,1].
func (m BlendMode) channel(cb, cs float64) float64 {
	switch m {
	case BlendMultiply:
		return cb * cs
	case BlendScreen:
		return cb + cs - cb*cs
	case BlendOverlay:
		return hardLight(cs, cb)
	case BlendDarken:
		return min(cb, cs)
	case BlendLighten:
		return max(cb, cs)
	case BlendColorDodge:
		if cb == 0 {
			return 0
		}
		if cs >= 1 {
			return 1
		}
		return min(1, cb/(1-cs))
	case BlendColorBurn:
		if cb >= 1 {
			return 1
		}
		if cs <= 0 {
			return 0
		}
		return 1 - min(1, (1-cb)/cs)
	case BlendHardLight:
		return hardLight(cb, cs)
	case BlendSoftLight:
		if cs <= 0.5 {
			return cb - (1-2*cs)*cb*(1-cb)
		}
		var d float64
		if cb <= 0.25 {
			d = ((16*cb-12)*cb + 4) * cb
		} else {
			d = math.Sqrt(cb)
		}
		return cb + (2*cs-1)*(d-cb)
	case BlendDifference:
		return math.Abs(cb - cs)
	case BlendExclusion:
		return cb + cs - 2*cb*cs
	}
	return cs
}

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	s := 2*cs - 1
	return cb + s - cb*s
}

// Blend composites src over dst with mode at the given source opacity,
// following separable W3C compositing with source-over.
func (m BlendMode) Blend(dst, src color.NRGBA, opacity float64) color.NRGBA {
	as := float64(src.A) / 255 * opacity
	if as <= 0 {
		return dst
	}
	ab := float64(dst.A) / 255
	cb := toColorful(dst)
	cs := toColorful(src)
	mixed := colorful.Color{
		R: (1-ab)*cs.R + ab*m.channel(cb.R, cs.R),
		G: (1-ab)*cs.G + ab*m.channel(cb.G, cs.G),
		B: (1-ab)*cs.B + ab*m.channel(cb.B, cs.B),
	}
	ao := as + ab*(1-as)
	out := colorful.Color{
		R: (as*mixed.R + (1-as)*ab*cb.R) / ao,
		G: (as*mixed.G + (1-as)*ab*cb.G) / ao,
		B: (as*mixed.B + (1-as)*ab*cb.B) / ao,
	}
	return fromColorful(out, ao)
}

// tintAtop paints a flat tint over dst with source-atop at alpha 0.5. The
// destination alpha is kept.
func tintAtop(dst color.NRGBA, tint colorful.Color) color.NRGBA {
	if dst.A == 0 {
		return dst
	}
	out := toColorful(dst).BlendRgb(tint, 0.5)
	return fromColorful(out, float64(dst.A)/255)
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(alpha),
	}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
