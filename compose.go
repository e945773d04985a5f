package blockbuilder

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// PaintFace paints one face. A non-nil override is scaled into dst and
// procedural generation is skipped for that face.
func PaintFace(dst *FaceBuffer, p GenerationParameters, s *Sampler, override image.Image) {
	if override != nil {
		draw.BiLinear.Scale(dst.NRGBA, dst.Rect, override, override.Bounds(), draw.Src, nil)
		return
	}

	accent := p.AccentColor
	if p.usesFormulaColor() {
		accent = p.FormulaColor
	}
	base := p.BaseColor
	ns := p.NoiseStrength
	ed := p.EdgeDarkness

	for y := range TextureSize {
		for x := range TextureSize {
			pattern := s.PatternValue(x, y, p)
			material := MaterialValue(x, y, p.Material, p.NoiseScale, s.Noise)
			noise := CombineNoise(pattern, material)

			edge := edgeFactor(x, y, dst.Face) * bevelAttenuation(x, y, p.Bevel)
			depth := 1 - p.Depth*(1-noise)
			shade := (1 - ed + ed*edge) * depth

			dst.SetNRGBA(x, y, color.NRGBA{
				R: shadeChannel(base.R, accent.R, ns, noise, shade),
				G: shadeChannel(base.G, accent.G, ns, noise, shade),
				B: shadeChannel(base.B, accent.B, ns, noise, shade),
				A: 255,
			})
		}
	}
}

func shadeChannel(base, accent uint8, strength, noise, shade float64) uint8 {
	c := math.Floor(float64(base)*(1-strength) + float64(accent)*strength*noise)
	c = math.Floor(c * shade)
	return uint8(max(0, min(255, c)))
}

// edgeFactor ramps from 0 at the border to 1 inside. The top face ramps over
// the outer 20% per side, all other faces over 10%.
func edgeFactor(x, y int, face Face) float64 {
	ramp := 0.1
	if face == FaceTop {
		ramp = 0.2
	}
	const size = float64(TextureSize)
	w := size * ramp
	fx, fy := float64(x), float64(y)
	f := 1.0
	if fx < w {
		f *= fx / w
	}
	if fy < w {
		f *= fy / w
	}
	if fx > size-w {
		f *= (size - fx) / w
	}
	if fy > size-w {
		f *= (size - fy) / w
	}
	return f
}

// bevelAttenuation is 1 when bevel is 0 and the corner bevel factor when
// bevel is 1.
func bevelAttenuation(x, y int, bevel float64) float64 {
	const size = TextureSize
	nearest := min(x, size-x, y, size-y)
	factor := min(1, float64(nearest)/(size*0.1))
	return 1 - bevel + bevel*factor
}
