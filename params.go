package blockbuilder

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

type MaterialType string

const (
	MaterialStone MaterialType = "stone"
	MaterialDirt  MaterialType = "dirt"
	MaterialWood  MaterialType = "wood"
	MaterialMetal MaterialType = "metal"
	MaterialBrick MaterialType = "brick"
	MaterialSand  MaterialType = "sand"
)

var Materials = []MaterialType{
	MaterialStone, MaterialDirt, MaterialWood, MaterialMetal, MaterialBrick, MaterialSand,
}

type PatternType string

const (
	PatternNoise   PatternType = "noise"
	PatternCracked PatternType = "cracked"
	PatternChecker PatternType = "checker"
	PatternStriped PatternType = "striped"
	PatternZigzag  PatternType = "zigzag"
	PatternMath    PatternType = "math"
)

var Patterns = []PatternType{
	PatternNoise, PatternCracked, PatternChecker, PatternStriped, PatternZigzag, PatternMath,
}

type MathPattern string

const (
	MathSineWaves  MathPattern = "sine-waves"
	MathRipples    MathPattern = "ripples"
	MathVoronoi    MathPattern = "voronoi"
	MathMandelbrot MathPattern = "mandelbrot"
	MathPerlinFlow MathPattern = "perlin-flow"
	MathFractal    MathPattern = "fractal"
)

var MathPatterns = []MathPattern{
	MathSineWaves, MathRipples, MathVoronoi, MathMandelbrot, MathPerlinFlow, MathFractal,
}

var ErrInvalidParameters = errors.New("invalid generation parameters")

// GenerationParameters is the full recipe for one block. Alpha of the color
// fields is ignored.
type GenerationParameters struct {
	Material    MaterialType
	BaseColor   color.NRGBA
	AccentColor color.NRGBA
	// Noise frequency divisor, also the cell count for grid patterns.
	NoiseScale int
	// Weight of the accent color, 0-1.
	NoiseStrength float64
	Pattern       PatternType
	// Strength of the edge fall-off, 0-1.
	EdgeDarkness float64
	// How much low noise values darken a pixel, 0-1.
	Depth float64
	// Corner bevel strength, 0-1.
	Bevel float64

	// Only used when Pattern is PatternMath.
	MathPattern MathPattern
	MathScale   int
	// Expression over x and y. Takes precedence over MathPattern when set.
	Formula      string
	FormulaColor color.NRGBA
}

// DefaultParameters returns the stone recipe.
func DefaultParameters() GenerationParameters {
	return GenerationParameters{
		Material:      MaterialStone,
		BaseColor:     color.NRGBA{R: 0x8c, G: 0x8c, B: 0x8c, A: 255},
		AccentColor:   color.NRGBA{R: 0x6e, G: 0x6e, B: 0x6e, A: 255},
		NoiseScale:    4,
		NoiseStrength: 0.3,
		Pattern:       PatternNoise,
		EdgeDarkness:  0.4,
		Depth:         0.3,
		Bevel:         0.2,
		MathPattern:   MathSineWaves,
		MathScale:     10,
		FormulaColor:  color.NRGBA{R: 0x4a, G: 0x90, B: 0xe2, A: 255},
	}
}

func (p GenerationParameters) Validate() error {
	if !slices.Contains(Materials, p.Material) {
		return fmt.Errorf("%w: unknown material %q", ErrInvalidParameters, p.Material)
	}
	if !slices.Contains(Patterns, p.Pattern) {
		return fmt.Errorf("%w: unknown pattern %q", ErrInvalidParameters, p.Pattern)
	}
	if p.NoiseScale <= 0 {
		return fmt.Errorf("%w: noise scale must be positive, got %d", ErrInvalidParameters, p.NoiseScale)
	}
	fractions := []struct {
		name string
		v    float64
	}{
		{"noise strength", p.NoiseStrength},
		{"edge darkness", p.EdgeDarkness},
		{"depth", p.Depth},
		{"bevel", p.Bevel},
	}
	for _, f := range fractions {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidParameters, f.name, f.v)
		}
	}
	if p.Pattern == PatternMath && p.Formula == "" {
		if !slices.Contains(MathPatterns, p.MathPattern) {
			return fmt.Errorf("%w: unknown math pattern %q", ErrInvalidParameters, p.MathPattern)
		}
		if p.MathScale <= 0 {
			return fmt.Errorf("%w: math scale must be positive, got %d", ErrInvalidParameters, p.MathScale)
		}
	}
	return nil
}

// usesFormulaColor reports whether the accent is swapped for FormulaColor.
func (p GenerationParameters) usesFormulaColor() bool {
	return p.Pattern == PatternMath && p.Formula != ""
}

// ParseHexColor parses "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RandomParameters picks a random non-math recipe.
func RandomParameters(r *rand.Rand) GenerationParameters {
	p := DefaultParameters()
	p.Material = Materials[r.IntN(len(Materials))]
	p.Pattern = Patterns[r.IntN(len(Patterns)-1)]
	p.BaseColor = randomColor(r)
	p.AccentColor = randomColor(r)
	p.NoiseScale = r.IntN(16) + 1
	p.NoiseStrength = float64(r.IntN(100)+1) / 100
	p.EdgeDarkness = float64(r.IntN(100)+1) / 100
	p.Depth = float64(r.IntN(100)+1) / 100
	p.Bevel = float64(r.IntN(100)+1) / 100
	return p
}

func randomColor(r *rand.Rand) color.NRGBA {
	return color.NRGBA{R: uint8(r.IntN(256)), G: uint8(r.IntN(256)), B: uint8(r.IntN(256)), A: 255}
}
