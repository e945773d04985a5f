package utils

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	bb "github.com/setanarut/blockbuilder"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Preset is the YAML form of a recipe. Math pattern fields are optional and
// default to DefaultParameters.
type Preset struct {
	Material      string  `yaml:"material"`
	BaseColor     string  `yaml:"base_color"`
	AccentColor   string  `yaml:"accent_color"`
	NoiseScale    int     `yaml:"noise_scale"`
	NoiseStrength float64 `yaml:"noise_strength"`
	Pattern       string  `yaml:"pattern"`
	EdgeDarkness  float64 `yaml:"edge_darkness"`
	Depth         float64 `yaml:"depth"`
	Bevel         float64 `yaml:"bevel"`

	MathPattern  string `yaml:"math_pattern,omitempty"`
	MathScale    int    `yaml:"math_scale,omitempty"`
	Formula      string `yaml:"formula,omitempty"`
	FormulaColor string `yaml:"formula_color,omitempty"`
}

// Params converts the preset and validates the result.
func (p Preset) Params() (bb.GenerationParameters, error) {
	out := bb.DefaultParameters()
	out.Material = bb.MaterialType(p.Material)
	out.Pattern = bb.PatternType(p.Pattern)
	out.NoiseScale = p.NoiseScale
	out.NoiseStrength = p.NoiseStrength
	out.EdgeDarkness = p.EdgeDarkness
	out.Depth = p.Depth
	out.Bevel = p.Bevel
	if p.MathPattern != "" {
		out.MathPattern = bb.MathPattern(p.MathPattern)
	}
	if p.MathScale != 0 {
		out.MathScale = p.MathScale
	}
	out.Formula = p.Formula

	var err error
	if out.BaseColor, err = bb.ParseHexColor(p.BaseColor); err != nil {
		return out, err
	}
	if out.AccentColor, err = bb.ParseHexColor(p.AccentColor); err != nil {
		return out, err
	}
	if p.FormulaColor != "" {
		if out.FormulaColor, err = bb.ParseHexColor(p.FormulaColor); err != nil {
			return out, err
		}
	}
	return out, out.Validate()
}

// Presets maps preset names to recipes.
type Presets map[string]bb.GenerationParameters

func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func ParsePresets(data []byte) (Presets, error) {
	var raw map[string]Preset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}
	out := make(Presets, len(raw))
	for name, p := range raw {
		params, err := p.Params()
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		out[strings.ToLower(name)] = params
	}
	return out, nil
}

func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePresets(data)
}

// DefaultPresets returns the built-in stone, dirt, wood, grass, sand and
// brick recipes.
func DefaultPresets() Presets {
	p, err := ParsePresets(defaultPresets)
	if err != nil {
		panic(err)
	}
	return p
}
