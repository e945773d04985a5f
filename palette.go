package blockbuilder

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MaxPaletteSize is the largest palette a VXB file can carry.
const MaxPaletteSize = 255

var ErrEmptyPalette = errors.New("palette: no colors")

type PaletteMethod int

const (
	// Keep the most frequent colors and snap the rest to their nearest kept color.
	PaletteMethodFrequency PaletteMethod = iota
	// Cluster every pixel with k-means. Not bit-deterministic between runs.
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "frequency"
	}
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "frequency", "":
		return PaletteMethodFrequency, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

// Palette is an ordered set of unique opaque colors shared by all faces.
type Palette []color.NRGBA

type rgbKey [3]uint8

func keyOf(c color.NRGBA) rgbKey { return rgbKey{c.R, c.G, c.B} }

func (k rgbKey) color() color.NRGBA { return color.NRGBA{R: k[0], G: k[1], B: k[2], A: 255} }

// ColorCount is a distinct color and its number of occurrences.
type ColorCount struct {
	Color color.NRGBA
	Count int
}

// ExtractUniqueColors tallies distinct (r,g,b) triples across faces, in the
// order they are first seen. Alpha is ignored.
func ExtractUniqueColors(faces []*FaceBuffer) []ColorCount {
	index := make(map[rgbKey]int)
	var out []ColorCount
	for _, f := range faces {
		if f == nil || f.NRGBA == nil {
			continue
		}
		b := f.Rect
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				k := keyOf(f.NRGBAAt(x, y))
				if i, ok := index[k]; ok {
					out[i].Count++
					continue
				}
				index[k] = len(out)
				out = append(out, ColorCount{Color: k.color(), Count: 1})
			}
		}
	}
	return out
}

// BuildPalette computes a shared palette of at most MaxPaletteSize colors.
// Faces are not modified.
func BuildPalette(faces []*FaceBuffer, method PaletteMethod) (Palette, error) {
	counts := ExtractUniqueColors(faces)
	if len(counts) == 0 {
		return nil, ErrEmptyPalette
	}
	if len(counts) <= MaxPaletteSize {
		p := make(Palette, len(counts))
		for i, c := range counts {
			p[i] = c.Color
		}
		return p, nil
	}
	switch method {
	case PaletteMethodKMeans:
		p, err := kmeansPalette(faces, MaxPaletteSize)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return frequencyPalette(counts, MaxPaletteSize), nil
	}
}

func frequencyPalette(counts []ColorCount, k int) Palette {
	sorted := slices.Clone(counts)
	// Stable: equal counts keep first-seen order.
	slices.SortStableFunc(sorted, func(a, b ColorCount) int {
		return b.Count - a.Count
	})
	p := make(Palette, 0, k)
	for _, c := range sorted[:min(k, len(sorted))] {
		p = append(p, c.Color)
	}
	return p
}

func kmeansPalette(faces []*FaceBuffer, k int) (Palette, error) {
	var dataset clusters.Observations
	for _, f := range faces {
		if f == nil || f.NRGBA == nil {
			continue
		}
		b := f.Rect
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := f.NRGBAAt(x, y)
				dataset = append(dataset, clusters.Coordinates{
					float64(c.R) / 255.0,
					float64(c.G) / 255.0,
					float64(c.B) / 255.0,
				})
			}
		}
	}
	if len(dataset) == 0 {
		return nil, ErrEmptyPalette
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, min(k, len(dataset)))
	if err != nil {
		return nil, fmt.Errorf("palette: kmeans: %w", err)
	}
	// Sort by cluster population so dominant colors come first.
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	seen := make(map[rgbKey]bool)
	p := make(Palette, 0, k)
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		key := rgbKey{unit8(c.Center[0]), unit8(c.Center[1]), unit8(c.Center[2])}
		if seen[key] {
			continue
		}
		seen[key] = true
		p = append(p, key.color())
	}
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}
	return p, nil
}

// Nearest returns the index of the entry closest to c in RGB space. Ties go
// to the earliest entry.
func (p Palette) Nearest(c color.NRGBA) int {
	best := -1
	bestD := math.MaxInt
	for i, e := range p {
		dr := int(e.R) - int(c.R)
		dg := int(e.G) - int(c.G)
		db := int(e.B) - int(c.B)
		d := dr*dr + dg*dg + db*db
		if d < bestD {
			bestD = d
			best = i
			if d == 0 {
				break
			}
		}
	}
	return best
}

// Contains reports whether an entry has the same (r,g,b) as c.
func (p Palette) Contains(c color.NRGBA) bool {
	return slices.ContainsFunc(p, func(e color.NRGBA) bool { return keyOf(e) == keyOf(c) })
}

// Apply replaces the color of every pixel with its nearest palette entry.
// Pixel alpha is kept. Applying a palette to faces already quantized
// against it changes nothing.
func (p Palette) Apply(faces ...*FaceBuffer) {
	if len(p) == 0 {
		return
	}
	mapping := make(map[rgbKey]color.NRGBA)
	for _, f := range faces {
		if f == nil || f.NRGBA == nil {
			continue
		}
		b := f.Rect
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := f.NRGBAAt(x, y)
				k := keyOf(c)
				m, ok := mapping[k]
				if !ok {
					m = p[p.Nearest(c)]
					mapping[k] = m
				}
				f.SetNRGBA(x, y, color.NRGBA{R: m.R, G: m.G, B: m.B, A: c.A})
			}
		}
	}
}

// Quantize builds the shared palette and remaps every face onto it.
func Quantize(faces []*FaceBuffer, method PaletteMethod) (Palette, error) {
	p, err := BuildPalette(faces, method)
	if err != nil {
		return nil, err
	}
	p.Apply(faces...)
	return p, nil
}

// QuantizationReport summarizes how far quantized faces moved from the
// originals, in RGB distance units (0-441).
type QuantizationReport struct {
	Colors      int
	PaletteSize int
	MeanError   float64
	MaxError    float64
}

// MeasureError compares faces before and after quantization pixel by pixel.
// Faces are matched by position and must have equal bounds.
func MeasureError(before, after []*FaceBuffer, p Palette) QuantizationReport {
	r := QuantizationReport{
		Colors:      len(ExtractUniqueColors(before)),
		PaletteSize: len(p),
	}
	var dists []float64
	for i := range min(len(before), len(after)) {
		a, b := before[i], after[i]
		if a == nil || b == nil || a.Rect != b.Rect {
			continue
		}
		for y := a.Rect.Min.Y; y < a.Rect.Max.Y; y++ {
			for x := a.Rect.Min.X; x < a.Rect.Max.X; x++ {
				ca, cb := a.NRGBAAt(x, y), b.NRGBAAt(x, y)
				dr := float64(ca.R) - float64(cb.R)
				dg := float64(ca.G) - float64(cb.G)
				db := float64(ca.B) - float64(cb.B)
				dists = append(dists, math.Sqrt(dr*dr+dg*dg+db*db))
			}
		}
	}
	if len(dists) > 0 {
		r.MeanError = stat.Mean(dists, nil)
		r.MaxError = floats.Max(dists)
	}
	return r
}
