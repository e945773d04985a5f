package blockbuilder

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Sampler produces the per-pixel pattern intensity for one block.
type Sampler struct {
	Noise   Noise2D
	Voronoi *VoronoiSeeds
	// Custom expression, nil when the named math pattern is used.
	Formula *Formula
}

// noise01 samples n and remaps [-1,1] to [0,1].
func noise01(n Noise2D, x, y float64) float64 {
	return clamp01((n.Noise2D(x, y) + 1) / 2)
}

// cellSize is the grid cell edge for checker, striped and zigzag.
func cellSize(scale int) int {
	return max(1, TextureSize/scale)
}

// PatternValue returns the pattern intensity at (x, y) in [0,1].
func (s *Sampler) PatternValue(x, y int, p GenerationParameters) float64 {
	fx, fy := float64(x), float64(y)
	scale := float64(p.NoiseScale)
	switch p.Pattern {
	case PatternNoise:
		return noise01(s.Noise, fx/scale, fy/scale)
	case PatternCracked:
		crack1 := math.Abs(s.Noise.Noise2D(fx/scale, fy/scale)) > 0.7
		crack2 := math.Abs(s.Noise.Noise2D(fx/(scale*2), fy/(scale*2))) > 0.8
		if crack1 || crack2 {
			return 1
		}
		return 0
	case PatternChecker:
		c := cellSize(p.NoiseScale)
		if (x/c+y/c)%2 == 0 {
			return 0.2
		}
		return 0.8
	case PatternStriped:
		c := cellSize(p.NoiseScale)
		if (x/c)%2 == 0 {
			return 0.3
		}
		return 0.7
	case PatternZigzag:
		c := cellSize(p.NoiseScale)
		if (x/c+y/c)%4 < 2 {
			return 0.3
		}
		return 0.7
	case PatternMath:
		if p.Formula != "" {
			return s.Formula.Value(fx, fy)
		}
		return s.MathValue(x, y, p.MathPattern, p.MathScale)
	}
	return 0
}

// MathValue evaluates one of the named closed-form patterns in [0,1].
func (s *Sampler) MathValue(x, y int, m MathPattern, scale int) float64 {
	fx, fy := float64(x), float64(y)
	sc := float64(scale)
	const size = float64(TextureSize)
	switch m {
	case MathSineWaves:
		freq := sc / 50
		return clamp01((math.Sin(fx*freq)*math.Cos(fy*freq) + 1) / 2)
	case MathRipples:
		dx := fx - size/2
		dy := fy - size/2
		freq := sc / 20
		return clamp01((math.Sin(math.Hypot(dx, dy)*freq) + 1) / 2)
	case MathVoronoi:
		return clamp01(s.Voronoi.Distance(fx, fy, scale) / (size / 2))
	case MathMandelbrot:
		const maxIter = 50
		zoom := sc / 10
		cr := (fx - size/2) / (size / 4 * zoom)
		ci := (fy - size/2) / (size / 4 * zoom)
		zr, zi := 0.0, 0.0
		i := 0
		for ; i < maxIter; i++ {
			zr2, zi2 := zr*zr, zi*zi
			if zr2+zi2 > 4 {
				break
			}
			zr, zi = zr2-zi2+cr, 2*zr*zi+ci
		}
		return float64(i) / maxIter
	case MathPerlinFlow:
		freq := sc / 50
		angle := s.Noise.Noise2D(fx*freq, fy*freq) * math.Pi * 2
		strength := s.Noise.Noise2D((fx+100)*freq, (fy+100)*freq)
		return clamp01((math.Sin(angle)*strength + 1) / 2)
	case MathFractal:
		value := 0.0
		amplitude := 1.0
		freq := sc / 50
		for range 4 {
			value += amplitude * noise01(s.Noise, fx*freq, fy*freq)
			amplitude *= 0.5
			freq *= 2
		}
		return clamp01(value / 1.875)
	}
	return 0
}

// VoronoiSeeds caches random seed points per math scale.
type VoronoiSeeds struct {
	rng    *rand.Rand
	scale  int
	points []kdtree.Point
	tree   *kdtree.Tree
}

func NewVoronoiSeeds(rng *rand.Rand) *VoronoiSeeds {
	return &VoronoiSeeds{rng: rng}
}

// Points returns the seeds for scale, generating them on first use or when
// the scale changed since the last call.
func (v *VoronoiSeeds) Points(scale int) [][2]float64 {
	v.ensure(scale)
	out := make([][2]float64, len(v.points))
	for i, p := range v.points {
		out[i] = [2]float64{p[0], p[1]}
	}
	return out
}

// Distance is the Euclidean distance from (x, y) to the nearest seed.
func (v *VoronoiSeeds) Distance(x, y float64, scale int) float64 {
	v.ensure(scale)
	_, d2 := v.tree.Nearest(kdtree.Point{x, y})
	return math.Sqrt(d2)
}

func (v *VoronoiSeeds) ensure(scale int) {
	if v.tree != nil && v.scale == scale {
		return
	}
	n := max(scale, 0)/5 + 2
	points := make([]kdtree.Point, n)
	for i := range points {
		points[i] = kdtree.Point{
			v.rng.Float64() * TextureSize,
			v.rng.Float64() * TextureSize,
		}
	}
	v.scale = scale
	v.points = points
	// kdtree.New reorders its input, keep v.points in generation order.
	v.tree = kdtree.New(kdtree.Points(append([]kdtree.Point(nil), points...)), false)
}
