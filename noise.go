package blockbuilder

import "math/rand/v2"

// Noise2D is a coherent noise source returning values in [-1,1].
type Noise2D interface {
	Noise2D(x, y float64) float64
}

// NoiseFunc adapts a plain function to Noise2D.
type NoiseFunc func(x, y float64) float64

func (f NoiseFunc) Noise2D(x, y float64) float64 { return f(x, y) }

var grad2 = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

// Simplex is seeded 2D simplex noise.
type Simplex struct {
	perm [512]uint8
}

func NewSimplex(seed uint64) *Simplex {
	s := &Simplex{}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	p := make([]uint8, 256)
	for i := range 256 {
		p[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := r.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	for i := range 512 {
		s.perm[i] = p[i&255]
	}
	return s
}

func fastFloor(x float64) int {
	if x >= 0 {
		return int(x)
	}
	return int(x) - 1
}

func (s *Simplex) Noise2D(x, y float64) float64 {
	const F2 = 0.3660254037844386  // (sqrt(3)-1)/2
	const G2 = 0.21132486540518713 // (3-sqrt(3))/6

	t := (x + y) * F2
	i := fastFloor(x + t)
	j := fastFloor(y + t)

	t0 := float64(i+j) * G2
	x0 := x - (float64(i) - t0)
	y0 := y - (float64(j) - t0)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + G2
	y1 := y0 - float64(j1) + G2
	x2 := x0 - 1.0 + 2.0*G2
	y2 := y0 - 1.0 + 2.0*G2

	ii := i & 255
	jj := j & 255
	gi0 := s.perm[ii+int(s.perm[jj])] % 12
	gi1 := s.perm[ii+i1+int(s.perm[jj+j1])] % 12
	gi2 := s.perm[ii+1+int(s.perm[jj+1])] % 12

	n0, n1, n2 := 0.0, 0.0, 0.0

	t0c := 0.5 - x0*x0 - y0*y0
	if t0c > 0 {
		t0c *= t0c
		n0 = t0c * t0c * (grad2[gi0][0]*x0 + grad2[gi0][1]*y0)
	}
	t1c := 0.5 - x1*x1 - y1*y1
	if t1c > 0 {
		t1c *= t1c
		n1 = t1c * t1c * (grad2[gi1][0]*x1 + grad2[gi1][1]*y1)
	}
	t2c := 0.5 - x2*x2 - y2*y2
	if t2c > 0 {
		t2c *= t2c
		n2 = t2c * t2c * (grad2[gi2][0]*x2 + grad2[gi2][1]*y2)
	}

	return 70.0 * (n0 + n1 + n2)
}
