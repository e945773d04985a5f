package blockbuilder

// Pattern and material weights of the combined noise value.
const (
	patternWeight  = 0.7
	materialWeight = 0.3
)

// MaterialValue returns the material modulation at (x, y) in [0,1]. Each
// archetype samples n at its own offset and frequency; brick is a direct
// brick/mortar grid test.
func MaterialValue(x, y int, m MaterialType, scale int, n Noise2D) float64 {
	fx, fy := float64(x), float64(y)
	s := float64(scale)
	switch m {
	case MaterialStone:
		return noise01(n, (fx+100)/(s*0.5), (fy+100)/(s*0.5))
	case MaterialDirt:
		return noise01(n, (fx+200)/(s*0.7), (fy+200)/(s*0.7))
	case MaterialWood:
		return noise01(n, fx/(s*0.5), (fy+300)/(s*3))
	case MaterialMetal:
		return noise01(n, (fx+400)/(s*2), (fy+400)/(s*2))
	case MaterialBrick:
		if isMortar(x, y) {
			return 0.1
		}
		return 0.9
	case MaterialSand:
		return noise01(n, (fx+500)/(s*0.3), (fy+500)/(s*0.3))
	}
	return 0
}

func isMortar(x, y int) bool {
	const (
		brickW = TextureSize / 3
		brickH = TextureSize / 2
		mortar = 1
	)
	offsetX := ((y / brickH) % 2) * (brickW / 2)
	brickX := (x + offsetX) % brickW
	brickY := y % brickH
	return brickX < mortar || brickY < mortar
}

// CombineNoise blends pattern and material intensities with fixed weights.
func CombineNoise(pattern, material float64) float64 {
	return pattern*patternWeight + material*materialWeight
}
