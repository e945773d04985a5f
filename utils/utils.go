package utils

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	bb "github.com/setanarut/blockbuilder"
)

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

func luminance(c color.NRGBA) float64 {
	r, g, b := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortPaletteByBrightness orders colors from darkest to brightest. Only use
// it on a palette before faces are quantized against it, or on a copy.
func SortPaletteByBrightness(palette bb.Palette) {
	slices.SortStableFunc(palette, func(a, b color.NRGBA) int {
		ya, yb := luminance(a), luminance(b)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

// DominantColors returns up to k well separated dominant colors of img,
// strongest first.
func DominantColors(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	return selectDiverse(weighted, k)
}

// KMeansColors clusters the opaque pixels of img into k representative
// colors, most populated first.
func KMeansColors(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	if k <= 0 || b.Empty() {
		return nil
	}
	var dataset clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}
	cc, err := kmeans.New().Partition(dataset, min(k+2, len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse seeds with the heaviest color and then greedily adds the
// candidate farthest in Lab from everything picked, scaled by its weight.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))
	maxW := 0.0
	seed := 0
	for i, c := range cands {
		if c.Weight > maxW {
			maxW = c.Weight
			seed = i
		}
	}
	picked := []int{seed}
	used := make([]bool, len(cands))
	used[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, p := range picked {
				nearest = min(nearest, c.Col.DistanceLab(cands[p].Col))
			}
			score := nearest * (0.55 + 0.45*math.Sqrt(c.Weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, 0, len(picked))
	for _, i := range picked {
		out = append(out, cands[i].Col)
	}
	return out
}

// ParamsFromImage takes the base and accent colors of a recipe from the two
// most dominant colors of a reference image. The darker one becomes the
// accent. With fewer than two colors found, base is returned unchanged.
func ParamsFromImage(img image.Image, base bb.GenerationParameters, method bb.PaletteMethod) bb.GenerationParameters {
	var cols []colorful.Color
	if method == bb.PaletteMethodKMeans {
		cols = KMeansColors(img, 2)
		if len(cols) < 2 {
			log.Println("palette warning: kmeans found too few colors, falling back to dominantcolor")
		}
	}
	if len(cols) < 2 {
		cols = DominantColors(img, 2)
	}
	if len(cols) < 2 {
		return base
	}
	a, b := toNRGBA(cols[0]), toNRGBA(cols[1])
	if luminance(b) > luminance(a) {
		a, b = b, a
	}
	base.BaseColor = a
	base.AccentColor = b
	return base
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SavePalette writes the palette as a row of tileSize swatches.
func SavePalette(palette bb.Palette, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 16
	}
	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		for y := range tileSize {
			for x := i * tileSize; x < (i+1)*tileSize; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return SaveImage(img, filename)
}

// SaveFaces writes one PNG per face as <dir>/<prefix>_<face>.png.
func SaveFaces(block *bb.Block, dir, prefix string) error {
	for _, f := range block.Faces {
		if f == nil {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, f.Face))
		if err := SaveImage(f.NRGBA, name); err != nil {
			return err
		}
	}
	return nil
}

// SaveVxb writes the block to dir under block.Filename(prefix) and returns
// the path.
func SaveVxb(block *bb.Block, dir, prefix string) (string, error) {
	data, err := block.MarshalVxb()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, block.Filename(prefix))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
