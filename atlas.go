package blockbuilder

import (
	"image"

	"golang.org/x/image/draw"
)

// AtlasCells maps each face to its cell (column, row) in the 3x2 atlas.
var AtlasCells = map[Face]image.Point{
	FaceBack:   {0, 0},
	FaceTop:    {1, 0},
	FaceBottom: {2, 0},
	FaceLeft:   {0, 1},
	FaceFront:  {1, 1},
	FaceRight:  {2, 1},
}

// Atlas lays the faces out on a 96x64 image for preview and debugging. It
// cannot be read back as a block.
func Atlas(faces []*FaceBuffer) *image.NRGBA {
	atlas := image.NewNRGBA(image.Rect(0, 0, TextureSize*3, TextureSize*2))
	for _, f := range faces {
		if f == nil || f.NRGBA == nil {
			continue
		}
		cell, ok := AtlasCells[f.Face]
		if !ok {
			continue
		}
		origin := cell.Mul(TextureSize)
		r := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(TextureSize, TextureSize))}
		draw.Draw(atlas, r, f.NRGBA, f.Rect.Min, draw.Src)
	}
	return atlas
}
