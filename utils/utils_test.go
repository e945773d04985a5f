package utils

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	bb "github.com/setanarut/blockbuilder"
)

func TestSortPaletteByBrightness(t *testing.T) {
	p := bb.Palette{
		{R: 255, G: 255, B: 255, A: 255},
		{A: 255},
		{R: 128, G: 128, B: 128, A: 255},
	}
	SortPaletteByBrightness(p)
	if p[0] != (color.NRGBA{A: 255}) || p[2] != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("got=%v", p)
	}
}

func TestParamsFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			c := color.NRGBA{R: 230, G: 220, B: 40, A: 255}
			if x >= 32 {
				c = color.NRGBA{R: 20, G: 30, B: 120, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	base := bb.DefaultParameters()
	got := ParamsFromImage(img, base, bb.PaletteMethodFrequency)
	if err := got.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.BaseColor != base.BaseColor && luminance(got.BaseColor) < luminance(got.AccentColor) {
		t.Fatalf("accent brighter than base: %v %v", got.BaseColor, got.AccentColor)
	}
	if got.Material != base.Material || got.NoiseScale != base.NoiseScale {
		t.Fatalf("non-color fields changed: %+v", got)
	}
}

func TestSaveBlock(t *testing.T) {
	m, err := bb.NewBlockModel(bb.DefaultParameters(), bb.DefaultOptions())
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	b, err := m.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	dir := t.TempDir()
	path, err := SaveVxb(b, dir, "")
	if err != nil {
		t.Fatalf("save vxb: %v", err)
	}
	if filepath.Base(path) != "magic_stone.vxb" {
		t.Fatalf("path got=%s", path)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if int(st.Size()) != bb.VxbSize(len(b.Palette)) {
		t.Fatalf("size got=%d want %d", st.Size(), bb.VxbSize(len(b.Palette)))
	}

	if err := SaveFaces(b, dir, "stone"); err != nil {
		t.Fatalf("save faces: %v", err)
	}
	top, err := ReadImage(filepath.Join(dir, "stone_top.png"))
	if err != nil {
		t.Fatalf("read face: %v", err)
	}
	if top.Bounds().Dx() != bb.TextureSize {
		t.Fatalf("face width got=%d", top.Bounds().Dx())
	}

	swatch := filepath.Join(dir, "palette.png")
	if err := SavePalette(b.Palette, 4, swatch); err != nil {
		t.Fatalf("save palette: %v", err)
	}
	sw, err := ReadImage(swatch)
	if err != nil {
		t.Fatalf("read palette: %v", err)
	}
	if sw.Bounds().Dx() != 4*len(b.Palette) {
		t.Fatalf("swatch width got=%d", sw.Bounds().Dx())
	}
	if err := SavePalette(nil, 4, swatch); err == nil {
		t.Fatalf("expected empty palette error")
	}
}

func TestReadImage_Missing(t *testing.T) {
	if _, err := ReadImage(filepath.Join(t.TempDir(), "none.png")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadImage_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	got, err := ReadImage(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Bounds().Dx() != 16 || got.Bounds().Dy() != 8 {
		t.Fatalf("bounds got=%v", got.Bounds())
	}
}
