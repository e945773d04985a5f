package blockbuilder

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestPaintFace_OpaqueAndInRange(t *testing.T) {
	s := testSampler(1)
	for _, m := range Materials {
		p := DefaultParameters()
		p.Material = m
		fb := NewFaceBuffer(FaceTop)
		PaintFace(fb, p, s, nil)
		for y := range TextureSize {
			for x := range TextureSize {
				if a := fb.NRGBAAt(x, y).A; a != 255 {
					t.Fatalf("%s (%d,%d) alpha got=%d want 255", m, x, y, a)
				}
			}
		}
	}
}

func TestPaintFace_FlatRecipe(t *testing.T) {
	p := DefaultParameters()
	p.BaseColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	p.NoiseStrength = 0
	p.EdgeDarkness = 0
	p.Depth = 0
	p.Bevel = 0

	fb := NewFaceBuffer(FaceFront)
	PaintFace(fb, p, testSampler(1), nil)
	want := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := range TextureSize {
		for x := range TextureSize {
			if got := fb.NRGBAAt(x, y); got != want {
				t.Fatalf("(%d,%d) got=%v want %v", x, y, got, want)
			}
		}
	}
}

func TestPaintFace_FullEdgeDarknessBlackensBorder(t *testing.T) {
	p := DefaultParameters()
	p.EdgeDarkness = 1
	fb := NewFaceBuffer(FaceLeft)
	PaintFace(fb, p, testSampler(1), nil)
	if got := fb.NRGBAAt(0, 5); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Fatalf("border pixel got=%v want black", got)
	}
	if got := fb.NRGBAAt(16, 16); got.R == 0 {
		t.Fatalf("center pixel should not be black: %v", got)
	}
}

func TestPaintFace_Override(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	fb := NewFaceBuffer(FaceBack)
	PaintFace(fb, DefaultParameters(), testSampler(1), uniformImage(8, 8, red))
	for y := range TextureSize {
		for x := range TextureSize {
			got := fb.NRGBAAt(x, y)
			if got.R < 254 || got.G > 1 || got.B > 1 || got.A < 254 {
				t.Fatalf("(%d,%d) got=%v want %v", x, y, got, red)
			}
		}
	}
}

func TestEdgeFactor(t *testing.T) {
	if got := edgeFactor(16, 16, FaceFront); got != 1 {
		t.Fatalf("center got=%v want 1", got)
	}
	if got := edgeFactor(0, 16, FaceFront); got != 0 {
		t.Fatalf("border got=%v want 0", got)
	}
	// Top ramps over a wider band.
	if side, top := edgeFactor(4, 16, FaceFront), edgeFactor(4, 16, FaceTop); top >= side {
		t.Fatalf("top=%v side=%v, want top < side", top, side)
	}
}

func TestBevelAttenuation(t *testing.T) {
	if got := bevelAttenuation(0, 0, 0); got != 1 {
		t.Fatalf("no bevel got=%v want 1", got)
	}
	if got := bevelAttenuation(0, 10, 1); got != 0 {
		t.Fatalf("full bevel at border got=%v want 0", got)
	}
	if got := bevelAttenuation(16, 16, 1); got != 1 {
		t.Fatalf("full bevel at center got=%v want 1", got)
	}
}
