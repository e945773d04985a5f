package blockbuilder

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// ImageSource resolves pattern ids to images.
type ImageSource interface {
	Pattern(ctx context.Context, id string) (image.Image, error)
}

// PatternLayer is one decorative overlay. Index 0 of a layer stack is the
// topmost layer; stacks are composited from the last element to the first.
type PatternLayer struct {
	PatternID string
	Opacity   float64
	// Empty means BlendNormal.
	BlendMode BlendMode
	// Black disables the tint.
	Tint color.NRGBA
}

func (l PatternLayer) Validate() error {
	if l.PatternID == "" {
		return fmt.Errorf("pattern layer: empty pattern id")
	}
	if math.IsNaN(l.Opacity) || l.Opacity < 0 || l.Opacity > 1 {
		return fmt.Errorf("pattern layer %s: opacity must be within [0,1], got %v", l.PatternID, l.Opacity)
	}
	if l.BlendMode == "" {
		return nil
	}
	if _, err := ParseBlendMode(string(l.BlendMode)); err != nil {
		return fmt.Errorf("pattern layer %s: %w", l.PatternID, err)
	}
	return nil
}

func (l PatternLayer) hasTint() bool {
	return l.Tint.R != 0 || l.Tint.G != 0 || l.Tint.B != 0
}

// OverlayBlender composites pattern layer stacks onto faces.
type OverlayBlender struct {
	Source ImageSource
	// Concurrent image loads.
	Workers int
	Logger  *log.Logger
}

type loadedLayer struct {
	img image.Image
	err error
}

// Apply loads every layer image, then composites the stack bottom to top.
// Layers whose image cannot be loaded are skipped with a warning. Only
// context cancellation is returned as an error.
func (ob *OverlayBlender) Apply(ctx context.Context, face *FaceBuffer, layers []PatternLayer) error {
	if len(layers) == 0 {
		return nil
	}
	loaded := ob.load(ctx, layers)
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := ob.Logger
	if logger == nil {
		logger = log.Default()
	}

	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if loaded[i].err != nil || loaded[i].img == nil {
			logger.Printf("overlay warning: %s face, layer %d (%s) skipped: %v", face.Face, i, layer.PatternID, loaded[i].err)
			continue
		}
		compositeLayer(face, loaded[i].img, layer)
	}
	return nil
}

func (ob *OverlayBlender) load(ctx context.Context, layers []PatternLayer) []loadedLayer {
	out := make([]loadedLayer, len(layers))
	if ob.Source == nil {
		for i := range out {
			out[i].err = fmt.Errorf("no pattern image source")
		}
		return out
	}

	workers := ob.Workers
	if workers <= 0 {
		workers = 4
	}
	pool := pond.NewPool(min(workers, len(layers)))
	defer pool.StopAndWait()

	var wg sync.WaitGroup
	for i, layer := range layers {
		wg.Add(1)
		out[i].err = fmt.Errorf("pattern %s: load did not finish", layer.PatternID)
		pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					out[i] = loadedLayer{err: fmt.Errorf("pattern %s: source panicked: %v", layer.PatternID, r)}
				}
			}()
			img, err := ob.Source.Pattern(ctx, layer.PatternID)
			if err == nil && img == nil {
				err = fmt.Errorf("pattern %s: no image", layer.PatternID)
			}
			out[i] = loadedLayer{img: img, err: err}
		})
	}
	wg.Wait()
	return out
}

func compositeLayer(face *FaceBuffer, img image.Image, layer PatternLayer) {
	scaled := image.NewNRGBA(face.Rect)
	draw.BiLinear.Scale(scaled, scaled.Rect, img, img.Bounds(), draw.Src, nil)

	mode := layer.BlendMode
	if mode == "" {
		mode = BlendNormal
	}
	var tint colorful.Color
	if layer.hasTint() {
		tint = toColorful(layer.Tint)
	}

	b := face.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := mode.Blend(face.NRGBAAt(x, y), scaled.NRGBAAt(x, y), layer.Opacity)
			if layer.hasTint() {
				c = tintAtop(c, tint)
			}
			face.SetNRGBA(x, y, c)
		}
	}
}
