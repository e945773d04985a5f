package blockbuilder

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"math/rand/v2"
)

type Options struct {
	// Seed for the noise permutation and the Voronoi seed points.
	// The same seed and parameters always produce the same block
	// (k-means palettes excepted).
	Seed uint64
	// Palette selection once the six faces hold more than 255 colors.
	// Frequency is deterministic; k-means trades determinism for smoother
	// gradients.
	PaletteMethod PaletteMethod
	// Concurrent pattern image loads per face.
	// Ideal start: 4. Loads are joined before compositing either way.
	OverlayWorkers int
	// Print progress lines through the logger.
	Verbose bool
}

func DefaultOptions() Options {
	return Options{
		Seed:           1,
		PaletteMethod:  PaletteMethodFrequency,
		OverlayWorkers: 4,
	}
}

// BlockModel holds everything one block is generated from. It is not safe
// for concurrent use.
type BlockModel struct {
	Params  GenerationParameters
	Options Options
	Noise   Noise2D
	// Per-face images that replace procedural generation.
	Overrides map[Face]image.Image
	// Per-face overlay stacks, index 0 topmost.
	Layers map[Face][]PatternLayer
	// Resolves PatternLayer.PatternID.
	Source ImageSource
	Logger *log.Logger

	voronoi *VoronoiSeeds
	formula *Formula
}

func NewBlockModel(params GenerationParameters, opt Options) (*BlockModel, error) {
	m := &BlockModel{
		Options:   opt,
		Noise:     NewSimplex(opt.Seed),
		Overrides: make(map[Face]image.Image),
		Layers:    make(map[Face][]PatternLayer),
		Logger:    log.Default(),
		voronoi:   NewVoronoiSeeds(rand.New(rand.NewPCG(opt.Seed, opt.Seed+1))),
	}
	if err := m.SetParams(params); err != nil {
		return nil, err
	}
	return m, nil
}

// SetParams validates and installs a new recipe. Voronoi seeds survive
// unless the math scale changes.
func (m *BlockModel) SetParams(p GenerationParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.Params = p
	m.formula = nil
	if p.usesFormulaColor() {
		m.formula = CompileFormula(p.Formula)
		if err := m.formula.Err(); err != nil {
			m.logger().Printf("formula warning: %v, pattern falls back to 0", err)
		}
	}
	return nil
}

func (m *BlockModel) SetOverride(face Face, img image.Image) {
	if img == nil {
		delete(m.Overrides, face)
		return
	}
	m.Overrides[face] = img
}

func (m *BlockModel) ClearOverrides() {
	clear(m.Overrides)
}

func (m *BlockModel) SetLayers(face Face, layers []PatternLayer) error {
	for _, l := range layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%s face: %w", face, err)
		}
	}
	m.Layers[face] = layers
	return nil
}

func (m *BlockModel) ClearLayers() {
	clear(m.Layers)
}

func (m *BlockModel) logger() *log.Logger {
	if m.Logger == nil {
		return log.Default()
	}
	return m.Logger
}

func (m *BlockModel) sampler() *Sampler {
	return &Sampler{Noise: m.Noise, Voronoi: m.voronoi, Formula: m.formula}
}

// GenerateFace paints one face and its overlays, without palette
// quantization.
func (m *BlockModel) GenerateFace(ctx context.Context, face Face) (*FaceBuffer, error) {
	fb := NewFaceBuffer(face)
	PaintFace(fb, m.Params, m.sampler(), m.Overrides[face])
	blender := &OverlayBlender{Source: m.Source, Workers: m.Options.OverlayWorkers, Logger: m.logger()}
	if err := blender.Apply(ctx, fb, m.Layers[face]); err != nil {
		return nil, fmt.Errorf("%s face overlays: %w", face, err)
	}
	return fb, nil
}

// Generate runs the whole pipeline: six faces, overlays, shared palette.
func (m *BlockModel) Generate(ctx context.Context) (*Block, error) {
	raw := make(map[Face]*FaceBuffer, FaceCount)
	for _, face := range Faces {
		fb, err := m.GenerateFace(ctx, face)
		if err != nil {
			return nil, err
		}
		raw[face] = fb
	}

	before := make([]*FaceBuffer, FaceCount)
	faces := make([]*FaceBuffer, FaceCount)
	for i, face := range VxbFaceOrder {
		before[i] = raw[face]
		faces[i] = raw[face].Clone()
	}

	palette, err := Quantize(faces, m.Options.PaletteMethod)
	if err != nil {
		return nil, err
	}
	report := MeasureError(before, faces, palette)
	if m.Options.Verbose {
		m.logger().Printf("   palette %s: %d colors -> %d (mean error %.3f, max %.3f)",
			m.Options.PaletteMethod, report.Colors, report.PaletteSize, report.MeanError, report.MaxError)
	}

	b := &Block{Params: m.Params, Palette: palette, Report: report}
	copy(b.Faces[:], faces)
	return b, nil
}

// Block is a generated, palette-quantized block.
type Block struct {
	Params GenerationParameters
	// In VxbFaceOrder.
	Faces   [FaceCount]*FaceBuffer
	Palette Palette
	Report  QuantizationReport
}

func (b *Block) Face(f Face) *FaceBuffer {
	for _, fb := range b.Faces {
		if fb != nil && fb.Face == f {
			return fb
		}
	}
	return nil
}

func (b *Block) MarshalVxb() ([]byte, error) {
	return MarshalVxb(b.Faces[:], b.Palette)
}

func (b *Block) WriteVxb(w io.Writer) error {
	return EncodeVxb(w, b.Faces[:], b.Palette)
}

func (b *Block) Atlas() *image.NRGBA {
	return Atlas(b.Faces[:])
}

// Filename returns "<prefix>_<material>.vxb". An empty prefix becomes "magic".
func (b *Block) Filename(prefix string) string {
	if prefix == "" {
		prefix = "magic"
	}
	return fmt.Sprintf("%s_%s.vxb", prefix, b.Params.Material)
}
