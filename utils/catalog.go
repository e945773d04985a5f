package utils

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed catalog.schema.json
var catalogSchemaText string

var catalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchemaText)

// Pattern describes one overlay image of the catalog.
type Pattern struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Category              string   `json:"category"`
	Tags                  []string `json:"tags"`
	Src                   string   `json:"src"`
	ThumbnailSrc          string   `json:"thumbnailSrc,omitempty"`
	Tileable              bool     `json:"tileable"`
	DefaultColor          string   `json:"defaultColor"`
	RecommendedBlendModes []string `json:"recommendedBlendModes"`
}

type Catalog struct {
	Version     string    `json:"version"`
	PatternSize int       `json:"patternSize"`
	Patterns    []Pattern `json:"patterns"`

	byID map[string]int
}

// ParseCatalog validates data against the catalog schema and decodes it.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if err := catalogSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c.byID = make(map[string]int, len(c.Patterns))
	for i, p := range c.Patterns {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate pattern id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	return &c, nil
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func (c *Catalog) ByID(id string) (Pattern, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Pattern{}, false
	}
	return c.Patterns[i], true
}

func (c *Catalog) ByCategory(category string) []Pattern {
	var out []Pattern
	for _, p := range c.Patterns {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SearchTags returns patterns carrying any of tags.
func (c *Catalog) SearchTags(tags ...string) []Pattern {
	var out []Pattern
	for _, p := range c.Patterns {
		if slices.ContainsFunc(tags, func(t string) bool { return slices.Contains(p.Tags, t) }) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists categories in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	for _, p := range c.Patterns {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

func (c *Catalog) AllTags() []string {
	var out []string
	for _, p := range c.Patterns {
		out = append(out, p.Tags...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// RandomPatterns returns up to n distinct patterns.
func (c *Catalog) RandomPatterns(r *rand.Rand, n int) []Pattern {
	out := slices.Clone(c.Patterns)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:min(n, len(out))]
}

// DirSource loads catalog patterns from image files under Root.
type DirSource struct {
	Root    string
	Catalog *Catalog
}

func (d *DirSource) Pattern(ctx context.Context, id string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := d.Catalog.ByID(id)
	if !ok {
		return nil, fmt.Errorf("pattern %q not in catalog", id)
	}
	return ReadImage(filepath.Join(d.Root, filepath.FromSlash(p.Src)))
}
