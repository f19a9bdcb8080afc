// Package catalog holds the static product data: clothing templates, the size
// chart and the color palettes. A Catalog is immutable once built and can be
// shared by every request goroutine.
package catalog

import (
	"strings"

	"github.com/google/btree"
)

const DefaultSize = "M"

type Template struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Prompt      string  `json:"prompt"`
	BasePrice   float64 `json:"base_price"`
}

type SizeEntry struct {
	Code       string  `json:"size"`
	Chest      float64 `json:"chest"`
	Waist      float64 `json:"waist"`
	Hips       float64 `json:"hips"`
	Adjustment float64 `json:"adjustment"`
}

var defaultTemplates = []Template{
	{ID: "casual-shirt", Name: "قميص كاجوال", Type: "shirt", Description: "قميص كاجوال بسيط وأنيق", Prompt: "casual button-up shirt, comfortable fit, modern design", BasePrice: 150},
	{ID: "formal-shirt", Name: "قميص رسمي", Type: "shirt", Description: "قميص رسمي للمناسبات", Prompt: "formal dress shirt, elegant, professional look", BasePrice: 200},
	{ID: "hoodie", Name: "هودي عصري", Type: "hoodie", Description: "هودي مريح وعصري", Prompt: "modern hoodie, comfortable, streetwear style", BasePrice: 250},
	{ID: "tshirt", Name: "تيشيرت بسيط", Type: "tshirt", Description: "تيشيرت قطني بسيط", Prompt: "simple cotton t-shirt, basic design, comfortable", BasePrice: 100},
	{ID: "dress", Name: "فستان أنيق", Type: "dress", Description: "فستان أنيق للمناسبات", Prompt: "elegant dress, modern design, sophisticated", BasePrice: 350},
	{ID: "jacket", Name: "جاكيت رياضي", Type: "jacket", Description: "جاكيت رياضي مريح", Prompt: "sporty jacket, comfortable, modern athletic wear", BasePrice: 300},
}

var defaultSizes = []SizeEntry{
	{Code: "XS", Chest: 85, Waist: 70, Hips: 90, Adjustment: 0},
	{Code: "S", Chest: 90, Waist: 75, Hips: 95, Adjustment: 0},
	{Code: "M", Chest: 95, Waist: 80, Hips: 100, Adjustment: 10},
	{Code: "L", Chest: 100, Waist: 85, Hips: 105, Adjustment: 20},
	{Code: "XL", Chest: 105, Waist: 90, Hips: 110, Adjustment: 30},
	{Code: "XXL", Chest: 110, Waist: 95, Hips: 115, Adjustment: 40},
}

var defaultPalettes = map[string][]string{
	"classic": {"#000000", "#FFFFFF", "#1a1a1a", "#f5f5f5", "#2c3e50"},
	"warm":    {"#e74c3c", "#e67e22", "#f39c12", "#d35400", "#c0392b"},
	"cool":    {"#3498db", "#2980b9", "#1abc9c", "#16a085", "#2c3e50"},
	"earth":   {"#8b7355", "#a0826d", "#6d4c41", "#8d6e63", "#5d4037"},
	"pastel":  {"#fad0c4", "#a8d8ea", "#aa96da", "#fcbad3", "#d4f1f4"},
	"vibrant": {"#9b59b6", "#e74c3c", "#f39c12", "#1abc9c", "#3498db"},
}

// chestItem orders size entries by chest measurement, ties broken by chart position.
type chestItem struct {
	chest float64
	pos   int
	code  string
}

func (a chestItem) Less(b btree.Item) bool {
	o := b.(chestItem)
	if a.chest != o.chest {
		return a.chest < o.chest
	}
	return a.pos < o.pos
}

type Catalog struct {
	templates []Template
	byID      map[string]Template
	sizes     []SizeEntry
	bySize    map[string]SizeEntry
	byChest   *btree.BTree
	palettes  map[string][]string
}

// Default returns the catalog the storefront ships with.
func Default() *Catalog {
	return New(defaultTemplates, defaultSizes, defaultPalettes)
}

// New builds a catalog. The first template is the fallback template.
func New(templates []Template, sizes []SizeEntry, palettes map[string][]string) *Catalog {
	c := &Catalog{
		templates: append([]Template(nil), templates...),
		byID:      make(map[string]Template, len(templates)),
		sizes:     append([]SizeEntry(nil), sizes...),
		bySize:    make(map[string]SizeEntry, len(sizes)),
		byChest:   btree.New(2),
		palettes:  make(map[string][]string, len(palettes)),
	}
	for _, t := range c.templates {
		c.byID[t.ID] = t
	}
	for i, s := range c.sizes {
		c.bySize[strings.ToUpper(s.Code)] = s
		c.byChest.ReplaceOrInsert(chestItem{chest: s.Chest, pos: i, code: s.Code})
	}
	for name, colors := range palettes {
		c.palettes[name] = append([]string(nil), colors...)
	}
	return c
}

func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

func (c *Catalog) Template(id string) (Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// DefaultTemplate is the first template of the catalog.
func (c *Catalog) DefaultTemplate() Template {
	if len(c.templates) == 0 {
		return Template{}
	}
	return c.templates[0]
}

// TemplateOrDefault resolves id, falling back to the default template.
func (c *Catalog) TemplateOrDefault(id string) Template {
	if t, ok := c.byID[id]; ok {
		return t
	}
	return c.DefaultTemplate()
}

// TemplateByType returns the first template of the given clothing type, or the default template.
func (c *Catalog) TemplateByType(clothingType string) Template {
	for _, t := range c.templates {
		if t.Type == clothingType {
			return t
		}
	}
	return c.DefaultTemplate()
}

func (c *Catalog) Sizes() []SizeEntry {
	return append([]SizeEntry(nil), c.sizes...)
}

func (c *Catalog) Size(code string) (SizeEntry, bool) {
	s, ok := c.bySize[strings.ToUpper(strings.TrimSpace(code))]
	return s, ok
}

// SizeAdjustment is the surcharge of a size, 0 for codes not in the chart.
func (c *Catalog) SizeAdjustment(code string) float64 {
	s, _ := c.Size(code)
	return s.Adjustment
}

// SuggestSize picks the size whose chest measurement is nearest to chest.
// On a tie the smaller size wins. A non-positive chest yields DefaultSize.
func (c *Catalog) SuggestSize(chest float64) string {
	if chest <= 0 || c.byChest.Len() == 0 {
		return DefaultSize
	}

	pivot := chestItem{chest: chest, pos: len(c.sizes)}
	var below, above *chestItem
	c.byChest.DescendLessOrEqual(pivot, func(it btree.Item) bool {
		p := it.(chestItem)
		below = &p
		return false
	})
	c.byChest.AscendGreaterOrEqual(pivot, func(it btree.Item) bool {
		n := it.(chestItem)
		above = &n
		return false
	})

	switch {
	case below == nil:
		return above.code
	case above == nil:
		return below.code
	case chest-below.chest <= above.chest-chest:
		return below.code
	default:
		return above.code
	}
}

func (c *Catalog) ColorPalettes() map[string][]string {
	out := make(map[string][]string, len(c.palettes))
	for name, colors := range c.palettes {
		out[name] = append([]string(nil), colors...)
	}
	return out
}
