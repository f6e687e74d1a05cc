// Package material defines the closed catalog of surface materials.
package material

import (
	"fmt"
	"sort"
)

// Category is one of the fixed material families.
type Category int

const (
	Floors Category = iota
	Metals
	Woods
	Colours
	Leathers
	Others
)

var categoryNames = [...]string{"Floors", "Metals", "Woods", "Colours", "Leathers", "Others"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{Floors, Metals, Woods, Colours, Leathers, Others}
}

// Shading selects the lighting model a material is drawn with.
type Shading int

const (
	Standard Shading = iota
	Phong
)

// Key identifies a material in the catalog.
type Key struct {
	Category Category
	Name     string
}

func (k Key) String() string {
	return k.Category.String() + "/" + k.Name
}

// Material describes how a surface is shaded. Values are immutable;
// per-frame changes such as emissive go through the scene node.
type Material struct {
	Key       Key
	Shading   Shading
	Texture   string     // path relative to the textures directory, empty for flat colour
	Repeat    [2]float32 // texture repeat, zero means 1x1
	Color     [3]float32
	Roughness float32
	Metalness float32
	Shininess float32
	Flat      bool
}

// Catalog maps keys to materials. It is read-only after construction.
type Catalog struct {
	items map[Key]Material
	order map[Category][]string
}

// NewCatalog builds a catalog from a material list. Later duplicates win.
func NewCatalog(ms ...Material) *Catalog {
	c := &Catalog{
		items: make(map[Key]Material, len(ms)),
		order: make(map[Category][]string),
	}
	for _, m := range ms {
		if _, dup := c.items[m.Key]; !dup {
			c.order[m.Key.Category] = append(c.order[m.Key.Category], m.Key.Name)
		}
		c.items[m.Key] = m
	}
	return c
}

// Lookup returns the material for key.
func (c *Catalog) Lookup(key Key) (Material, bool) {
	m, ok := c.items[key]
	return m, ok
}

// Find looks a display name up within one category.
func (c *Catalog) Find(cat Category, name string) (Material, bool) {
	return c.Lookup(Key{cat, name})
}

// Names returns a category's display names in insertion order.
func (c *Catalog) Names(cat Category) []string {
	return append([]string(nil), c.order[cat]...)
}

// Textures returns every distinct texture path, sorted.
func (c *Catalog) Textures() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range c.items {
		if m.Texture != "" && !seen[m.Texture] {
			seen[m.Texture] = true
			out = append(out, m.Texture)
		}
	}
	sort.Strings(out)
	return out
}

// Well-known keys referenced by the part builder.
var (
	Metal  = Key{Metals, "Metal"}
	Mirror = Key{Others, "Mirror"}
	Cable  = Key{Others, "Cable"}
)

func textured(cat Category, name, tex string) Material {
	return Material{Key: Key{cat, name}, Texture: tex, Color: [3]float32{1, 1, 1}, Roughness: 1}
}

// Default returns the stock showroom catalog.
func Default() *Catalog {
	planks := textured(Floors, "Planks", "planks.jpg")
	planks.Repeat = [2]float32{4, 2.5}
	shining := textured(Floors, "The Shining Floor", "theshining_floor.jpg")
	shining.Repeat = [2]float32{5, 3.5}

	mirror := textured(Others, "Mirror", "disco.jpg")
	mirror.Shading = Phong
	mirror.Flat = true
	mirror.Shininess = 1

	cable := textured(Others, "Cable", "cable.jpg")
	cable.Shading = Phong
	cable.Shininess = 30

	return NewCatalog(
		planks,
		shining,
		textured(Floors, "Marble", "marble.jpg"),
		textured(Floors, "Black Marble", "black_marble.jpg"),
		textured(Metals, "Metal", "metal.jpg"),
		textured(Woods, "Dark Straight", "wood1.jpg"),
		Material{Key: Key{Colours, "White"}, Color: [3]float32{0xdd / 255.0, 0xdd / 255.0, 0xdd / 255.0}},
		textured(Leathers, "Black Leather", "black_leather.jpg"),
		textured(Leathers, "Pink Leather", "pink_leather.jpg"),
		mirror,
		cable,
	)
}
