package material

import (
	"reflect"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	tests := []struct {
		cat  Category
		want []string
	}{
		{Floors, []string{"Planks", "The Shining Floor", "Marble", "Black Marble"}},
		{Metals, []string{"Metal"}},
		{Woods, []string{"Dark Straight"}},
		{Colours, []string{"White"}},
		{Leathers, []string{"Black Leather", "Pink Leather"}},
		{Others, []string{"Mirror", "Cable"}},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			if got := c.Names(tt.cat); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names(%s) = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	c := Default()
	m, ok := c.Lookup(Mirror)
	if !ok {
		t.Fatal("Mirror missing")
	}
	if m.Shading != Phong || !m.Flat {
		t.Errorf("Mirror shading = %v flat=%v, want Phong flat", m.Shading, m.Flat)
	}
	if _, ok := c.Find(Leathers, "Planks"); ok {
		t.Error("Planks must not resolve under Leathers")
	}
	if p, _ := c.Find(Floors, "Planks"); p.Repeat != [2]float32{4, 2.5} {
		t.Errorf("Planks repeat = %v", p.Repeat)
	}
}

func TestNamesIsACopy(t *testing.T) {
	c := Default()
	names := c.Names(Floors)
	names[0] = "changed"
	if c.Names(Floors)[0] != "Planks" {
		t.Error("Names must return a copy")
	}
}

func TestCategoryString(t *testing.T) {
	if Others.String() != "Others" {
		t.Errorf("Others.String() = %s", Others.String())
	}
	if Category(42).String() != "Category(42)" {
		t.Errorf("unknown category string = %s", Category(42).String())
	}
	if len(Categories()) != 6 {
		t.Errorf("Categories() len = %d, want 6", len(Categories()))
	}
}

func TestTextures(t *testing.T) {
	tex := Default().Textures()
	if len(tex) != 10 {
		t.Errorf("Textures() len = %d, want 10: %v", len(tex), tex)
	}
}
