// Package panel binds the scene parameters to a control surface.
package panel

import (
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/mode"
	"github.com/Faultbox/showroom/internal/engine/params"
)

// Control is a widget created on a folder.
type Control interface {
	Name() string
	SetActive(bool)
}

// Folder groups controls. Callbacks run on the goroutine that owns the scene.
type Folder interface {
	Float(label string, value float32, r params.Range, step float32, onChange func(float32)) Control
	Int(label string, value, lo, hi int, onChange func(int)) Control
	Bool(label string, value bool, onChange func(bool)) Control
	Choice(label, value string, options []string, onChange func(string)) Control
	Action(label string, onClick func()) Control
}

// Surface creates folders.
type Surface interface {
	AddFolder(name string, color uint32) Folder
}

// Target is what the panel edits.
type Target interface {
	Params() params.Geometry
	SetParams(params.Geometry)
	SwitchMode(mode.Mode) bool
}

// Saver is a Target that can persist its settings. Failures are reported
// by the target itself.
type Saver interface {
	SaveSettings() error
}

// Folder names and accent colours.
const (
	FolderModes  = "Running Modes"
	FolderGlobal = "Global"
	FolderChair  = "Chair"
	FolderLight  = "Light"

	ColorModes  = 0xFFCF76
	ColorGlobal = 0xFF7676
	ColorChair  = 0x76C7FF
	ColorLight  = 0xDADADA
)

// Ranges exposed by the panel, narrower than the engine bounds.
var (
	PanelLegHeight = params.Range{Min: 115, Max: 400}
	PanelLight     = params.Range{Min: -500, Max: 500}
)

// Binder builds the panel and keeps the mode indicators current.
type Binder struct {
	target  Target
	catalog *material.Catalog
	modes   map[mode.Mode]Control
}

func NewBinder(target Target, catalog *material.Catalog) *Binder {
	return &Binder{target: target, catalog: catalog, modes: make(map[mode.Mode]Control)}
}

// update applies fn to a copy of the current parameters and hands it back.
func (b *Binder) update(fn func(*params.Geometry)) {
	g := b.target.Params()
	fn(&g)
	b.target.SetParams(g.Clamp())
}

// Build creates every folder on s.
func (b *Binder) Build(s Surface) {
	g := b.target.Params()

	modes := s.AddFolder(FolderModes, ColorModes)
	for _, m := range mode.Modes() {
		b.modes[m] = modes.Action(m.String(), func() { b.target.SwitchMode(m) })
	}
	modes.Bool("Debug", g.DebugHelpersVisible, func(v bool) {
		b.update(func(g *params.Geometry) { g.DebugHelpersVisible = v })
	})

	global := s.AddFolder(FolderGlobal, ColorGlobal)
	global.Bool("Pause Animation", g.AnimationPaused, func(v bool) {
		b.update(func(g *params.Geometry) { g.AnimationPaused = v })
	})
	global.Bool("Display Axes", g.AxesVisible, func(v bool) {
		b.update(func(g *params.Geometry) { g.AxesVisible = v })
	})
	global.Choice("Floor Texture", g.FloorMaterial, b.catalog.Names(material.Floors), func(v string) {
		b.update(func(g *params.Geometry) { g.FloorMaterial = v })
	})
	if sv, ok := b.target.(Saver); ok {
		global.Action("Save Settings", func() { _ = sv.SaveSettings() })
	}

	chair := s.AddFolder(FolderChair, ColorChair)
	chair.Choice("Chair Texture", g.ChairMaterial, b.catalog.Names(material.Leathers), func(v string) {
		b.update(func(g *params.Geometry) { g.ChairMaterial = v })
	})
	chair.Bool("Chairback Displayed", g.ChairBackVisible, func(v bool) {
		b.update(func(g *params.Geometry) { g.ChairBackVisible = v })
	})
	chair.Int("Legs Count", g.LegCount, int(params.LegCountRange.Min), int(params.LegCountRange.Max), func(v int) {
		b.update(func(g *params.Geometry) { g.LegCount = v })
	})
	chair.Float("Legs Radius", g.LegRadius, params.LegRadiusRange, 1, func(v float32) {
		b.update(func(g *params.Geometry) { g.LegRadius = params.LegRadiusRange.Clamp(v) })
	})
	chair.Float("Legs Height", g.LegHeight, PanelLegHeight, 1, func(v float32) {
		b.update(func(g *params.Geometry) { g.LegHeight = PanelLegHeight.Clamp(v) })
	})

	light := s.AddFolder(FolderLight, ColorLight)
	light.Float("X Position", g.LightX, PanelLight, 0, func(v float32) {
		b.update(func(g *params.Geometry) { g.LightX = PanelLight.Clamp(v) })
	})
	light.Float("Z Position", g.LightZ, PanelLight, 0, func(v float32) {
		b.update(func(g *params.Geometry) { g.LightZ = PanelLight.Clamp(v) })
	})
}

// RefreshModes marks the control of current active and the others inactive.
func (b *Binder) RefreshModes(current mode.Mode) {
	for m, c := range b.modes {
		c.SetActive(m == current)
	}
}
