package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/showroom/internal/engine/panel"
)

// PanelWidth is the width of the control window.
const PanelWidth = 300

// Panel is the cimgui-go control surface. Folders are recorded once by the
// binder and redrawn every frame.
type Panel struct {
	rec *panel.Recorder
}

// NewPanel returns an empty panel.
func NewPanel() *Panel {
	return &Panel{rec: panel.NewRecorder()}
}

// AddFolder implements panel.Surface.
func (p *Panel) AddFolder(name string, color uint32) panel.Folder {
	return p.rec.AddFolder(name, color)
}

// Draw renders the control window at the right edge of the viewport.
func (p *Panel) Draw() {
	x, y, w, h := Viewport()
	imgui.SetNextWindowPos(imgui.NewVec2(x+w-PanelWidth, y))
	imgui.SetNextWindowSize(imgui.NewVec2(PanelWidth, h))
	imgui.SetNextWindowBgAlpha(0.8)
	flags := imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove | imgui.WindowFlagsNoCollapse
	if imgui.BeginV("Controls", nil, flags) {
		for _, f := range p.rec.Folders {
			p.drawFolder(f)
		}
	}
	imgui.End()
}

func (p *Panel) drawFolder(f *panel.RecordedFolder) {
	imgui.PushStyleColorVec4(imgui.ColText, hexColor(f.Color))
	open := imgui.CollapsingHeaderTreeNodeFlagsV(f.Name, imgui.TreeNodeFlagsDefaultOpen)
	imgui.PopStyleColor()
	if !open {
		return
	}
	for _, c := range f.Controls {
		p.drawControl(c)
	}
}

func (p *Panel) drawControl(c *panel.RecordedControl) {
	imgui.SetNextItemWidth(PanelWidth / 2)
	switch c.Kind {
	case "float":
		v := c.Value.(float32)
		if imgui.SliderFloatV(c.Label, &v, c.Range.Min, c.Range.Max, "%.1f", imgui.SliderFlagsNone) {
			p.set(c.Label, v)
		}
	case "int":
		v := int32(c.Value.(int))
		if imgui.SliderIntV(c.Label, &v, int32(c.Range.Min), int32(c.Range.Max), "%d", imgui.SliderFlagsNone) {
			p.set(c.Label, int(v))
		}
	case "bool":
		v := c.Value.(bool)
		if imgui.Checkbox(c.Label, &v) {
			p.set(c.Label, v)
		}
	case "choice":
		cur := c.Value.(string)
		if imgui.BeginCombo(c.Label, cur) {
			for _, opt := range c.Options {
				if imgui.SelectableBoolV(opt, opt == cur, 0, imgui.NewVec2(0, 0)) && opt != cur {
					p.set(c.Label, opt)
				}
			}
			imgui.EndCombo()
		}
	case "action":
		if c.Active {
			imgui.PushStyleColorVec4(imgui.ColButton, imgui.NewVec4(0.2, 0.6, 0.3, 1))
		}
		clicked := imgui.ButtonV(c.Label, imgui.NewVec2(-1, 0))
		if c.Active {
			imgui.PopStyleColor()
		}
		if clicked {
			p.set(c.Label, nil)
		}
	}
}

func (p *Panel) set(label string, v any) {
	if err := p.rec.Set(label, v); err != nil {
		imgui.SetTooltip(fmt.Sprint(err))
	}
}
