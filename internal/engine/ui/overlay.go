package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/showroom/internal/engine/notice"
)

// DrawNotices shows the active notices stacked in the top-left corner.
func DrawNotices(b *notice.Board) {
	active := b.Active()
	if len(active) == 0 {
		return
	}
	x, y, _, _ := Viewport()
	imgui.SetNextWindowPos(imgui.NewVec2(x+10, y+10))
	imgui.SetNextWindowBgAlpha(0.85)
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoInputs | imgui.WindowFlagsNoFocusOnAppearing |
		imgui.WindowFlagsNoSavedSettings
	if imgui.BeginV("##Notices", nil, flags) {
		for _, n := range active {
			imgui.TextColored(imgui.NewVec4(1, 0.85, 0.4, 1), n.Text)
		}
	}
	imgui.End()
}
