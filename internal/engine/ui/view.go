package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/showroom/internal/engine/camera"
)

// Frame is the rendered scene shown behind the panel.
type Frame interface {
	Texture() uint32
	Size() (int32, int32)
	Resize(width, height int32)
}

// SceneView draws the last frame full screen and feeds mouse and keyboard
// input to the orbit camera.
type SceneView struct {
	frame  Frame
	camera *camera.OrbitCamera
	// OnScreenshot runs when F12 is pressed.
	OnScreenshot func()

	last imgui.Vec2
}

// NewSceneView binds a frame to a camera.
func NewSceneView(frame Frame, cam *camera.OrbitCamera) *SceneView {
	return &SceneView{frame: frame, camera: cam}
}

var panKeys = map[imgui.Key]camera.Key{
	imgui.KeyUpArrow:    camera.KeyUp,
	imgui.KeyDownArrow:  camera.KeyDown,
	imgui.KeyLeftArrow:  camera.KeyLeft,
	imgui.KeyRightArrow: camera.KeyRight,
}

// Draw shows the frame and handles input over it.
func (v *SceneView) Draw() {
	x, y, w, h := Viewport()
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse |
		imgui.WindowFlagsNoBringToFrontOnFocus | imgui.WindowFlagsNoSavedSettings
	if imgui.BeginV("##Scene", nil, flags) {
		avail := imgui.ContentRegionAvail()
		if avail.X >= 1 && avail.Y >= 1 {
			v.frame.Resize(int32(avail.X), int32(avail.Y))
		}

		// GL textures are bottom-up.
		tex := imgui.NewTextureRefTextureID(imgui.TextureID(v.frame.Texture()))
		imgui.ImageWithBgV(*tex, avail,
			imgui.NewVec2(0, 1), imgui.NewVec2(1, 0),
			imgui.NewVec4(0, 0, 0, 1), imgui.NewVec4(1, 1, 1, 1))

		if imgui.IsItemHovered() {
			v.handleMouse(avail.Y)
		}
	}
	imgui.End()

	if !imgui.IsAnyItemActive() {
		v.handleKeys()
	}
}

func (v *SceneView) handleMouse(height float32) {
	pos := imgui.MousePos()
	dx, dy := pos.X-v.last.X, pos.Y-v.last.Y
	v.last = pos

	switch {
	case imgui.IsMouseDragging(imgui.MouseButtonLeft):
		v.camera.HandleDrag(dx, dy, height)
	case imgui.IsMouseDragging(imgui.MouseButtonRight), imgui.IsMouseDragging(imgui.MouseButtonMiddle):
		v.camera.HandlePan(dx, dy, height)
	}
	if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
		v.camera.HandleZoom(wheel)
	}
}

func (v *SceneView) handleKeys() {
	_, h := v.frame.Size()
	for key, dir := range panKeys {
		if imgui.IsKeyChordPressed(imgui.KeyChord(key)) {
			v.camera.HandleKey(dir, float32(h))
		}
	}
	if v.OnScreenshot != nil && imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		v.OnScreenshot()
	}
}
