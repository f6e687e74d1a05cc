// Package ui hosts the showroom in a cimgui-go window: the scene view, the
// parameter panel and the notice overlay.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// Backend owns the SDL window and the GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	log     *zap.Logger
}

// NewBackend opens the window. fontPath may be empty for the built-in font.
func NewBackend(title string, width, height int, fontPath string) (*Backend, error) {
	b := &Backend{log: logger.Named("ui")}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(func() {
		b.loadFont(fontPath)
	})
	b.backend.SetBgColor(imgui.NewVec4(0, 0, 0, 1))
	b.backend.CreateWindow(title, width, height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	return b, nil
}

func (b *Backend) loadFont(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		b.log.Warn("font not found, using default", zap.String("path", path))
		return
	}
	cfg := imgui.NewFontConfig()
	defer cfg.Destroy()
	if imgui.CurrentIO().Fonts().AddFontFromFileTTFV(path, 16, cfg, nil) == nil {
		b.log.Warn("font failed to load", zap.String("path", path))
	}
}

// Run drives fn once per frame until the window closes.
func (b *Backend) Run(fn func()) {
	b.backend.Run(fn)
}

// Viewport returns the main viewport work area.
func Viewport() (x, y, w, h float32) {
	vp := imgui.MainViewport()
	pos, size := vp.WorkPos(), vp.WorkSize()
	return pos.X, pos.Y, size.X, size.Y
}

// hexColor converts 0xRRGGBB to an opaque imgui colour.
func hexColor(c uint32) imgui.Vec4 {
	return imgui.NewVec4(float32(c>>16&0xff)/255, float32(c>>8&0xff)/255, float32(c&0xff)/255, 1)
}
