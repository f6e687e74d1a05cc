// Package main is the entry point for the chair showroom.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/audio"
	"github.com/Faultbox/showroom/internal/engine/debug"
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/render"
	"github.com/Faultbox/showroom/internal/engine/ui"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/showroom"
)

func init() {
	// GL and SDL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Chair Showroom ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("showroom error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("showroom closed normally")
}

func run(cfg *config.Config) error {
	backend, err := ui.NewBackend("Chair Showroom", cfg.Graphics.Width, cfg.Graphics.Height, "")
	if err != nil {
		return err
	}

	sound := audio.New()
	if err := sound.Init(); err != nil {
		logger.Warn("audio unavailable, continuing silently", zap.Error(err))
	}

	catalog := material.Default()
	surface, err := render.New(render.Options{
		Width:         int32(cfg.Graphics.Width),
		Height:        int32(cfg.Graphics.Height),
		Catalog:       catalog,
		TextureDir:    cfg.AssetPath("textures"),
		ShadowMapSize: int32(cfg.Graphics.ShadowMapSize),
	})
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer surface.Close()

	engine, err := showroom.New(showroom.Options{
		Config:   cfg,
		Renderer: surface,
		Audio:    sound,
		Catalog:  catalog,
		Textures: surface.AddTexture,
	})
	if err != nil {
		return fmt.Errorf("create showroom: %w", err)
	}
	defer engine.Close()

	controls := ui.NewPanel()
	if err := engine.Start(controls); err != nil {
		return err
	}

	shots := debug.NewScreenshots(config.ConfigDir(), "showroom")
	view := ui.NewSceneView(surface, engine.Camera())
	view.OnScreenshot = func() {
		pixels, w, h := surface.ReadPixels()
		path, err := shots.Save(pixels, w, h)
		if err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
			return
		}
		engine.Notices().Show("Screenshot saved: " + path)
	}

	backend.Run(func() {
		engine.Tick(time.Now())
		view.Draw()
		controls.Draw()
		ui.DrawNotices(engine.Notices())
	})
	return nil
}
