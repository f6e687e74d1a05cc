// Package mode switches the scene between its normal and disco states.
package mode

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// Mode is the running mode of the scene.
type Mode int

const (
	Normal Mode = iota
	Disco
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Disco:
		return "Disco"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Modes lists every mode in panel order.
func Modes() []Mode { return []Mode{Normal, Disco} }

// Parse reads a mode name, case-insensitively.
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "disco":
		return Disco, nil
	}
	return Normal, fmt.Errorf("unknown mode %q", s)
}

// Track is a playable sound.
type Track interface {
	Play()
	Pause()
	IsPlaying() bool
}

// Rigs toggles which light rig is in the scene.
type Rigs interface {
	ShowMainLight() bool
	HideMainLight() bool
	ShowDiscoRig() bool
	HideDiscoRig() bool
}

// Notifier shows a transient message.
type Notifier interface {
	Show(text string)
}

// Controller owns the current mode and performs transitions.
type Controller struct {
	current   Mode
	rigs      Rigs
	music     Track
	applause  Track
	musicName string
	notices   Notifier
	log       *zap.Logger
}

// Options wires a controller. Tracks and notices may be nil.
type Options struct {
	Rigs      Rigs
	Music     Track
	Applause  Track
	MusicName string
	Notices   Notifier
}

// NewController starts in Normal.
func NewController(opts Options) *Controller {
	return &Controller{
		current:   Normal,
		rigs:      opts.Rigs,
		music:     opts.Music,
		applause:  opts.Applause,
		musicName: opts.MusicName,
		notices:   opts.Notices,
		log:       logger.Named("mode"),
	}
}

// Current returns the active mode.
func (c *Controller) Current() Mode { return c.current }

// Switch moves to m. Switching to the current mode does nothing and returns false.
func (c *Controller) Switch(m Mode) bool {
	if m == c.current {
		return false
	}
	switch m {
	case Disco:
		play(c.music)
		play(c.applause)
		c.rigs.ShowDiscoRig()
		c.rigs.HideMainLight()
		c.notify("Playing music: " + c.musicName)
		c.notify("It's time for a Disco Party !")
	case Normal:
		pause(c.music)
		pause(c.applause)
		c.rigs.HideDiscoRig()
		c.rigs.ShowMainLight()
		c.notify("Music stopped")
		c.notify("Back to normal mode")
	default:
		c.log.Warn("ignoring unknown mode", zap.Stringer("mode", m))
		return false
	}
	c.log.Info("mode changed", zap.Stringer("from", c.current), zap.Stringer("to", m))
	c.current = m
	return true
}

func (c *Controller) notify(text string) {
	if c.notices != nil {
		c.notices.Show(text)
	}
}

func play(t Track) {
	if t != nil && !t.IsPlaying() {
		t.Play()
	}
}

func pause(t Track) {
	if t != nil && t.IsPlaying() {
		t.Pause()
	}
}
