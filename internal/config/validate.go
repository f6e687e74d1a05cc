package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidGraphics is returned for a non-positive window size.
	ErrInvalidGraphics = errors.New("config: invalid graphics settings")
	// ErrInvalidAudio is returned for volumes outside [0,1].
	ErrInvalidAudio = errors.New("config: invalid audio settings")
	// ErrInvalidDisco is returned for an unusable disco rig.
	ErrInvalidDisco = errors.New("config: invalid disco settings")
	// ErrInvalidCamera is returned for a degenerate projection.
	ErrInvalidCamera = errors.New("config: invalid camera settings")
	// ErrInvalidModel is returned for an incomplete model declaration.
	ErrInvalidModel = errors.New("config: invalid model declaration")
)

// Validate reports settings that cannot be clamped into a usable scene.
// Chair parameters are not checked here; the engine clamps them.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window %dx%d", ErrInvalidGraphics, c.Graphics.Width, c.Graphics.Height))
	}

	for name, v := range map[string]float64{"music_volume": c.Audio.MusicVolume, "applause_volume": c.Audio.ApplauseVolume} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: %s %.2f", ErrInvalidAudio, name, v))
		}
	}

	switch strings.ToLower(c.Disco.StartMode) {
	case "", "normal", "disco":
	default:
		errs = append(errs, fmt.Errorf("%w: start_mode %q", ErrInvalidDisco, c.Disco.StartMode))
	}
	if c.Disco.LightsCount < 0 {
		errs = append(errs, fmt.Errorf("%w: lights_count %d", ErrInvalidDisco, c.Disco.LightsCount))
	}
	if len(c.Disco.Palette) == 0 {
		errs = append(errs, fmt.Errorf("%w: empty palette", ErrInvalidDisco))
	}
	for _, hex := range c.Disco.Palette {
		if _, err := ParseColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidDisco, err))
		}
	}
	if c.Disco.MinMoveTime > c.Disco.MaxMoveTime {
		errs = append(errs, fmt.Errorf("%w: min_move_time exceeds max_move_time", ErrInvalidDisco))
	}

	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near || c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("%w: fov %.1f near %.1f far %.1f", ErrInvalidCamera, c.Camera.FOV, c.Camera.Near, c.Camera.Far))
	}

	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		switch {
		case m.Name == "" || m.Path == "":
			errs = append(errs, fmt.Errorf("%w: models[%d] needs name and path", ErrInvalidModel, i))
		case seen[m.Name]:
			errs = append(errs, fmt.Errorf("%w: duplicate name %q", ErrInvalidModel, m.Name))
		case m.Animation != nil && *m.Animation < 0:
			errs = append(errs, fmt.Errorf("%w: %q animation %d", ErrInvalidModel, m.Name, *m.Animation))
		}
		seen[m.Name] = true
	}

	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" or "rrggbb" into a 0xRRGGBB value.
func ParseColor(s string) (uint32, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return 0, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
