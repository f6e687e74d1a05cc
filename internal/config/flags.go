package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and helpers")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagDisco      = flag.Bool("disco", false, "Start in Disco mode")
	flagLegs       = flag.Int("legs", 0, "Initial leg count")
	flagMute       = flag.Bool("mute", false, "Disable audio output")
	flagAssets     = flag.String("assets", "", "Assets directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Chair.Helpers = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagDisco {
		cfg.Disco.StartMode = "disco"
	}
	if *flagLegs > 0 {
		cfg.Chair.LegCount = *flagLegs
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
	if *flagAssets != "" {
		cfg.Data.AssetsDir = *flagAssets
	}
}
