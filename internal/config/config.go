// Package config handles showroom configuration loading and management.
package config

import "time"

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Chair    ChairConfig    `yaml:"chair"`
	Disco    DiscoConfig    `yaml:"disco"`
	Camera   CameraConfig   `yaml:"camera"`
	Models   []ModelConfig  `yaml:"models"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	Fullscreen    bool `yaml:"fullscreen"`
	VSync         bool `yaml:"vsync"`
	FPSLimit      int  `yaml:"fps_limit"`
	ShadowMapSize int  `yaml:"shadow_map_size"`
}

// AudioConfig holds the two scene tracks and the positional source.
type AudioConfig struct {
	Muted          bool       `yaml:"muted"`
	MusicPath      string     `yaml:"music_path"`
	MusicVolume    float64    `yaml:"music_volume"`
	ApplausePath   string     `yaml:"applause_path"`
	ApplauseVolume float64    `yaml:"applause_volume"`
	RefDistance    float32    `yaml:"ref_distance"`
	SourcePosition [3]float32 `yaml:"source_position"`
}

// ChairConfig holds the initial chair parameters.
type ChairConfig struct {
	LegCount      int     `yaml:"leg_count"`
	LegRadius     float32 `yaml:"leg_radius"`
	LegHeight     float32 `yaml:"leg_height"`
	ChairBack     bool    `yaml:"chair_back"`
	FloorMaterial string  `yaml:"floor_material"`
	ChairMaterial string  `yaml:"chair_material"`
	Helpers       bool    `yaml:"helpers"`
	Axes          bool    `yaml:"axes"`
}

// DiscoConfig holds the party rig settings.
type DiscoConfig struct {
	StartMode       string        `yaml:"start_mode"`
	LightsCount     int           `yaml:"lights_count"`
	Palette         []string      `yaml:"palette"`
	GroupOffsetX    float32       `yaml:"group_offset_x"`
	MoveInterval    time.Duration `yaml:"move_interval"`
	MinMoveTime     time.Duration `yaml:"min_move_time"`
	MaxMoveTime     time.Duration `yaml:"max_move_time"`
	Seed            int64         `yaml:"seed"` // 0 picks a time-based seed
	BallSpinPerTick float32       `yaml:"ball_spin_per_tick"`
}

// CameraConfig holds the perspective camera and orbit controls.
type CameraConfig struct {
	FOV             float32    `yaml:"fov"`
	Near            float32    `yaml:"near"`
	Far             float32    `yaml:"far"`
	Position        [3]float32 `yaml:"position"`
	Damping         float32    `yaml:"damping"`
	MinPolar        float32    `yaml:"min_polar"`
	MaxPolar        float32    `yaml:"max_polar"`
	AutoRotate      bool       `yaml:"auto_rotate"`
	AutoRotateSpeed float32    `yaml:"auto_rotate_speed"`
}

// ModelConfig declares one animated model.
type ModelConfig struct {
	Name     string     `yaml:"name"`
	Path     string     `yaml:"path"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"` // degrees
	Scale    float32    `yaml:"scale"`
	// Animation is the clip started on load; nil means none.
	Animation   *int    `yaml:"animation,omitempty"`
	FollowFloor bool    `yaml:"follow_floor"`
	FloorOffset float32 `yaml:"floor_offset"`
}

// DataConfig holds asset locations.
type DataConfig struct {
	AssetsDir string `yaml:"assets_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

func intPtr(v int) *int { return &v }

// Default returns a Config with the stock showroom scene.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			ShadowMapSize: 2056,
		},
		Audio: AudioConfig{
			MusicPath:      "sounds/music.mp3",
			MusicVolume:    0.5,
			ApplausePath:   "sounds/applause.mp3",
			ApplauseVolume: 0.1,
			RefDistance:    600,
			SourcePosition: [3]float32{-800, 0, 0},
		},
		Chair: ChairConfig{
			LegCount:      3,
			LegRadius:     10,
			LegHeight:     250,
			ChairBack:     true,
			FloorMaterial: "Planks",
			ChairMaterial: "Black Leather",
		},
		Disco: DiscoConfig{
			StartMode:       "normal",
			LightsCount:     3,
			Palette:         []string{"#ffbd00", "#ff0000", "#e000ff", "#00fbff", "#57ff50"},
			GroupOffsetX:    -300,
			MoveInterval:    time.Second,
			MinMoveTime:     2 * time.Second,
			MaxMoveTime:     5 * time.Second,
			BallSpinPerTick: 0.01,
		},
		Camera: CameraConfig{
			FOV:             70,
			Near:            1,
			Far:             3000,
			Position:        [3]float32{0, 200, 750},
			Damping:         0.1,
			MinPolar:        0.75,
			MaxPolar:        1.5,
			AutoRotateSpeed: 2,
		},
		Models: []ModelConfig{
			{
				Name:      "Yelling Knight",
				Path:      "models/yelling_knight.rsm",
				Position:  [3]float32{-7.5, -100, 0},
				Rotation:  [3]float32{0, 90, 0},
				Scale:     2.5,
				Animation: intPtr(0),
			},
			{
				Name:        "Twerking Zombie",
				Path:        "models/twerking_zombie.rsm",
				Position:    [3]float32{300, -240, 0},
				Rotation:    [3]float32{0, 90, 0},
				Scale:       2.5,
				Animation:   intPtr(0),
				FollowFloor: true,
				FloorOffset: 10,
			},
			{
				Name:        "Speakers",
				Path:        "models/speakers.rsm",
				Position:    [3]float32{-800, -240, 650},
				Rotation:    [3]float32{0, 90, 0},
				Scale:       2,
				FollowFloor: true,
				FloorOffset: 10,
			},
		},
		Data: DataConfig{
			AssetsDir: "assets",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
