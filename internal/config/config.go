// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Model    ModelConfig    `yaml:"model"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width            int `yaml:"width"`
	Height           int `yaml:"height"`
	ShadowResolution int `yaml:"shadow_resolution"`
}

// ModelConfig holds the model source and mesh resolution settings.
type ModelConfig struct {
	// Source is a path or URL to a robot description file.
	Source string `yaml:"source"`
	// Packages maps package names to directories, written as
	// "name:path" pairs separated by commas, or a single base URL.
	Packages string `yaml:"packages"`
	// UpAxis is the model's up axis: +x -x +y -y +z or -z.
	UpAxis string `yaml:"up_axis"`
	// IgnoreLimits disables joint limit clamping.
	IgnoreLimits bool `yaml:"ignore_limits"`
}

// SceneConfig holds scene composition settings.
type SceneConfig struct {
	AmbientColor  string `yaml:"ambient_color"`
	DisplayShadow bool   `yaml:"display_shadow"`
	ShowCollision bool   `yaml:"show_collision"`
	AutoRecenter  bool   `yaml:"auto_recenter"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:            1280,
			Height:           800,
			ShadowResolution: 2048,
		},
		Model: ModelConfig{
			UpAxis: "+z",
		},
		Scene: SceneConfig{
			AmbientColor:  "#8ea0a8",
			DisplayShadow: true,
			ShowCollision: false,
			AutoRecenter:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
