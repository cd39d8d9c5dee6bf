package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagModel     = flag.String("model", "", "Path or URL to a robot description file")
	flagPackages  = flag.String("packages", "", "Package spec: name:path pairs or a base URL")
	flagUpAxis    = flag.String("up-axis", "", "Model up axis (+x -x +y -y +z -z)")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
	flagNoShadow  = flag.Bool("no-shadow", false, "Disable shadow rendering")
	flagCollision = flag.Bool("collision", false, "Show collision geometry")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Model.Source = *flagModel
	}
	if *flagPackages != "" {
		cfg.Model.Packages = *flagPackages
	}
	if *flagUpAxis != "" {
		cfg.Model.UpAxis = *flagUpAxis
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagNoShadow {
		cfg.Scene.DisplayShadow = false
	}
	if *flagCollision {
		cfg.Scene.ShowCollision = true
	}
}
