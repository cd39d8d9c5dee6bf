package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected default width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 800 {
		t.Errorf("expected default height 800, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.ShadowResolution != 2048 {
		t.Errorf("expected default shadow resolution 2048, got %d", cfg.Graphics.ShadowResolution)
	}
	if cfg.Model.UpAxis != "+z" {
		t.Errorf("expected default up axis +z, got %q", cfg.Model.UpAxis)
	}
	if !cfg.Scene.DisplayShadow {
		t.Error("expected shadows enabled by default")
	}
	if cfg.Scene.ShowCollision {
		t.Error("expected collision hidden by default")
	}
	if !cfg.Scene.AutoRecenter {
		t.Error("expected auto recenter enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	content := `
graphics:
  width: 1920
  height: 1080
model:
  source: /models/arm.urdf
  packages: "meshes:/opt/meshes"
  up_axis: "+y"
  ignore_limits: true
scene:
  display_shadow: false
  show_collision: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Model.Source != "/models/arm.urdf" {
		t.Errorf("unexpected model source %q", cfg.Model.Source)
	}
	if cfg.Model.Packages != "meshes:/opt/meshes" {
		t.Errorf("unexpected packages %q", cfg.Model.Packages)
	}
	if cfg.Model.UpAxis != "+y" {
		t.Errorf("unexpected up axis %q", cfg.Model.UpAxis)
	}
	if !cfg.Model.IgnoreLimits {
		t.Error("expected ignore_limits true")
	}
	if cfg.Scene.DisplayShadow {
		t.Error("expected display_shadow false")
	}
	if !cfg.Scene.ShowCollision {
		t.Error("expected show_collision true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	content := `
model:
  source: robot.urdf
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Model.Source != "robot.urdf" {
		t.Errorf("unexpected model source %q", cfg.Model.Source)
	}
	// Untouched sections keep defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected default width preserved, got %d", cfg.Graphics.Width)
	}
	if cfg.Model.UpAxis != "+z" {
		t.Errorf("expected default up axis preserved, got %q", cfg.Model.UpAxis)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	if err := os.WriteFile(path, []byte("graphics: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Model.Source = "https://example.com/robot.urdf"
	cfg.Scene.ShowCollision = true
	cfg.Graphics.Width = 1600

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if loaded.Model.Source != cfg.Model.Source {
		t.Errorf("source mismatch: %q vs %q", loaded.Model.Source, cfg.Model.Source)
	}
	if loaded.Scene.ShowCollision != cfg.Scene.ShowCollision {
		t.Error("show_collision mismatch after round trip")
	}
	if loaded.Graphics.Width != cfg.Graphics.Width {
		t.Errorf("width mismatch: %d vs %d", loaded.Graphics.Width, cfg.Graphics.Width)
	}
}
