// Package app wires the window, renderer, input and viewer into the
// interactive application loop.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/roboview/internal/config"
	"github.com/Faultbox/roboview/internal/engine/capture"
	"github.com/Faultbox/roboview/internal/engine/input"
	"github.com/Faultbox/roboview/internal/engine/picking"
	"github.com/Faultbox/roboview/internal/engine/renderer"
	"github.com/Faultbox/roboview/internal/engine/window"
	"github.com/Faultbox/roboview/internal/logger"
	"github.com/Faultbox/roboview/internal/viewer"
)

// App is the running application.
type App struct {
	cfg *config.Config

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	viewer   *viewer.Viewer

	running  bool
	dragging bool
}

// New creates the window, GL renderer and viewer from config.
func New(cfg *config.Config) (*App, error) {
	slog.Info("initializing viewer",
		"width", cfg.Graphics.Width,
		"height", cfg.Graphics.Height,
		"source", cfg.Model.Source,
	)

	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New("Roboview", int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:            int(dw),
		Height:           int(dh),
		ShadowResolution: int32(cfg.Graphics.ShadowResolution),
		ClearColor:       [3]float32{0.13, 0.14, 0.16},
	})
	if err != nil {
		a.window.Destroy()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	a.input = input.New()

	a.viewer = viewer.New(a.renderer, viewer.Config{
		Source:        cfg.Model.Source,
		Packages:      cfg.Model.Packages,
		UpAxis:        cfg.Model.UpAxis,
		AmbientColor:  cfg.Scene.AmbientColor,
		DisplayShadow: cfg.Scene.DisplayShadow,
		ShowCollision: cfg.Scene.ShowCollision,
		IgnoreLimits:  cfg.Model.IgnoreLimits,
		AutoRecenter:  cfg.Scene.AutoRecenter,
		AutoRedraw:    true,
		Log:           logger.Named("viewer"),
	})

	return a, nil
}

// Run drives the frame loop until quit.
func (a *App) Run() error {
	a.running = true
	lastTime := time.Now()

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		a.input.Update()
		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}

		dw, dh := a.window.DrawableSize()
		if !a.viewer.Tick(int(dw), int(dh), dt) {
			break
		}

		a.window.Swap()
	}

	return nil
}

func (a *App) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		a.running = false

	case input.EventResize:
		a.window.SetSize(ev.Width, ev.Height)

	case input.EventKeyDown:
		a.handleKey(ev.Key)

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			a.dragging = true
		}

	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			if a.dragging && ev.X >= 0 {
				a.pick(ev.X, ev.Y)
			}
			a.dragging = false
		}

	case input.EventMouseMotion:
		if a.dragging {
			a.viewer.Camera().HandleDrag(float32(ev.RelX), float32(ev.RelY))
		}

	case input.EventMouseWheel:
		a.viewer.Camera().HandleZoom(float32(ev.WheelY))
	}
}

func (a *App) handleKey(key sdl.Keycode) {
	switch key {
	case sdl.K_ESCAPE, sdl.K_q:
		a.running = false
	case sdl.K_c:
		a.viewer.SetShowCollision(!a.viewer.ShowCollision())
		logger.Info("collision visibility", zap.Bool("shown", a.viewer.ShowCollision()))
	case sdl.K_s:
		a.viewer.SetDisplayShadow(!a.viewer.DisplayShadow())
	case sdl.K_l:
		a.viewer.SetIgnoreLimits(!a.viewer.IgnoreLimits())
		logger.Info("joint limits", zap.Bool("ignored", a.viewer.IgnoreLimits()))
	case sdl.K_r:
		a.viewer.Recenter()
	case sdl.K_p:
		a.screenshot()
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := capture.SavePNG("screenshots", pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// pick casts a ray at the clicked pixel and logs what it hits.
func (a *App) pick(x, y int32) {
	w, h := a.window.Size()
	cam := a.viewer.Camera()

	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	viewProj := cam.ProjectionMatrix(aspect).Mul(cam.ViewMatrix())
	inv := viewProj.Inverse()

	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
	if hit := picking.Pick(a.viewer.Root(), ray); hit != nil {
		logger.Info("picked",
			zap.String("node", hit.Node.Name),
			zap.Float32("distance", hit.Distance))
	}
}

// Close tears the application down in reverse creation order.
func (a *App) Close() {
	if a.viewer != nil {
		a.viewer.Stop()
	}
	if a.renderer != nil {
		a.renderer.Destroy()
	}
	if a.window != nil {
		a.window.Destroy()
	}
}
