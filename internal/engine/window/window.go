// Package window manages SDL2 window creation and the OpenGL context.
package window

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL and the GL context require the main OS thread.
	runtime.LockOSThread()
}

// Window wraps an SDL2 window with an OpenGL 4.1 core context.
type Window struct {
	handle    *sdl.Window
	glContext sdl.GLContext
	width     int32
	height    int32
}

// New creates a resizable window with an OpenGL context attached.
func New(title string, width, height int32) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	handle, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		width, height,
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	glContext, err := handle.GLCreateContext()
	if err != nil {
		handle.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create GL context: %w", err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(glContext)
		handle.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}

	// Prefer adaptive vsync, fall back to regular vsync.
	if err := sdl.GLSetSwapInterval(-1); err != nil {
		sdl.GLSetSwapInterval(1)
	}

	slog.Info("opengl context created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	return &Window{
		handle:    handle,
		glContext: glContext,
		width:     width,
		height:    height,
	}, nil
}

// Swap presents the back buffer.
func (w *Window) Swap() {
	w.handle.GLSwap()
}

// DrawableSize returns the size of the drawable area in pixels, which
// differs from the window size on high-DPI displays.
func (w *Window) DrawableSize() (int32, int32) {
	return w.handle.GLGetDrawableSize()
}

// Size returns the window size in screen coordinates.
func (w *Window) Size() (int32, int32) {
	return w.width, w.height
}

// SetSize records a new window size after a resize event.
func (w *Window) SetSize(width, height int32) {
	w.width = width
	w.height = height
}

// SetTitle updates the window title.
func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
}

// Destroy releases the GL context and the window.
func (w *Window) Destroy() {
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
	sdl.Quit()
}
