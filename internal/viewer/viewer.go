// Package viewer orchestrates the robot model scene: loading, posing,
// framing and redraw scheduling. It owns no GL state; rendering goes
// through the Renderer interface so the core stays headless-testable.
package viewer

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/roboview/internal/engine/camera"
	"github.com/Faultbox/roboview/internal/engine/lighting"
	"github.com/Faultbox/roboview/internal/scenegraph"
	"github.com/Faultbox/roboview/pkg/math"
)

// Renderer draws the scene graph. Implemented by the OpenGL renderer;
// tests substitute a recorder.
type Renderer interface {
	Resize(width, height int)
	Render(root *scenegraph.Node, cam *camera.OrbitCamera)
}

// Config holds the viewer's initial attribute values.
type Config struct {
	Source   string
	Packages string
	UpAxis   string

	AmbientColor  string
	DisplayShadow bool
	ShowCollision bool
	IgnoreLimits  bool
	AutoRedraw    bool
	AutoRecenter  bool

	// Fetch retrieves the model document and mesh resources. Defaults
	// to files and http(s) URLs.
	Fetch func(string) ([]byte, error)

	Log *zap.Logger
}

// DefaultConfig returns the attribute defaults.
func DefaultConfig() Config {
	return Config{
		UpAxis:        "+z",
		AmbientColor:  "#8ea0a8",
		DisplayShadow: true,
		AutoRecenter:  true,
	}
}

const groundOffset = 1e-3

// Viewer drives the scene. All methods must be called from the goroutine
// running Tick; the only concurrency inside is the model loader.
type Viewer struct {
	log      *zap.Logger
	renderer Renderer
	cam      *camera.OrbitCamera

	root       *scenegraph.Node // scene root: lights, ground, world
	world      *scenegraph.Node // up-axis corrected container for the model
	ground     *scenegraph.Node
	hemisphere *scenegraph.Node
	sun        *scenegraph.Node
	sunTarget  *scenegraph.Node

	lightOffset math.Vec3

	model     *scenegraph.Model
	modelRoot *scenegraph.Node
	joints    map[string]*scenegraph.Node

	// Load orchestration. seq orders requests; results crossing it are
	// stale and discarded.
	seq     uint64
	pending *pendingLoad
	loading bool
	results chan loadResult

	source       string
	packagesSpec string
	upAxis       string
	ambient      [3]float32

	displayShadow bool
	showCollision bool
	ignoreLimits  bool
	autoRedraw    bool
	autoRecenter  bool

	fetch func(string) ([]byte, error)

	subscribers map[EventKind][]func(Event)

	width, height int
	dirty         bool
	needRecenter  bool
	stopped       bool
}

// New composes the scene and returns a viewer ready to tick.
func New(r Renderer, cfg Config) *Viewer {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	v := &Viewer{
		log:           log,
		renderer:      r,
		cam:           camera.NewOrbitCamera(),
		results:       make(chan loadResult, 4),
		joints:        make(map[string]*scenegraph.Node),
		subscribers:   make(map[EventKind][]func(Event)),
		displayShadow: cfg.DisplayShadow,
		showCollision: cfg.ShowCollision,
		ignoreLimits:  cfg.IgnoreLimits,
		autoRedraw:    cfg.AutoRedraw,
		autoRecenter:  cfg.AutoRecenter,
		upAxis:        "+z",
		fetch:         cfg.Fetch,
	}

	v.composeScene()
	v.SetAmbientColor(cfg.AmbientColor)
	v.SetUpAxis(cfg.UpAxis)
	v.SetDisplayShadow(cfg.DisplayShadow)

	if cfg.Packages != "" {
		v.packagesSpec = cfg.Packages
	}
	if cfg.Source != "" {
		v.ScheduleLoad(cfg.Source, v.packagesSpec)
	}

	return v
}

func (v *Viewer) composeScene() {
	v.root = scenegraph.NewNode("scene", scenegraph.KindGroup)

	v.hemisphere = scenegraph.NewNode("hemisphere", scenegraph.KindGroup)
	v.hemisphere.Light = &scenegraph.Light{
		Kind:        scenegraph.LightHemisphere,
		Color:       [3]float32{0.56, 0.63, 0.66},
		GroundColor: [3]float32{0.2, 0.2, 0.2},
		Intensity:   1,
	}
	v.root.Add(v.hemisphere)

	v.sunTarget = scenegraph.NewNode("sun_target", scenegraph.KindGroup)
	v.root.Add(v.sunTarget)

	v.lightOffset = lighting.DefaultOffset()
	v.sun = scenegraph.NewNode("sun", scenegraph.KindGroup)
	v.sun.Position = v.lightOffset
	v.sun.Light = &scenegraph.Light{
		Kind:         scenegraph.LightDirectional,
		Color:        [3]float32{1, 1, 1},
		Intensity:    1,
		CastShadow:   true,
		ShadowExtent: 4,
		Target:       v.sunTarget,
	}
	v.root.Add(v.sun)

	v.ground = scenegraph.NewNode("ground", scenegraph.KindGroup)
	groundMesh := scenegraph.NewMesh(scenegraph.Plane(40, 40), &scenegraph.Material{
		Name:  "ground",
		Color: [4]float32{0.25, 0.27, 0.29, 1},
	})
	groundMesh.CastShadow = false
	groundMesh.Pickable = false
	v.ground.Mesh = groundMesh
	v.root.Add(v.ground)

	v.world = scenegraph.NewNode("world", scenegraph.KindGroup)
	v.root.Add(v.world)
}

// Tick advances one frame: drains load results, starts deferred loads,
// handles resize, eases the camera and redraws when needed. Returns
// false once the viewer has been stopped.
func (v *Viewer) Tick(width, height int, dt float32) bool {
	if v.stopped {
		return false
	}

	v.drainResults()

	if v.pending != nil && !v.loading {
		v.startLoad()
	}

	if width != v.width || height != v.height {
		v.width, v.height = width, height
		if v.renderer != nil {
			v.renderer.Resize(width, height)
		}
		if v.autoRecenter {
			v.needRecenter = true
		}
		v.dirty = true
	}

	if v.cam.Advance(dt) {
		v.dirty = true
	}

	if v.needRecenter {
		v.needRecenter = false
		v.Recenter()
	}

	if v.dirty || v.autoRedraw {
		if v.renderer != nil {
			v.renderer.Render(v.root, v.cam)
		}
		v.dirty = false
	}

	return true
}

// Stop halts the viewer and releases the mounted model. Further ticks
// are no-ops.
func (v *Viewer) Stop() {
	if v.stopped {
		return
	}
	v.stopped = true
	v.seq++ // orphan any in-flight load
	v.pending = nil
	v.unmount()
}

// Redraw requests a render on the next tick.
func (v *Viewer) Redraw() {
	v.dirty = true
}

// Camera returns the orbit camera for input handling.
func (v *Viewer) Camera() *camera.OrbitCamera {
	return v.cam
}

// Root returns the scene root, for picking.
func (v *Viewer) Root() *scenegraph.Node {
	return v.root
}

// Model returns the currently mounted model, or nil.
func (v *Viewer) Model() *scenegraph.Model {
	return v.model
}

// JointNames returns the names of the mounted model's movable joints.
func (v *Viewer) JointNames() []string {
	names := make([]string, 0, len(v.joints))
	for name := range v.joints {
		names = append(names, name)
	}
	return names
}

// SetUpAxis sets the model's up axis (+x -x +y -y +z -z, case
// insensitive). An unknown value logs a warning and keeps the previous
// axis. The world container is rotated so the chosen axis maps to +Y.
func (v *Viewer) SetUpAxis(axis string) {
	rot, ok := upAxisRotation(axis)
	if !ok {
		v.log.Warn("unknown up axis, keeping previous", zap.String("axis", axis))
		return
	}
	v.upAxis = normalizeAxis(axis)
	v.world.Rotation = rot
	v.dirty = true
	if v.autoRecenter {
		v.needRecenter = true
	}
}

// UpAxis returns the current up axis.
func (v *Viewer) UpAxis() string {
	return v.upAxis
}

// SetDisplayShadow toggles directional shadow casting. Turning shadows
// back on refits the frustum, which is left alone while they are off.
func (v *Viewer) SetDisplayShadow(enabled bool) {
	if enabled && !v.displayShadow && v.model != nil {
		if bounds := v.visualBounds(); !bounds.IsEmpty() {
			v.fitShadowFrame(bounds)
		}
	}
	v.displayShadow = enabled
	v.sun.Light.CastShadow = enabled
	v.dirty = true
}

// DisplayShadow reports whether shadows are enabled.
func (v *Viewer) DisplayShadow() bool {
	return v.displayShadow
}

// SetAmbientColor sets the hemisphere light color. Unparsable colors
// fall back to a neutral gray with a warning.
func (v *Viewer) SetAmbientColor(color string) {
	rgb, err := ParseColor(color)
	if err != nil {
		v.log.Warn("unparsable ambient color, using neutral gray",
			zap.String("color", color), zap.Error(err))
		rgb = [3]float32{0.5, 0.5, 0.5}
	}
	v.ambient = rgb
	v.hemisphere.Light.Color = rgb
	v.dirty = true
}

// AmbientColor returns the effective ambient color.
func (v *Viewer) AmbientColor() [3]float32 {
	return v.ambient
}

// SetAutoRedraw makes every tick render instead of only dirty ones.
func (v *Viewer) SetAutoRedraw(enabled bool) {
	v.autoRedraw = enabled
}

// SetAutoRecenter toggles reframing on model mount and resize.
func (v *Viewer) SetAutoRecenter(enabled bool) {
	v.autoRecenter = enabled
}

// upAxisRotation maps an axis label to the world rotation that brings it
// to +Y. Returns false for labels it does not recognize.
func upAxisRotation(axis string) (math.Quat, bool) {
	const half = gomath.Pi / 2
	switch normalizeAxis(axis) {
	case "+y":
		return math.QuatIdentity(), true
	case "-y":
		return math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi), true
	case "+z":
		return math.QuatFromAxisAngle(math.Vec3{X: 1}, -half), true
	case "-z":
		return math.QuatFromAxisAngle(math.Vec3{X: 1}, half), true
	case "+x":
		return math.QuatFromAxisAngle(math.Vec3{Z: 1}, half), true
	case "-x":
		return math.QuatFromAxisAngle(math.Vec3{Z: 1}, -half), true
	}
	return math.Quat{}, false
}

func normalizeAxis(axis string) string {
	s := make([]byte, 0, 2)
	for i := 0; i < len(axis); i++ {
		c := axis[i]
		switch {
		case c == ' ' || c == '\t':
		case c >= 'A' && c <= 'Z':
			s = append(s, c+('a'-'A'))
		default:
			s = append(s, c)
		}
	}
	out := string(s)
	if len(out) == 1 {
		out = "+" + out
	}
	return out
}
