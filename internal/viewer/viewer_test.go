package viewer

import (
	"fmt"
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/roboview/internal/engine/camera"
	"github.com/Faultbox/roboview/internal/engine/lighting"
	"github.com/Faultbox/roboview/internal/scenegraph"
	"github.com/Faultbox/roboview/pkg/math"
)

type fakeRenderer struct {
	resizes int
	renders int
	width   int
	height  int
}

func (f *fakeRenderer) Resize(w, h int) {
	f.resizes++
	f.width, f.height = w, h
}

func (f *fakeRenderer) Render(root *scenegraph.Node, cam *camera.OrbitCamera) {
	f.renders++
}

func robotXML(name string) string {
	return fmt.Sprintf(`<robot name="%s">
  <link name="base">
    <visual>
      <geometry><box size="1 1 1"/></geometry>
    </visual>
    <collision>
      <geometry><box size="1.2 1.2 1.2"/></geometry>
    </collision>
  </link>
  <link name="arm">
    <visual>
      <geometry><cylinder radius="0.05" length="0.6"/></geometry>
    </visual>
  </link>
  <joint name="swing" type="revolute">
    <parent link="base"/>
    <child link="arm"/>
    <axis xyz="0 0 1"/>
    <limit lower="-1.57" upper="1.57" effort="5" velocity="1"/>
  </joint>
</robot>`, name)
}

func newTestViewer(t *testing.T, fetch func(string) ([]byte, error)) (*Viewer, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	cfg := DefaultConfig()
	cfg.Fetch = fetch
	return New(r, cfg), r
}

// tickUntilMounted drives the tick loop until a model appears.
func tickUntilMounted(t *testing.T, v *Viewer) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v.Tick(800, 600, 0.016)
		if v.Model() != nil {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("model never mounted")
}

func TestScheduleLoadMountsModel(t *testing.T) {
	v, _ := newTestViewer(t, func(source string) ([]byte, error) {
		return []byte(robotXML("probe")), nil
	})

	v.ScheduleLoad("probe.urdf", "")
	tickUntilMounted(t, v)

	if v.Model().Name != "probe" {
		t.Errorf("expected model probe, got %q", v.Model().Name)
	}
	if len(v.JointNames()) != 1 {
		t.Errorf("expected 1 movable joint, got %v", v.JointNames())
	}
}

func TestRapidLoadsOnlyLastMounts(t *testing.T) {
	// The source name round-trips into the robot name so the mounted
	// model identifies which request won.
	v, _ := newTestViewer(t, func(source string) ([]byte, error) {
		return []byte(robotXML(source)), nil
	})

	for i := 0; i < 5; i++ {
		v.ScheduleLoad(fmt.Sprintf("robot-%d", i), "")
	}
	tickUntilMounted(t, v)

	if v.Model().Name != "robot-4" {
		t.Errorf("expected last request to win, got %q", v.Model().Name)
	}
}

func TestSupersededInFlightLoadStartsNext(t *testing.T) {
	// Scheduling a new load while an import is already running must not
	// stall: the old result is dropped and the newer model mounts.
	unblock := make(chan struct{})
	v, _ := newTestViewer(t, func(source string) ([]byte, error) {
		if source == "first" {
			<-unblock
		}
		return []byte(robotXML(source)), nil
	})

	v.ScheduleLoad("first", "")
	v.Tick(800, 600, 0.016)
	if !v.loading {
		t.Fatal("first import did not start")
	}

	v.ScheduleLoad("second", "")
	close(unblock)

	tickUntilMounted(t, v)
	if v.Model().Name != "second" {
		t.Errorf("expected superseding load to mount, got %q", v.Model().Name)
	}
	if v.loading || v.pending != nil {
		t.Errorf("loader left busy: loading=%v pending=%v", v.loading, v.pending != nil)
	}

	// A third request must not be stuck behind the discarded one.
	v.ScheduleLoad("third", "")
	tickUntilMounted(t, v)
	if v.Model().Name != "third" {
		t.Errorf("expected third, got %q", v.Model().Name)
	}
}

func TestStaleResultReleasedSilently(t *testing.T) {
	v, _ := newTestViewer(t, nil)

	released := false
	model := modelWithBox(func() { released = true })

	mounted := 0
	v.Subscribe(EventModelProcessed, func(Event) { mounted++ })

	// A result tagged with an old sequence number must be dropped and
	// its resources released.
	v.seq = 7
	v.handleLoadResult(loadResult{seq: 3, model: model})

	if !released {
		t.Error("stale model resources were not released")
	}
	if mounted != 0 {
		t.Error("stale model must not mount")
	}
	if v.Model() != nil {
		t.Error("no model should be mounted")
	}
}

func TestScheduleLoadSamePairIsNoop(t *testing.T) {
	v, _ := newTestViewer(t, func(source string) ([]byte, error) {
		return []byte(robotXML("same")), nil
	})

	changes := 0
	v.Subscribe(EventModelSourceChanged, func(Event) { changes++ })

	v.ScheduleLoad("same.urdf", "")
	tickUntilMounted(t, v)
	model := v.Model()

	v.ScheduleLoad("same.urdf", "")
	v.Tick(800, 600, 0.016)

	if changes != 1 {
		t.Errorf("expected 1 source change, got %d", changes)
	}
	if v.Model() != model {
		t.Error("re-requesting the mounted pair must not remount")
	}
}

func TestScheduleLoadUnmountsImmediately(t *testing.T) {
	v, _ := newTestViewer(t, func(source string) ([]byte, error) {
		return []byte(robotXML(source)), nil
	})

	v.ScheduleLoad("first", "")
	tickUntilMounted(t, v)

	releases := 0
	v.Model().Root.Traverse(func(n *scenegraph.Node) bool {
		if n.Mesh != nil {
			n.Mesh.SetReleaser(func() { releases++ })
		}
		return true
	})

	v.ScheduleLoad("second", "")

	if v.Model() != nil {
		t.Error("scheduling a new load must unmount the old model immediately")
	}
	if releases == 0 {
		t.Error("unmount must release the old model's resources")
	}

	tickUntilMounted(t, v)
	if v.Model().Name != "second" {
		t.Errorf("expected second, got %q", v.Model().Name)
	}
}

func TestLoadErrorIsNonFatal(t *testing.T) {
	v, _ := newTestViewer(t, func(source string) ([]byte, error) {
		return nil, fmt.Errorf("unreachable")
	})

	v.ScheduleLoad("broken.urdf", "")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && (v.loading || v.pending != nil) {
		v.Tick(800, 600, 0.016)
		time.Sleep(time.Millisecond)
	}

	if v.Model() != nil {
		t.Error("failed load must not mount anything")
	}
	if !v.Tick(800, 600, 0.016) {
		t.Error("viewer must keep running after a failed load")
	}
}

func TestJointUpdateEmitsOnce(t *testing.T) {
	v, r := newTestViewer(t, func(string) ([]byte, error) {
		return []byte(robotXML("r")), nil
	})
	v.ScheduleLoad("r", "")
	tickUntilMounted(t, v)
	v.Tick(800, 600, 0.016)
	renders := r.renders

	events := 0
	v.Subscribe(EventJointAngleChanged, func(Event) { events++ })

	if !v.SetJointValue("swing", 0.5) {
		t.Fatal("expected joint change to apply")
	}
	v.Tick(800, 600, 0.016)

	// Same value again: no event, no redraw.
	if v.SetJointValue("swing", 0.5) {
		t.Error("unchanged value must report false")
	}
	v.Tick(800, 600, 0.016)

	if events != 1 {
		t.Errorf("expected exactly 1 joint event, got %d", events)
	}
	if r.renders != renders+1 {
		t.Errorf("expected exactly 1 extra render, got %d", r.renders-renders)
	}
}

func TestUnknownJointIgnored(t *testing.T) {
	v, _ := newTestViewer(t, func(string) ([]byte, error) {
		return []byte(robotXML("r")), nil
	})
	v.ScheduleLoad("r", "")
	tickUntilMounted(t, v)

	if v.SetJointValue("no_such_joint", 1.0) {
		t.Error("unknown joint must be a no-op")
	}
}

func TestIgnoreLimitsRoundTrip(t *testing.T) {
	v, _ := newTestViewer(t, func(string) ([]byte, error) {
		return []byte(robotXML("r")), nil
	})
	v.ScheduleLoad("r", "")
	tickUntilMounted(t, v)

	v.SetJointValue("swing", 3.0)
	if got := v.JointValues()["swing"][0]; got != 1.57 {
		t.Errorf("expected clamp to 1.57, got %v", got)
	}

	v.SetIgnoreLimits(true)
	if got := v.JointValues()["swing"][0]; got != 3.0 {
		t.Errorf("expected requested value 3.0 without limits, got %v", got)
	}

	v.SetIgnoreLimits(false)
	if got := v.JointValues()["swing"][0]; got != 1.57 {
		t.Errorf("expected clamp restored to 1.57, got %v", got)
	}
}

// modelWithBox builds a one-link model with a 2x2x2 box lifted so its
// world bounds span (-1,0,-1)..(1,2,1).
func modelWithBox(releaser func()) *scenegraph.Model {
	root := scenegraph.NewNode("base", scenegraph.KindLink)
	visual := scenegraph.NewNode("base_visual", scenegraph.KindVisual)
	visual.Position = math.Vec3{Y: 1}
	visual.Mesh = scenegraph.NewMesh(scenegraph.Box(2, 2, 2), nil)
	if releaser != nil {
		visual.Mesh.SetReleaser(releaser)
	}
	root.Add(visual)
	return &scenegraph.Model{Name: "box", Root: root}
}

func TestRecenterFraming(t *testing.T) {
	v, _ := newTestViewer(t, nil)
	v.SetUpAxis("+y") // identity world rotation keeps the arithmetic exact

	v.mount(modelWithBox(nil))
	v.Recenter()

	wantGround := float32(0) - groundOffset
	if got := v.ground.Position.Y; gomath.Abs(float64(got-wantGround)) > 1e-6 {
		t.Errorf("ground at %v, want %v", got, wantGround)
	}
	if got := v.Camera().Center.Y; got != 1 {
		t.Errorf("camera target Y %v, want 1", got)
	}

	wantExtent := float32(gomath.Sqrt(3))
	if got := v.sun.Light.ShadowExtent; gomath.Abs(float64(got-wantExtent)) > 1e-5 {
		t.Errorf("shadow extent %v, want bounding sphere radius %v", got, wantExtent)
	}

	// Light offset from its target survives the move.
	offset := v.sun.Position.Sub(v.sunTarget.Position)
	want := lighting.DefaultOffset()
	if offset.Distance(want) > 1e-5 {
		t.Errorf("light offset %+v, want %+v", offset, want)
	}
	if v.sunTarget.Position.Y != 1 {
		t.Errorf("light target Y %v, want bounds center 1", v.sunTarget.Position.Y)
	}
}

func TestRecenterIgnoresCollisionGeometry(t *testing.T) {
	v, _ := newTestViewer(t, nil)
	v.SetUpAxis("+y")

	model := modelWithBox(nil)
	collider := scenegraph.NewNode("big_collider", scenegraph.KindCollider)
	collider.Visible = false
	collider.Mesh = scenegraph.NewMesh(scenegraph.Box(100, 100, 100), nil)
	model.Root.Add(collider)

	v.mount(model)
	v.Recenter()

	if got := v.Camera().Center.Y; got != 1 {
		t.Errorf("collision geometry leaked into framing: center Y %v", got)
	}
}

func TestShadowFrameFollowsDisplayToggle(t *testing.T) {
	v, _ := newTestViewer(t, nil)
	v.SetUpAxis("+y")
	v.SetDisplayShadow(false)

	v.mount(modelWithBox(nil))
	v.Recenter()

	if v.sunTarget.Position.Y != 0 {
		t.Errorf("light target moved with shadows off: %+v", v.sunTarget.Position)
	}

	v.SetDisplayShadow(true)
	if v.sunTarget.Position.Y != 1 {
		t.Errorf("enabling shadows must refit the light, target %+v", v.sunTarget.Position)
	}
	wantExtent := float32(gomath.Sqrt(3))
	if got := v.sun.Light.ShadowExtent; gomath.Abs(float64(got-wantExtent)) > 1e-5 {
		t.Errorf("shadow extent %v, want %v", got, wantExtent)
	}
}

func TestResizeTriggersExactlyOneRecenter(t *testing.T) {
	v, r := newTestViewer(t, nil)
	v.SetUpAxis("+y")
	v.mount(modelWithBox(nil))
	v.Tick(800, 600, 0.016)

	const sentinel = float32(999)

	v.ground.Position.Y = sentinel
	v.Tick(1024, 768, 0.016)
	if v.ground.Position.Y == sentinel {
		t.Error("resize did not trigger a recenter")
	}

	v.ground.Position.Y = sentinel
	v.Tick(1024, 768, 0.016)
	if v.ground.Position.Y != sentinel {
		t.Error("unchanged size must not recenter again")
	}

	if r.width != 1024 || r.height != 768 {
		t.Errorf("renderer not resized: %dx%d", r.width, r.height)
	}
}

func TestCollisionVisibilityToggle(t *testing.T) {
	v, _ := newTestViewer(t, func(string) ([]byte, error) {
		return []byte(robotXML("r")), nil
	})
	v.ScheduleLoad("r", "")
	tickUntilMounted(t, v)

	collider := v.Model().Root.Find("base_collision_0")
	if collider == nil {
		t.Fatal("collider not found")
	}
	if collider.Visible {
		t.Error("collision hidden by default")
	}

	v.SetShowCollision(true)
	if !collider.Visible {
		t.Error("collision should be visible after toggle")
	}
	if collider.Mesh.Material != collisionMaterial {
		t.Error("visible collision should use the shared highlight material")
	}
	if collider.Mesh.CastShadow {
		t.Error("collision geometry must not cast shadows")
	}
	if collider.Mesh.Pickable {
		t.Error("collision geometry must not be pickable")
	}

	v.SetShowCollision(false)
	if collider.Visible {
		t.Error("collision should hide again")
	}
}

func TestCollisionFlagSurvivesReload(t *testing.T) {
	v, _ := newTestViewer(t, func(source string) ([]byte, error) {
		return []byte(robotXML(source)), nil
	})

	v.SetShowCollision(true)
	v.ScheduleLoad("first", "")
	tickUntilMounted(t, v)

	collider := v.Model().Root.Find("base_collision_0")
	if collider == nil || !collider.Visible {
		t.Error("collision visibility flag should apply to a freshly mounted model")
	}
}

func TestUpAxisRotation(t *testing.T) {
	tests := []struct {
		axis string
		want math.Vec3 // where the model's named axis ends up
		from math.Vec3
	}{
		{"+z", math.Vec3{Y: 1}, math.Vec3{Z: 1}},
		{"-z", math.Vec3{Y: 1}, math.Vec3{Z: -1}},
		{"+x", math.Vec3{Y: 1}, math.Vec3{X: 1}},
		{"-x", math.Vec3{Y: 1}, math.Vec3{X: -1}},
		{"+y", math.Vec3{Y: 1}, math.Vec3{Y: 1}},
		{"-y", math.Vec3{Y: 1}, math.Vec3{Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.axis, func(t *testing.T) {
			v, _ := newTestViewer(t, nil)
			v.SetUpAxis(tt.axis)
			got := v.world.Rotation.Rotate(tt.from)
			if got.Distance(tt.want) > 1e-5 {
				t.Errorf("axis %s maps %+v to %+v, want %+v", tt.axis, tt.from, got, tt.want)
			}
		})
	}
}

func TestUpAxisNormalization(t *testing.T) {
	v, _ := newTestViewer(t, nil)

	v.SetUpAxis(" +Z ")
	if v.UpAxis() != "+z" {
		t.Errorf("expected +z, got %q", v.UpAxis())
	}

	v.SetUpAxis("y")
	if v.UpAxis() != "+y" {
		t.Errorf("bare axis should imply +, got %q", v.UpAxis())
	}

	v.SetUpAxis("sideways")
	if v.UpAxis() != "+y" {
		t.Errorf("invalid axis must keep previous, got %q", v.UpAxis())
	}
}

func TestAmbientColorFallback(t *testing.T) {
	v, _ := newTestViewer(t, nil)

	v.SetAmbientColor("#ff0000")
	if got := v.AmbientColor(); got != [3]float32{1, 0, 0} {
		t.Errorf("expected red, got %+v", got)
	}

	v.SetAmbientColor("not-a-color")
	if got := v.AmbientColor(); got != [3]float32{0.5, 0.5, 0.5} {
		t.Errorf("expected neutral gray fallback, got %+v", got)
	}
}

func TestStopReleasesModel(t *testing.T) {
	v, _ := newTestViewer(t, nil)

	released := false
	v.mount(modelWithBox(func() { released = true }))

	v.Stop()

	if !released {
		t.Error("stop must release the mounted model")
	}
	if v.Tick(800, 600, 0.016) {
		t.Error("tick must report stopped")
	}
}

func TestAutoRedraw(t *testing.T) {
	v, r := newTestViewer(t, nil)
	v.Tick(800, 600, 0.016) // first tick renders (resize marks dirty)
	base := r.renders

	v.Tick(800, 600, 0.016)
	if r.renders != base {
		t.Error("clean tick must not render")
	}

	v.SetAutoRedraw(true)
	v.Tick(800, 600, 0.016)
	v.Tick(800, 600, 0.016)
	if r.renders != base+2 {
		t.Errorf("auto redraw should render every tick, got %d extra", r.renders-base)
	}

	v.SetAutoRedraw(false)
	v.Redraw()
	v.Tick(800, 600, 0.016)
	v.Tick(800, 600, 0.016)
	if r.renders != base+3 {
		t.Errorf("explicit redraw should render exactly once, got %d extra", r.renders-base-2)
	}
}

func TestParsePackageSpec(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantMap  map[string]string
		wantBase string
	}{
		{
			name:    "single pair",
			spec:    "meshes:/opt/meshes",
			wantMap: map[string]string{"meshes": "/opt/meshes"},
		},
		{
			name: "multiple pairs with spaces",
			spec: " a : /x , b : /y ",
			wantMap: map[string]string{
				"a": "/x",
				"b": "/y",
			},
		},
		{
			name:     "url spec",
			spec:     "https://example.com/models",
			wantBase: "https://example.com/models",
		},
		{
			name:     "plain base path",
			spec:     "/opt/models",
			wantBase: "/opt/models",
		},
		{
			name: "empty",
			spec: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMap, gotBase := ParsePackageSpec(tt.spec)
			if gotBase != tt.wantBase {
				t.Errorf("base = %q, want %q", gotBase, tt.wantBase)
			}
			if len(gotMap) != len(tt.wantMap) {
				t.Fatalf("map = %v, want %v", gotMap, tt.wantMap)
			}
			for k, want := range tt.wantMap {
				if gotMap[k] != want {
					t.Errorf("map[%q] = %q, want %q", k, gotMap[k], want)
				}
			}
		})
	}
}
