package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/roboview/pkg/math"
)

func TestPositionOrbitsCenter(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 5, Y: 2, Z: -3}
	c.Distance = 4

	pos := c.Position()
	if got := pos.Distance(c.Center); gomath.Abs(float64(got-4)) > 1e-4 {
		t.Errorf("camera distance from center = %v, want 4", got)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	for i := 0; i < 200; i++ {
		c.Advance(1.0 / 60)
	}
	if c.RotationX > c.MaxPitch+1e-4 {
		t.Errorf("pitch %v exceeds max %v", c.RotationX, c.MaxPitch)
	}
}

func TestHandleZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 500; i++ {
		c.HandleZoom(10)
	}
	for i := 0; i < 500; i++ {
		c.Advance(1.0 / 60)
	}
	if c.Distance < c.MinDistance-1e-5 {
		t.Errorf("distance %v under min %v", c.Distance, c.MinDistance)
	}
}

func TestAdvanceSettles(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(100, 0)

	moved := false
	settled := false
	for i := 0; i < 600; i++ {
		if c.Advance(1.0 / 60) {
			moved = true
		} else {
			settled = true
			break
		}
	}
	if !moved {
		t.Error("camera never moved after drag")
	}
	if !settled {
		t.Error("camera never settled")
	}
}

func TestAdvanceIdleReturnsFalse(t *testing.T) {
	c := NewOrbitCamera()
	if c.Advance(1.0 / 60) {
		t.Error("idle camera reported motion")
	}
}

func TestSetCenterYKeepsHorizontal(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 7, Z: -2}
	c.SetCenterY(3)
	want := math.Vec3{X: 7, Y: 3, Z: -2}
	if c.Center != want {
		t.Errorf("center = %v, want %v", c.Center, want)
	}
}

func TestFitSphereContainsModel(t *testing.T) {
	c := NewOrbitCamera()
	c.FitSphere(math.Vec3{Y: 1}, 2)

	// The sphere must fit in the vertical FOV from the new distance.
	need := 2 / float32(gomath.Sin(float64(c.FovY/2)))
	if c.Distance < need-1e-4 {
		t.Errorf("distance %v too close, need >= %v", c.Distance, need)
	}
}
