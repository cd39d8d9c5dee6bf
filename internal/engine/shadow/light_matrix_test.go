package shadow

import (
	"testing"

	"github.com/Faultbox/roboview/pkg/math"
)

func TestFitDirectionalCentersTarget(t *testing.T) {
	target := math.Vec3{X: 1, Y: 2, Z: 3}
	lightPos := target.Add(math.Vec3{X: 4, Y: 10, Z: 4})

	vp := FitDirectional(lightPos, target, 2)

	// The target projects to the center of the ortho frustum.
	clip := vp.MulVec4(math.Vec4{target.X, target.Y, target.Z, 1})
	if abs(clip[0]) > 1e-4 || abs(clip[1]) > 1e-4 {
		t.Errorf("target projects to (%v, %v), want frustum center", clip[0], clip[1])
	}
}

func TestFitDirectionalContainsSphere(t *testing.T) {
	target := math.Vec3{}
	lightPos := math.Vec3{X: 3, Y: 6, Z: 3}
	extent := float32(2)

	vp := FitDirectional(lightPos, target, extent)

	// Points on the bounding sphere stay inside clip space.
	for _, p := range []math.Vec3{
		{X: extent}, {X: -extent}, {Y: extent}, {Y: -extent}, {Z: extent}, {Z: -extent},
	} {
		clip := vp.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
		for axis := 0; axis < 3; axis++ {
			if clip[axis] < -1.001 || clip[axis] > 1.001 {
				t.Errorf("sphere point %v clips at axis %d: %v", p, axis, clip[axis])
			}
		}
	}
}

func TestFitDirectionalVerticalLight(t *testing.T) {
	// A light straight above must not degenerate the view basis.
	vp := FitDirectional(math.Vec3{Y: 10}, math.Vec3{}, 1)
	clip := vp.MulVec4(math.Vec4{0, 0, 0, 1})
	if abs(clip[0]) > 1e-4 || abs(clip[1]) > 1e-4 {
		t.Errorf("origin projects to (%v, %v) under vertical light", clip[0], clip[1])
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
