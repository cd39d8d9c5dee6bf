// Package shadow provides real-time shadow mapping for the viewer's
// directional light.
package shadow

import (
	"github.com/Faultbox/roboview/pkg/math"
)

// FitDirectional computes the light view-projection matrix for the shadow
// pass: an orthographic box of the given half-extent centered on target,
// viewed from lightPos. The extent should come from the model's bounding
// sphere so the frustum stays tight enough for shadow resolution without
// clipping the model.
func FitDirectional(lightPos, target math.Vec3, extent float32) math.Mat4 {
	if extent <= 0 {
		extent = 1
	}

	dir := lightPos.Sub(target)
	dist := dir.Length()
	if dist == 0 {
		dir = math.Vec3{Y: 1}
		dist = 1
		lightPos = target.Add(dir)
	}
	dir = dir.Scale(1 / dist)

	// Avoid an up vector parallel to the light direction.
	up := math.Vec3{Y: 1}
	if dir.Y > 0.99 || dir.Y < -0.99 {
		up = math.Vec3{Z: 1}
	}

	view := math.LookAt(lightPos, target, up)

	// Pad to avoid edge artifacts at the frustum border.
	half := extent * 1.1
	near := float32(0.1)
	far := dist + 2*half

	proj := math.Ortho(-half, half, -half, half, near, far)

	return proj.Mul(view)
}
