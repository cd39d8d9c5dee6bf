// Package lighting provides placement helpers for the viewer's lights.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/roboview/pkg/math"
)

// Direction converts azimuth/elevation angles in degrees to a normalized
// direction vector. Azimuth rotates around Y, elevation lifts from the
// horizon.
func Direction(azimuth, elevation float32) math.Vec3 {
	azRad := float64(azimuth) * gomath.Pi / 180.0
	elRad := float64(elevation) * gomath.Pi / 180.0

	return math.Vec3{
		X: float32(gomath.Cos(elRad) * gomath.Sin(azRad)),
		Y: float32(gomath.Sin(elRad)),
		Z: float32(gomath.Cos(elRad) * gomath.Cos(azRad)),
	}
}

// DefaultOffset is the directional light's offset from its target at
// startup: high and off to one side so shadows read well on the ground
// plane. Recentering preserves this offset while moving the target.
func DefaultOffset() math.Vec3 {
	return Direction(45, 65).Scale(10)
}
