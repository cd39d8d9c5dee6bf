package scenegraph

import (
	gomath "math"

	"github.com/Faultbox/roboview/pkg/math"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max math.Vec3
}

// EmptyBounds returns an inverted box that any Extend call will overwrite.
func EmptyBounds() Bounds {
	inf := float32(gomath.Inf(1))
	return Bounds{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the center point of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the bounding-sphere radius (half-diagonal).
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Length() / 2
}

// Extend grows the box to include the point.
func (b *Bounds) Extend(p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// ExtendBox grows the box to include a local-space box transformed into
// world space. All eight corners must be considered once rotation is
// involved.
func (b *Bounds) ExtendBox(world math.Mat4, min, max math.Vec3) {
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: min.X, Y: min.Y, Z: min.Z}
		if i&1 != 0 {
			corner.X = max.X
		}
		if i&2 != 0 {
			corner.Y = max.Y
		}
		if i&4 != 0 {
			corner.Z = max.Z
		}
		b.Extend(world.TransformPoint(corner))
	}
}

// Union returns the smallest box containing both boxes.
func (b Bounds) Union(other Bounds) Bounds {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
	return b
}
