// Package picking provides ray casting against the scene graph.
package picking

import (
	gomath "math"

	"github.com/Faultbox/roboview/internal/scenegraph"
	"github.com/Faultbox/roboview/pkg/math"
)

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the camera's view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return Ray{
		Origin:    near,
		Direction: far.Sub(near).Normalize(),
	}
}

func unproject(inv math.Mat4, clip math.Vec4) math.Vec3 {
	world := inv.MulVec4(clip)
	if world[3] != 0 {
		return math.Vec3{X: world[0] / world[3], Y: world[1] / world[3], Z: world[2] / world[3]}
	}
	return math.Vec3{X: world[0], Y: world[1], Z: world[2]}
}

// IntersectAABB tests the ray against an axis-aligned box and returns the
// hit distance. A ray starting inside the box reports the exit distance.
func (r Ray) IntersectAABB(b scenegraph.Bounds) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	min := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
	max := [3]float32{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			t1 := (min[axis] - origin[axis]) / dir[axis]
			t2 := (max[axis] - origin[axis]) / dir[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if origin[axis] < min[axis] || origin[axis] > max[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is the result of a pick: the mesh-bearing node and the distance
// along the ray.
type Hit struct {
	Node     *scenegraph.Node
	Distance float32
}

// Pick returns the nearest visible, pickable mesh under root hit by the
// ray, or nil. Invisible subtrees and meshes with pick disabled (such as
// collision hulls) are skipped.
func Pick(root *scenegraph.Node, ray Ray) *Hit {
	var best *Hit
	pick(root, math.Identity(), ray, &best)
	return best
}

func pick(n *scenegraph.Node, parent math.Mat4, ray Ray, best **Hit) {
	if !n.Visible {
		return
	}
	world := parent.Mul(n.LocalMatrix())

	if n.Mesh != nil && n.Mesh.Pickable {
		min, max := n.Mesh.Geometry.Bounds()
		b := scenegraph.EmptyBounds()
		b.ExtendBox(world, min, max)
		if t, hit := ray.IntersectAABB(b); hit {
			if *best == nil || t < (*best).Distance {
				*best = &Hit{Node: n, Distance: t}
			}
		}
	}

	for _, c := range n.Children() {
		pick(c, world, ray, best)
	}
}
