package viewer

import (
	"github.com/Faultbox/roboview/internal/scenegraph"
)

// collisionMaterial is shared by every collision mesh when visible.
var collisionMaterial = &scenegraph.Material{
	Name:        "collision",
	Color:       [4]float32{1.0, 0.75, 0.22, 0.35},
	Translucent: true,
}

// SetShowCollision toggles collision geometry visibility.
func (v *Viewer) SetShowCollision(show bool) {
	if show == v.showCollision {
		return
	}
	v.showCollision = show
	v.applyCollisionVisibility()
	v.dirty = true
}

// ShowCollision reports whether collision geometry is shown.
func (v *Viewer) ShowCollision() bool {
	return v.showCollision
}

// applyCollisionVisibility walks the model and applies the collision
// policy: collider nodes take the flag's visibility; their meshes share
// the translucent highlight material, never cast shadows and never pick.
func (v *Viewer) applyCollisionVisibility() {
	if v.modelRoot == nil {
		return
	}

	v.modelRoot.Traverse(func(n *scenegraph.Node) bool {
		if n.Kind != scenegraph.KindCollider {
			return true
		}
		n.Visible = v.showCollision
		applyCollisionMaterial(n)
		return true
	})
}

func applyCollisionMaterial(collider *scenegraph.Node) {
	collider.Traverse(func(n *scenegraph.Node) bool {
		if n.Mesh != nil {
			n.Mesh.Material = collisionMaterial
			n.Mesh.CastShadow = false
			n.Mesh.Pickable = false
		}
		return true
	})
}
