package viewer

import (
	"github.com/Faultbox/roboview/internal/scenegraph"
)

// Recenter reframes the scene around the mounted model's visual bounds:
// the ground drops just beneath the lowest point, the camera target moves
// to the bounding box center height, and the shadow frustum is sized to
// the bounding sphere. Collision geometry never influences framing.
func (v *Viewer) Recenter() {
	if v.modelRoot == nil {
		return
	}

	bounds := v.visualBounds()
	if bounds.IsEmpty() {
		return
	}

	v.ground.Position.Y = bounds.Min.Y - groundOffset
	v.cam.SetCenterY(bounds.Center().Y)

	if v.displayShadow {
		v.fitShadowFrame(bounds)
	}

	v.dirty = true
}

// visualBounds measures the world container without collision geometry.
func (v *Viewer) visualBounds() scenegraph.Bounds {
	return v.world.WorldBounds(func(n *scenegraph.Node) bool {
		return n.Kind != scenegraph.KindCollider
	})
}

// fitShadowFrame sizes the shadow frustum to the given bounds. The light
// keeps its offset; only its target moves.
func (v *Viewer) fitShadowFrame(bounds scenegraph.Bounds) {
	center := bounds.Center()
	v.sunTarget.Position = center
	v.sun.Position = center.Add(v.lightOffset)
	v.sun.Light.ShadowExtent = bounds.Radius()
}
