package scenegraph

// LightKind distinguishes the two light sources the viewer composes.
type LightKind int

const (
	// LightHemisphere is a sky/ground ambient gradient.
	LightHemisphere LightKind = iota
	// LightDirectional is a sun-style parallel light, optionally casting
	// shadows from an orthographic frustum around its target.
	LightDirectional
)

// Light attaches a light source to a node. A directional light shines
// from the node's position toward its target node; the shadow frustum is
// an ortho box of half-extent ShadowExtent centered on the target.
type Light struct {
	Kind      LightKind
	Color     [3]float32
	Intensity float32

	// Hemisphere only: color arriving from below the horizon.
	GroundColor [3]float32

	// Directional only.
	CastShadow   bool
	ShadowExtent float32
	Target       *Node
}
