// Package urdf builds scene graphs from robot description documents.
package urdf

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/roboview/internal/scenegraph"
	"github.com/Faultbox/roboview/pkg/formats"
	"github.com/Faultbox/roboview/pkg/math"
)

// Options controls how a robot description is turned into a scene graph.
type Options struct {
	// Packages maps package names to base paths or URLs for resolving
	// package:// mesh references.
	Packages map[string]string

	// PackageBase is a single base used for every package when Packages
	// is empty.
	PackageBase string

	// Fetch retrieves an external resource by resolved path or URL.
	// Defaults to DefaultFetcher.
	Fetch func(string) ([]byte, error)

	// Log receives warnings about skipped visuals and unresolved
	// references. Defaults to a no-op logger.
	Log *zap.Logger
}

func (o *Options) fetch(ref string) ([]byte, error) {
	if o.Fetch != nil {
		return o.Fetch(ref)
	}
	return DefaultFetcher(ref)
}

func (o *Options) log() *zap.Logger {
	if o.Log != nil {
		return o.Log
	}
	return zap.NewNop()
}

// Import parses a robot description and builds its scene graph. Mesh
// references that cannot be fetched or parsed are skipped with a warning;
// only a malformed document itself is a fatal error.
func Import(data []byte, opts Options) (*scenegraph.Model, error) {
	doc, err := formats.ParseURDF(data)
	if err != nil {
		return nil, err
	}

	b := &builder{opts: opts, log: opts.log()}
	return b.build(doc)
}

type builder struct {
	opts Options
	log  *zap.Logger
}

func (b *builder) build(doc *formats.URDF) (*scenegraph.Model, error) {
	model := &scenegraph.Model{
		Name:      doc.Name,
		Materials: make(map[string]*scenegraph.Material),
	}

	for i := range doc.Materials {
		m := &doc.Materials[i]
		if m.Name == "" {
			continue
		}
		model.Materials[m.Name] = convertMaterial(m)
	}

	linkNodes := make(map[string]*scenegraph.Node, len(doc.Links))
	for i := range doc.Links {
		link := &doc.Links[i]
		linkNodes[link.Name] = b.buildLink(link, model)
	}

	// Joints insert between parent and child links, carrying the child's
	// rest pose relative to the parent.
	for i := range doc.Joints {
		j := &doc.Joints[i]
		parent := linkNodes[j.Parent.Link]
		child := linkNodes[j.Child.Link]

		jointNode := scenegraph.NewNode(j.Name, scenegraph.KindJoint)
		jointNode.Joint = convertJoint(j)
		jointNode.Position = jointNode.Joint.RestPosition
		jointNode.Rotation = jointNode.Joint.RestRotation

		parent.Add(jointNode)
		jointNode.Add(child)
	}

	model.Root = linkNodes[doc.RootLink().Name]
	return model, nil
}

func (b *builder) buildLink(link *formats.URDFLink, model *scenegraph.Model) *scenegraph.Node {
	node := scenegraph.NewNode(link.Name, scenegraph.KindLink)

	for i := range link.Visuals {
		v := &link.Visuals[i]
		name := v.Name
		if name == "" {
			name = fmt.Sprintf("%s_visual_%d", link.Name, i)
		}

		child := scenegraph.NewNode(name, scenegraph.KindVisual)
		applyOrigin(child, v.Origin)

		geom, scale, err := b.buildGeometry(&v.Geometry)
		if err != nil {
			b.log.Warn("skipping visual geometry",
				zap.String("link", link.Name),
				zap.Error(err))
			continue
		}
		child.Scale = scale

		mat, matName := b.visualMaterial(v, model)
		mesh := scenegraph.NewMesh(geom, mat)
		mesh.MaterialName = matName
		mesh.CastShadow = true
		child.Mesh = mesh

		node.Add(child)
	}

	for i := range link.Collisions {
		c := &link.Collisions[i]
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("%s_collision_%d", link.Name, i)
		}

		child := scenegraph.NewNode(name, scenegraph.KindCollider)
		child.Visible = false
		applyOrigin(child, c.Origin)

		geom, scale, err := b.buildGeometry(&c.Geometry)
		if err != nil {
			b.log.Warn("skipping collision geometry",
				zap.String("link", link.Name),
				zap.Error(err))
			continue
		}
		child.Scale = scale

		mesh := scenegraph.NewMesh(geom, nil)
		mesh.CastShadow = false
		mesh.Pickable = false
		child.Mesh = mesh

		node.Add(child)
	}

	return node
}

// buildGeometry turns a URDF geometry variant into mesh data plus a node
// scale (external meshes may carry a per-axis scale).
func (b *builder) buildGeometry(g *formats.URDFGeometry) (*scenegraph.Geometry, math.Vec3, error) {
	scale := math.One()

	switch {
	case g.Box != nil:
		s := g.Box.Size
		return scenegraph.Box(s[0], s[1], s[2]), scale, nil

	case g.Cylinder != nil:
		return scenegraph.Cylinder(g.Cylinder.Radius, g.Cylinder.Length, 32), scale, nil

	case g.Sphere != nil:
		return scenegraph.Sphere(g.Sphere.Radius, 32, 16), scale, nil

	case g.Mesh != nil:
		geom, err := b.loadMesh(g.Mesh.Filename)
		if err != nil {
			return nil, scale, err
		}
		if g.Mesh.Scale != nil {
			s := *g.Mesh.Scale
			scale = math.Vec3{X: s[0], Y: s[1], Z: s[2]}
		}
		return geom, scale, nil
	}

	return nil, scale, fmt.Errorf("geometry has no variant")
}

func (b *builder) loadMesh(filename string) (*scenegraph.Geometry, error) {
	resolved, err := ResolvePackagePath(filename, b.opts.Packages, b.opts.PackageBase)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(resolved))
	if ext != ".stl" {
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}

	data, err := b.opts.fetch(resolved)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", resolved, err)
	}

	tri, err := formats.ParseSTL(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", resolved, err)
	}

	indices := make([]uint32, len(tri.Positions)/3)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return scenegraph.NewGeometry(tri.Positions, tri.Normals, indices), nil
}

func (b *builder) visualMaterial(v *formats.URDFVisual, model *scenegraph.Model) (*scenegraph.Material, string) {
	if v.Material == nil {
		return nil, ""
	}
	if v.Material.Color != nil {
		return convertMaterial(v.Material), ""
	}
	// A named reference without inline color resolves against the
	// robot-level material table when the model is mounted.
	return nil, v.Material.Name
}

func convertMaterial(m *formats.URDFMaterial) *scenegraph.Material {
	mat := scenegraph.DefaultMaterial()
	mat.Name = m.Name
	if m.Color != nil {
		mat.Color = [4]float32(m.Color.RGBA)
		mat.Translucent = m.Color.RGBA[3] < 1.0
	}
	return mat
}

func convertJoint(j *formats.URDFJoint) *scenegraph.Joint {
	joint := &scenegraph.Joint{
		Type:         convertJointType(j.Type),
		Axis:         vec3(j.AxisVector()),
		RestRotation: math.QuatIdentity(),
	}

	if j.Origin != nil {
		joint.RestPosition = vec3(j.Origin.XYZ)
		joint.RestRotation = math.QuatFromRPY(j.Origin.RPY[0], j.Origin.RPY[1], j.Origin.RPY[2])
	}

	if j.Limit != nil && (joint.Type == scenegraph.JointRevolute || joint.Type == scenegraph.JointPrismatic) {
		joint.Lower = j.Limit.Lower
		joint.Upper = j.Limit.Upper
		joint.HasLimits = true
	}

	return joint
}

func convertJointType(t formats.URDFJointType) scenegraph.JointType {
	switch t {
	case formats.JointRevolute:
		return scenegraph.JointRevolute
	case formats.JointContinuous:
		return scenegraph.JointContinuous
	case formats.JointPrismatic:
		return scenegraph.JointPrismatic
	case formats.JointPlanar:
		return scenegraph.JointPlanar
	case formats.JointFloating:
		return scenegraph.JointFloating
	default:
		return scenegraph.JointFixed
	}
}

func applyOrigin(n *scenegraph.Node, origin *formats.URDFOrigin) {
	if origin == nil {
		return
	}
	n.Position = vec3(origin.XYZ)
	n.Rotation = math.QuatFromRPY(origin.RPY[0], origin.RPY[1], origin.RPY[2])
}

func vec3(v formats.Vector3) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
