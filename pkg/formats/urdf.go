// Package formats provides parsers for robot description and mesh file formats.
// URDF (Unified Robot Description Format) parser for articulated models.
package formats

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// URDF format errors.
var (
	ErrNoLinks          = errors.New("urdf: robot has no links")
	ErrDuplicateLink    = errors.New("urdf: duplicate link name")
	ErrDuplicateJoint   = errors.New("urdf: duplicate joint name")
	ErrUnknownLink      = errors.New("urdf: joint references unknown link")
	ErrUnknownJointType = errors.New("urdf: unknown joint type")
)

// Vector3 is a space-separated 3-component vector attribute ("x y z").
type Vector3 [3]float32

// UnmarshalXMLAttr parses a whitespace-separated float triple.
func (v *Vector3) UnmarshalXMLAttr(attr xml.Attr) error {
	return parseFloats(attr.Value, v[:])
}

// Vector4 is a space-separated 4-component vector attribute ("r g b a").
type Vector4 [4]float32

// UnmarshalXMLAttr parses a whitespace-separated float quad.
func (v *Vector4) UnmarshalXMLAttr(attr xml.Attr) error {
	return parseFloats(attr.Value, v[:])
}

func parseFloats(s string, out []float32) error {
	fields := strings.Fields(s)
	if len(fields) != len(out) {
		return fmt.Errorf("expected %d components, got %d in %q", len(out), len(fields), s)
	}
	for i, f := range fields {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		out[i] = float32(val)
	}
	return nil
}

// URDFJointType enumerates the joint types a URDF document may declare.
type URDFJointType string

const (
	JointRevolute   URDFJointType = "revolute"
	JointContinuous URDFJointType = "continuous"
	JointPrismatic  URDFJointType = "prismatic"
	JointFixed      URDFJointType = "fixed"
	JointFloating   URDFJointType = "floating"
	JointPlanar     URDFJointType = "planar"
)

func validJointType(t URDFJointType) bool {
	switch t {
	case JointRevolute, JointContinuous, JointPrismatic, JointFixed, JointFloating, JointPlanar:
		return true
	}
	return false
}

// URDFOrigin is a pose offset: translation xyz plus fixed-axis roll/pitch/yaw.
type URDFOrigin struct {
	XYZ Vector3 `xml:"xyz,attr"`
	RPY Vector3 `xml:"rpy,attr"`
}

// URDFColor is an rgba material color.
type URDFColor struct {
	RGBA Vector4 `xml:"rgba,attr"`
}

// URDFTexture references a texture image file.
type URDFTexture struct {
	Filename string `xml:"filename,attr"`
}

// URDFMaterial is a named material, declared at robot level or inline in a visual.
type URDFMaterial struct {
	Name    string       `xml:"name,attr"`
	Color   *URDFColor   `xml:"color"`
	Texture *URDFTexture `xml:"texture"`
}

// URDFBox is a box primitive with full extents.
type URDFBox struct {
	Size Vector3 `xml:"size,attr"`
}

// URDFCylinder is a cylinder primitive aligned with the local Z axis.
type URDFCylinder struct {
	Radius float32 `xml:"radius,attr"`
	Length float32 `xml:"length,attr"`
}

// URDFSphere is a sphere primitive.
type URDFSphere struct {
	Radius float32 `xml:"radius,attr"`
}

// URDFMeshRef references an external mesh file, optionally scaled.
type URDFMeshRef struct {
	Filename string   `xml:"filename,attr"`
	Scale    *Vector3 `xml:"scale,attr"`
}

// URDFGeometry holds exactly one of the geometry variants.
type URDFGeometry struct {
	Box      *URDFBox      `xml:"box"`
	Cylinder *URDFCylinder `xml:"cylinder"`
	Sphere   *URDFSphere   `xml:"sphere"`
	Mesh     *URDFMeshRef  `xml:"mesh"`
}

// URDFVisual is render geometry attached to a link.
type URDFVisual struct {
	Name     string        `xml:"name,attr"`
	Origin   *URDFOrigin   `xml:"origin"`
	Geometry URDFGeometry  `xml:"geometry"`
	Material *URDFMaterial `xml:"material"`
}

// URDFCollision is collision geometry attached to a link.
type URDFCollision struct {
	Name     string       `xml:"name,attr"`
	Origin   *URDFOrigin  `xml:"origin"`
	Geometry URDFGeometry `xml:"geometry"`
}

// URDFLink is a rigid body segment of the robot.
type URDFLink struct {
	Name       string          `xml:"name,attr"`
	Visuals    []URDFVisual    `xml:"visual"`
	Collisions []URDFCollision `xml:"collision"`
}

// URDFLinkRef names a link from within a joint.
type URDFLinkRef struct {
	Link string `xml:"link,attr"`
}

// URDFAxis is the joint's axis of motion in the joint frame.
type URDFAxis struct {
	XYZ Vector3 `xml:"xyz,attr"`
}

// URDFLimit bounds a joint's motion.
type URDFLimit struct {
	Lower    float32 `xml:"lower,attr"`
	Upper    float32 `xml:"upper,attr"`
	Effort   float32 `xml:"effort,attr"`
	Velocity float32 `xml:"velocity,attr"`
}

// URDFJoint connects a parent link to a child link with constrained motion.
type URDFJoint struct {
	Name   string        `xml:"name,attr"`
	Type   URDFJointType `xml:"type,attr"`
	Origin *URDFOrigin   `xml:"origin"`
	Parent URDFLinkRef   `xml:"parent"`
	Child  URDFLinkRef   `xml:"child"`
	Axis   *URDFAxis     `xml:"axis"`
	Limit  *URDFLimit    `xml:"limit"`
}

// AxisVector returns the joint axis, defaulting to +X as the URDF spec does.
func (j *URDFJoint) AxisVector() Vector3 {
	if j.Axis == nil {
		return Vector3{1, 0, 0}
	}
	return j.Axis.XYZ
}

// URDF is a parsed robot description document.
type URDF struct {
	XMLName   xml.Name       `xml:"robot"`
	Name      string         `xml:"name,attr"`
	Materials []URDFMaterial `xml:"material"`
	Links     []URDFLink     `xml:"link"`
	Joints    []URDFJoint    `xml:"joint"`
}

// ParseURDF parses and validates a URDF XML document.
func ParseURDF(data []byte) (*URDF, error) {
	doc := &URDF{}
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("urdf: %w", err)
	}

	if len(doc.Links) == 0 {
		return nil, ErrNoLinks
	}

	links := make(map[string]bool, len(doc.Links))
	for _, link := range doc.Links {
		if links[link.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLink, link.Name)
		}
		links[link.Name] = true
	}

	joints := make(map[string]bool, len(doc.Joints))
	for i := range doc.Joints {
		j := &doc.Joints[i]
		if joints[j.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateJoint, j.Name)
		}
		joints[j.Name] = true

		if !validJointType(j.Type) {
			return nil, fmt.Errorf("%w: joint %q has type %q", ErrUnknownJointType, j.Name, j.Type)
		}
		if !links[j.Parent.Link] {
			return nil, fmt.Errorf("%w: joint %q parent %q", ErrUnknownLink, j.Name, j.Parent.Link)
		}
		if !links[j.Child.Link] {
			return nil, fmt.Errorf("%w: joint %q child %q", ErrUnknownLink, j.Name, j.Child.Link)
		}
	}

	return doc, nil
}

// RootLink returns the link that is never the child of any joint.
// A well-formed kinematic tree has exactly one; ties pick the first in
// document order, so a malformed document still yields a usable root.
func (d *URDF) RootLink() *URDFLink {
	isChild := make(map[string]bool, len(d.Joints))
	for _, j := range d.Joints {
		isChild[j.Child.Link] = true
	}
	for i := range d.Links {
		if !isChild[d.Links[i].Name] {
			return &d.Links[i]
		}
	}
	return &d.Links[0]
}
