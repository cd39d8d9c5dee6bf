// Package scenegraph provides the retained scene description the viewer
// composes and the renderer draws: a tree of transform-carrying nodes with
// an explicit, closed set of node kinds.
package scenegraph

import (
	"github.com/Faultbox/roboview/pkg/math"
)

// Kind classifies a node. The set is closed so traversals can match
// exhaustively instead of probing ad-hoc flags.
type Kind int

const (
	KindGroup Kind = iota
	KindLink
	KindJoint
	KindVisual
	KindCollider
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindLink:
		return "link"
	case KindJoint:
		return "joint"
	case KindVisual:
		return "visual"
	case KindCollider:
		return "collider"
	default:
		return "unknown"
	}
}

// Node is a transform-carrying element of the scene tree. A node may carry
// a mesh, a light, or joint state, depending on its kind.
type Node struct {
	Name string
	Kind Kind

	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	Visible bool

	Mesh  *Mesh
	Light *Light
	Joint *Joint

	parent   *Node
	children []*Node
}

// NewNode creates a node with identity transform.
func NewNode(name string, kind Kind) *Node {
	return &Node{
		Name:     name,
		Kind:     kind,
		Rotation: math.QuatIdentity(),
		Scale:    math.One(),
		Visible:  true,
	}
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children. The slice is owned by the node.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child under n, detaching it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. No-op if child is not a direct child.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Detach removes the node from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node's transform relative to the tree root.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Traverse visits the subtree rooted at n in pre-order. Returning false
// from fn skips the node's children.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Find returns the first node in the subtree with the given name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// Release frees the GPU-resident resources of every mesh in the subtree.
// Safe to call on subtrees that were never uploaded, and idempotent.
func (n *Node) Release() {
	n.Traverse(func(node *Node) bool {
		if node.Mesh != nil {
			node.Mesh.Release()
		}
		return true
	})
}

// WorldBounds accumulates the world-space bounding box of every mesh in
// the subtree. A node for which filter returns false is pruned together
// with its whole subtree.
func (n *Node) WorldBounds(filter func(*Node) bool) Bounds {
	b := EmptyBounds()
	n.worldBounds(math.Identity(), filter, &b)
	return b
}

func (n *Node) worldBounds(parent math.Mat4, filter func(*Node) bool, b *Bounds) {
	if !filter(n) {
		return
	}
	world := parent.Mul(n.LocalMatrix())
	if n.Mesh != nil {
		min, max := n.Mesh.Geometry.Bounds()
		b.ExtendBox(world, min, max)
	}
	for _, c := range n.children {
		c.worldBounds(world, filter, b)
	}
}

// Model is the product of a robot import: a mountable subtree plus the
// document's material table keyed by name.
type Model struct {
	Name      string
	Root      *Node
	Materials map[string]*Material
}

// Release frees the model's GPU-resident resources.
func (m *Model) Release() {
	if m != nil && m.Root != nil {
		m.Root.Release()
	}
}
