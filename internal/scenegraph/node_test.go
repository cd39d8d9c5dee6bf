package scenegraph

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/roboview/pkg/math"
)

func TestNodeReparent(t *testing.T) {
	a := NewNode("a", KindGroup)
	b := NewNode("b", KindGroup)
	child := NewNode("child", KindLink)

	a.Add(child)
	if child.Parent() != a || len(a.Children()) != 1 {
		t.Fatal("child not attached to a")
	}

	b.Add(child)
	if child.Parent() != b {
		t.Error("child not reparented to b")
	}
	if len(a.Children()) != 0 {
		t.Error("child still listed under a")
	}
}

func TestNodeWorldMatrix(t *testing.T) {
	root := NewNode("root", KindGroup)
	root.Position = math.Vec3{X: 10}

	mid := NewNode("mid", KindGroup)
	mid.Rotation = math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2)
	root.Add(mid)

	leaf := NewNode("leaf", KindLink)
	leaf.Position = math.Vec3{X: 1}
	mid.Add(leaf)

	got := leaf.WorldMatrix().TransformPoint(math.Vec3{})
	want := math.Vec3{X: 10, Y: 1, Z: 0}
	if got.Sub(want).Length() > 1e-5 {
		t.Errorf("leaf world origin = %v, want %v", got, want)
	}
}

func TestNodeFind(t *testing.T) {
	root := NewNode("root", KindGroup)
	link := NewNode("elbow", KindLink)
	root.Add(link)

	if got := root.Find("elbow"); got != link {
		t.Errorf("Find(elbow) = %v, want link node", got)
	}
	if got := root.Find("missing"); got != nil {
		t.Errorf("Find(missing) = %v, want nil", got)
	}
}

func TestWorldBoundsSkipsColliders(t *testing.T) {
	root := NewNode("root", KindGroup)

	visual := NewNode("visual", KindVisual)
	visual.Mesh = NewMesh(Box(2, 2, 2), nil)
	root.Add(visual)

	collider := NewNode("collider", KindCollider)
	colMesh := NewNode("hull", KindGroup)
	colMesh.Mesh = NewMesh(Box(100, 100, 100), nil)
	collider.Add(colMesh)
	root.Add(collider)

	b := root.WorldBounds(func(n *Node) bool { return n.Kind != KindCollider })
	if b.IsEmpty() {
		t.Fatal("bounds empty")
	}
	if b.Max.X != 1 || b.Min.Y != -1 {
		t.Errorf("bounds include collider hull: %+v", b)
	}
}

func TestWorldBoundsTransformed(t *testing.T) {
	root := NewNode("root", KindGroup)
	visual := NewNode("visual", KindVisual)
	visual.Position = math.Vec3{Y: 5}
	visual.Mesh = NewMesh(Box(2, 2, 2), nil)
	root.Add(visual)

	b := root.WorldBounds(func(*Node) bool { return true })
	if b.Min.Y != 4 || b.Max.Y != 6 {
		t.Errorf("bounds = %+v, want Y in [4,6]", b)
	}
}

func TestMeshReleaseIdempotent(t *testing.T) {
	released := 0
	m := NewMesh(Box(1, 1, 1), nil)
	m.SetReleaser(func() { released++ })

	m.Release()
	m.Release()
	if released != 1 {
		t.Errorf("releaser called %d times, want 1", released)
	}
}

func TestMeshReuploadReleasesPrevious(t *testing.T) {
	released := 0
	m := NewMesh(Box(1, 1, 1), nil)
	m.SetReleaser(func() { released++ })
	m.SetReleaser(func() { released += 10 })

	if released != 1 {
		t.Fatalf("previous releaser not invoked on re-upload: %d", released)
	}
	m.Release()
	if released != 11 {
		t.Errorf("released = %d, want 11", released)
	}
}

func TestSubtreeRelease(t *testing.T) {
	released := 0
	root := NewNode("root", KindGroup)
	for i := 0; i < 3; i++ {
		child := NewNode("child", KindVisual)
		child.Mesh = NewMesh(Box(1, 1, 1), nil)
		child.Mesh.SetReleaser(func() { released++ })
		root.Add(child)
	}

	root.Release()
	if released != 3 {
		t.Errorf("released %d meshes, want 3", released)
	}
}

func TestGeometryBounds(t *testing.T) {
	g := Cylinder(0.5, 2, 16)
	min, max := g.Bounds()
	if min.Z != -1 || max.Z != 1 {
		t.Errorf("cylinder Z bounds = [%v, %v], want [-1, 1]", min.Z, max.Z)
	}
	if max.X < 0.49 || max.X > 0.51 {
		t.Errorf("cylinder X extent = %v, want ~0.5", max.X)
	}

	g = Plane(40, 40)
	min, max = g.Bounds()
	if min.Y != 0 || max.Y != 0 {
		t.Errorf("plane should be flat in Y, got [%v, %v]", min.Y, max.Y)
	}
}
