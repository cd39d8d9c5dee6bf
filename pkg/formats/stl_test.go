package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// createBinarySTL builds a binary STL with the given triangles.
// Each triangle is 12 floats: normal then 3 vertices.
func createBinarySTL(triangles [][12]float32) []byte {
	buf := new(bytes.Buffer)

	var header [80]byte
	copy(header[:], "solid binary exporter comment")
	buf.Write(header[:])

	binary.Write(buf, binary.LittleEndian, uint32(len(triangles)))
	for _, tri := range triangles {
		for _, f := range tri {
			binary.Write(buf, binary.LittleEndian, f)
		}
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}

	return buf.Bytes()
}

func TestParseSTLBinary(t *testing.T) {
	data := createBinarySTL([][12]float32{
		{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
	})

	mesh, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}

	if mesh.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
	if mesh.Positions[3] != 1 || mesh.Positions[7] != 1 {
		t.Errorf("unexpected positions: %v", mesh.Positions)
	}
	if mesh.Normals[2] != 1 {
		t.Errorf("expected normal z=1, got %v", mesh.Normals[:3])
	}
}

func TestParseSTLBinaryZeroNormal(t *testing.T) {
	// CCW triangle in the XY plane; winding implies +Z.
	data := createBinarySTL([][12]float32{
		{0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0},
	})

	mesh, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}
	if mesh.Normals[2] != 1 {
		t.Errorf("expected recomputed normal z=1, got %v", mesh.Normals[:3])
	}
}

func TestParseSTLASCII(t *testing.T) {
	src := `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`
	mesh, err := ParseSTL([]byte(src))
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
	if mesh.Positions[3] != 1 {
		t.Errorf("unexpected positions: %v", mesh.Positions)
	}
}

func TestParseSTLInvalid(t *testing.T) {
	if _, err := ParseSTL([]byte("not a mesh at all")); !errors.Is(err, ErrInvalidSTL) {
		t.Errorf("expected ErrInvalidSTL, got %v", err)
	}

	// Binary header with a triangle count the data cannot satisfy is
	// neither valid binary nor ASCII.
	data := createBinarySTL(nil)
	binary.LittleEndian.PutUint32(data[80:], 5)
	if _, err := ParseSTL(data); !errors.Is(err, ErrInvalidSTL) {
		t.Errorf("expected ErrInvalidSTL for truncated binary, got %v", err)
	}
}

func TestParseSTLASCIIMalformedVertex(t *testing.T) {
	src := `solid bad
  facet normal 0 0 1
    outer loop
      vertex 0 0
    endloop
  endfacet
endsolid bad
`
	if _, err := ParseSTL([]byte(src)); err == nil {
		t.Error("expected error for malformed vertex line")
	}
}
