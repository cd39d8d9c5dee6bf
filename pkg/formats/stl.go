// STL (stereolithography) mesh parser, binary and ASCII variants.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// STL format errors.
var (
	ErrTruncatedSTL = errors.New("stl: truncated data")
	ErrInvalidSTL   = errors.New("stl: unrecognized data")
)

const stlBinaryHeaderSize = 84  // 80-byte comment + uint32 triangle count
const stlBinaryTriangleSize = 50 // normal + 3 vertices (12 floats) + attribute word

// TriMesh is a flat triangle soup: one position and one normal per vertex,
// three vertices per triangle, no index buffer.
type TriMesh struct {
	Positions []float32 // x,y,z per vertex
	Normals   []float32 // x,y,z per vertex
}

// TriangleCount returns the number of triangles in the mesh.
func (m *TriMesh) TriangleCount() int {
	return len(m.Positions) / 9
}

// ParseSTL parses an STL mesh, auto-detecting the binary and ASCII variants.
// Binary detection is by exact size accounting rather than the "solid"
// prefix, since binary exporters may also start the comment with "solid".
func ParseSTL(data []byte) (*TriMesh, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCIISTL(data)
	}
	return nil, ErrInvalidSTL
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlBinaryHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	return len(data) == stlBinaryHeaderSize+int(count)*stlBinaryTriangleSize
}

func parseBinarySTL(data []byte) (*TriMesh, error) {
	count := int(binary.LittleEndian.Uint32(data[80:84]))
	mesh := &TriMesh{
		Positions: make([]float32, 0, count*9),
		Normals:   make([]float32, 0, count*9),
	}

	off := stlBinaryHeaderSize
	for t := 0; t < count; t++ {
		var normal [3]float32
		for i := 0; i < 3; i++ {
			normal[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}

		var verts [9]float32
		for i := 0; i < 9; i++ {
			verts[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		off += 2 // attribute byte count, unused

		if normal == ([3]float32{}) {
			normal = faceNormal(verts)
		}
		mesh.Positions = append(mesh.Positions, verts[:]...)
		for i := 0; i < 3; i++ {
			mesh.Normals = append(mesh.Normals, normal[0], normal[1], normal[2])
		}
	}

	return mesh, nil
}

func parseASCIISTL(data []byte) (*TriMesh, error) {
	mesh := &TriMesh{}

	var normal [3]float32
	var verts []float32

	for lineNo, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "facet":
			// "facet normal nx ny nz"
			if len(fields) != 5 {
				return nil, fmt.Errorf("%w: line %d: malformed facet", ErrInvalidSTL, lineNo+1)
			}
			if err := parseSTLFloats(fields[2:], normal[:]); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSTL, lineNo+1, err)
			}
			verts = verts[:0]
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("%w: line %d: malformed vertex", ErrInvalidSTL, lineNo+1)
			}
			var v [3]float32
			if err := parseSTLFloats(fields[1:], v[:]); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSTL, lineNo+1, err)
			}
			verts = append(verts, v[0], v[1], v[2])
		case "endfacet":
			if len(verts) != 9 {
				return nil, fmt.Errorf("%w: line %d: facet with %d vertices", ErrInvalidSTL, lineNo+1, len(verts)/3)
			}
			var tri [9]float32
			copy(tri[:], verts)
			if normal == ([3]float32{}) {
				normal = faceNormal(tri)
			}
			mesh.Positions = append(mesh.Positions, tri[:]...)
			for i := 0; i < 3; i++ {
				mesh.Normals = append(mesh.Normals, normal[0], normal[1], normal[2])
			}
		}
	}

	if len(mesh.Positions) == 0 {
		return nil, fmt.Errorf("%w: no facets", ErrInvalidSTL)
	}
	return mesh, nil
}

func parseSTLFloats(fields []string, out []float32) error {
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return err
		}
		out[i] = float32(v)
	}
	return nil
}

// faceNormal computes a unit normal from the triangle winding, used when
// the file carries a zero normal.
func faceNormal(v [9]float32) [3]float32 {
	ux, uy, uz := v[3]-v[0], v[4]-v[1], v[5]-v[2]
	wx, wy, wz := v[6]-v[0], v[7]-v[1], v[8]-v[2]

	nx := uy*wz - uz*wy
	ny := uz*wx - ux*wz
	nz := ux*wy - uy*wx

	l := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if l == 0 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{nx / l, ny / l, nz / l}
}
