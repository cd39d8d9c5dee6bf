package scenegraph

import (
	gomath "math"
)

// Box returns a box centered at the origin with the given full extents.
func Box(sx, sy, sz float32) *Geometry {
	x, y, z := sx/2, sy/2, sz/2

	// 4 vertices per face so normals stay flat.
	positions := []float32{
		// +X
		x, -y, -z, x, y, -z, x, y, z, x, -y, z,
		// -X
		-x, -y, z, -x, y, z, -x, y, -z, -x, -y, -z,
		// +Y
		-x, y, -z, -x, y, z, x, y, z, x, y, -z,
		// -Y
		-x, -y, z, -x, -y, -z, x, -y, -z, x, -y, z,
		// +Z
		-x, -y, z, x, -y, z, x, y, z, -x, y, z,
		// -Z
		x, -y, -z, -x, -y, -z, -x, y, -z, x, y, -z,
	}
	normals := make([]float32, 0, len(positions))
	faceNormals := [][3]float32{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	for _, n := range faceNormals {
		for i := 0; i < 4; i++ {
			normals = append(normals, n[0], n[1], n[2])
		}
	}

	indices := make([]uint32, 0, 36)
	for f := uint32(0); f < 6; f++ {
		base := f * 4
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return NewGeometry(positions, normals, indices)
}

// Cylinder returns a cylinder along the Z axis, centered at the origin,
// matching the robot-description convention for cylinder primitives.
func Cylinder(radius, length float32, segments int) *Geometry {
	if segments < 3 {
		segments = 16
	}
	half := length / 2

	var positions, normals []float32
	var indices []uint32

	// Side: two rings of vertices with radial normals.
	for i := 0; i <= segments; i++ {
		angle := 2 * gomath.Pi * float64(i) / float64(segments)
		c := float32(gomath.Cos(angle))
		s := float32(gomath.Sin(angle))

		positions = append(positions, radius*c, radius*s, -half)
		normals = append(normals, c, s, 0)
		positions = append(positions, radius*c, radius*s, half)
		normals = append(normals, c, s, 0)
	}
	for i := 0; i < segments; i++ {
		base := uint32(i * 2)
		indices = append(indices, base, base+2, base+1, base+1, base+2, base+3)
	}

	// Caps: center fans with axial normals.
	for _, end := range []struct {
		z, nz float32
	}{{-half, -1}, {half, 1}} {
		center := uint32(len(positions) / 3)
		positions = append(positions, 0, 0, end.z)
		normals = append(normals, 0, 0, end.nz)
		for i := 0; i <= segments; i++ {
			angle := 2 * gomath.Pi * float64(i) / float64(segments)
			positions = append(positions,
				radius*float32(gomath.Cos(angle)),
				radius*float32(gomath.Sin(angle)),
				end.z)
			normals = append(normals, 0, 0, end.nz)
		}
		for i := 0; i < segments; i++ {
			a := center + 1 + uint32(i)
			b := center + 2 + uint32(i)
			if end.nz > 0 {
				indices = append(indices, center, a, b)
			} else {
				indices = append(indices, center, b, a)
			}
		}
	}

	return NewGeometry(positions, normals, indices)
}

// Sphere returns a UV sphere centered at the origin.
func Sphere(radius float32, widthSegs, heightSegs int) *Geometry {
	if widthSegs < 3 {
		widthSegs = 16
	}
	if heightSegs < 2 {
		heightSegs = 12
	}

	var positions, normals []float32
	var indices []uint32

	for y := 0; y <= heightSegs; y++ {
		v := float64(y) / float64(heightSegs)
		theta := v * gomath.Pi
		for x := 0; x <= widthSegs; x++ {
			u := float64(x) / float64(widthSegs)
			phi := u * 2 * gomath.Pi

			nx := float32(gomath.Sin(theta) * gomath.Cos(phi))
			ny := float32(gomath.Cos(theta))
			nz := float32(gomath.Sin(theta) * gomath.Sin(phi))

			positions = append(positions, radius*nx, radius*ny, radius*nz)
			normals = append(normals, nx, ny, nz)
		}
	}

	stride := uint32(widthSegs + 1)
	for y := 0; y < heightSegs; y++ {
		for x := 0; x < widthSegs; x++ {
			a := uint32(y)*stride + uint32(x)
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return NewGeometry(positions, normals, indices)
}

// Plane returns a quad in the XZ plane facing +Y, centered at the origin.
func Plane(width, depth float32) *Geometry {
	w, d := width/2, depth/2
	positions := []float32{
		-w, 0, -d,
		-w, 0, d,
		w, 0, d,
		w, 0, -d,
	}
	normals := []float32{
		0, 1, 0,
		0, 1, 0,
		0, 1, 0,
		0, 1, 0,
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return NewGeometry(positions, normals, indices)
}
