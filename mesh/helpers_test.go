package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vecsEqual(a, b r3.Vec) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func init() {
	SetLogger(nil)
}

// gridMesh builds a height field X = f(y, z) sampled on an ny x nz grid.
// Vertex (i, j) has index i*nz + j, with i along Y and j along Z.
func gridMesh(ny, nz int, y0, z0, step float64, f func(y, z float64) float64) *TriangleMesh {
	m := &TriangleMesh{}
	for i := 0; i < ny; i++ {
		for j := 0; j < nz; j++ {
			y := y0 + float64(i)*step
			z := z0 + float64(j)*step
			m.Vertices = append(m.Vertices, r3.Vec{X: f(y, z), Y: y, Z: z})
		}
	}
	for i := 0; i < ny-1; i++ {
		for j := 0; j < nz-1; j++ {
			a := i*nz + j
			b := (i+1)*nz + j
			c := i*nz + j + 1
			d := (i+1)*nz + j + 1
			m.Triangles = append(m.Triangles, a, b, c, b, d, c)
		}
	}
	return m
}

// faceX is a crude face in canonical head space: a rounded forehead plus a
// nose bump centred just above z = 0. The small linear Y term breaks
// left/right ties.
func faceX(y, z float64) float64 {
	dz := z - 0.01
	nose := 0.02 * math.Exp(-(y*y/0.0002 + dz*dz/0.0008))
	return 0.08 - 3*y*y + 0.001*y + nose
}

// faceMesh samples faceX with rows at odd multiples of 5mm so that no vertex
// lies on the z = 0 crop plane.
func faceMesh(rows int) *TriangleMesh {
	return gridMesh(16, rows, -0.075, -0.035, 0.01, faceX)
}

// canonicalFiducials are the fiducials of faceMesh in canonical space.
func canonicalFiducials() FiducialSet {
	return NewFiducialSet(r3.Vec{X: 0.1}, r3.Vec{Y: 0.07}, r3.Vec{Y: -0.07})
}

func rotZ(theta float64) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	return RotationRows(r3.Vec{X: c, Y: -s}, r3.Vec{X: s, Y: c}, r3.Vec{Z: 1})
}

func rotX(theta float64) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	return RotationRows(r3.Vec{X: 1}, r3.Vec{Y: c, Z: -s}, r3.Vec{Y: s, Z: c})
}

// rawInput places a canonical mesh and its fiducials somewhere arbitrary.
func rawInput(m *TriangleMesh, f FiducialSet, t Transform) MeshInput {
	return MeshInput{
		Mesh:      t.ApplyMesh(m),
		Fiducials: NewFiducialSet(t.Apply(f.NasalTip), t.Apply(f.LPA), t.Apply(f.RPA)),
	}
}

func mustGraph(t *testing.T, m *TriangleMesh) *Graph {
	t.Helper()
	g, err := BuildGraphFromMesh(m)
	if err != nil {
		t.Fatalf("BuildGraphFromMesh() error = %v", err)
	}
	return g
}
