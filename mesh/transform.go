package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a 4x4 homogeneous matrix in row-major order. Points are
// treated as column vectors: p' = T * [x y z 1]^T.
type Transform [4][4]float64

// Identity returns an identity transform (no transformation)
func Identity() Transform {
	return Transform{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation creates a translation-only transform
func Translation(v r3.Vec) Transform {
	t := Identity()
	t[0][3] = v.X
	t[1][3] = v.Y
	t[2][3] = v.Z
	return t
}

// RotationRows creates a rotation whose rows are the three given axes.
// Applying it expresses a point in the frame spanned by those axes.
func RotationRows(a, b, c r3.Vec) Transform {
	return Transform{
		{a.X, a.Y, a.Z, 0},
		{b.X, b.Y, b.Z, 0},
		{c.X, c.Y, c.Z, 0},
		{0, 0, 0, 1},
	}
}

// Apply transforms a single point.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0][0]*p.X + t[0][1]*p.Y + t[0][2]*p.Z + t[0][3],
		Y: t[1][0]*p.X + t[1][1]*p.Y + t[1][2]*p.Z + t[1][3],
		Z: t[2][0]*p.X + t[2][1]*p.Y + t[2][2]*p.Z + t[2][3],
	}
}

// ApplyAll transforms multiple points
func (t Transform) ApplyAll(points []r3.Vec) []r3.Vec {
	result := make([]r3.Vec, len(points))
	for i, p := range points {
		result[i] = t.Apply(p)
	}
	return result
}

// ApplyMesh returns a copy of m with every vertex transformed. Triangles are
// shared index-for-index with the input.
func (t Transform) ApplyMesh(m *TriangleMesh) *TriangleMesh {
	out := &TriangleMesh{
		Vertices:  t.ApplyAll(m.Vertices),
		Triangles: make([]int, len(m.Triangles)),
	}
	copy(out.Triangles, m.Triangles)
	return out
}

// Dense returns the transform as a gonum matrix.
func (t Transform) Dense() *mat.Dense {
	data := make([]float64, 0, 16)
	for _, row := range t {
		data = append(data, row[:]...)
	}
	return mat.NewDense(4, 4, data)
}

func transformFromDense(m mat.Matrix) Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			t[i][j] = m.At(i, j)
		}
	}
	return t
}

// Compose returns t1 * t2: applying the result is equivalent to applying t2
// first, then t1.
func Compose(t1, t2 Transform) Transform {
	var out mat.Dense
	out.Mul(t1.Dense(), t2.Dense())
	return transformFromDense(&out)
}

// Inverse returns the inverse transform. Rigid transforms are always
// invertible; an error is only returned for singular input.
func (t Transform) Inverse() (Transform, error) {
	var inv mat.Dense
	if err := inv.Inverse(t.Dense()); err != nil {
		return Transform{}, fmt.Errorf("inverting transform: %w", err)
	}
	return transformFromDense(&inv), nil
}

// Rows returns the matrix as nested slices for serialization.
func (t Transform) Rows() [][]float64 {
	rows := make([][]float64, 4)
	for i := range t {
		rows[i] = append([]float64(nil), t[i][:]...)
	}
	return rows
}
