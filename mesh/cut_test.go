package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func flatGrid() *TriangleMesh {
	return gridMesh(5, 5, 0, 0, 0.25, func(y, z float64) float64 { return 0 })
}

func TestPlaneCutter_CutThroughVertices(t *testing.T) {
	out, err := PlaneCutter{}.Cut(flatGrid(), r3.Vec{Z: 0.5}, r3.Vec{Z: 1})
	require.NoError(t, err)

	// rows z = 0.5, 0.75, 1 survive; triangles touching the plane at a
	// single edge or vertex collapse and are dropped
	assert.Equal(t, 15, out.VertexCount())
	assert.Equal(t, 16, out.TriangleCount())
	for _, v := range out.Vertices {
		assert.GreaterOrEqual(t, v.Z, 0.5)
	}
}

func TestPlaneCutter_ClipsCrossingTriangles(t *testing.T) {
	out, err := PlaneCutter{}.Cut(flatGrid(), r3.Vec{Z: 0.6}, r3.Vec{Z: 1})
	require.NoError(t, err)

	// rows z = 0.75 and 1 plus one point on each of the 5 vertical and 4
	// diagonal edges crossing the plane
	assert.Equal(t, 19, out.VertexCount())

	onPlane := 0
	for _, v := range out.Vertices {
		assert.GreaterOrEqual(t, v.Z, 0.6-1e-12)
		if almostEqual(v.Z, 0.6) {
			onPlane++
		}
	}
	assert.Equal(t, 9, onPlane)

	// surviving original vertices come first, in order
	assert.Equal(t, r3.Vec{Y: 0, Z: 0.75}, out.Vertices[0])
	assert.Equal(t, r3.Vec{Y: 0, Z: 1}, out.Vertices[1])

	// shared edge points keep the result connected
	g := mustGraph(t, out)
	res := g.Walk(0, Maximize, Unbounded())
	assert.Equal(t, out.VertexCount()-1, res.Explored)
}

func TestPlaneCutter_KeepsSideNormalPointsInto(t *testing.T) {
	out, err := PlaneCutter{}.Cut(flatGrid(), r3.Vec{Z: 0.6}, r3.Vec{Z: -1})
	require.NoError(t, err)

	for _, v := range out.Vertices {
		assert.LessOrEqual(t, v.Z, 0.6+1e-12)
	}
	// rows z = 0, 0.25, 0.5 plus the 9 edge points
	assert.Equal(t, 24, out.VertexCount())
}

func TestPlaneCutter_Empty(t *testing.T) {
	_, err := PlaneCutter{}.Cut(flatGrid(), r3.Vec{Z: 5}, r3.Vec{Z: 1})
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestPlaneCutter_LeavesInputAlone(t *testing.T) {
	m := flatGrid()
	before := m.Clone()

	_, err := PlaneCutter{}.Cut(m, r3.Vec{Z: 0.6}, r3.Vec{Z: 1})
	require.NoError(t, err)
	assert.Equal(t, before, m)
}

func TestPlaneCutter_InvalidTopology(t *testing.T) {
	m := unitSquare()
	m.Triangles = append(m.Triangles, 0)

	_, err := PlaneCutter{}.Cut(m, r3.Vec{}, r3.Vec{Z: 1})
	assert.ErrorIs(t, err, ErrInvalidTopology)
}
