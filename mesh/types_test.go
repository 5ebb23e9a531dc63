package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFiducialKind(t *testing.T) {
	for _, k := range FiducialKinds {
		parsed, err := ParseFiducialKind(k.Key())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
		assert.NotEmpty(t, k.Label())
		assert.Equal(t, k.Key(), k.String())
	}

	_, err := ParseFiducialKind("nasion")
	assert.Error(t, err)
	assert.Equal(t, "FiducialKind(0)", FiducialKind(0).String())
}

func TestFiducialSet_Capture(t *testing.T) {
	var f FiducialSet
	assert.Equal(t, FiducialKinds, f.Missing())
	assert.False(t, f.Complete())

	require.NoError(t, f.Set(RightPreauricular, r3.Vec{Y: -1}))
	require.NoError(t, f.Set(NasalTip, r3.Vec{X: 1}))
	assert.Equal(t, []FiducialKind{LeftPreauricular}, f.Missing())

	_, ok := f.Get(LeftPreauricular)
	assert.False(t, ok)

	// recapturing a slot replaces it
	require.NoError(t, f.Set(NasalTip, r3.Vec{X: 2}))
	p, ok := f.Get(NasalTip)
	assert.True(t, ok)
	assert.Equal(t, r3.Vec{X: 2}, p)

	require.NoError(t, f.Set(LeftPreauricular, r3.Vec{Y: 1}))
	assert.True(t, f.Complete())

	assert.Error(t, f.Set(FiducialKind(9), r3.Vec{}))

	f.Clear()
	assert.Len(t, f.Missing(), 3)
	assert.Equal(t, r3.Vec{}, f.NasalTip)
}

func TestTriangleMesh_Bounds(t *testing.T) {
	m := &TriangleMesh{
		Vertices:  []r3.Vec{{X: 1, Y: -2, Z: 3}, {X: -1, Y: 4, Z: 0}, {X: 0, Y: 0, Z: 5}},
		Triangles: []int{0, 1, 2},
	}

	b := m.Bounds()
	assert.Equal(t, r3.Vec{X: -1, Y: -2, Z: 0}, b.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 4, Z: 5}, b.Max)
	assert.Equal(t, r3.Vec{X: 2, Y: 6, Z: 5}, m.Extent())
	assert.Equal(t, 1, m.TriangleCount())
	assert.False(t, m.IsEmpty())

	empty := &TriangleMesh{}
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, r3.Vec{}, empty.Extent())
}

func TestTriangleMesh_Clone(t *testing.T) {
	m := unitSquare()
	c := m.Clone()
	c.Vertices[0].X = 9
	c.Triangles[0] = 3

	assert.Equal(t, 0.0, m.Vertices[0].X)
	assert.Equal(t, 0, m.Triangles[0])
}
