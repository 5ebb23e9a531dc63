package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Smooth applies Laplacian smoothing: on each iteration every vertex moves a
// fraction relaxation of the way towards the centroid of its neighbors.
// Isolated vertices stay put. The input mesh is not modified.
func Smooth(m *TriangleMesh, iterations int, relaxation float64) (*TriangleMesh, error) {
	out := m.Clone()
	if iterations <= 0 || relaxation == 0 {
		return out, nil
	}
	g, err := BuildGraphFromMesh(m)
	if err != nil {
		return nil, err
	}

	next := make([]r3.Vec, len(out.Vertices))
	for it := 0; it < iterations; it++ {
		for i, v := range g.Vertices {
			pos := out.Vertices[i]
			if len(v.Neighbors) == 0 {
				next[i] = pos
				continue
			}
			var sum r3.Vec
			for _, n := range v.Neighbors {
				sum = r3.Add(sum, out.Vertices[n])
			}
			centroid := r3.Scale(1/float64(len(v.Neighbors)), sum)
			next[i] = r3.Add(pos, r3.Scale(relaxation, r3.Sub(centroid, pos)))
		}
		out.Vertices, next = next, out.Vertices
	}
	return out, nil
}
