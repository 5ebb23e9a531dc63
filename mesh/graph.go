package mesh

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Graph is the vertex adjacency of a triangle mesh. Vertices are indexed by
// their position in the source mesh and the graph is immutable once built.
type Graph struct {
	Vertices []Vertex
}

// BuildGraph connects every vertex to the other two vertices of each triangle
// it belongs to. Adjacency is symmetric by construction.
func BuildGraph(vertices []r3.Vec, triangles []int) (*Graph, error) {
	if len(triangles)%3 != 0 {
		return nil, &InvalidMeshTopologyError{
			Cell:   len(triangles) / 3,
			Size:   len(triangles) % 3,
			Reason: "index list length is not a multiple of 3",
		}
	}

	g := &Graph{Vertices: make([]Vertex, len(vertices))}
	for i, v := range vertices {
		g.Vertices[i] = Vertex{ID: i, Coords: v}
	}

	for t := 0; t < len(triangles); t += 3 {
		tri := triangles[t : t+3]
		for _, idx := range tri {
			if idx < 0 || idx >= len(vertices) {
				return nil, &InvalidMeshTopologyError{Cell: t / 3, Reason: "vertex index out of range"}
			}
		}
		for i, a := range tri {
			for j, b := range tri {
				if i != j && a != b {
					g.Vertices[a].Neighbors = append(g.Vertices[a].Neighbors, b)
				}
			}
		}
	}

	// Sorted neighbor lists fix the breadth-first discovery order of the walk.
	for i := range g.Vertices {
		n := g.Vertices[i].Neighbors
		slices.Sort(n)
		g.Vertices[i].Neighbors = slices.Compact(n)
	}
	return g, nil
}

// BuildGraphFromMesh is BuildGraph over a TriangleMesh.
func BuildGraphFromMesh(m *TriangleMesh) (*Graph, error) {
	return BuildGraph(m.Vertices, m.Triangles)
}

// TrianglesFromCells flattens a count-prefixed polygon cell array
// ([n, i0, .., in-1, n, ...]) into a triangle index list. Any cell that is
// not a triangle is rejected; no partial result is returned.
func TrianglesFromCells(cells []int) ([]int, error) {
	triangles := make([]int, 0, len(cells)/4*3)
	cell := 0
	for i := 0; i < len(cells); cell++ {
		n := cells[i]
		if n != 3 {
			return nil, &InvalidMeshTopologyError{Cell: cell, Size: n, Reason: "non-triangle polygon"}
		}
		if i+1+n > len(cells) {
			return nil, &InvalidMeshTopologyError{Cell: cell, Reason: "truncated cell array"}
		}
		triangles = append(triangles, cells[i+1:i+1+n]...)
		i += 1 + n
	}
	return triangles, nil
}

// Len returns the number of vertices in the graph.
func (g *Graph) Len() int {
	return len(g.Vertices)
}

// Vertex returns the vertex with the given index.
func (g *Graph) Vertex(id int) Vertex {
	return g.Vertices[id]
}
