package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Cutter removes the part of a mesh on one side of a plane.
type Cutter interface {
	Cut(m *TriangleMesh, point, normal r3.Vec) (*TriangleMesh, error)
}

// CutterFunc adapts a function to the Cutter interface.
type CutterFunc func(m *TriangleMesh, point, normal r3.Vec) (*TriangleMesh, error)

func (f CutterFunc) Cut(m *TriangleMesh, point, normal r3.Vec) (*TriangleMesh, error) {
	return f(m, point, normal)
}

// PlaneCutter keeps the half-space the normal points into. Triangles that
// cross the plane are clipped; each crossing edge gets one new vertex shared
// by both triangles on it, so the result stays connected. Vertices no
// triangle uses are dropped. Surviving original vertices keep their relative
// order and new edge vertices follow them.
type PlaneCutter struct{}

type edgeKey struct{ a, b int }

func (PlaneCutter) Cut(m *TriangleMesh, point, normal r3.Vec) (*TriangleMesh, error) {
	if len(m.Triangles)%3 != 0 {
		return nil, &InvalidMeshTopologyError{Cell: len(m.Triangles) / 3, Size: len(m.Triangles) % 3, Reason: "index list length is not a multiple of 3"}
	}

	dist := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		dist[i] = r3.Dot(r3.Sub(v, point), normal)
	}

	// refs >= 0 are original vertices, refs < 0 are edge points (-1 - n).
	var (
		refs      []int
		edgePts   []r3.Vec
		edgeIndex = make(map[edgeKey]int)
	)
	edgeRef := func(in, out int) int {
		if dist[in] == 0 {
			return in
		}
		key := edgeKey{min(in, out), max(in, out)}
		if n, ok := edgeIndex[key]; ok {
			return -1 - n
		}
		t := dist[in] / (dist[in] - dist[out])
		p := r3.Add(m.Vertices[in], r3.Scale(t, r3.Sub(m.Vertices[out], m.Vertices[in])))
		edgePts = append(edgePts, p)
		edgeIndex[key] = len(edgePts) - 1
		return -len(edgePts)
	}
	emit := func(a, b, c int) {
		if a == b || b == c || a == c {
			return
		}
		refs = append(refs, a, b, c)
	}

	for t := 0; t < len(m.Triangles); t += 3 {
		tri := [3]int{m.Triangles[t], m.Triangles[t+1], m.Triangles[t+2]}
		var inside [3]bool
		count := 0
		for i, idx := range tri {
			if idx < 0 || idx >= len(m.Vertices) {
				return nil, &InvalidMeshTopologyError{Cell: t / 3, Reason: "vertex index out of range"}
			}
			if dist[idx] >= 0 {
				inside[i] = true
				count++
			}
		}

		switch count {
		case 3:
			emit(tri[0], tri[1], tri[2])
		case 1:
			// rotate so the inside vertex is first, keeping winding order
			r := rotateTo(inside, true)
			i, j, k := tri[r], tri[(r+1)%3], tri[(r+2)%3]
			emit(i, edgeRef(i, j), edgeRef(i, k))
		case 2:
			r := rotateTo(inside, false)
			k, i, j := tri[r], tri[(r+1)%3], tri[(r+2)%3]
			pj := edgeRef(j, k)
			pi := edgeRef(i, k)
			emit(i, j, pj)
			emit(i, pj, pi)
		}
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("cutting at %v normal %v: %w", point, normal, ErrEmptyMesh)
	}

	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	for _, r := range refs {
		if r >= 0 {
			remap[r] = 0
		}
	}
	out := &TriangleMesh{Triangles: make([]int, len(refs))}
	for i, v := range m.Vertices {
		if remap[i] == 0 {
			remap[i] = len(out.Vertices)
			out.Vertices = append(out.Vertices, v)
		}
	}
	base := len(out.Vertices)
	out.Vertices = append(out.Vertices, edgePts...)

	for i, r := range refs {
		if r >= 0 {
			out.Triangles[i] = remap[r]
		} else {
			out.Triangles[i] = base + (-1 - r)
		}
	}
	return out, nil
}

// rotateTo returns the position of the single entry equal to want.
func rotateTo(inside [3]bool, want bool) int {
	for i, v := range inside {
		if v == want {
			return i
		}
	}
	return 0
}
