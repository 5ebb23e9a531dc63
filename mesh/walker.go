package mesh

// Target selects whether a walk minimizes or maximizes X.
type Target int

const (
	Minimize Target = iota + 1
	Maximize
)

func (t Target) String() string {
	switch t {
	case Minimize:
		return "min"
	case Maximize:
		return "max"
	}
	return "unknown"
}

func (t Target) better(x, best float64) bool {
	if t == Maximize {
		return x > best
	}
	return x < best
}

// WalkResult is the outcome of a directed walk. Improved is false when no
// in-bounds reachable vertex beat the start; Vertex is then the start itself.
type WalkResult struct {
	Vertex   Vertex
	Improved bool
	Explored int
}

// vertex bookkeeping for a walk; every vertex moves forward through these
// states at most once.
const (
	unseen uint8 = iota
	queued
	visited
	outOfBounds
)

// Walk searches breadth-first from start for the vertex with the extremal X
// value inside the window.
//
// In-bounds vertices expand to all their unaccounted neighbors. An
// out-of-bounds vertex checks its neighbors directly: in-bounds ones are
// queued, out-of-bounds ones are sealed without being expanded. The walk can
// therefore cross an out-of-bounds neck one vertex deep but never wanders
// into unrelated regions. Ties keep the earliest discovered vertex.
func (g *Graph) Walk(start int, target Target, w SearchWindow) WalkResult {
	state := make([]uint8, len(g.Vertices))
	state[start] = visited

	origin := g.Vertices[start]
	queue := make([]int, 0, len(origin.Neighbors))
	for _, n := range origin.Neighbors {
		if state[n] == unseen {
			state[n] = queued
			queue = append(queue, n)
		}
	}

	best := start
	bestX := origin.Coords.X
	explored := 0

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		state[idx] = visited
		explored++
		v := g.Vertices[idx]

		if w.Contains(v.Coords) {
			if target.better(v.Coords.X, bestX) {
				bestX = v.Coords.X
				best = idx
			}
			for _, n := range v.Neighbors {
				if state[n] == unseen {
					state[n] = queued
					queue = append(queue, n)
				}
			}
			continue
		}

		for _, n := range v.Neighbors {
			if state[n] != unseen {
				continue
			}
			if w.Contains(g.Vertices[n].Coords) {
				state[n] = queued
				queue = append(queue, n)
			} else {
				state[n] = outOfBounds
			}
		}
	}

	return WalkResult{
		Vertex:   g.Vertices[best],
		Improved: best != start,
		Explored: explored,
	}
}

// FindExtremum is Walk returning only the selected vertex.
func (g *Graph) FindExtremum(start int, target Target, w SearchWindow) Vertex {
	return g.Walk(start, target, w).Vertex
}
