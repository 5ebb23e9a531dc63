package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is one mesh point together with the indices of every vertex it
// shares a triangle with. Neighbors are sorted ascending and never contain
// the vertex itself.
type Vertex struct {
	ID        int    `json:"id"`
	Coords    r3.Vec `json:"coords"`
	Neighbors []int  `json:"-"`
}

// TriangleMesh is a pure triangle mesh: a vertex list plus a flattened index
// list contributing exactly 3 vertex indices per triangle.
type TriangleMesh struct {
	Vertices  []r3.Vec
	Triangles []int
}

// VertexCount returns the number of vertices.
func (m *TriangleMesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *TriangleMesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Triangles) == 0
}

// Clone returns a deep copy of the mesh.
func (m *TriangleMesh) Clone() *TriangleMesh {
	c := &TriangleMesh{
		Vertices:  make([]r3.Vec, len(m.Vertices)),
		Triangles: make([]int, len(m.Triangles)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Triangles, m.Triangles)
	return c
}

// Bounds returns the axis-aligned bounding box of the mesh vertices.
// An empty mesh yields the zero box.
func (m *TriangleMesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min.X = min(b.Min.X, v.X)
		b.Min.Y = min(b.Min.Y, v.Y)
		b.Min.Z = min(b.Min.Z, v.Z)
		b.Max.X = max(b.Max.X, v.X)
		b.Max.Y = max(b.Max.Y, v.Y)
		b.Max.Z = max(b.Max.Z, v.Z)
	}
	return b
}

// Extent returns the size of the bounding box along each axis.
func (m *TriangleMesh) Extent() r3.Vec {
	b := m.Bounds()
	return r3.Sub(b.Max, b.Min)
}

// FiducialKind names one of the three hand-picked reference points. The zero
// value is not a valid kind.
type FiducialKind int

const (
	NasalTip FiducialKind = iota + 1
	LeftPreauricular
	RightPreauricular
)

// FiducialKinds lists every kind in capture order.
var FiducialKinds = []FiducialKind{NasalTip, LeftPreauricular, RightPreauricular}

// Key is the wire name of the fiducial, as used in request payloads.
func (k FiducialKind) Key() string {
	switch k {
	case NasalTip:
		return "nasal_tip"
	case LeftPreauricular:
		return "lpa_pt"
	case RightPreauricular:
		return "rpa_pt"
	}
	return ""
}

// Label is the human readable capture mode name.
func (k FiducialKind) Label() string {
	switch k {
	case NasalTip:
		return "Nasal Tip Underside"
	case LeftPreauricular:
		return "Left Preauricular Point"
	case RightPreauricular:
		return "Right Preauricular Point"
	}
	return ""
}

func (k FiducialKind) String() string {
	if key := k.Key(); key != "" {
		return key
	}
	return fmt.Sprintf("FiducialKind(%d)", int(k))
}

// ParseFiducialKind maps a wire name back to its kind.
func ParseFiducialKind(s string) (FiducialKind, error) {
	for _, k := range FiducialKinds {
		if k.Key() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown fiducial %q", s)
}

// FiducialSet holds the three captured reference points of one mesh.
type FiducialSet struct {
	NasalTip r3.Vec
	LPA      r3.Vec
	RPA      r3.Vec

	captured [3]bool
}

// NewFiducialSet returns a complete set from three points.
func NewFiducialSet(nasalTip, lpa, rpa r3.Vec) FiducialSet {
	return FiducialSet{
		NasalTip: nasalTip,
		LPA:      lpa,
		RPA:      rpa,
		captured: [3]bool{true, true, true},
	}
}

// Set captures the point for one slot, replacing any earlier capture.
func (f *FiducialSet) Set(kind FiducialKind, p r3.Vec) error {
	switch kind {
	case NasalTip:
		f.NasalTip = p
	case LeftPreauricular:
		f.LPA = p
	case RightPreauricular:
		f.RPA = p
	default:
		return fmt.Errorf("set fiducial: %v", kind)
	}
	f.captured[kind-1] = true
	return nil
}

// Get returns the captured point for a slot.
func (f *FiducialSet) Get(kind FiducialKind) (r3.Vec, bool) {
	switch kind {
	case NasalTip:
		return f.NasalTip, f.captured[0]
	case LeftPreauricular:
		return f.LPA, f.captured[1]
	case RightPreauricular:
		return f.RPA, f.captured[2]
	}
	return r3.Vec{}, false
}

// Missing returns the kinds that have not been captured yet.
func (f *FiducialSet) Missing() []FiducialKind {
	var missing []FiducialKind
	for i, k := range FiducialKinds {
		if !f.captured[i] {
			missing = append(missing, k)
		}
	}
	return missing
}

// Complete reports whether all three slots are captured.
func (f *FiducialSet) Complete() bool {
	return len(f.Missing()) == 0
}

// Clear forgets every captured point.
func (f *FiducialSet) Clear() {
	*f = FiducialSet{}
}

// ProcessedMesh is one mesh after the canonical transform, cropping and graph
// construction. It belongs to a single alignment attempt.
type ProcessedMesh struct {
	Mesh      *TriangleMesh
	Graph     *Graph
	NasalTip  Vertex
	LPA       r3.Vec
	RPA       r3.Vec
	Transform Transform
}

// LandmarkSet is the ordered landmark output for one mesh.
type LandmarkSet struct {
	Nasion            Vertex
	LeftEndocanthion  Vertex
	RightEndocanthion Vertex
	ForeheadLeft      Vertex
	ForeheadRight     Vertex
	NasalBridge       Vertex
	HasBridge         bool
	LPA               r3.Vec
	RPA               r3.Vec
}

// LandmarkNames labels the entries returned by Coords, in order.
var LandmarkNames = []string{
	"nasion",
	"left_endocanthion",
	"right_endocanthion",
	"forehead_left",
	"forehead_right",
	"nasal_bridge",
	"lpa",
	"rpa",
}

// Ordered returns the five single-mesh landmarks in their fixed order.
func (s *LandmarkSet) Ordered() []Vertex {
	return []Vertex{s.Nasion, s.LeftEndocanthion, s.RightEndocanthion, s.ForeheadLeft, s.ForeheadRight}
}

// Coords returns the landmark coordinates handed to registration: the five
// walked landmarks, the nasal bridge (if located) and then lpa, rpa.
func (s *LandmarkSet) Coords() []r3.Vec {
	coords := make([]r3.Vec, 0, 8)
	for _, v := range s.Ordered() {
		coords = append(coords, v.Coords)
	}
	if s.HasBridge {
		coords = append(coords, s.NasalBridge.Coords)
	}
	return append(coords, s.LPA, s.RPA)
}

// Names returns the labels matching Coords.
func (s *LandmarkSet) Names() []string {
	if s.HasBridge {
		return LandmarkNames
	}
	names := make([]string, 0, 7)
	names = append(names, LandmarkNames[:5]...)
	return append(names, LandmarkNames[6:]...)
}
