package mesh

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3 is the wire form of a coordinate: [x, y, z].
type Point3 [3]float64

// Vec converts to a gonum vector.
func (p Point3) Vec() r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// ToPoint3 converts a gonum vector to its wire form.
func ToPoint3(v r3.Vec) Point3 {
	return Point3{v.X, v.Y, v.Z}
}

// MeshPayload is one mesh in a request. Faces are given either as a flat
// triangle index list or as a count-prefixed polygon cell array.
type MeshPayload struct {
	Vertices  []Point3          `json:"vertices"`
	Triangles []int             `json:"triangles,omitempty"`
	Polys     []int             `json:"polys,omitempty"`
	Fiducials map[string]Point3 `json:"fiducials"`
}

// AttemptRequest is the wire form of one alignment attempt.
type AttemptRequest struct {
	ID   string      `json:"id,omitempty"`
	MRI  MeshPayload `json:"mri"`
	Head MeshPayload `json:"head"`
}

// DecodeAttemptRequest parses a JSON request.
func DecodeAttemptRequest(data []byte) (*AttemptRequest, error) {
	var req AttemptRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing request JSON: %w", err)
	}
	return &req, nil
}

// LoadAttemptRequest reads and parses a JSON request file.
func LoadAttemptRequest(path string) (*AttemptRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	return DecodeAttemptRequest(data)
}

// Mesh converts the payload geometry, rejecting non-triangle cells.
func (p *MeshPayload) Mesh() (*TriangleMesh, error) {
	if len(p.Vertices) == 0 {
		return nil, ErrEmptyMesh
	}
	triangles := p.Triangles
	if len(p.Polys) > 0 {
		if len(triangles) > 0 {
			return nil, fmt.Errorf("mesh has both triangles and polys")
		}
		var err error
		triangles, err = TrianglesFromCells(p.Polys)
		if err != nil {
			return nil, err
		}
	}
	if len(triangles) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(triangles)%3 != 0 {
		return nil, &InvalidMeshTopologyError{Cell: len(triangles) / 3, Size: len(triangles) % 3, Reason: "index list length is not a multiple of 3"}
	}
	for i, idx := range triangles {
		if idx < 0 || idx >= len(p.Vertices) {
			return nil, &InvalidMeshTopologyError{Cell: i / 3, Reason: "vertex index out of range"}
		}
	}

	m := &TriangleMesh{
		Vertices:  make([]r3.Vec, len(p.Vertices)),
		Triangles: append([]int(nil), triangles...),
	}
	for i, v := range p.Vertices {
		m.Vertices[i] = v.Vec()
	}
	return m, nil
}

// FiducialSet converts the payload fiducials. Unknown keys are rejected and
// all three slots must be present.
func (p *MeshPayload) FiducialSet() (FiducialSet, error) {
	var f FiducialSet
	for key, pt := range p.Fiducials {
		kind, err := ParseFiducialKind(key)
		if err != nil {
			return FiducialSet{}, err
		}
		if err := f.Set(kind, pt.Vec()); err != nil {
			return FiducialSet{}, err
		}
	}
	if missing := f.Missing(); len(missing) > 0 {
		return FiducialSet{}, fmt.Errorf("%w: missing %v", ErrIncompleteFiducials, missing)
	}
	return f, nil
}

// Attempt converts the request into an attempt, assigning a fresh ID when
// the request does not carry one.
func (r *AttemptRequest) Attempt() (*Attempt, error) {
	mri, err := r.MRI.input()
	if err != nil {
		return nil, fmt.Errorf("mri: %w", err)
	}
	head, err := r.Head.input()
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}
	a := NewAttempt(mri, head)
	if r.ID != "" {
		if err := a.SetID(r.ID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (p *MeshPayload) input() (MeshInput, error) {
	m, err := p.Mesh()
	if err != nil {
		return MeshInput{}, err
	}
	f, err := p.FiducialSet()
	if err != nil {
		return MeshInput{}, err
	}
	return MeshInput{Mesh: m, Fiducials: f}, nil
}
