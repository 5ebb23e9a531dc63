package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateLength is the smallest axis length accepted when building a frame.
const degenerateLength = 1e-12

// Frame is the canonical head frame: origin on the interaural axis, X
// anterior, Y left, Z superior.
type Frame struct {
	Origin   r3.Vec
	Anterior r3.Vec
	Left     r3.Vec
	Superior r3.Vec
}

// NewFrame derives the canonical frame from the three fiducials.
func NewFrame(f FiducialSet) (Frame, error) {
	right := r3.Sub(f.RPA, f.LPA)
	if r3.Norm(right) < degenerateLength {
		return Frame{}, &DegenerateFiducialError{Reason: "left and right preauricular points coincide"}
	}
	rightUnit := r3.Unit(right)

	// Closest point to the nasal tip on the interaural line.
	origin := r3.Add(f.LPA, r3.Scale(r3.Dot(r3.Sub(f.NasalTip, f.LPA), rightUnit), rightUnit))

	anterior := r3.Sub(f.NasalTip, origin)
	if r3.Norm(anterior) < degenerateLength {
		return Frame{}, &DegenerateFiducialError{Reason: "nasal tip lies on the interaural line"}
	}
	anteriorUnit := r3.Unit(anterior)

	return Frame{
		Origin:   origin,
		Anterior: anteriorUnit,
		Left:     r3.Scale(-1, rightUnit),
		Superior: r3.Cross(rightUnit, anteriorUnit),
	}, nil
}

// Transform maps raw coordinates into the frame: translate by -origin, then
// rotate by the matrix whose rows are the anterior, left and superior axes.
func (fr Frame) Transform() Transform {
	return Compose(RotationRows(fr.Anterior, fr.Left, fr.Superior), Translation(r3.Scale(-1, fr.Origin)))
}

// BuildCanonicalMesh moves a raw mesh and its fiducials into canonical head
// space. The raw mesh is not modified. The returned transform can be applied
// to the untouched original later, or inverted to undo the move.
func BuildCanonicalMesh(raw *TriangleMesh, f FiducialSet) (*TriangleMesh, FiducialSet, Transform, error) {
	if !f.Complete() {
		return nil, FiducialSet{}, Transform{}, fmt.Errorf("%w: missing %v", ErrIncompleteFiducials, f.Missing())
	}
	frame, err := NewFrame(f)
	if err != nil {
		return nil, FiducialSet{}, Transform{}, err
	}
	t := frame.Transform()

	moved := NewFiducialSet(t.Apply(f.NasalTip), t.Apply(f.LPA), t.Apply(f.RPA))
	return t.ApplyMesh(raw), moved, t, nil
}
