package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateFiducials matches any *DegenerateFiducialError.
	ErrDegenerateFiducials = errors.New("degenerate fiducials")
	// ErrInvalidTopology matches any *InvalidMeshTopologyError.
	ErrInvalidTopology = errors.New("invalid mesh topology")
	// ErrEmptyMesh is returned when an input or a cut leaves no triangles.
	ErrEmptyMesh = errors.New("mesh is empty")
	// ErrIncompleteFiducials is returned when a fiducial slot was never captured.
	ErrIncompleteFiducials = errors.New("incomplete fiducials")
)

// DegenerateFiducialError reports fiducials that do not define a frame:
// coincident preauricular points or a nasal tip on the interaural line.
type DegenerateFiducialError struct {
	Reason string
}

func (e *DegenerateFiducialError) Error() string {
	return "degenerate fiducials: " + e.Reason
}

func (e *DegenerateFiducialError) Is(target error) bool {
	return target == ErrDegenerateFiducials
}

// InvalidMeshTopologyError reports a cell that is not a triangle, or a
// triangle that references a vertex outside the mesh.
type InvalidMeshTopologyError struct {
	Cell   int
	Size   int
	Reason string
}

func (e *InvalidMeshTopologyError) Error() string {
	if e.Size > 0 && e.Size != 3 {
		return fmt.Sprintf("invalid mesh topology: cell %d has %d vertices, want 3", e.Cell, e.Size)
	}
	return fmt.Sprintf("invalid mesh topology: cell %d: %s", e.Cell, e.Reason)
}

func (e *InvalidMeshTopologyError) Is(target error) bool {
	return target == ErrInvalidTopology
}
