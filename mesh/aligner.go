package mesh

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MeshInput is a raw mesh with its hand-picked fiducials.
type MeshInput struct {
	Mesh      *TriangleMesh
	Fiducials FiducialSet
}

// Attempt is the state of one alignment attempt. Nothing in it is shared
// with other attempts; a retry builds a new Attempt.
type Attempt struct {
	ID   uuid.UUID
	MRI  MeshInput
	Head MeshInput
}

// NewAttempt creates an attempt with a random ID.
func NewAttempt(mri, head MeshInput) *Attempt {
	return &Attempt{ID: uuid.New(), MRI: mri, Head: head}
}

// SetID replaces the attempt ID with a caller-supplied UUID.
func (a *Attempt) SetID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid attempt id %q: %w", id, err)
	}
	a.ID = parsed
	return nil
}

// NamedPoint is one labelled landmark coordinate.
type NamedPoint struct {
	Name   string `json:"name"`
	Point  Point3 `json:"point"`
	Vertex int    `json:"vertex"`
}

// MeshResult is the landmark output for one mesh.
type MeshResult struct {
	Landmarks []NamedPoint   `json:"landmarks"`
	NasalTip  Point3         `json:"nasalTip"`
	Transform [][]float64    `json:"transform"`
	Vertices  int            `json:"vertices"`
	Processed *ProcessedMesh `json:"-"`
	Set       LandmarkSet    `json:"-"`
}

// AttemptResult is everything an attempt hands back to the shell.
type AttemptResult struct {
	ID        string              `json:"id"`
	MRI       MeshResult          `json:"mri"`
	Head      MeshResult          `json:"head"`
	Agreement []LandmarkAgreement `json:"agreement"`
	Usable    int                 `json:"usable"`
	CreatedAt int64               `json:"createdAt"`
}

// Aligner runs attempts end to end: process both meshes, locate landmarks on
// each, then the shared nasal bridge, then compare.
type Aligner struct {
	Processor *Processor
	Locator   *Locator
	Tolerance float64
}

// NewAligner wires an aligner from configuration. A nil cutter uses
// PlaneCutter.
func NewAligner(config *Config, cutter Cutter) *Aligner {
	return &Aligner{
		Processor: NewProcessor(config.Processing, cutter),
		Locator:   NewLocator(config.Locator),
		Tolerance: config.AgreementTolerance,
	}
}

// Run executes one attempt. The two single-mesh landmark pipelines run
// concurrently; the bridge step waits for both.
func (a *Aligner) Run(ctx context.Context, at *Attempt) (*AttemptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mri, err := a.Processor.ProcessMRI(at.MRI.Mesh, at.MRI.Fiducials)
	if err != nil {
		return nil, fmt.Errorf("attempt %s: %w", at.ID, err)
	}
	head, err := a.Processor.ProcessHead(at.Head.Mesh, at.Head.Fiducials, mri.Mesh)
	if err != nil {
		return nil, fmt.Errorf("attempt %s: %w", at.ID, err)
	}

	var mriSet, headSet LandmarkSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mriSet = a.Locator.LocateLandmarks(mri)
		return gctx.Err()
	})
	g.Go(func() error {
		headSet = a.Locator.LocateLandmarks(head)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("attempt %s: %w", at.ID, err)
	}

	a.Locator.LocateCommonBridge(mri, head, &mriSet, &headSet)

	names := mriSet.Names()
	agreement := CompareLandmarks(names, mriSet.Coords(), headSet.Coords(), a.Tolerance)
	usable := 0
	for _, ag := range agreement {
		if ag.Agrees {
			usable++
		}
	}
	Logf("[aligner] attempt %s: %d/%d landmarks agree within %.4f", at.ID, usable, len(agreement), a.Tolerance)

	return &AttemptResult{
		ID:        at.ID.String(),
		MRI:       meshResult(mri, mriSet),
		Head:      meshResult(head, headSet),
		Agreement: agreement,
		Usable:    usable,
		CreatedAt: time.Now().Unix(),
	}, nil
}

func meshResult(pm *ProcessedMesh, set LandmarkSet) MeshResult {
	names := set.Names()
	coords := set.Coords()
	ordered := append(set.Ordered(), set.NasalBridge)

	landmarks := make([]NamedPoint, len(coords))
	for i, c := range coords {
		landmarks[i] = NamedPoint{Name: names[i], Point: ToPoint3(c), Vertex: -1}
		if i < len(ordered) && (i < 5 || set.HasBridge) {
			landmarks[i].Vertex = ordered[i].ID
		}
	}
	return MeshResult{
		Landmarks: landmarks,
		NasalTip:  ToPoint3(pm.NasalTip.Coords),
		Transform: pm.Transform.Rows(),
		Vertices:  pm.Mesh.VertexCount(),
		Processed: pm,
		Set:       set,
	}
}
