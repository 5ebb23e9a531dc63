package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ProcessingConfig controls mesh preparation before landmark search.
type ProcessingConfig struct {
	SmoothIterations int     `yaml:"smoothIterations" json:"smoothIterations"`
	SmoothRelaxation float64 `yaml:"smoothRelaxation" json:"smoothRelaxation"`
	NasalTipZDivisor float64 `yaml:"nasalTipZDivisor" json:"nasalTipZDivisor"`
}

// DefaultProcessingConfig returns the standard preparation settings.
func DefaultProcessingConfig() ProcessingConfig {
	return ProcessingConfig{
		SmoothIterations: 15,
		SmoothRelaxation: 0.1,
		NasalTipZDivisor: 10,
	}
}

// Validate rejects settings that cannot be applied.
func (c ProcessingConfig) Validate() error {
	if c.SmoothIterations < 0 {
		return fmt.Errorf("processing.smoothIterations must not be negative")
	}
	if c.SmoothRelaxation < 0 || c.SmoothRelaxation > 1 {
		return fmt.Errorf("processing.smoothRelaxation must be within [0, 1]")
	}
	if c.NasalTipZDivisor < 0 {
		return fmt.Errorf("processing.nasalTipZDivisor must not be negative")
	}
	return nil
}

var (
	up   = r3.Vec{Z: 1}
	down = r3.Vec{Z: -1}
)

// Processor turns raw meshes and their fiducials into ProcessedMeshes.
type Processor struct {
	Config ProcessingConfig
	Cutter Cutter
}

// NewProcessor creates a processor. A nil cutter uses PlaneCutter.
func NewProcessor(config ProcessingConfig, cutter Cutter) *Processor {
	if cutter == nil {
		cutter = PlaneCutter{}
	}
	return &Processor{Config: config, Cutter: cutter}
}

// ProcessMRI moves the MRI mesh into canonical head space, smooths it and
// removes everything below the nasal tip.
func (p *Processor) ProcessMRI(raw *TriangleMesh, f FiducialSet) (*ProcessedMesh, error) {
	canonical, fids, t, err := BuildCanonicalMesh(raw, f)
	if err != nil {
		return nil, fmt.Errorf("mri mesh: %w", err)
	}

	smoothed, err := Smooth(canonical, p.Config.SmoothIterations, p.Config.SmoothRelaxation)
	if err != nil {
		return nil, fmt.Errorf("mri mesh: smoothing: %w", err)
	}

	cropped, err := p.Cutter.Cut(smoothed, fids.NasalTip, up)
	if err != nil {
		return nil, fmt.Errorf("mri mesh: cropping below nasal tip: %w", err)
	}
	Logf("[processor] mri mesh: %d -> %d vertices after crop", raw.VertexCount(), cropped.VertexCount())

	return p.finish(cropped, fids, t, "mri")
}

// ProcessHead moves the head-scan mesh into canonical head space and crops it
// below the nasal tip and above the highest point of the processed MRI mesh,
// which removes any cap or helmet worn during the scan.
func (p *Processor) ProcessHead(raw *TriangleMesh, f FiducialSet, mri *TriangleMesh) (*ProcessedMesh, error) {
	canonical, fids, t, err := BuildCanonicalMesh(raw, f)
	if err != nil {
		return nil, fmt.Errorf("head mesh: %w", err)
	}

	cropped, err := p.Cutter.Cut(canonical, fids.NasalTip, up)
	if err != nil {
		return nil, fmt.Errorf("head mesh: cropping below nasal tip: %w", err)
	}

	if mri != nil && !mri.IsEmpty() {
		top := highestVertex(mri)
		cropped, err = p.Cutter.Cut(cropped, top, down)
		if err != nil {
			return nil, fmt.Errorf("head mesh: cropping above z=%.4f: %w", top.Z, err)
		}
	}
	Logf("[processor] head mesh: %d -> %d vertices after crop", raw.VertexCount(), cropped.VertexCount())

	return p.finish(cropped, fids, t, "head")
}

func (p *Processor) finish(m *TriangleMesh, fids FiducialSet, t Transform, name string) (*ProcessedMesh, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("%s mesh: %w", name, ErrEmptyMesh)
	}
	g, err := BuildGraphFromMesh(m)
	if err != nil {
		return nil, fmt.Errorf("%s mesh: %w", name, err)
	}
	tip := g.Vertex(RefineNasalTip(m, fids.NasalTip, p.Config.NasalTipZDivisor))

	return &ProcessedMesh{
		Mesh:      m,
		Graph:     g,
		NasalTip:  tip,
		LPA:       fids.LPA,
		RPA:       fids.RPA,
		Transform: t,
	}, nil
}

// RefineNasalTip returns the index of the most anterior vertex lying below
// tip.Z + zRange/zDivisor. The hand-picked tip marks the underside of the
// nose, so the true tip sits a little higher. Index 0 is returned when no
// vertex qualifies.
func RefineNasalTip(m *TriangleMesh, tip r3.Vec, zDivisor float64) int {
	zLimit := tip.Z + extension(m.Extent().Z, zDivisor)
	best := 0
	bestX := math.Inf(-1)
	for i, v := range m.Vertices {
		if v.Z < zLimit && v.X > bestX {
			best = i
			bestX = v.X
		}
	}
	return best
}

func highestVertex(m *TriangleMesh) r3.Vec {
	top := m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		if v.Z > top.Z {
			top = v
		}
	}
	return top
}
