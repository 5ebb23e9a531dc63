package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// LocatorConfig holds the window divisors for every locator stage. The values
// are tuned to adult head proportions.
type LocatorConfig struct {
	Nasion            Divisors `yaml:"nasion" json:"nasion"`
	LeftEndocanthion  Divisors `yaml:"leftEndocanthion" json:"leftEndocanthion"`
	RightEndocanthion Divisors `yaml:"rightEndocanthion" json:"rightEndocanthion"`
	ForeheadLeft      Divisors `yaml:"foreheadLeft" json:"foreheadLeft"`
	ForeheadRight     Divisors `yaml:"foreheadRight" json:"foreheadRight"`
	BridgeYDivisor    float64  `yaml:"bridgeYDivisor" json:"bridgeYDivisor"`
}

// DefaultLocatorConfig returns the standard stage windows.
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		Nasion:            Divisors{YMin: 110, YMax: 110, ZMax: 3.5},
		LeftEndocanthion:  Divisors{YMax: 20, ZMin: 10, ZMax: 10},
		RightEndocanthion: Divisors{YMin: 20, ZMin: 10, ZMax: 10},
		ForeheadLeft:      Divisors{YMin: 100, YMax: 100, ZMax: 5},
		ForeheadRight:     Divisors{YMin: 100, YMax: 100, ZMax: 5},
		BridgeYDivisor:    100,
	}
}

// Validate rejects negative divisors.
func (c LocatorConfig) Validate() error {
	stages := []struct {
		name string
		d    Divisors
	}{
		{"nasion", c.Nasion},
		{"leftEndocanthion", c.LeftEndocanthion},
		{"rightEndocanthion", c.RightEndocanthion},
		{"foreheadLeft", c.ForeheadLeft},
		{"foreheadRight", c.ForeheadRight},
	}
	for _, s := range stages {
		if s.d.YMin < 0 || s.d.YMax < 0 || s.d.ZMin < 0 || s.d.ZMax < 0 {
			return fmt.Errorf("locator.%s: divisors must not be negative", s.name)
		}
	}
	if c.BridgeYDivisor < 0 {
		return fmt.Errorf("locator.bridgeYDivisor must not be negative")
	}
	return nil
}

// Locator finds anatomical landmarks on processed meshes.
type Locator struct {
	config LocatorConfig
}

// NewLocator creates a locator with the given stage windows.
func NewLocator(config LocatorConfig) *Locator {
	return &Locator{config: config}
}

// LocateLandmarks runs the five single-mesh stages in order. Each stage
// starts from the previous stage's result and falls back to its start point
// when nothing better is in reach, so this never fails.
func (l *Locator) LocateLandmarks(pm *ProcessedMesh) LandmarkSet {
	extent := pm.Mesh.Extent()
	g := pm.Graph

	walk := func(name string, from Vertex, target Target, d Divisors) Vertex {
		res := g.Walk(from.ID, target, WindowAround(from.Coords, extent, d))
		if !res.Improved {
			Logf("[locator] %s: no improvement from vertex %d (%d explored)", name, from.ID, res.Explored)
		}
		return res.Vertex
	}

	nasion := walk("nasion", pm.NasalTip, Minimize, l.config.Nasion)
	left := walk("left endocanthion", nasion, Minimize, l.config.LeftEndocanthion)
	right := walk("right endocanthion", nasion, Minimize, l.config.RightEndocanthion)
	foreheadLeft := walk("forehead left", left, Maximize, l.config.ForeheadLeft)
	foreheadRight := walk("forehead right", right, Maximize, l.config.ForeheadRight)

	return LandmarkSet{
		Nasion:            nasion,
		LeftEndocanthion:  left,
		RightEndocanthion: right,
		ForeheadLeft:      foreheadLeft,
		ForeheadRight:     foreheadRight,
		LPA:               pm.LPA,
		RPA:               pm.RPA,
	}
}

// BridgeWindows computes the nasal-bridge search window of each mesh. Both
// windows span half of the smaller nasion-to-tip height below their own
// nasion, so a mesh whose nose tip is stretched does not push its bridge
// point further down than the other mesh's.
func (l *Locator) BridgeWindows(a, b *ProcessedMesh, nasionA, nasionB Vertex) (SearchWindow, SearchWindow) {
	zDiff := min(nasionA.Coords.Z-a.NasalTip.Coords.Z, nasionB.Coords.Z-b.NasalTip.Coords.Z)

	window := func(pm *ProcessedMesh, nasion Vertex) SearchWindow {
		n := nasion.Coords
		dy := extension(pm.Mesh.Extent().Y, l.config.BridgeYDivisor)
		return NewSearchWindow(n.Y-dy, n.Y+dy, n.Z-zDiff/2, n.Z)
	}
	return window(a, nasionA), window(b, nasionB)
}

// LocateCommonBridge finds a comparable nasal-bridge point on two meshes by
// maximizing X from each nasion inside BridgeWindows. It must run after both
// landmark sets are complete; the bridge is recorded in each set.
func (l *Locator) LocateCommonBridge(a, b *ProcessedMesh, la, lb *LandmarkSet) (Vertex, Vertex) {
	wa, wb := l.BridgeWindows(a, b, la.Nasion, lb.Nasion)

	la.NasalBridge = a.Graph.FindExtremum(la.Nasion.ID, Maximize, wa)
	la.HasBridge = true
	lb.NasalBridge = b.Graph.FindExtremum(lb.Nasion.ID, Maximize, wb)
	lb.HasBridge = true

	return la.NasalBridge, lb.NasalBridge
}

// LandmarkAgreement compares one landmark across the two meshes.
type LandmarkAgreement struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Agrees   bool    `json:"agrees"`
}

// CompareLandmarks pairs landmark coordinates by position and flags pairs
// further apart than tolerance. Extra entries in the longer list are ignored.
func CompareLandmarks(names []string, a, b []r3.Vec, tolerance float64) []LandmarkAgreement {
	n := min(len(a), len(b))
	out := make([]LandmarkAgreement, n)
	for i := 0; i < n; i++ {
		d := r3.Norm(r3.Sub(a[i], b[i]))
		name := ""
		if i < len(names) {
			name = names[i]
		}
		out[i] = LandmarkAgreement{Name: name, Distance: d, Agrees: d <= tolerance}
	}
	return out
}

// UsablePairs keeps only the landmark pairs that agree, in order.
func UsablePairs(a, b []r3.Vec, agreement []LandmarkAgreement) ([]r3.Vec, []r3.Vec) {
	var ua, ub []r3.Vec
	for i, ag := range agreement {
		if ag.Agrees {
			ua = append(ua, a[i])
			ub = append(ub, b[i])
		}
	}
	return ua, ub
}
