package mesh

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r3"
)

// Divisors size a search window as fractions of the mesh extent. A zero
// divisor means no extension on that side: the bound collapses to the start
// coordinate.
type Divisors struct {
	YMin float64 `yaml:"yMin" json:"yMin"`
	YMax float64 `yaml:"yMax" json:"yMax"`
	ZMin float64 `yaml:"zMin" json:"zMin"`
	ZMax float64 `yaml:"zMax" json:"zMax"`
}

// SearchWindow is a closed rectangle over the (Y, Z) plane. The bound's
// first coordinate is Y, the second Z.
type SearchWindow struct {
	Bound orb.Bound
}

// NewSearchWindow builds a window from explicit closed intervals.
func NewSearchWindow(yMin, yMax, zMin, zMax float64) SearchWindow {
	return SearchWindow{Bound: orb.Bound{
		Min: orb.Point{yMin, zMin},
		Max: orb.Point{yMax, zMax},
	}}
}

// WindowAround extends a window from start by extent/divisor on each side
// that has a non-zero divisor.
func WindowAround(start, extent r3.Vec, d Divisors) SearchWindow {
	return NewSearchWindow(
		start.Y-extension(extent.Y, d.YMin),
		start.Y+extension(extent.Y, d.YMax),
		start.Z-extension(extent.Z, d.ZMin),
		start.Z+extension(extent.Z, d.ZMax),
	)
}

func extension(extent, divisor float64) float64 {
	if divisor == 0 {
		return 0
	}
	return extent / divisor
}

// Contains reports whether p lies inside the window, bounds inclusive. The X
// coordinate is ignored.
func (w SearchWindow) Contains(p r3.Vec) bool {
	return w.Bound.Contains(orb.Point{p.Y, p.Z})
}

// YBounds returns the closed Y interval.
func (w SearchWindow) YBounds() (float64, float64) {
	return w.Bound.Min[0], w.Bound.Max[0]
}

// ZBounds returns the closed Z interval.
func (w SearchWindow) ZBounds() (float64, float64) {
	return w.Bound.Min[1], w.Bound.Max[1]
}

// Unbounded returns a window that contains every point.
func Unbounded() SearchWindow {
	return NewSearchWindow(-math.MaxFloat64, math.MaxFloat64, -math.MaxFloat64, math.MaxFloat64)
}
