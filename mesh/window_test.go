package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestWindowAround(t *testing.T) {
	start := r3.Vec{X: 9, Y: 1, Z: 2}
	extent := r3.Vec{X: 7, Y: 0.2, Z: 0.5}

	tests := []struct {
		name                   string
		d                      Divisors
		yMin, yMax, zMin, zMax float64
	}{
		{
			name: "all sides",
			d:    Divisors{YMin: 10, YMax: 20, ZMin: 5, ZMax: 2},
			yMin: 0.98, yMax: 1.01, zMin: 1.9, zMax: 2.25,
		},
		{
			name: "zero divisors collapse to start",
			d:    Divisors{},
			yMin: 1, yMax: 1, zMin: 2, zMax: 2,
		},
		{
			name: "one sided",
			d:    Divisors{YMax: 20, ZMin: 10, ZMax: 10},
			yMin: 1, yMax: 1.01, zMin: 1.95, zMax: 2.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowAround(start, extent, tt.d)
			yMin, yMax := w.YBounds()
			zMin, zMax := w.ZBounds()
			assert.InDelta(t, tt.yMin, yMin, 1e-12)
			assert.InDelta(t, tt.yMax, yMax, 1e-12)
			assert.InDelta(t, tt.zMin, zMin, 1e-12)
			assert.InDelta(t, tt.zMax, zMax, 1e-12)
		})
	}
}

func TestSearchWindow_Contains(t *testing.T) {
	w := NewSearchWindow(-1, 1, 0, 2)

	tests := []struct {
		name string
		p    r3.Vec
		want bool
	}{
		{name: "inside", p: r3.Vec{Y: 0, Z: 1}, want: true},
		{name: "min corner inclusive", p: r3.Vec{Y: -1, Z: 0}, want: true},
		{name: "max corner inclusive", p: r3.Vec{Y: 1, Z: 2}, want: true},
		{name: "x ignored", p: r3.Vec{X: 1e6, Y: 0, Z: 1}, want: true},
		{name: "below y", p: r3.Vec{Y: -1.0001, Z: 1}, want: false},
		{name: "above z", p: r3.Vec{Y: 0, Z: 2.0001}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.p))
		})
	}
}

func TestUnbounded(t *testing.T) {
	w := Unbounded()
	assert.True(t, w.Contains(r3.Vec{Y: -1e300, Z: 1e300}))
	assert.True(t, w.Contains(r3.Vec{}))
}
