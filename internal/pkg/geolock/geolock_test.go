package geolock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellKeyDeterministic(t *testing.T) {
	t.Parallel()

	l := New(nil)

	a := l.CellKey(12.9716, 77.5946)
	b := l.CellKey(12.9716, 77.5946)
	assert.Equal(t, a, b)
}

func TestCellKeyNearbyPointsShareCell(t *testing.T) {
	t.Parallel()

	l := New(nil)

	// ~15m apart, well within one cell
	a := l.CellKey(12.97160, 77.59460)
	b := l.CellKey(12.97173, 77.59465)
	assert.Equal(t, a, b)
}

func TestCellKeyFarPointsDiffer(t *testing.T) {
	t.Parallel()

	l := New(nil)

	a := l.CellKey(12.9716, 77.5946)
	b := l.CellKey(13.0350, 77.5970)
	assert.NotEqual(t, a, b)
}

func TestCellKeyNegativeCoordinates(t *testing.T) {
	t.Parallel()

	l := New(nil)

	a := l.CellKey(-33.8688, 151.2093)
	b := l.CellKey(33.8688, -151.2093)
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "geolock:")
}
