package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerlinZeroOnLattice(t *testing.T) {
	for _, p := range [][3]float64{{0, 0, 0}, {1, 2, 3}, {-4, 7, 0}, {300, -2, 11}} {
		assert.InDelta(t, 0.0, Perlin3(p[0], p[1], p[2]), 1e-12)
		assert.InDelta(t, 0.0, Perlin2(p[0], p[1]), 1e-12)
	}
}

func TestPerlinBoundedAndDeterministic(t *testing.T) {
	for i := 0; i < 2000; i++ {
		x := float64(i)*0.137 - 50
		y := float64(i%97)*0.291 + 3
		z := float64(i%13) * 0.77
		n3 := Perlin3(x, y, z)
		n2 := Perlin2(x, y)
		assert.LessOrEqual(t, math.Abs(n3), 1.1)
		assert.LessOrEqual(t, math.Abs(n2), 1.1)
		assert.Equal(t, n3, Perlin3(x, y, z))
	}
}

func TestPerlinContinuous(t *testing.T) {
	const h = 1e-4
	for i := 0; i < 200; i++ {
		x, y, z := float64(i)*0.31, float64(i)*0.17+0.5, 0.25
		assert.InDelta(t, Perlin3(x, y, z), Perlin3(x+h, y, z), 0.01)
		assert.InDelta(t, Perlin2(x, y), Perlin2(x, y+h), 0.01)
	}
}

func TestFractalSingleOctaveMatchesBase(t *testing.T) {
	o := Options{Octaves: 1, Persistence: 0.2, Lacunarity: 2}
	assert.InDelta(t, Perlin3(0.3, 1.7, 0), Fractal3(0.3, 1.7, 0, o), 1e-12)
	assert.InDelta(t, Perlin2(0.3, 1.7), Fractal2(0.3, 1.7, o), 1e-12)
}

func TestFractalNormalizedByAmplitude(t *testing.T) {
	o := Options{Octaves: 10, Persistence: 0.2, Lacunarity: 2}
	for i := 0; i < 500; i++ {
		x, y := float64(i)*0.053, float64(i)*0.029
		assert.LessOrEqual(t, math.Abs(Fractal3(x, y, 0, o)), 1.1)
	}
}

func TestFractalZeroOptionsUseDefaults(t *testing.T) {
	assert.Equal(t, Fractal3(0.4, 0.6, 0.1, DefaultOptions()), Fractal3(0.4, 0.6, 0.1, Options{}))
}

func TestBaseShiftsField(t *testing.T) {
	a := Fractal2(0.4, 0.6, Options{Octaves: 3})
	b := Fractal2(0.4, 0.6, Options{Octaves: 3, Base: 17})
	assert.NotEqual(t, a, b)
}
