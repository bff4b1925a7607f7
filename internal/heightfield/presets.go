package heightfield

import (
	"math"

	"cray-scenes/internal/noise"
)

// Volcano is a broad Gaussian cone with a narrow crater carved slightly off centre.
func Volcano(x, y float64) float64 {
	return 2.5*math.Exp(-0.4*(x*x+y*y)) - 2.5*math.Exp(-30*((x-0.15)*(x-0.15)+y*y))
}

// Island is a quartic ridge along x falling off quadratically along y.
func Island(x, y float64) float64 {
	q := (x - 0.8) * (x + 0.8)
	return -q*q - 2*y*y + 0.35
}

// WaterSurface returns a height function mixing 8-octave Perlin noise with a diagonal
// sine swell. time moves both the noise slice and the swell phase.
func WaterSurface(scale, amplitude, frequency, time float64) HeightFunc {
	o := noise.Options{Octaves: 8, Persistence: 0.5, Lacunarity: 2.0}
	return func(x, y float64) float64 {
		n := noise.Fractal3(x*scale, y*scale, time, o)
		return amplitude*n + 0.05*math.Sin(frequency*(x+y+time))
	}
}

// VolcanoOptions is the 100x100 volcano terrain over [-3, 3]^2 with 10-octave noise.
func VolcanoOptions() Options {
	return Options{
		Xs:     Linspace(-3.0, 3.0, 100),
		Ys:     Linspace(-3.0, 3.0, 100),
		Height: Volcano,
		Noise: &NoiseOptions{
			Scale:       3,
			Octaves:     10,
			Persistence: 0.2,
			Lacunarity:  2.0,
			Amplitude:   0.15,
		},
		Layout: HeightZ,
	}
}

// IslandOptions is the 40x20 Y-up island strip with 5-octave noise and normals.
func IslandOptions() Options {
	return Options{
		Xs:     Linspace(-1.2, 1.2, 40),
		Ys:     Linspace(-0.5, 0.5, 20),
		Height: Island,
		Noise: &NoiseOptions{
			Scale:       3,
			Octaves:     5,
			Persistence: 0.2,
			Lacunarity:  2.0,
			Amplitude:   0.1,
		},
		Layout:      HeightY,
		WithNormals: true,
	}
}

// WaterAxis is the non-uniform axis of the water plane: coarse out to +-5000 and
// progressively denser towards the centre. Segment endpoints are repeated.
func WaterAxis() []float64 {
	return Concat(
		Linspace(-5000.0, -100.0, 10),
		Linspace(-100.0, -45.0, 55),
		Linspace(-45.0, -25.0, 40),
		Linspace(-25.0, -10.0, 60),
		Linspace(-10.0, 10.0, 160),
		Linspace(10.0, 25.0, 60),
		Linspace(25.0, 45.0, 40),
		Linspace(45.0, 100.0, 55),
		Linspace(100.0, 5000.0, 10),
	)
}

// WaterOptions is the Y-up water surface at time 0 with normals.
func WaterOptions() Options {
	axis := WaterAxis()
	return Options{
		Xs:          axis,
		Ys:          axis,
		Height:      WaterSurface(0.25, 0.35, 2, 0),
		Layout:      HeightY,
		WithNormals: true,
	}
}
