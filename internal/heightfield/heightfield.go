package heightfield

import (
	"fmt"
	"math"

	"cray-scenes/internal/mesh"
	"cray-scenes/internal/noise"
)

// Layout selects which vertex component receives the height.
type Layout int

const (
	// HeightZ places samples at (x, y, h); terrain lies in the XY plane.
	HeightZ Layout = iota
	// HeightY places samples at (x, h, y); terrain lies in the XZ plane (Y up).
	HeightY
)

// HeightFunc returns the height at one grid point.
type HeightFunc func(x, y float64) float64

// NoiseOptions perturb sampled heights with fractal Perlin noise:
// h += Fractal3(x*Scale, y*Scale, Z) * Amplitude.
type NoiseOptions struct {
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Amplitude   float64
	Z           float64
}

// Options describes one heightfield mesh. Xs and Ys are the two grid axes; Height is
// sampled at every point (nil means flat). Noise, when non-nil, is added on top.
// WithNormals requests finite-difference vertex normals.
type Options struct {
	Xs, Ys      []float64
	Height      HeightFunc
	Noise       *NoiseOptions
	Layout      Layout
	WithNormals bool
}

// Sample evaluates f at every grid point. A nil f gives all zeros.
func Sample(g Grid, f HeightFunc) []float64 {
	h := make([]float64, g.Len())
	if f == nil {
		return h
	}
	for k := range h {
		h[k] = f(g.X[k], g.Y[k])
	}
	return h
}

// AddNoise returns a copy of h with fractal noise added, sampled at the grid coordinates.
func AddNoise(g Grid, h []float64, o NoiseOptions) []float64 {
	no := noise.Options{
		Octaves:     o.Octaves,
		Persistence: o.Persistence,
		Lacunarity:  o.Lacunarity,
	}
	out := make([]float64, len(h))
	for k := range h {
		out[k] = h[k] + noise.Fractal3(g.X[k]*o.Scale, g.Y[k]*o.Scale, o.Z, no)*o.Amplitude
	}
	return out
}

// Triangulate returns the faces of a rows x cols grid. Every cell (i, j) with
// idx = i*cols + j contributes (idx, idx+1, idx+cols) and (idx+1, idx+1+cols, idx+cols).
// The last row and column only close cells and never wrap around.
func Triangulate(rows, cols int) []mesh.Tri {
	if rows < 2 || cols < 2 {
		return nil
	}
	faces := make([]mesh.Tri, 0, 2*(rows-1)*(cols-1))
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			idx := i*cols + j
			faces = append(faces,
				mesh.Tri{idx, idx + 1, idx + cols},
				mesh.Tri{idx + 1, idx + 1 + cols, idx + cols},
			)
		}
	}
	return faces
}

// Normals estimates unit vertex normals from central differences of h along both grid
// axes divided by the differences of the coordinates themselves. This is an
// approximation; where two neighbouring samples share a coordinate the division yields
// Inf or NaN and the normal is left that way.
//
// The unit up component follows the layout: (a, 1, b) for HeightY, (a, b, 1) for HeightZ.
// Earlier island and water exports wrote (a, b, 1) for their Y-up meshes as well, so
// HeightY normals differ from those files.
func Normals(g Grid, h []float64, layout Layout) []mesh.Vec3 {
	dhCol := make([]float64, g.Len())
	dxCol := make([]float64, g.Len())
	dhRow := make([]float64, g.Len())
	dyRow := make([]float64, g.Len())
	for i := 0; i < g.Rows; i++ {
		base := i * g.Cols
		gradient(h, base, 1, g.Cols, dhCol)
		gradient(g.X, base, 1, g.Cols, dxCol)
	}
	for j := 0; j < g.Cols; j++ {
		gradient(h, j, g.Cols, g.Rows, dhRow)
		gradient(g.Y, j, g.Cols, g.Rows, dyRow)
	}

	out := make([]mesh.Vec3, g.Len())
	for k := range out {
		a := -dhCol[k] / dxCol[k]
		b := -dhRow[k] / dyRow[k]
		norm := math.Sqrt(a*a + b*b + 1)
		a, b, up := a/norm, b/norm, 1/norm
		if layout == HeightY {
			out[k] = mesh.Vec3{float32(a), float32(up), float32(b)}
		} else {
			out[k] = mesh.Vec3{float32(a), float32(b), float32(up)}
		}
	}
	return out
}

// gradient writes the unit-spacing derivative of n samples of src starting at off with
// the given stride into dst at the same positions. Interior points use central
// differences; the ends use second-order one-sided differences when n >= 3.
func gradient(src []float64, off, stride, n int, dst []float64) {
	at := func(k int) float64 { return src[off+k*stride] }
	set := func(k int, v float64) { dst[off+k*stride] = v }
	switch {
	case n <= 0:
		return
	case n == 1:
		set(0, 0)
		return
	case n == 2:
		d := at(1) - at(0)
		set(0, d)
		set(1, d)
		return
	}
	set(0, (-3*at(0)+4*at(1)-at(2))/2)
	for k := 1; k < n-1; k++ {
		set(k, (at(k+1)-at(k-1))/2)
	}
	set(n-1, (3*at(n-1)-4*at(n-2)+at(n-3))/2)
}

// Build samples the heightfield described by o and returns its mesh.
func Build(o Options) (*mesh.Mesh, error) {
	if len(o.Xs) < 2 || len(o.Ys) < 2 {
		return nil, fmt.Errorf("heightfield: need at least 2 samples per axis, got %dx%d", len(o.Xs), len(o.Ys))
	}
	g := Meshgrid(o.Xs, o.Ys)
	h := Sample(g, o.Height)
	if o.Noise != nil {
		h = AddNoise(g, h, *o.Noise)
	}

	m := &mesh.Mesh{
		Vertices: make([]mesh.Vec3, g.Len()),
		Faces:    Triangulate(g.Rows, g.Cols),
	}
	for k := range m.Vertices {
		x, y, z := float32(g.X[k]), float32(g.Y[k]), float32(h[k])
		if o.Layout == HeightY {
			m.Vertices[k] = mesh.Vec3{x, z, y}
		} else {
			m.Vertices[k] = mesh.Vec3{x, y, z}
		}
	}
	if o.WithNormals {
		m.Normals = Normals(g, h, o.Layout)
	}
	return m, nil
}
