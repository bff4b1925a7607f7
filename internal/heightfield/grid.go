package heightfield

import (
	"golang.org/x/exp/constraints"
)

// Linspace returns n evenly spaced samples from start to stop inclusive.
// n == 1 yields just start; n <= 0 yields an empty slice.
func Linspace[T constraints.Float](start, stop T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n == 1 {
		return []T{start}
	}
	out := make([]T, n)
	step := (stop - start) / T(n-1)
	for i := range out {
		out[i] = start + T(i)*step
	}
	out[n-1] = stop
	return out
}

// Concat joins axis segments end to end. Shared endpoints are kept, so a value that ends
// one segment and starts the next appears twice, giving a zero-width cell.
func Concat[T any](segments ...[]T) []T {
	n := 0
	for _, s := range segments {
		n += len(s)
	}
	out := make([]T, 0, n)
	for _, s := range segments {
		out = append(out, s...)
	}
	return out
}

// Grid is a rectangular set of sample points stored row-major: row i follows the second
// axis (ys[i]), column j follows the first axis (xs[j]).
type Grid struct {
	Rows, Cols int
	X, Y       []float64
}

// Meshgrid expands two axes into a Grid with len(ys) rows and len(xs) columns.
func Meshgrid(xs, ys []float64) Grid {
	g := Grid{
		Rows: len(ys),
		Cols: len(xs),
		X:    make([]float64, len(xs)*len(ys)),
		Y:    make([]float64, len(xs)*len(ys)),
	}
	for i, y := range ys {
		for j, x := range xs {
			k := i*g.Cols + j
			g.X[k] = x
			g.Y[k] = y
		}
	}
	return g
}

// Len is the number of sample points.
func (g Grid) Len() int {
	return g.Rows * g.Cols
}

// Index maps row i, column j to the flat sample index.
func (g Grid) Index(i, j int) int {
	return i*g.Cols + j
}
