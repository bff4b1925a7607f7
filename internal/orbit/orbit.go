// Package orbit computes camera placements circling the scene origin for turntable renders.
package orbit

import (
	"math"

	"cray-scenes/internal/heightfield"
	"cray-scenes/internal/xform"
)

// Options describes a sweep of Frames camera positions from From to To degrees around
// the Y axis, at Radius from the origin and Height above it.
type Options struct {
	From, To float64
	Frames   int
	Radius   float64
	Height   float64
}

// DefaultOptions is the 120 frame sweep from -30 to 30 degrees, 10 units out and 1 up.
func DefaultOptions() Options {
	return Options{From: -30, To: 30, Frames: 120, Radius: 10, Height: 1}
}

// Thetas returns n evenly spaced angles in degrees, both ends included.
func Thetas(from, to float64, n int) []float64 {
	return heightfield.Linspace(from, to, n)
}

// Frame returns the camera transforms for angle theta (degrees): a translate onto the
// circle followed by a Y rotation facing the origin.
func Frame(theta, radius, height float64) xform.List {
	rad := theta * math.Pi / 180
	return xform.List{
		xform.Translate(radius*math.Sin(rad), height, -radius*math.Cos(rad)),
		xform.RotateY(theta),
	}
}

// Frames returns one camera transform list per angle of the sweep.
func Frames(o Options) []xform.List {
	thetas := Thetas(o.From, o.To, o.Frames)
	out := make([]xform.List, len(thetas))
	for i, th := range thetas {
		out[i] = Frame(th, o.Radius, o.Height)
	}
	return out
}
