// Package scatter generates lava particles thrown from a volcano crater and turns them
// into sphere placements for the scene file.
package scatter

import (
	"encoding/json"
	"math"

	"cogentcore.org/core/base/randx"

	"cray-scenes/internal/scenefile"
	"cray-scenes/internal/xform"
)

// LavaMesh is the mesh file every particle instantiates.
const LavaMesh = "sphere10.obj"

// Options controls the particle distribution. Angles are in radians.
type Options struct {
	Count      int
	Origin     [3]float64
	RingRadius float64

	SpeedMean, SpeedSigma, SpeedMax float64
	PhiMin, PhiMax                  float64
	MaxTime, TimeExponent           float64
	Gravity                         float64
	RadiusMean, RadiusSigma         float64

	Seed int64
}

// DefaultOptions is the lava burst above the volcano crater: 800 particles leaving a
// ring of radius 0.5 around (0, 2.7, 0).
func DefaultOptions() Options {
	return Options{
		Count:        800,
		Origin:       [3]float64{0, 2.7, 0},
		RingRadius:   0.5,
		SpeedMean:    3,
		SpeedSigma:   1.5,
		SpeedMax:     6,
		PhiMin:       math.Pi / 6,
		PhiMax:       math.Pi / 3,
		MaxTime:      4,
		TimeExponent: 1.5,
		Gravity:      2.5,
		RadiusMean:   0.015,
		RadiusSigma:  0.015,
		Seed:         1,
	}
}

// Particle is one sampled lava drop. Theta is the heading around the vertical axis and
// Phi the launch elevation.
type Particle struct {
	Speed, Theta, Phi, Time float64
	Radius                  float64
	Position                [3]float64
}

// Generate draws o.Count particles. The same seed always yields the same particles.
// Radii come straight from the normal distribution and may be negative.
func Generate(o Options) []Particle {
	rnd := randx.NewSysRand(o.Seed)
	uniform := func(lo, hi float64) float64 { return lo + (hi-lo)*rnd.Float64() }

	ps := make([]Particle, o.Count)
	for i := range ps {
		p := &ps[i]
		p.Speed = clamp(randx.GaussianGen(o.SpeedMean, o.SpeedSigma, rnd), 0, o.SpeedMax)
		p.Theta = uniform(0, 2*math.Pi)
		p.Phi = uniform(o.PhiMin, o.PhiMax)
		p.Time = math.Pow(rnd.Float64(), o.TimeExponent) * o.MaxTime
		p.Radius = randx.GaussianGen(o.RadiusMean, o.RadiusSigma, rnd)
		p.Position = Trajectory(o, p.Speed, p.Theta, p.Phi, p.Time)
	}
	return ps
}

// Trajectory is the ballistic position at time t of a drop launched from the crater ring
// with the given speed, heading theta and elevation phi.
func Trajectory(o Options, speed, theta, phi, t float64) [3]float64 {
	horiz := speed * math.Cos(phi) * t
	return [3]float64{
		o.Origin[0] + o.RingRadius*math.Cos(theta) + horiz*math.Cos(theta),
		o.Origin[1] + speed*math.Sin(phi)*t - 0.5*o.Gravity*t*t,
		o.Origin[2] + o.RingRadius*math.Sin(theta) + horiz*math.Sin(theta),
	}
}

// Spots converts particles to scene placements.
func Spots(ps []Particle) []scenefile.Spot {
	out := make([]scenefile.Spot, len(ps))
	for i, p := range ps {
		out[i] = scenefile.Spot{Position: p.Position, Scale: p.Radius}
	}
	return out
}

// Template is the glowing sphere placement each particle copies: an 800 K blackbody
// emitter of strength 30.
func Template() scenefile.Placement {
	return scenefile.Placement{
		FileName: LavaMesh,
		PickInstances: []scenefile.PickInstance{{
			For: "sphere10",
			Materials: []json.RawMessage{
				json.RawMessage(`{"replace":"Unknown","type":"emissive","color":{"type":"blackbody","degrees":800},"strength":30}`),
			},
			Transforms: xform.List{xform.ScaleUniform(1), xform.Translate(0, 0, 0)},
		}},
	}
}

// Merge replaces every lava placement in doc with one per particle and returns how many
// old placements were removed.
func Merge(doc *scenefile.Document, ps []Particle) (int, error) {
	gen, err := scenefile.Instantiate(Template(), Spots(ps))
	if err != nil {
		return 0, err
	}
	return doc.ReplaceMeshes(LavaMesh, gen)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
