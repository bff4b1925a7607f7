package scatter

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cray-scenes/internal/scenefile"
	"cray-scenes/internal/xform"
)

func TestGenerateRanges(t *testing.T) {
	o := DefaultOptions()
	ps := Generate(o)
	require.Len(t, ps, 800)
	for _, p := range ps {
		assert.GreaterOrEqual(t, p.Speed, 0.0)
		assert.LessOrEqual(t, p.Speed, 6.0)
		assert.GreaterOrEqual(t, p.Theta, 0.0)
		assert.Less(t, p.Theta, 2*math.Pi)
		assert.GreaterOrEqual(t, p.Phi, math.Pi/6)
		assert.Less(t, p.Phi, math.Pi/3)
		assert.GreaterOrEqual(t, p.Time, 0.0)
		assert.Less(t, p.Time, 4.0)
		assert.Equal(t, Trajectory(o, p.Speed, p.Theta, p.Phi, p.Time), p.Position)
	}
}

func TestGenerateIsSeeded(t *testing.T) {
	o := DefaultOptions()
	o.Count = 20
	a, b := Generate(o), Generate(o)
	assert.Equal(t, a, b)
	o.Seed = 2
	assert.NotEqual(t, a, Generate(o))
}

func TestTrajectory(t *testing.T) {
	o := DefaultOptions()
	start := Trajectory(o, 3, 0, math.Pi/4, 0)
	assert.InDeltaSlice(t, []float64{0.5, 2.7, 0}, start[:], 1e-12)

	// Straight up the z heading, one second in.
	p := Trajectory(o, 2, math.Pi/2, math.Pi/6, 1)
	assert.InDelta(t, 0, p[0], 1e-12)
	assert.InDelta(t, 2.7+2*0.5-1.25, p[1], 1e-12)
	assert.InDelta(t, 0.5+2*math.Cos(math.Pi/6), p[2], 1e-12)
}

func TestMergeReplacesLavaPlacements(t *testing.T) {
	doc, err := scenefile.Decode(strings.NewReader(`{"scene": {"meshes": [
		{"fileName": "volcano.obj", "pick_instances": []},
		{"fileName": "sphere10.obj", "pick_instances": []}
	]}}`))
	require.NoError(t, err)

	o := DefaultOptions()
	o.Count = 3
	ps := Generate(o)
	removed, err := Merge(doc, ps)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	placements, err := doc.Placements()
	require.NoError(t, err)
	require.Len(t, placements, 4)
	assert.Equal(t, "volcano.obj", placements[0].FileName)
	for i, p := range ps {
		got := placements[i+1]
		assert.Equal(t, LavaMesh, got.FileName)
		require.Len(t, got.PickInstances, 1)
		assert.Equal(t, xform.List{
			xform.ScaleUniform(p.Radius),
			xform.Translate(p.Position[0], p.Position[1], p.Position[2]),
		}, got.PickInstances[0].Transforms)
		assert.JSONEq(t, string(Template().PickInstances[0].Materials[0]), string(got.PickInstances[0].Materials[0]))
	}
}
