package orbit

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cray-scenes/internal/xform"
)

func TestThetas(t *testing.T) {
	th := Thetas(-30, 30, 120)
	require.Len(t, th, 120)
	assert.Equal(t, -30.0, th[0])
	assert.Equal(t, 30.0, th[119])
	assert.Equal(t, []float64{-30, 30}, Thetas(-30, 30, 2))
}

func TestFrame(t *testing.T) {
	l := Frame(0, 10, 1)
	require.Len(t, l, 2)
	assert.Equal(t, xform.KindTranslate, l[0].Kind)
	assert.InDelta(t, 0, l[0].X, 1e-12)
	assert.Equal(t, 1.0, l[0].Y)
	assert.InDelta(t, -10, l[0].Z, 1e-12)
	assert.Equal(t, xform.RotateY(0), l[1])

	l = Frame(30, 10, 1)
	assert.InDelta(t, 5, l[0].X, 1e-12)
	assert.InDelta(t, -10*math.Sqrt(3)/2, l[0].Z, 1e-12)
	assert.Equal(t, 30.0, l[1].Degrees)
}

func TestFrameStaysOnCircle(t *testing.T) {
	for _, l := range Frames(DefaultOptions()) {
		p := xform.ApplyPoint(xform.Compose(l), mgl64.Vec3{})
		assert.InDelta(t, 10, math.Hypot(p.X(), p.Z()), 1e-9)
		assert.InDelta(t, 1, p.Y(), 1e-12)
	}
}
