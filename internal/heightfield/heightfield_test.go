package heightfield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cray-scenes/internal/mesh"
)

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, Linspace(-1.0, 1.0, 5))
	assert.Equal(t, []float64{3}, Linspace(3.0, 9.0, 1))
	assert.Empty(t, Linspace(0.0, 1.0, 0))
	f32 := Linspace[float32](0, 1, 3)
	assert.Equal(t, []float32{0, 0.5, 1}, f32)
}

func TestMeshgridShape(t *testing.T) {
	g := Meshgrid([]float64{0, 1, 2}, []float64{10, 20})
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, []float64{0, 1, 2, 0, 1, 2}, g.X)
	assert.Equal(t, []float64{10, 10, 10, 20, 20, 20}, g.Y)
	assert.Equal(t, 4, g.Index(1, 1))
}

func TestTriangulateCountAndBounds(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{{2, 2}, {3, 3}, {3, 7}, {20, 40}} {
		faces := Triangulate(tc.rows, tc.cols)
		assert.Len(t, faces, 2*(tc.rows-1)*(tc.cols-1))
		for _, f := range faces {
			for _, idx := range f {
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, tc.rows*tc.cols)
			}
		}
	}
	assert.Empty(t, Triangulate(1, 5))
}

func TestTriangulateDiagonalSplit(t *testing.T) {
	faces := Triangulate(3, 4)
	// cell (1, 2): idx = 1*4 + 2
	cell := faces[2*(1*3+2):]
	assert.Equal(t, mesh.Tri{6, 7, 10}, cell[0])
	assert.Equal(t, mesh.Tri{7, 11, 10}, cell[1])
}

func TestFlatThreeByThree(t *testing.T) {
	m, err := Build(Options{
		Xs:          []float64{-1, 0, 1},
		Ys:          []float64{-1, 0, 1},
		Height:      func(x, y float64) float64 { return 0 },
		Layout:      HeightZ,
		WithNormals: true,
	})
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 9)
	assert.Len(t, m.Faces, 8)
	require.Len(t, m.Normals, 9)
	for _, n := range m.Normals {
		assert.Equal(t, mesh.Vec3{0, 0, 1}, n)
	}
	require.NoError(t, m.Validate())
}

func TestFlatHeightYNormalsPointUp(t *testing.T) {
	m, err := Build(Options{
		Xs:          Linspace(0.0, 1.0, 4),
		Ys:          Linspace(0.0, 1.0, 3),
		Layout:      HeightY,
		WithNormals: true,
	})
	require.NoError(t, err)
	for _, n := range m.Normals {
		assert.Equal(t, mesh.Vec3{0, 1, 0}, n)
	}
	assert.Equal(t, mesh.Vec3{1, 0, 1}, m.Vertices[len(m.Vertices)-1])
}

func TestPlaneNormalsMatchSlope(t *testing.T) {
	// h = 2x on a uniform grid: normal is (-2, 0, 1)/sqrt(5) everywhere, edges included.
	m, err := Build(Options{
		Xs:          Linspace(0.0, 2.0, 5),
		Ys:          Linspace(0.0, 1.0, 4),
		Height:      func(x, y float64) float64 { return 2 * x },
		WithNormals: true,
	})
	require.NoError(t, err)
	s := 1 / math.Sqrt(5)
	for _, n := range m.Normals {
		assert.InDeltaSlice(t, []float32{float32(-2 * s), 0, float32(s)}, n[:], 1e-6)
	}
}

func TestNormalsDegenerateSpacingPropagatesNaN(t *testing.T) {
	// x = 1 three times in a row: the central difference at column 2 is zero.
	xs := Concat([]float64{0, 1}, []float64{1}, []float64{1, 2})
	g := Meshgrid(xs, []float64{0, 1, 2})
	ns := Normals(g, Sample(g, nil), HeightZ)
	require.Len(t, ns, 15)
	assert.True(t, math.IsNaN(float64(ns[g.Index(1, 2)][0])))
	assert.Equal(t, mesh.Vec3{0, 0, 1}, ns[g.Index(1, 0)])
}

func TestGradientEdgeOrderTwo(t *testing.T) {
	src := []float64{0, 1, 4, 9, 16} // k^2
	dst := make([]float64, len(src))
	gradient(src, 0, 1, len(src), dst)
	// Second-order edges are exact for quadratics: derivative 2k.
	assert.InDeltaSlice(t, []float64{0, 2, 4, 6, 8}, dst, 1e-12)

	two := make([]float64, 2)
	gradient([]float64{3, 5}, 0, 1, 2, two)
	assert.Equal(t, []float64{2, 2}, two)
}

func TestAddNoiseKeepsInput(t *testing.T) {
	g := Meshgrid(Linspace(-1.0, 1.0, 5), Linspace(-1.0, 1.0, 5))
	h := Sample(g, Volcano)
	before := append([]float64(nil), h...)
	out := AddNoise(g, h, NoiseOptions{Scale: 3, Octaves: 4, Persistence: 0.2, Lacunarity: 2, Amplitude: 0.15})
	assert.Equal(t, before, h)
	for k := range out {
		assert.InDelta(t, h[k], out[k], 0.17)
	}
}

func TestBuildRejectsDegenerateAxes(t *testing.T) {
	_, err := Build(Options{Xs: []float64{0}, Ys: []float64{0, 1}})
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	assert.InDelta(t, 2.5*math.Exp(-0.4*0.0225)-2.5, Volcano(0.15, 0), 1e-12)
	assert.InDelta(t, 0.35, Island(0.8, 0), 1e-12)

	v, err := Build(VolcanoOptions())
	require.NoError(t, err)
	assert.Len(t, v.Vertices, 100*100)
	assert.Len(t, v.Faces, 2*99*99)
	assert.False(t, v.HasNormals())

	is, err := Build(IslandOptions())
	require.NoError(t, err)
	assert.Len(t, is.Vertices, 40*20)
	assert.Len(t, is.Normals, 40*20)

	axis := WaterAxis()
	assert.Len(t, axis, 10+55+40+60+160+60+40+55+10)
	assert.Equal(t, -5000.0, axis[0])
	assert.Equal(t, 5000.0, axis[len(axis)-1])
}
