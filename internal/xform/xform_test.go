package xform

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func permutations(l List) []List {
	if len(l) <= 1 {
		return []List{append(List(nil), l...)}
	}
	var out []List
	for i := range l {
		rest := append(append(List(nil), l[:i]...), l[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append(List{l[i]}, p...))
		}
	}
	return out
}

func TestComposeFixedOrderAnyListOrder(t *testing.T) {
	tr := Translate(1.5, -2, 3)
	ry := RotateY(37)
	sc := ScaleUniform(2.5)
	want := mgl64.Scale3D(2.5, 2.5, 2.5).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(37))).
		Mul4(mgl64.Translate3D(1.5, -2, 3))

	perms := permutations(List{tr, ry, sc})
	require.Len(t, perms, 6)
	for _, p := range perms {
		got := Compose(p)
		assert.True(t, got.ApproxEqualThreshold(want, eps), "order %v: got %v want %v", kinds(p), got, want)
	}
}

func TestComposeScaleListedBeforeTranslate(t *testing.T) {
	m := Compose(List{ScaleUniform(2), Translate(1, 0, 0)})
	p := ApplyPoint(m, mgl64.Vec3{0, 0, 0})
	assert.InDelta(t, 2.0, p.X(), eps)
	assert.InDelta(t, 0.0, p.Y(), eps)
	assert.InDelta(t, 0.0, p.Z(), eps)
}

func TestComposeRotationAxisPriority(t *testing.T) {
	// Z listed before X still applies X first.
	m := Compose(List{RotateZ(90), RotateX(90)})
	want := mgl64.HomogRotate3DZ(mgl64.DegToRad(90)).Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(90)))
	assert.True(t, m.ApproxEqualThreshold(want, eps))

	// (0,1,0) -X90-> (0,0,1) -Z90-> (0,0,1)
	p := ApplyPoint(m, mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 0.0, p.X(), eps)
	assert.InDelta(t, 0.0, p.Y(), eps)
	assert.InDelta(t, 1.0, p.Z(), eps)
}

func TestComposeEmptyAndUnknown(t *testing.T) {
	assert.Equal(t, mgl64.Ident4(), Compose(nil))
	assert.Equal(t, mgl64.Ident4(), Compose(List{{Kind: KindUnknown, Raw: json.RawMessage(`{"type":"scale","x":2}`)}}))
}

func TestOrderedKeepsRelativeOrder(t *testing.T) {
	l := List{ScaleUniform(3), RotateY(10), Translate(1, 0, 0), RotateX(5), Translate(2, 0, 0), RotateY(20)}
	got := Ordered(l)
	assert.Equal(t, List{Translate(1, 0, 0), Translate(2, 0, 0), RotateX(5), RotateY(10), RotateY(20), ScaleUniform(3)}, got)
}

func TestRowMajorTranslationInLastColumn(t *testing.T) {
	rm := RowMajor(Compose(List{Translate(4, 5, 6)}))
	assert.Equal(t, float32(4), rm[0][3])
	assert.Equal(t, float32(5), rm[1][3])
	assert.Equal(t, float32(6), rm[2][3])
	assert.Equal(t, float32(1), rm[3][3])
	assert.Equal(t, float32(0), rm[3][0])
}

func TestJSONRoundTrip(t *testing.T) {
	in := `[{"type":"scaleUniform","scale":0.5},{"type":"translate","x":1,"y":2.5,"z":-3},{"type":"rotateY","degrees":45},{"type":"scale","x":1,"y":2,"z":3}]`
	var l List
	require.NoError(t, json.Unmarshal([]byte(in), &l))
	require.Len(t, l, 4)
	assert.Equal(t, ScaleUniform(0.5), l[0])
	assert.Equal(t, Translate(1, 2.5, -3), l[1])
	assert.Equal(t, RotateY(45), l[2])
	assert.Equal(t, KindUnknown, l[3].Kind)

	out, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestTranslateMissingFieldsDefaultToZero(t *testing.T) {
	var tr Transform
	require.NoError(t, json.Unmarshal([]byte(`{"type":"translate","y":1}`), &tr))
	assert.Equal(t, Translate(0, 1, 0), tr)
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindTranslate, KindRotateX, KindRotateY, KindRotateZ, KindScaleUniform} {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Equal(t, KindUnknown, ParseKind("unknown"))
	assert.Equal(t, KindUnknown, ParseKind("scale"))
}

func kinds(l List) []string {
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = t.Kind.String()
	}
	return out
}
