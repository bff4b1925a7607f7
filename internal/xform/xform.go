package xform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies one entry of a pick-instance or camera transform list.
// The zero value is KindUnknown, used for types this package carries but does not compose.
type Kind int

const (
	KindUnknown Kind = iota
	KindTranslate
	KindRotateX
	KindRotateY
	KindRotateZ
	KindScaleUniform
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindTranslate:    "translate",
	KindRotateX:      "rotateX",
	KindRotateY:      "rotateY",
	KindRotateZ:      "rotateZ",
	KindScaleUniform: "scaleUniform",
}

// String returns the scene-file spelling of k ("translate", "rotateY", ...).
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// ParseKind maps a scene-file "type" value to a Kind. Unrecognized names return KindUnknown.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if Kind(k) != KindUnknown && name == s {
			return Kind(k)
		}
	}
	return KindUnknown
}

// Transform is one tagged transform record. Only the fields of its Kind are meaningful:
// X/Y/Z for translate, Degrees for the rotations, Scale for scaleUniform.
// Raw holds the source JSON of an unknown type so it can be written back unchanged.
type Transform struct {
	Kind    Kind
	X, Y, Z float64
	Degrees float64
	Scale   float64
	Raw     json.RawMessage
}

// List is an ordered transform list as stored in the scene file.
type List []Transform

// Translate returns a translate record.
func Translate(x, y, z float64) Transform {
	return Transform{Kind: KindTranslate, X: x, Y: y, Z: z}
}

// RotateX returns a rotateX record; degrees follow the right-hand rule.
func RotateX(degrees float64) Transform {
	return Transform{Kind: KindRotateX, Degrees: degrees}
}

// RotateY returns a rotateY record.
func RotateY(degrees float64) Transform {
	return Transform{Kind: KindRotateY, Degrees: degrees}
}

// RotateZ returns a rotateZ record.
func RotateZ(degrees float64) Transform {
	return Transform{Kind: KindRotateZ, Degrees: degrees}
}

// ScaleUniform returns a scaleUniform record.
func ScaleUniform(scale float64) Transform {
	return Transform{Kind: KindScaleUniform, Scale: scale}
}

// Matrix returns the 4x4 matrix of a single record. Unknown kinds yield the identity.
func (t Transform) Matrix() mgl64.Mat4 {
	switch t.Kind {
	case KindTranslate:
		return mgl64.Translate3D(t.X, t.Y, t.Z)
	case KindRotateX:
		return mgl64.HomogRotate3DX(mgl64.DegToRad(t.Degrees))
	case KindRotateY:
		return mgl64.HomogRotate3DY(mgl64.DegToRad(t.Degrees))
	case KindRotateZ:
		return mgl64.HomogRotate3DZ(mgl64.DegToRad(t.Degrees))
	case KindScaleUniform:
		return mgl64.Scale3D(t.Scale, t.Scale, t.Scale)
	}
	return mgl64.Ident4()
}

// applyOrder is the fixed group order used by Compose. The scene files this package
// edits were authored against it, so list order never overrides it.
var applyOrder = [...]Kind{KindTranslate, KindRotateX, KindRotateY, KindRotateZ, KindScaleUniform}

// Ordered returns the records of l in application order: every translate, then rotateX,
// rotateY and rotateZ entries, then scaleUniform. Entries of one kind keep their relative
// list order. Unknown records are dropped.
func Ordered(l List) List {
	out := make(List, 0, len(l))
	for _, k := range applyOrder {
		for _, t := range l {
			if t.Kind == k {
				out = append(out, t)
			}
		}
	}
	return out
}

// Compose folds l into a single matrix acting on column vectors. Translations are applied
// to a point first, then the rotations about X, Y and Z, then the uniform scale, whatever
// order the list was written in. For [scaleUniform(2), translate(1,0,0)] the origin maps
// to (2,0,0).
func Compose(l List) mgl64.Mat4 {
	m := mgl64.Ident4()
	for _, t := range Ordered(l) {
		m = t.Matrix().Mul4(m)
	}
	return m
}

// ApplyPoint transforms p by m as a homogeneous point (w = 1).
func ApplyPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// RowMajor converts m into the float[4][4] row-major layout the renderer ABI expects,
// with the translation in the last column.
func RowMajor(m mgl64.Mat4) [4][4]float32 {
	var out [4][4]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = float32(m.At(r, c))
		}
	}
	return out
}

type translateJSON struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

type rotateJSON struct {
	Type    string  `json:"type"`
	Degrees float64 `json:"degrees"`
}

type scaleJSON struct {
	Type  string  `json:"type"`
	Scale float64 `json:"scale"`
}

// MarshalJSON writes the record with only the fields of its type, in scene-file order.
func (t Transform) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindTranslate:
		return json.Marshal(translateJSON{Type: t.Kind.String(), X: t.X, Y: t.Y, Z: t.Z})
	case KindRotateX, KindRotateY, KindRotateZ:
		return json.Marshal(rotateJSON{Type: t.Kind.String(), Degrees: t.Degrees})
	case KindScaleUniform:
		return json.Marshal(scaleJSON{Type: t.Kind.String(), Scale: t.Scale})
	}
	if len(t.Raw) == 0 {
		return nil, fmt.Errorf("xform: cannot encode transform of unknown type without raw data")
	}
	return t.Raw, nil
}

// UnmarshalJSON reads one record. Missing numeric fields stay zero; records whose type is
// not one of the composable kinds are kept verbatim in Raw.
func (t *Transform) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type    string   `json:"type"`
		X       *float64 `json:"x"`
		Y       *float64 `json:"y"`
		Z       *float64 `json:"z"`
		Degrees *float64 `json:"degrees"`
		Scale   *float64 `json:"scale"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("xform: %w", err)
	}
	*t = Transform{Kind: ParseKind(probe.Type)}
	switch t.Kind {
	case KindTranslate:
		t.X, t.Y, t.Z = deref(probe.X), deref(probe.Y), deref(probe.Z)
	case KindRotateX, KindRotateY, KindRotateZ:
		t.Degrees = deref(probe.Degrees)
	case KindScaleUniform:
		t.Scale = deref(probe.Scale)
	default:
		t.Raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	}
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
