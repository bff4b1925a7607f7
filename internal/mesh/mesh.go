package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a float32 position or direction, matching the renderer's vector layout.
type Vec3 [3]float32

// Tri holds three zero-based vertex indices in counter-clockwise order.
type Tri [3]int

// Mesh is an indexed triangle buffer. Normals is either empty or has one entry per vertex.
type Mesh struct {
	Vertices []Vec3
	Normals  []Vec3
	Faces    []Tri
}

// HasNormals reports whether the mesh carries per-vertex normals.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// Validate checks that every face index points at a vertex and that normals, when
// present, line up with the vertices.
func (m *Mesh) Validate() error {
	if m.HasNormals() && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh: %d normals for %d vertices", len(m.Normals), len(m.Vertices))
	}
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh: face %d references vertex %d of %d", i, idx, n)
			}
		}
	}
	return nil
}

// Invert flips the mesh inside out: face winding is reversed and normals are negated.
func (m *Mesh) Invert() {
	for i := range m.Faces {
		m.Faces[i][1], m.Faces[i][2] = m.Faces[i][2], m.Faces[i][1]
	}
	for i, n := range m.Normals {
		m.Normals[i] = Vec3{-n[0], -n[1], -n[2]}
	}
}

// Transform applies mat to every vertex as a point. Normals go through the inverse
// transpose of the upper 3x3 and are renormalized.
func (m *Mesh) Transform(mat mgl64.Mat4) {
	for i, v := range m.Vertices {
		p := mat.Mul4x1(mgl64.Vec4{float64(v[0]), float64(v[1]), float64(v[2]), 1})
		m.Vertices[i] = Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
	}
	if !m.HasNormals() {
		return
	}
	nm := mat.Mat3().Inv().Transpose()
	for i, n := range m.Normals {
		r := nm.Mul3x1(mgl64.Vec3{float64(n[0]), float64(n[1]), float64(n[2])})
		m.Normals[i] = Normalize(Vec3{float32(r[0]), float32(r[1]), float32(r[2])})
	}
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: append([]Vec3(nil), m.Vertices...),
		Faces:    append([]Tri(nil), m.Faces...),
	}
	if m.HasNormals() {
		out.Normals = append([]Vec3(nil), m.Normals...)
	}
	return out
}

// Merge concatenates meshes into one buffer, offsetting face indices. Normals are kept
// only if every input has them; otherwise the merged mesh has none.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	keepNormals := len(meshes) > 0
	for _, m := range meshes {
		if !m.HasNormals() {
			keepNormals = false
		}
	}
	for _, m := range meshes {
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		if keepNormals {
			out.Normals = append(out.Normals, m.Normals...)
		}
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, Tri{f[0] + base, f[1] + base, f[2] + base})
		}
	}
	return out
}

// Normalize scales v to unit length. A zero vector divides by zero and yields NaN
// components, the same as the array code the generators were written against.
func Normalize(v Vec3) Vec3 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Sphere builds a polar UV sphere of the given radius. There are divisions+1 rings of
// divisions+1 vertices (the seam column is duplicated) and 2*divisions^2 triangles;
// the pole rows produce degenerate triangles.
func Sphere(radius float32, divisions int) *Mesh {
	if divisions < 1 {
		divisions = 1
	}
	m := &Mesh{
		Vertices: make([]Vec3, 0, (divisions+1)*(divisions+1)),
		Faces:    make([]Tri, 0, 2*divisions*divisions),
	}
	d := float32(divisions)
	for i := 0; i <= divisions; i++ {
		lat := math32.Pi * float32(i) / d
		for j := 0; j <= divisions; j++ {
			lon := 2 * math32.Pi * float32(j) / d
			m.Vertices = append(m.Vertices, Vec3{
				radius * math32.Sin(lat) * math32.Cos(lon),
				radius * math32.Sin(lat) * math32.Sin(lon),
				radius * math32.Cos(lat),
			})
		}
	}
	for i := 0; i < divisions; i++ {
		for j := 0; j < divisions; j++ {
			cur := i*(divisions+1) + j
			next := cur + divisions + 1
			m.Faces = append(m.Faces, Tri{cur, next, next + 1}, Tri{cur, next + 1, cur + 1})
		}
	}
	return m
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty mesh yields
// two zero vectors.
func (m *Mesh) Bounds() (lo, hi Vec3) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = math32.Min(lo[a], v[a])
			hi[a] = math32.Max(hi[a], v[a])
		}
	}
	return lo, hi
}

// Sample returns at most budget faces, taking every k-th face with k rounded up so the
// whole index range is covered. A budget <= 0 or above the face count returns Faces.
func (m *Mesh) Sample(budget int) []Tri {
	if budget <= 0 || len(m.Faces) <= budget {
		return m.Faces
	}
	step := (len(m.Faces) + budget - 1) / budget
	out := make([]Tri, 0, budget)
	for i := 0; i < len(m.Faces); i += step {
		out = append(out, m.Faces[i])
	}
	return out
}
