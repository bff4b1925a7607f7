package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OBJOptions controls Wavefront OBJ output.
// Precision is the number of decimals per coordinate; -1 writes the shortest exact form.
// Header, when non-empty, is written as a leading comment line.
type OBJOptions struct {
	Precision int
	Header    string
}

// DefaultOBJOptions writes shortest-form coordinates with no header.
func DefaultOBJOptions() OBJOptions {
	return OBJOptions{Precision: -1}
}

// WriteOBJ writes m as OBJ. Faces are one-based and reference the matching normal
// (f a//a b//b c//c) when the mesh has normals.
func WriteOBJ(w io.Writer, m *Mesh, opts OBJOptions) error {
	if err := m.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if opts.Header != "" {
		fmt.Fprintf(bw, "# %s\n", opts.Header)
	}
	ff := func(v float32) string {
		return strconv.FormatFloat(float64(v), 'f', opts.Precision, 32)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", ff(v[0]), ff(v[1]), ff(v[2]))
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ff(n[0]), ff(n[1]), ff(n[2]))
	}
	for _, f := range m.Faces {
		a, b, c := f[0]+1, f[1]+1, f[2]+1
		if m.HasNormals() {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}
	return bw.Flush()
}

// SaveOBJ writes m to path, creating the parent directory if needed.
func SaveOBJ(path string, m *Mesh, opts OBJOptions) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mesh: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	if err := WriteOBJ(f, m, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadOBJ parses the geometry statements of an OBJ stream: v, vn and f. Polygons are
// fan-triangulated, negative indices are resolved relative to the current count, and
// face normal references become per-vertex normals (last reference wins). Texture
// coordinates, groups and materials are ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	var normals []Vec3
	var perVertex map[int]int

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("mesh: line %d: %w", line, err)
			}
			m.Vertices = append(m.Vertices, v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("mesh: line %d: %w", line, err)
			}
			normals = append(normals, n)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("mesh: line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				vi, ni, err := parseFaceVertex(tok, len(m.Vertices), len(normals))
				if err != nil {
					return nil, fmt.Errorf("mesh: line %d: %w", line, err)
				}
				idx = append(idx, vi)
				if ni >= 0 {
					if perVertex == nil {
						perVertex = make(map[int]int)
					}
					perVertex[vi] = ni
				}
			}
			for k := 1; k+1 < len(idx); k++ {
				m.Faces = append(m.Faces, Tri{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	if len(perVertex) > 0 {
		m.Normals = make([]Vec3, len(m.Vertices))
		for vi, ni := range perVertex {
			m.Normals[vi] = normals[ni]
		}
	}
	return m, nil
}

// LoadOBJ reads an OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f)
}

func parseVec3(fields []string) (Vec3, error) {
	if len(fields) < 3 {
		return Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var v Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFaceVertex decodes "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based vertex and
// normal indices. The normal index is -1 when absent.
func parseFaceVertex(tok string, nv, nn int) (vi, ni int, err error) {
	parts := strings.Split(tok, "/")
	vi, err = resolveIndex(parts[0], nv)
	if err != nil {
		return 0, 0, err
	}
	ni = -1
	if len(parts) == 3 && parts[2] != "" {
		ni, err = resolveIndex(parts[2], nn)
		if err != nil {
			return 0, 0, err
		}
	}
	return vi, ni, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("index 0 is not valid in OBJ")
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, count)
	}
	return i, nil
}
