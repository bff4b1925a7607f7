package scenefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cray-scenes/internal/xform"
)

var (
	// ErrNoScene is returned when the document lacks a "scene" object.
	ErrNoScene = errors.New("scenefile: document has no scene object")
	// ErrNoCamera is returned when the document lacks a "camera" object.
	ErrNoCamera = errors.New("scenefile: document has no camera object")
)

// Document is a renderer scene description. Only scene.meshes and camera.transforms are
// interpreted; every other key is carried as decoded JSON (numbers as json.Number) and
// written back unchanged.
type Document struct {
	root map[string]any
}

// Placement is one entry of scene.meshes: a mesh file and its placements in the scene.
type Placement struct {
	FileName      string         `json:"fileName"`
	PickInstances []PickInstance `json:"pick_instances"`
}

// PickInstance places one object of the mesh file. Materials are renderer material
// overrides and are not interpreted here.
type PickInstance struct {
	For        string            `json:"for"`
	Materials  []json.RawMessage `json:"materials,omitempty"`
	Transforms xform.List        `json:"transforms"`
}

// New returns an empty document with an empty mesh list and camera transforms.
func New() *Document {
	return &Document{root: map[string]any{
		"scene":  map[string]any{"meshes": []any{}},
		"camera": map[string]any{"transforms": []any{}},
	}}
}

// Decode reads a document from r.
func Decode(r io.Reader) (*Document, error) {
	var root map[string]any
	if err := decodeJSON(r, &root); err != nil {
		return nil, fmt.Errorf("scenefile: decode: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("scenefile: decode: top level is not an object")
	}
	return &Document{root: root}, nil
}

// Load reads a document from path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: open: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the document as JSON indented with four spaces.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d.root); err != nil {
		return fmt.Errorf("scenefile: encode: %w", err)
	}
	return nil
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to path, creating the parent directory if needed.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("scenefile: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() (*Document, error) {
	data, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

// Root exposes the decoded top-level object for keys this package does not model.
func (d *Document) Root() map[string]any {
	return d.root
}

func (d *Document) scene() (map[string]any, error) {
	s, ok := d.root["scene"].(map[string]any)
	if !ok {
		return nil, ErrNoScene
	}
	return s, nil
}

func (d *Document) meshes() ([]any, error) {
	s, err := d.scene()
	if err != nil {
		return nil, err
	}
	switch m := s["meshes"].(type) {
	case nil:
		return nil, nil
	case []any:
		return m, nil
	default:
		return nil, fmt.Errorf("scenefile: scene.meshes is %T, not a list", m)
	}
}

func (d *Document) setMeshes(list []any) error {
	s, err := d.scene()
	if err != nil {
		return err
	}
	if list == nil {
		list = []any{}
	}
	s["meshes"] = list
	return nil
}

// Placements decodes every scene.meshes entry.
func (d *Document) Placements() ([]Placement, error) {
	list, err := d.meshes()
	if err != nil {
		return nil, err
	}
	out := make([]Placement, len(list))
	for i, raw := range list {
		if err := convert(raw, &out[i]); err != nil {
			return nil, fmt.Errorf("scenefile: scene.meshes[%d]: %w", i, err)
		}
	}
	return out, nil
}

// RemoveMeshes drops every scene.meshes entry whose fileName equals fileName and returns
// how many were removed. Other entries keep their order and content.
func (d *Document) RemoveMeshes(fileName string) (int, error) {
	list, err := d.meshes()
	if err != nil {
		return 0, err
	}
	kept := make([]any, 0, len(list))
	for _, raw := range list {
		if obj, ok := raw.(map[string]any); ok && obj["fileName"] == fileName {
			continue
		}
		kept = append(kept, raw)
	}
	return len(list) - len(kept), d.setMeshes(kept)
}

// AppendPlacements adds placements at the end of scene.meshes.
func (d *Document) AppendPlacements(ps ...Placement) error {
	list, err := d.meshes()
	if err != nil {
		return err
	}
	for _, p := range ps {
		var v any
		if err := convert(p, &v); err != nil {
			return fmt.Errorf("scenefile: %w", err)
		}
		list = append(list, v)
	}
	return d.setMeshes(list)
}

// ReplaceMeshes removes every entry for fileName and appends ps in its place, returning
// the number of entries removed.
func (d *Document) ReplaceMeshes(fileName string, ps []Placement) (int, error) {
	n, err := d.RemoveMeshes(fileName)
	if err != nil {
		return 0, err
	}
	return n, d.AppendPlacements(ps...)
}

func (d *Document) camera() (map[string]any, error) {
	c, ok := d.root["camera"].(map[string]any)
	if !ok {
		return nil, ErrNoCamera
	}
	return c, nil
}

// CameraTransforms decodes camera.transforms.
func (d *Document) CameraTransforms() (xform.List, error) {
	c, err := d.camera()
	if err != nil {
		return nil, err
	}
	var l xform.List
	if c["transforms"] == nil {
		return l, nil
	}
	if err := convert(c["transforms"], &l); err != nil {
		return nil, fmt.Errorf("scenefile: camera.transforms: %w", err)
	}
	return l, nil
}

// SetCameraTransforms replaces camera.transforms wholesale.
func (d *Document) SetCameraTransforms(l xform.List) error {
	c, err := d.camera()
	if err != nil {
		return err
	}
	if l == nil {
		l = xform.List{}
	}
	var v any
	if err := convert(l, &v); err != nil {
		return fmt.Errorf("scenefile: %w", err)
	}
	c["transforms"] = v
	return nil
}

// convert moves a value between the typed and the generic form through JSON, keeping
// numbers as json.Number on the generic side.
func convert(from, to any) error {
	data, err := json.Marshal(from)
	if err != nil {
		return err
	}
	return decodeJSON(bytes.NewReader(data), to)
}

func decodeJSON(r io.Reader, to any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(to)
}
