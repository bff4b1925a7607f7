// Package cray binds the c-ray renderer shared library. The types are thin handles: every
// method forwards to one C entry point and owns no renderer state of its own.
package cray

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/Masterminds/semver/v3"
	"github.com/go-gl/mathgl/mgl64"

	"cray-scenes/internal/mesh"
	"cray-scenes/internal/xform"
)

var (
	// ErrNotCallable is returned when a nil function is registered as a callback.
	ErrNotCallable = errors.New("cray: callback is not callable")
	// ErrUnsupported is returned when the library or platform lacks an entry point.
	ErrUnsupported = errors.New("cray: not supported by this library")
	// ErrClosed is returned by calls on a closed renderer.
	ErrClosed = errors.New("cray: renderer is closed")
)

// Library is an opened renderer shared library.
type Library struct {
	b backend
}

// Close unloads the library. Renderers created from it must be closed first.
func (l *Library) Close() error {
	return l.b.close()
}

// Version returns the library's semantic version.
func (l *Library) Version() (*semver.Version, error) {
	v, err := semver.NewVersion(l.b.version())
	if err != nil {
		return nil, fmt.Errorf("cray: version: %w", err)
	}
	return v, nil
}

// GitHash returns the commit the library was built from.
func (l *Library) GitHash() string {
	return l.b.gitHash()
}

// CheckVersion returns an error unless the library version satisfies constraint,
// e.g. ">= 0.6, < 1".
func (l *Library) CheckVersion(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("cray: constraint: %w", err)
	}
	v, err := l.Version()
	if err != nil {
		return err
	}
	if ok, errs := c.Validate(v); !ok {
		return fmt.Errorf("cray: library %s: %w", v, errors.Join(errs...))
	}
	return nil
}

// StartRenderWorker turns this process into a network render worker listening on port.
// It blocks until the worker is shut down. threadLimit 0 uses every core.
func (l *Library) StartRenderWorker(port, threadLimit int) {
	l.b.startRenderWorker(int32(port), uintptr(threadLimit))
}

// SendShutdownToWorkers asks every worker in nodeList ("host:port,host:port") to exit.
func (l *Library) SendShutdownToWorkers(nodeList string) {
	l.b.sendShutdownToWorkers(nodeList)
}

// NewRenderer creates a renderer with default preferences and an empty scene.
func (l *Library) NewRenderer() (*Renderer, error) {
	ptr := l.b.newRenderer()
	if ptr == 0 {
		return nil, errors.New("cray: renderer allocation failed")
	}
	r := &Renderer{b: l.b, ptr: ptr}
	r.prefs = &Prefs{r: r}
	return r, nil
}

// Renderer is a renderer instance.
type Renderer struct {
	b     backend
	ptr   uintptr
	prefs *Prefs
	cbs   []uintptr
}

// Close destroys the renderer and releases its callbacks.
func (r *Renderer) Close() {
	if r.ptr == 0 {
		return
	}
	r.b.destroyRenderer(r.ptr)
	r.ptr = 0
	for _, id := range r.cbs {
		releaseCallback(id)
	}
	r.cbs = nil
}

// Prefs returns the preference accessor.
func (r *Renderer) Prefs() *Prefs {
	return r.prefs
}

// LoadJSON loads a scene description file into the renderer.
func (r *Renderer) LoadJSON(path string) error {
	if r.ptr == 0 {
		return ErrClosed
	}
	if !r.b.loadJSON(r.ptr, path) {
		return fmt.Errorf("cray: failed to load scene %s", path)
	}
	return nil
}

// Render renders the loaded scene and blocks until it finishes or is stopped.
func (r *Renderer) Render() error {
	if r.ptr == 0 {
		return ErrClosed
	}
	r.b.render(r.ptr)
	return nil
}

// RenderContext is Render with cancellation: when ctx is done the render is stopped and
// the context error returned once the library has returned.
func (r *Renderer) RenderContext(ctx context.Context) error {
	if r.ptr == 0 {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		r.b.render(r.ptr)
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.b.stop(r.ptr)
		<-done
		return ctx.Err()
	}
}

// Stop asks a running render to finish early.
func (r *Renderer) Stop() {
	if r.ptr != 0 {
		r.b.stop(r.ptr)
	}
}

// TogglePause pauses or resumes a running render.
func (r *Renderer) TogglePause() {
	if r.ptr != 0 {
		r.b.togglePause(r.ptr)
	}
}

// Result returns the render target, or nil before anything was rendered.
func (r *Renderer) Result() *Bitmap {
	if r.ptr == 0 {
		return nil
	}
	return r.b.result(r.ptr)
}

// Scene returns the renderer's scene.
func (r *Renderer) Scene() *Scene {
	return &Scene{b: r.b, ptr: r.b.sceneGet(r.ptr)}
}

// SetCallback registers fn for event ev. A nil fn fails with ErrNotCallable.
func (r *Renderer) SetCallback(ev Event, fn CallbackFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNotCallable, ev)
	}
	if r.ptr == 0 {
		return ErrClosed
	}
	id := registerCallback(fn)
	if !r.b.setCallback(r.ptr, ev, id) {
		releaseCallback(id)
		return fmt.Errorf("cray: could not set %s callback", ev)
	}
	r.cbs = append(r.cbs, id)
	return nil
}

// Prefs reads and writes renderer preferences.
type Prefs struct {
	r *Renderer
}

// Num returns a numeric preference.
func (p *Prefs) Num(key NumPref) uint64 {
	return p.r.b.getNumPref(p.r.ptr, key)
}

// SetNum sets a numeric preference.
func (p *Prefs) SetNum(key NumPref, v uint64) error {
	if !p.r.b.setNumPref(p.r.ptr, key, v) {
		return fmt.Errorf("cray: set %s = %d rejected", key, v)
	}
	return nil
}

// Str returns a string preference.
func (p *Prefs) Str(key StrPref) string {
	return p.r.b.getStrPref(p.r.ptr, key)
}

// SetStr sets a string preference.
func (p *Prefs) SetStr(key StrPref, v string) error {
	if !p.r.b.setStrPref(p.r.ptr, key, v) {
		return fmt.Errorf("cray: set %s = %q rejected", key, v)
	}
	return nil
}

// Settings is a batch of preferences applied together; zero fields are left unchanged.
type Settings struct {
	Threads, Samples, Bounces uint64
	Width, Height             uint64
	OutputPath, OutputName    string
	OutputFiletype            string
}

// Apply writes the non-zero fields of s.
func (p *Prefs) Apply(s Settings) error {
	nums := []struct {
		key NumPref
		v   uint64
	}{
		{Threads, s.Threads}, {Samples, s.Samples}, {Bounces, s.Bounces},
		{OverrideWidth, s.Width}, {OverrideHeight, s.Height},
	}
	for _, n := range nums {
		if n.v == 0 {
			continue
		}
		if err := p.SetNum(n.key, n.v); err != nil {
			return err
		}
	}
	strs := []struct {
		key StrPref
		v   string
	}{
		{OutputPath, s.OutputPath}, {OutputName, s.OutputName}, {OutputFiletype, s.OutputFiletype},
	}
	for _, st := range strs {
		if st.v == "" {
			continue
		}
		if err := p.SetStr(st.key, st.v); err != nil {
			return err
		}
	}
	return nil
}

// Scene is the scene graph of a renderer.
type Scene struct {
	b   backend
	ptr uintptr
}

// Totals counts the objects in the scene.
func (s *Scene) Totals() (SceneTotals, error) {
	return s.b.sceneTotals(s.ptr)
}

// Node is an opaque shader node pointer owned by the library.
type Node uintptr

// Mesh is a mesh slot in the scene.
type Mesh struct {
	s    *Scene
	Name string
	Idx  int32
}

// NewMesh creates an empty named mesh.
func (s *Scene) NewMesh(name string) *Mesh {
	return &Mesh{s: s, Name: name, Idx: s.b.meshNew(s.ptr, name)}
}

// BindVertexBuf hands vertex data to the mesh. The library copies it.
func (m *Mesh) BindVertexBuf(buf VertexBuf) error {
	return m.s.b.meshBindVertexBuf(m.s.ptr, m.Idx, buf)
}

// BindFaces hands triangles to the mesh. The library copies them.
func (m *Mesh) BindFaces(faces []Face) {
	if len(faces) == 0 {
		return
	}
	m.s.b.meshBindFaces(m.s.ptr, m.Idx, &faces[0], uintptr(len(faces)))
	runtime.KeepAlive(faces)
}

// UploadMesh creates a mesh named name and binds m's vertices, normals and faces.
func (s *Scene) UploadMesh(name string, m *mesh.Mesh) (*Mesh, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cray: upload %s: %w", name, err)
	}
	out := s.NewMesh(name)
	var pin runtime.Pinner
	defer pin.Unpin()

	var buf VertexBuf
	if len(m.Vertices) > 0 {
		pin.Pin(&m.Vertices[0])
		buf.Vertices = unsafe.Pointer(&m.Vertices[0])
		buf.VertexCount = uintptr(len(m.Vertices))
	}
	normals := m.HasNormals()
	if normals {
		pin.Pin(&m.Normals[0])
		buf.Normals = unsafe.Pointer(&m.Normals[0])
		buf.NormalCount = uintptr(len(m.Normals))
	}
	if err := out.BindVertexBuf(buf); err != nil {
		return nil, err
	}
	out.BindFaces(Faces(m.Faces, normals))
	return out, nil
}

// Faces converts triangles to library faces, reusing the vertex indices for normals when
// the mesh has per-vertex normals.
func Faces(tris []mesh.Tri, normals bool) []Face {
	out := make([]Face, len(tris))
	for i, t := range tris {
		f := &out[i]
		for k := 0; k < 3; k++ {
			f.VertexIdx[k] = int32(t[k])
			if normals {
				f.NormalIdx[k] = int32(t[k])
			} else {
				f.NormalIdx[k] = -1
			}
			f.TextureIdx[k] = -1
		}
		f.SetHasNormals(normals)
	}
	return out
}

// Sphere is an analytic sphere in the scene.
type Sphere struct {
	Radius float32
	Idx    int32
}

// NewSphere adds a sphere of the given radius.
func (s *Scene) NewSphere(radius float32) *Sphere {
	return &Sphere{Radius: radius, Idx: s.b.addSphere(s.ptr, radius)}
}

// Camera is a scene camera.
type Camera struct {
	s   *Scene
	Idx int32
}

// NewCamera adds a camera.
func (s *Scene) NewCamera() *Camera {
	return &Camera{s: s, Idx: s.b.cameraNew(s.ptr)}
}

// SetParam sets a camera parameter and recomputes the camera.
func (c *Camera) SetParam(p CameraParam, v float64) error {
	if !c.s.b.cameraSetNumPref(c.s.ptr, c.Idx, p, v) {
		return fmt.Errorf("cray: camera %d: set %s rejected", c.Idx, p)
	}
	if !c.s.b.cameraUpdate(c.s.ptr, c.Idx) {
		return fmt.Errorf("cray: camera %d: update failed", c.Idx)
	}
	return nil
}

// MaterialSet is a list of materials instances can bind.
type MaterialSet struct {
	s         *Scene
	Idx       int32
	Materials []Node
}

// NewMaterialSet creates an empty material set.
func (s *Scene) NewMaterialSet() *MaterialSet {
	return &MaterialSet{s: s, Idx: s.b.newMaterialSet(s.ptr)}
}

// Add appends a material shader node.
func (ms *MaterialSet) Add(material Node) {
	ms.Materials = append(ms.Materials, material)
	ms.s.b.materialSetAdd(ms.s.ptr, ms.Idx, uintptr(material))
}

// SetBackground sets the background shader node.
func (s *Scene) SetBackground(node Node) error {
	if !s.b.setBackground(s.ptr, uintptr(node)) {
		return errors.New("cray: set background rejected")
	}
	return nil
}

// Object is something an instance can refer to: a Mesh or a Sphere.
type Object interface {
	objectIndex() int32
	instanceType() InstanceType
}

func (m *Mesh) objectIndex() int32 { return m.Idx }

func (m *Mesh) instanceType() InstanceType { return InstanceMesh }

func (s *Sphere) objectIndex() int32 { return s.Idx }

func (s *Sphere) instanceType() InstanceType { return InstanceSphere }

// Instance places an object in the scene.
type Instance struct {
	s      *Scene
	Object Object
	Type   InstanceType
	Idx    int32
	matrix mgl64.Mat4
}

// NewInstance places obj with an identity transform.
func (s *Scene) NewInstance(obj Object) *Instance {
	t := obj.instanceType()
	return &Instance{
		s:      s,
		Object: obj,
		Type:   t,
		Idx:    s.b.instanceNew(s.ptr, obj.objectIndex(), t),
		matrix: mgl64.Ident4(),
	}
}

// Matrix returns the instance transform last sent to the library.
func (i *Instance) Matrix() mgl64.Mat4 {
	return i.matrix
}

// SetTransform replaces the instance transform.
func (i *Instance) SetTransform(m mgl64.Mat4) {
	i.matrix = m
	rm := xform.RowMajor(m)
	i.s.b.instanceSetTransform(i.s.ptr, i.Idx, &rm)
}

// Transform multiplies m into the current transform (current * m) and sends the result.
func (i *Instance) Transform(m mgl64.Mat4) {
	i.SetTransform(i.matrix.Mul4(m))
}

// BindMaterials binds a material set to the instance.
func (i *Instance) BindMaterials(ms *MaterialSet) {
	i.s.b.instanceBindMaterialSet(i.s.ptr, i.Idx, ms.Idx)
}
