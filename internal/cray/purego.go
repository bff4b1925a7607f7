//go:build darwin || linux

package cray

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

// DefaultLibrary returns the file name tried when no path is configured.
func DefaultLibrary() string {
	if runtime.GOOS == "darwin" {
		return "libc-ray.dylib"
	}
	return "libc-ray.so"
}

var (
	trampolineOnce sync.Once
	trampolinePtr  uintptr
)

// lib is the purego backend: one Go function value per C entry point.
type lib struct {
	handle uintptr

	crNewRenderer       func() uintptr
	crDestroyRenderer   func(r uintptr)
	crSetNumPref        func(r uintptr, key int32, v uint64) bool
	crGetNumPref        func(r uintptr, key int32) uint64
	crSetStrPref        func(r uintptr, key int32, v string) bool
	crGetStrPref        func(r uintptr, key int32) string
	crRender            func(r uintptr)
	crStop              func(r uintptr)
	crTogglePause       func(r uintptr)
	crGetResult         func(r uintptr) *Bitmap
	crSceneGet          func(r uintptr) uintptr
	crSetCallback       func(r uintptr, ev int32, fn uintptr, user uintptr) bool
	crLoadJSON          func(r uintptr, path string) bool
	crMeshNew           func(s uintptr, name string) int32
	crMeshBindFaces     func(s uintptr, m int32, faces *Face, count uintptr)
	crAddSphere         func(s uintptr, radius float32) int32
	crCameraNew         func(s uintptr) int32
	crCameraSetNumPref  func(s uintptr, cam int32, p int32, v float64) bool
	crCameraUpdate      func(s uintptr, cam int32) bool
	crNewMaterialSet    func(s uintptr) int32
	crMaterialSetAdd    func(s uintptr, set int32, node uintptr) int32
	crInstanceNew       func(s uintptr, object int32, t int32) int32
	crInstanceTransform func(s uintptr, inst int32, m *[4][4]float32)
	crInstanceBindSet   func(s uintptr, inst int32, set int32)
	crSetBackground     func(s uintptr, node uintptr) bool
	crGetVersion        func() string
	crGetGitHash        func() string
	crStartWorker       func(port int32, threadLimit uintptr)
	crShutdownWorkers   func(nodeList string)

	// Entry points taking or returning structs by value are bound on first use; purego
	// rejects them on some platforms.
	totalsOnce    sync.Once
	crSceneTotals func(s uintptr) SceneTotals
	totalsErr     error

	vbufOnce   sync.Once
	crBindVBuf func(s uintptr, m int32, buf VertexBuf)
	vbufErr    error
}

// Open loads the renderer library at path and binds its entry points.
func Open(path string) (l *Library, err error) {
	if path == "" {
		path = DefaultLibrary()
	}
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("cray: open %s: %w", path, err)
	}
	b := &lib{handle: h}
	defer func() {
		if r := recover(); r != nil {
			_ = purego.Dlclose(h)
			l, err = nil, fmt.Errorf("cray: bind %s: %v", path, r)
		}
	}()
	b.bind()
	trampolineOnce.Do(func() {
		trampolinePtr = purego.NewCallback(trampoline)
	})
	return &Library{b: b}, nil
}

func (b *lib) bind() {
	for name, fptr := range map[string]any{
		"cr_new_renderer":               &b.crNewRenderer,
		"cr_destroy_renderer":           &b.crDestroyRenderer,
		"cr_renderer_set_num_pref":      &b.crSetNumPref,
		"cr_renderer_get_num_pref":      &b.crGetNumPref,
		"cr_renderer_set_str_pref":      &b.crSetStrPref,
		"cr_renderer_get_str_pref":      &b.crGetStrPref,
		"cr_renderer_render":            &b.crRender,
		"cr_renderer_stop":              &b.crStop,
		"cr_renderer_toggle_pause":      &b.crTogglePause,
		"cr_renderer_get_result":        &b.crGetResult,
		"cr_renderer_scene_get":         &b.crSceneGet,
		"cr_renderer_set_callback":      &b.crSetCallback,
		"cr_load_json":                  &b.crLoadJSON,
		"cr_scene_mesh_new":             &b.crMeshNew,
		"cr_mesh_bind_faces":            &b.crMeshBindFaces,
		"cr_scene_add_sphere":           &b.crAddSphere,
		"cr_camera_new":                 &b.crCameraNew,
		"cr_camera_set_num_pref":        &b.crCameraSetNumPref,
		"cr_camera_update":              &b.crCameraUpdate,
		"cr_scene_new_material_set":     &b.crNewMaterialSet,
		"cr_material_set_add":           &b.crMaterialSetAdd,
		"cr_instance_new":               &b.crInstanceNew,
		"cr_instance_set_transform":     &b.crInstanceTransform,
		"cr_instance_bind_material_set": &b.crInstanceBindSet,
		"cr_scene_set_background":       &b.crSetBackground,
		"cr_get_version":                &b.crGetVersion,
		"cr_get_git_hash":               &b.crGetGitHash,
		"cr_start_render_worker":        &b.crStartWorker,
		"cr_send_shutdown_to_workers":   &b.crShutdownWorkers,
	} {
		purego.RegisterLibFunc(fptr, b.handle, name)
	}
}

// lazy binds fptr to name, turning a missing symbol or an unsupported signature into
// ErrUnsupported.
func (b *lib) lazy(fptr any, name string) (err error) {
	sym, err := purego.Dlsym(b.handle, name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrUnsupported, name, r)
		}
	}()
	purego.RegisterFunc(fptr, sym)
	return nil
}

func (b *lib) newRenderer() uintptr { return b.crNewRenderer() }
func (b *lib) destroyRenderer(r uintptr) { b.crDestroyRenderer(r) }
func (b *lib) render(r uintptr) { b.crRender(r) }
func (b *lib) stop(r uintptr) { b.crStop(r) }
func (b *lib) togglePause(r uintptr) { b.crTogglePause(r) }
func (b *lib) result(r uintptr) *Bitmap { return b.crGetResult(r) }
func (b *lib) sceneGet(r uintptr) uintptr { return b.crSceneGet(r) }
func (b *lib) loadJSON(r uintptr, p string) bool { return b.crLoadJSON(r, p) }
func (b *lib) version() string { return b.crGetVersion() }
func (b *lib) gitHash() string { return b.crGetGitHash() }

func (b *lib) setNumPref(r uintptr, key NumPref, v uint64) bool {
	return b.crSetNumPref(r, int32(key), v)
}

func (b *lib) getNumPref(r uintptr, key NumPref) uint64 {
	return b.crGetNumPref(r, int32(key))
}

func (b *lib) setStrPref(r uintptr, key StrPref, v string) bool {
	return b.crSetStrPref(r, int32(key), v)
}

func (b *lib) getStrPref(r uintptr, key StrPref) string {
	return b.crGetStrPref(r, int32(key))
}

func (b *lib) setCallback(r uintptr, ev Event, user uintptr) bool {
	return b.crSetCallback(r, int32(ev), trampolinePtr, user)
}

func (b *lib) sceneTotals(s uintptr) (SceneTotals, error) {
	b.totalsOnce.Do(func() {
		b.totalsErr = b.lazy(&b.crSceneTotals, "cr_scene_totals")
	})
	if b.totalsErr != nil {
		return SceneTotals{}, b.totalsErr
	}
	return b.crSceneTotals(s), nil
}

func (b *lib) meshNew(s uintptr, name string) int32 {
	return b.crMeshNew(s, name)
}

func (b *lib) meshBindVertexBuf(s uintptr, m int32, buf VertexBuf) error {
	b.vbufOnce.Do(func() {
		b.vbufErr = b.lazy(&b.crBindVBuf, "cr_mesh_bind_vertex_buf")
	})
	if b.vbufErr != nil {
		return b.vbufErr
	}
	b.crBindVBuf(s, m, buf)
	return nil
}

func (b *lib) meshBindFaces(s uintptr, m int32, faces *Face, count uintptr) {
	b.crMeshBindFaces(s, m, faces, count)
}

func (b *lib) addSphere(s uintptr, radius float32) int32 {
	return b.crAddSphere(s, radius)
}

func (b *lib) cameraNew(s uintptr) int32 {
	return b.crCameraNew(s)
}

func (b *lib) cameraSetNumPref(s uintptr, cam int32, p CameraParam, v float64) bool {
	return b.crCameraSetNumPref(s, cam, int32(p), v)
}

func (b *lib) cameraUpdate(s uintptr, cam int32) bool {
	return b.crCameraUpdate(s, cam)
}

func (b *lib) newMaterialSet(s uintptr) int32 {
	return b.crNewMaterialSet(s)
}

func (b *lib) materialSetAdd(s uintptr, set int32, node uintptr) {
	b.crMaterialSetAdd(s, set, node)
}

func (b *lib) instanceNew(s uintptr, object int32, t InstanceType) int32 {
	return b.crInstanceNew(s, object, int32(t))
}

func (b *lib) instanceSetTransform(s uintptr, inst int32, m *[4][4]float32) {
	b.crInstanceTransform(s, inst, m)
}

func (b *lib) instanceBindMaterialSet(s uintptr, inst int32, set int32) {
	b.crInstanceBindSet(s, inst, set)
}

func (b *lib) setBackground(s uintptr, node uintptr) bool {
	return b.crSetBackground(s, node)
}

func (b *lib) startRenderWorker(port int32, threadLimit uintptr) {
	b.crStartWorker(port, threadLimit)
}

func (b *lib) sendShutdownToWorkers(nodeList string) {
	b.crShutdownWorkers(nodeList)
}

func (b *lib) close() error {
	return purego.Dlclose(b.handle)
}
