package cray

import (
	"sync"
	"unsafe"
)

// backend is the set of C entry points the wrappers call. Handles are the raw pointers
// (renderer, scene, shader node) or int indices the library hands out.
type backend interface {
	newRenderer() uintptr
	destroyRenderer(r uintptr)
	setNumPref(r uintptr, key NumPref, v uint64) bool
	getNumPref(r uintptr, key NumPref) uint64
	setStrPref(r uintptr, key StrPref, v string) bool
	getStrPref(r uintptr, key StrPref) string
	render(r uintptr)
	stop(r uintptr)
	togglePause(r uintptr)
	result(r uintptr) *Bitmap
	sceneGet(r uintptr) uintptr
	// setCallback points slot ev of r at the shared trampoline with user as user data.
	setCallback(r uintptr, ev Event, user uintptr) bool
	loadJSON(r uintptr, path string) bool

	sceneTotals(s uintptr) (SceneTotals, error)
	meshNew(s uintptr, name string) int32
	meshBindVertexBuf(s uintptr, m int32, buf VertexBuf) error
	meshBindFaces(s uintptr, m int32, faces *Face, count uintptr)
	addSphere(s uintptr, radius float32) int32
	cameraNew(s uintptr) int32
	cameraSetNumPref(s uintptr, cam int32, p CameraParam, v float64) bool
	cameraUpdate(s uintptr, cam int32) bool
	newMaterialSet(s uintptr) int32
	materialSetAdd(s uintptr, set int32, node uintptr)
	instanceNew(s uintptr, object int32, t InstanceType) int32
	instanceSetTransform(s uintptr, inst int32, m *[4][4]float32)
	instanceBindMaterialSet(s uintptr, inst int32, set int32)
	setBackground(s uintptr, node uintptr) bool

	version() string
	gitHash() string
	startRenderWorker(port int32, threadLimit uintptr)
	sendShutdownToWorkers(nodeList string)

	close() error
}

// CallbackFunc receives renderer progress. info is only valid during the call.
type CallbackFunc func(info *CallbackInfo)

// callbacks maps the user-data word passed to the library back to the Go function. A
// single C trampoline serves every registration.
var callbacks = struct {
	sync.Mutex
	next uintptr
	fns  map[uintptr]CallbackFunc
}{fns: make(map[uintptr]CallbackFunc)}

func registerCallback(fn CallbackFunc) uintptr {
	callbacks.Lock()
	defer callbacks.Unlock()
	callbacks.next++
	callbacks.fns[callbacks.next] = fn
	return callbacks.next
}

func releaseCallback(id uintptr) {
	callbacks.Lock()
	delete(callbacks.fns, id)
	callbacks.Unlock()
}

// dispatch runs the callback registered under id. Unknown ids are ignored.
func dispatch(info *CallbackInfo, id uintptr) {
	callbacks.Lock()
	fn := callbacks.fns[id]
	callbacks.Unlock()
	if fn != nil {
		fn(info)
	}
}

// trampoline is the function the library calls; user is the registration id.
func trampoline(info *CallbackInfo, user unsafe.Pointer) uintptr {
	dispatch(info, uintptr(user))
	return 0
}
