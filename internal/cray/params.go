package cray

import "fmt"

// NumPref is a numeric renderer preference key.
type NumPref int32

const (
	Threads NumPref = iota
	Samples
	Bounces
	TileWidth
	TileHeight
	TileOrder
	OutputNum
	OverrideWidth
	OverrideHeight
	ShouldSave
	OverrideCam
	IsIterative
)

var numPrefNames = [...]string{
	"threads", "samples", "bounces", "tile_width", "tile_height", "tile_order",
	"output_num", "override_width", "override_height", "should_save", "override_cam",
	"is_iterative",
}

func (p NumPref) String() string {
	if p >= 0 && int(p) < len(numPrefNames) {
		return numPrefNames[p]
	}
	return fmt.Sprintf("NumPref(%d)", int32(p))
}

// StrPref is a string renderer preference key. The values continue after the numeric keys.
type StrPref int32

const (
	OutputPath StrPref = iota + 12
	AssetPath
	OutputName
	OutputFiletype
	NodeList
)

var strPrefNames = [...]string{"output_path", "asset_path", "output_name", "output_filetype", "node_list"}

func (p StrPref) String() string {
	if i := int(p - OutputPath); i >= 0 && i < len(strPrefNames) {
		return strPrefNames[i]
	}
	return fmt.Sprintf("StrPref(%d)", int32(p))
}

// CameraParam is a numeric camera parameter key.
type CameraParam int32

const (
	FOV CameraParam = iota
	FocusDistance
	FStops
	PoseX
	PoseY
	PoseZ
	PoseRoll
	PosePitch
	PoseYaw
	Time
	ResX
	ResY
)

var cameraParamNames = [...]string{
	"fov", "focus_distance", "fstops", "pose_x", "pose_y", "pose_z",
	"pose_roll", "pose_pitch", "pose_yaw", "time", "res_x", "res_y",
}

func (p CameraParam) String() string {
	if p >= 0 && int(p) < len(cameraParamNames) {
		return cameraParamNames[p]
	}
	return fmt.Sprintf("CameraParam(%d)", int32(p))
}

// InstanceType tells the renderer what kind of object an instance refers to.
type InstanceType int32

const (
	InstanceMesh InstanceType = iota
	InstanceSphere
)

func (t InstanceType) String() string {
	switch t {
	case InstanceMesh:
		return "mesh"
	case InstanceSphere:
		return "sphere"
	}
	return fmt.Sprintf("InstanceType(%d)", int32(t))
}

// Event selects which renderer callback slot a function is registered for.
type Event int32

const (
	OnStart Event = iota
	OnStop
	StatusUpdate
	OnStateChanged
	OnInteractivePassFinished
)

var eventNames = [...]string{"on_start", "on_stop", "status_update", "on_state_changed", "on_interactive_pass_finished"}

func (e Event) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", int32(e))
}
