// Package preview shows a mesh in a raylib window with a free camera and an editor grid.
package preview

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"cray-scenes/internal/mesh"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220

	hudFontSize   = 20
	hudPadding    = 12
	hudLineHeight = hudFontSize + 4
)

// Options configures the preview window.
type Options struct {
	Title         string
	Width, Height int32
	FPS           int32
	// Budget caps the triangles drawn per frame; larger meshes are sampled down.
	Budget int
}

// DefaultOptions returns a 1280x720 window at 60 FPS drawing up to 20000 triangles.
func DefaultOptions() Options {
	return Options{Title: "crayscene preview", Width: 1280, Height: 720, FPS: 60, Budget: 20000}
}

// View holds the camera and the shaded triangles of one mesh.
type View struct {
	Camera      rl.Camera3D
	GridVisible bool
	ShowHUD     bool

	mesh       *mesh.Mesh
	faces      []mesh.Tri
	shades     []rl.Color
	home       rl.Camera3D
	cursorDone bool
	hudText    string
}

var light = mesh.Normalize(mesh.Vec3{0.4, 1, 0.3})

// New prepares m for drawing: faces are sampled down to budget, each gets a flat shade
// and the camera is placed to frame the bounding box.
func New(m *mesh.Mesh, budget int) (*View, error) {
	if m == nil || len(m.Faces) == 0 {
		return nil, errors.New("preview: mesh has no faces")
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	v := &View{mesh: m, faces: m.Sample(budget), GridVisible: true, ShowHUD: true}
	v.shades = make([]rl.Color, len(v.faces))
	for i, f := range v.faces {
		v.shades[i] = shade(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
	}
	v.Camera = frame(m)
	v.home = v.Camera
	v.hudText = fmt.Sprintf("%d vertices, %d of %d triangles", len(m.Vertices), len(v.faces), len(m.Faces))
	return v, nil
}

// shade returns a two-sided Lambert grey for the triangle's face normal.
func shade(a, b, c mesh.Vec3) rl.Color {
	e1 := mesh.Vec3{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := mesh.Vec3{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := mesh.Vec3{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	k := float32(0.25)
	if l > 0 {
		k += 0.75 * math32.Abs(n[0]*light[0]+n[1]*light[1]+n[2]*light[2]) / l
	}
	g := uint8(math32.Min(255, 230*k))
	return rl.NewColor(g, uint8(float32(g)*0.92), uint8(float32(g)*0.85), 255)
}

// frame returns a perspective camera looking at the centre of m's bounding box from a
// distance that keeps the whole box in view.
func frame(m *mesh.Mesh) rl.Camera3D {
	lo, hi := m.Bounds()
	centre := rl.NewVector3((lo[0]+hi[0])/2, (lo[1]+hi[1])/2, (lo[2]+hi[2])/2)
	size := math32.Max(hi[0]-lo[0], math32.Max(hi[1]-lo[1], hi[2]-lo[2]))
	if size <= 0 {
		size = 1
	}
	var cam rl.Camera3D
	cam.Target = centre
	cam.Position = rl.Vector3Add(centre, rl.NewVector3(size, size*0.8, size))
	cam.Up = rl.NewVector3(0, 1, 0)
	cam.Fovy = 45
	cam.Projection = rl.CameraPerspective
	return cam
}

// Update runs once per frame: free camera with the mouse captured, G toggles the grid,
// H the overlay and R puts the camera back.
func (v *View) Update() {
	if !v.cursorDone {
		rl.DisableCursor()
		v.cursorDone = true
	}
	switch {
	case rl.IsKeyPressed(rl.KeyG):
		v.GridVisible = !v.GridVisible
	case rl.IsKeyPressed(rl.KeyH):
		v.ShowHUD = !v.ShowHUD
	case rl.IsKeyPressed(rl.KeyR):
		v.Camera = v.home
	}
	rl.UpdateCamera(&v.Camera, rl.CameraFree)
}

// Draw renders the mesh, the grid when visible, then the overlay.
func (v *View) Draw() {
	rl.BeginMode3D(v.Camera)
	rl.DisableBackfaceCulling()
	vs := v.mesh.Vertices
	for i, f := range v.faces {
		rl.DrawTriangle3D(vec(vs[f[0]]), vec(vs[f[1]]), vec(vs[f[2]]), v.shades[i])
	}
	rl.EnableBackfaceCulling()
	if v.GridVisible {
		drawEditorGrid()
	}
	rl.EndMode3D()

	if v.ShowHUD {
		y := int32(hudPadding)
		rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), hudPadding, y, hudFontSize, rl.Green)
		y += hudLineHeight
		rl.DrawText(v.hudText, hudPadding, y, hudFontSize, rl.Green)
	}
}

func vec(p mesh.Vec3) rl.Vector3 {
	return rl.NewVector3(p[0], p[1], p[2])
}

// Show opens a window displaying m and blocks until it is closed.
func Show(m *mesh.Mesh, o Options) error {
	v, err := New(m, o.Budget)
	if err != nil {
		return err
	}
	run(o, v.Update, v.Draw)
	return nil
}

// drawEditorGrid draws a grid on the XZ plane with major/minor lines and the three axes.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		f := float32(i)
		rl.DrawLine3D(rl.NewVector3(f, 0, -gridExtent), rl.NewVector3(f, 0, gridExtent), c)
		rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, f), rl.NewVector3(gridExtent, 0, f), c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, -gridExtent, 0), rl.NewVector3(0, gridExtent, 0), rl.NewColor(80, 220, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, 0, -gridExtent), rl.NewVector3(0, 0, gridExtent), rl.NewColor(80, 80, 220, axisLineAlpha))
}
