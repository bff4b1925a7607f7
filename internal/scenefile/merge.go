package scenefile

import (
	"fmt"
	"slices"

	"cray-scenes/internal/mesh"
	"cray-scenes/internal/xform"
)

// InvertedMeshes are flipped inside out before merging; they were exported with the
// opposite winding to the rest of the scene.
var InvertedMeshes = []string{"volcano.obj", "water_surface.obj"}

// MeshLoader loads the mesh named by a placement's fileName.
type MeshLoader func(fileName string) (*mesh.Mesh, error)

// MergeMeshes flattens the document's meshes into one buffer. Each placement's mesh is
// loaded, inverted when its file is listed in invert, and moved by the composed
// transforms of its first pick-instance. Further pick-instances are ignored.
//
// Placement uses xform.Compose, which scales after translating. c-ray's scene loader
// translates last, so a placement that lists scaleUniform(r) before translate(p) ends up
// at r·p in the merged mesh but at p in a render of the scene file.
func (d *Document) MergeMeshes(load MeshLoader, invert []string) (*mesh.Mesh, error) {
	ps, err := d.Placements()
	if err != nil {
		return nil, err
	}
	parts := make([]*mesh.Mesh, 0, len(ps))
	for i, p := range ps {
		if len(p.PickInstances) == 0 {
			return nil, fmt.Errorf("scenefile: mesh %d (%s) has no pick_instances", i, p.FileName)
		}
		m, err := load(p.FileName)
		if err != nil {
			return nil, fmt.Errorf("scenefile: load %s: %w", p.FileName, err)
		}
		m = m.Clone()
		if slices.Contains(invert, p.FileName) {
			m.Invert()
		}
		m.Transform(xform.Compose(p.PickInstances[0].Transforms))
		parts = append(parts, m)
	}
	return mesh.Merge(parts...), nil
}
