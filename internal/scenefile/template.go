package scenefile

import (
	"fmt"

	"github.com/jinzhu/copier"

	"cray-scenes/internal/xform"
)

// Spot is one generated placement: where to put a copy of a template and how big.
type Spot struct {
	Position [3]float64
	Scale    float64
}

// Instantiate returns one deep copy of template per spot. In every pick-instance of a
// copy the first translate receives the spot position and the first scaleUniform the
// spot scale; a missing entry of either kind is appended. Other transforms, materials
// and names are copied as they are.
func Instantiate(template Placement, spots []Spot) ([]Placement, error) {
	out := make([]Placement, len(spots))
	for i, s := range spots {
		if err := copier.CopyWithOption(&out[i], &template, copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("scenefile: copy template: %w", err)
		}
		for k := range out[i].PickInstances {
			pi := &out[i].PickInstances[k]
			dropEmptyRaw(pi)
			pi.Transforms = place(pi.Transforms, s)
		}
	}
	return out, nil
}

// dropEmptyRaw undoes copier's habit of turning nil raw JSON into an empty, non-nil
// slice, which json.Marshal rejects.
func dropEmptyRaw(pi *PickInstance) {
	for j := range pi.Transforms {
		if len(pi.Transforms[j].Raw) == 0 {
			pi.Transforms[j].Raw = nil
		}
	}
	for j := range pi.Materials {
		if len(pi.Materials[j]) == 0 {
			pi.Materials[j] = nil
		}
	}
}

func place(l xform.List, s Spot) xform.List {
	moved, scaled := false, false
	for i := range l {
		switch {
		case l[i].Kind == xform.KindTranslate && !moved:
			l[i].X, l[i].Y, l[i].Z = s.Position[0], s.Position[1], s.Position[2]
			moved = true
		case l[i].Kind == xform.KindScaleUniform && !scaled:
			l[i].Scale = s.Scale
			scaled = true
		}
	}
	if !scaled {
		l = append(l, xform.ScaleUniform(s.Scale))
	}
	if !moved {
		l = append(l, xform.Translate(s.Position[0], s.Position[1], s.Position[2]))
	}
	return l
}
