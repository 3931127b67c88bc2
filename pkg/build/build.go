package build

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/spire/pkg/kernel"
	"github.com/chazu/spire/pkg/spec"
)

// Build evaluates a component's recipe into a solid: add steps union
// onto the running solid, cut steps subtract with degenerate-cut
// guards, and the optional component placement translates the result
// last.
func (s *Session) Build(id string) (kernel.Solid, error) {
	c, ok := s.spec.Component(id)
	if !ok {
		return nil, &UnknownComponentError{ID: id}
	}
	log := s.log.With(zap.String("component", id))

	var solid kernel.Solid
	for i := range c.Steps {
		st := &c.Steps[i]
		shape, err := s.buildShape(c, st)
		if err != nil {
			return nil, err
		}

		switch st.Op {
		case spec.OpAdd:
			if solid == nil {
				solid = shape
			} else {
				solid = s.k.Union(solid, shape)
			}
		case spec.OpCut:
			solid, err = s.cut(c, st, solid, shape)
			if err != nil {
				return nil, err
			}
		}
		log.Debug("step applied",
			zap.String("step", st.Label()),
			zap.String("op", string(st.Op)))
	}

	if len(c.At) == 3 {
		at, err := s.evalVec3(c, c.At)
		if err != nil {
			return nil, fmt.Errorf("component %q placement: %w", c.ID, err)
		}
		solid = s.k.Translate(solid, at[0], at[1], at[2])
	}
	return solid, nil
}

// cut guards a boolean subtraction. A cutout with no volume, a cutout
// whose bounding box misses the solid, and a cut that removes all
// remaining material are all treated as spec bugs and surfaced with the
// cutout's id.
func (s *Session) cut(c *spec.Component, st *spec.Step, base, cutter kernel.Solid) (kernel.Solid, error) {
	fail := func(reason string) error {
		return &GeometryCutError{Component: c.ID, Cutout: st.Label(), Reason: reason}
	}
	if base == nil {
		return nil, fail("cut before any material was added")
	}
	if s.k.IsEmpty(cutter) {
		return nil, fail("cutout has no volume")
	}
	if !boxesOverlap(base, cutter) {
		return nil, fail("cutout does not intersect the solid")
	}
	result := s.k.Difference(base, cutter)
	if s.k.IsEmpty(result) {
		return nil, fail("cut removed all remaining material")
	}
	return result, nil
}

func boxesOverlap(a, b kernel.Solid) bool {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	for i := 0; i < 3; i++ {
		if amax[i] < bmin[i] || bmax[i] < amin[i] {
			return false
		}
	}
	return true
}

// buildShape evaluates one tagged shape variant into a positioned
// solid. Geometry that cannot close into a manifold is reported as
// NonManifoldGeometryError; expression failures pass through as plain
// errors.
func (s *Session) buildShape(c *spec.Component, st *spec.Step) (kernel.Solid, error) {
	sh := &st.Shape
	nonManifold := func(err error) error {
		return &NonManifoldGeometryError{Component: c.ID, Step: st.Label(), Reason: err.Error()}
	}

	switch sh.Kind {
	case spec.KindBox:
		size, err := s.evalVec3(c, sh.Size)
		if err != nil {
			return nil, err
		}
		at, err := s.evalVec3(c, sh.At)
		if err != nil {
			return nil, err
		}
		box := s.k.Box(size[0], size[1], size[2])
		return s.k.Translate(box, at[0], at[1], at[2]), nil

	case spec.KindCylinder:
		dia, err := s.eval(c, st, sh.Dia)
		if err != nil {
			return nil, err
		}
		h, err := s.eval(c, st, sh.H)
		if err != nil {
			return nil, err
		}
		at, err := s.evalVec3(c, sh.At)
		if err != nil {
			return nil, err
		}
		solid, err := s.cylinderFrom(at, sh.Axis, dia, h)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindTaperedBox:
		x, err := s.eval(c, st, sh.X)
		if err != nil {
			return nil, err
		}
		y, err := s.eval(c, st, sh.Y)
		if err != nil {
			return nil, err
		}
		h, err := s.eval(c, st, sh.H)
		if err != nil {
			return nil, err
		}
		taper, err := s.eval(c, st, sh.Taper)
		if err != nil {
			return nil, err
		}
		var at [3]float64
		if len(sh.At) == 3 {
			if at, err = s.evalVec3(c, sh.At); err != nil {
				return nil, err
			}
		}
		solid, err := s.taperedBox(x, y, h, taper, at)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindDiamond, spec.KindHexagon, spec.KindShield:
		size, err := s.eval(c, st, sh.S)
		if err != nil {
			return nil, err
		}
		depth, err := s.eval(c, st, sh.Depth)
		if err != nil {
			return nil, err
		}
		at, err := s.evalVec3(c, sh.At)
		if err != nil {
			return nil, err
		}
		var outline []kernel.Vec2
		switch sh.Kind {
		case spec.KindDiamond:
			outline = diamondOutline(size)
		case spec.KindHexagon:
			outline = hexagonOutline(size)
		default:
			outline = shieldOutline(size)
		}
		solid, err := s.extrudeFace(outline, depth, sh.Axis, at)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindPrism:
		depth, err := s.eval(c, st, sh.Depth)
		if err != nil {
			return nil, err
		}
		at, err := s.evalVec3(c, sh.At)
		if err != nil {
			return nil, err
		}
		outline := make([]kernel.Vec2, len(sh.Outline))
		for i, pt := range sh.Outline {
			u, err := s.eval(c, st, pt[0])
			if err != nil {
				return nil, err
			}
			v, err := s.eval(c, st, pt[1])
			if err != nil {
				return nil, err
			}
			outline[i] = kernel.Vec2{X: u, Y: v}
		}
		solid, err := s.extrudeFace(outline, depth, sh.Axis, at)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindCrystalSlot:
		w, err := s.eval(c, st, sh.W)
		if err != nil {
			return nil, err
		}
		h, err := s.eval(c, st, sh.H)
		if err != nil {
			return nil, err
		}
		depth, err := s.eval(c, st, sh.Depth)
		if err != nil {
			return nil, err
		}
		at, err := s.evalVec3(c, sh.At)
		if err != nil {
			return nil, err
		}
		solid, err := s.extrudeFace(slotOutline(w, h), depth, sh.Axis, at)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindPanelPlate:
		solid, err := s.panelPlate(sh.Side)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindPanelOpening:
		solid, err := s.panelOpening(sh.Side)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindMagnetRecesses:
		solid, err := s.magnetRecesses(sh.Side, sh.Into)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	case spec.KindPattern:
		solid, err := s.pattern(sh.Side, sh.Pattern)
		if err != nil {
			return nil, nonManifold(err)
		}
		return solid, nil

	default:
		return nil, fmt.Errorf("component %q step %q: unknown shape kind %q", c.ID, st.Label(), sh.Kind)
	}
}

func (s *Session) eval(c *spec.Component, st *spec.Step, e spec.Expr) (float64, error) {
	v, err := e.Eval(s.spec.Params)
	if err != nil {
		return 0, fmt.Errorf("component %q step %q: %w", c.ID, st.Label(), err)
	}
	return v, nil
}

func (s *Session) evalVec3(c *spec.Component, es []spec.Expr) ([3]float64, error) {
	var out [3]float64
	if len(es) != 3 {
		return out, fmt.Errorf("component %q: need 3 expressions, got %d", c.ID, len(es))
	}
	for i, e := range es {
		v, err := e.Eval(s.spec.Params)
		if err != nil {
			return out, fmt.Errorf("component %q: %w", c.ID, err)
		}
		out[i] = v
	}
	return out, nil
}
