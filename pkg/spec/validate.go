package spec

import "fmt"

// Parameters every taper-profile-derived shape depends on. Panel and
// magnet shapes additionally need the panel/magnet groups.
var profileParams = []string{"base_x", "base_y", "height", "taper"}

var panelParams = []string{
	"wall", "floor", "tolerance",
	"panel_thick", "panel_margin", "panel_bottom", "panel_top_margin",
}

var magnetParams = []string{"magnet_d", "magnet_recess"}

var validAxes = map[string]bool{
	"x": true, "-x": true, "y": true, "-y": true, "z": true, "-z": true,
}

var validSides = map[Side]bool{
	SideFront: true, SideRear: true, SideLeft: true, SideRight: true,
}

var validPatterns = map[string]bool{
	PatternCrystalBurst: true,
	PatternHexMatrix:    true,
	PatternShieldArray:  true,
	PatternCrystalWave:  true,
	PatternCrystalSlots: true,
}

// Validate checks the spec invariants: required keys present, every
// dimension positive, taper in (0,1], every color and parameter reference
// resolvable, every recipe interpretable. Returns the first violation as
// a typed error.
func (s *Spec) Validate() error {
	if s.Name == "" {
		return &MalformedSpecError{Reason: "missing required key \"name\""}
	}
	if len(s.Params) == 0 {
		return &MalformedSpecError{Reason: "missing required key \"params\""}
	}
	if len(s.Components) == 0 {
		return &MalformedSpecError{Reason: "missing required key \"components\""}
	}

	for name, v := range s.Params {
		if v <= 0 {
			return &InvalidDimensionError{Subject: name, Reason: fmt.Sprintf("%.4f is not positive", v)}
		}
	}
	if taper, ok := s.Params["taper"]; ok && taper > 1 {
		return &InvalidDimensionError{Subject: "taper", Reason: fmt.Sprintf("%.4f outside (0,1]", taper)}
	}

	for id, c := range s.Colors {
		if _, _, _, err := c.RGB(); err != nil {
			return &MalformedSpecError{Reason: fmt.Sprintf("color %q: %v", id, err)}
		}
	}

	seen := make(map[string]bool, len(s.Components))
	for i := range s.Components {
		c := &s.Components[i]
		if c.ID == "" {
			return &MalformedSpecError{Reason: fmt.Sprintf("component %d has no id", i)}
		}
		if seen[c.ID] {
			return &MalformedSpecError{Reason: fmt.Sprintf("duplicate component id %q", c.ID)}
		}
		seen[c.ID] = true

		if _, ok := s.Colors[c.Color]; !ok {
			return &InvalidDimensionError{
				Subject: c.ID,
				Reason:  fmt.Sprintf("references undefined color %q", c.Color),
			}
		}
		if err := s.validateComponent(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spec) validateComponent(c *Component) error {
	switch c.Role {
	case RoleShell, RolePanel, RoleMount, RoleAccessory:
	default:
		return &MalformedSpecError{Reason: fmt.Sprintf("component %q: unknown role %q", c.ID, c.Role)}
	}

	if len(c.At) != 0 && len(c.At) != 3 {
		return &MalformedSpecError{Reason: fmt.Sprintf("component %q: placement needs 3 expressions, got %d", c.ID, len(c.At))}
	}
	for _, e := range c.At {
		if err := s.checkExpr(c.ID, "at", e); err != nil {
			return err
		}
	}

	if len(c.Steps) == 0 {
		return &MalformedSpecError{Reason: fmt.Sprintf("component %q has no steps", c.ID)}
	}
	if c.Steps[0].Op != OpAdd {
		return &MalformedSpecError{Reason: fmt.Sprintf("component %q: first step must be an add", c.ID)}
	}

	for i := range c.Steps {
		st := &c.Steps[i]
		if st.Op != OpAdd && st.Op != OpCut {
			return &MalformedSpecError{Reason: fmt.Sprintf("component %q step %q: unknown op %q", c.ID, st.Label(), st.Op)}
		}
		if err := s.validateShape(c.ID, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spec) validateShape(comp string, st *Step) error {
	sh := &st.Shape
	bad := func(format string, args ...interface{}) error {
		return &MalformedSpecError{
			Reason: fmt.Sprintf("component %q step %q: %s", comp, st.Label(), fmt.Sprintf(format, args...)),
		}
	}
	exprs := func(es ...Expr) error {
		for _, e := range es {
			if e.IsZero() {
				return bad("shape %q is missing a required expression", sh.Kind)
			}
			if err := s.checkExpr(comp, st.Label(), e); err != nil {
				return err
			}
		}
		return nil
	}
	at := func(n int) error {
		if len(sh.At) != n {
			return bad("shape %q needs %d position expressions, got %d", sh.Kind, n, len(sh.At))
		}
		return exprs(sh.At...)
	}
	axis := func() error {
		if sh.Axis != "" && !validAxes[sh.Axis] {
			return bad("unknown axis %q", sh.Axis)
		}
		return nil
	}
	side := func(extra ...[]string) error {
		if !validSides[sh.Side] {
			return bad("shape %q needs a side (front/rear/left/right), got %q", sh.Kind, sh.Side)
		}
		needed := append([]string{}, profileParams...)
		needed = append(needed, panelParams...)
		for _, group := range extra {
			needed = append(needed, group...)
		}
		for _, p := range needed {
			if _, ok := s.Params[p]; !ok {
				return bad("shape %q requires parameter %q", sh.Kind, p)
			}
		}
		return nil
	}

	switch sh.Kind {
	case KindBox:
		if len(sh.Size) != 3 {
			return bad("box needs 3 size expressions, got %d", len(sh.Size))
		}
		if err := exprs(sh.Size...); err != nil {
			return err
		}
		return at(3)

	case KindCylinder:
		if err := exprs(sh.Dia, sh.H); err != nil {
			return err
		}
		if err := axis(); err != nil {
			return err
		}
		return at(3)

	case KindTaperedBox:
		if err := exprs(sh.X, sh.Y, sh.H, sh.Taper); err != nil {
			return err
		}
		if len(sh.At) == 0 {
			return nil
		}
		return at(3)

	case KindDiamond, KindHexagon, KindShield:
		if err := exprs(sh.S, sh.Depth); err != nil {
			return err
		}
		if err := axis(); err != nil {
			return err
		}
		return at(3)

	case KindPrism:
		if len(sh.Outline) < 3 {
			return bad("prism needs at least 3 outline points, got %d", len(sh.Outline))
		}
		for i, pt := range sh.Outline {
			if len(pt) != 2 {
				return bad("prism outline point %d needs 2 expressions, got %d", i, len(pt))
			}
			if err := exprs(pt...); err != nil {
				return err
			}
		}
		if err := exprs(sh.Depth); err != nil {
			return err
		}
		if err := axis(); err != nil {
			return err
		}
		return at(3)

	case KindCrystalSlot:
		if err := exprs(sh.W, sh.H, sh.Depth); err != nil {
			return err
		}
		if err := axis(); err != nil {
			return err
		}
		return at(3)

	case KindPanelPlate, KindPanelOpening:
		return side()

	case KindMagnetRecesses:
		if sh.Into != "frame" && sh.Into != "panel" {
			return bad("magnet-recesses needs into: frame or panel, got %q", sh.Into)
		}
		return side(magnetParams)

	case KindPattern:
		if !validPatterns[sh.Pattern] {
			return bad("unknown pattern %q", sh.Pattern)
		}
		return side()

	default:
		return bad("unknown shape kind %q", sh.Kind)
	}
}

func (s *Spec) checkExpr(comp, step string, e Expr) error {
	var undefined string
	e.walk(func(name string) {
		if undefined == "" {
			if _, ok := s.Params[name]; !ok {
				undefined = name
			}
		}
	}, nil)
	if undefined != "" {
		return &MalformedSpecError{
			Reason: fmt.Sprintf("component %q step %q: undefined parameter %q", comp, step, undefined),
		}
	}
	return nil
}

// Lint reports advisory findings that do not block a build: numeric
// literals inside recipe expressions where a named parameter keeps the
// spec self-describing. Warnings name the offending step.
func (s *Spec) Lint() []string {
	var warnings []string
	for i := range s.Components {
		c := &s.Components[i]
		warn := func(where string, literals int) {
			if literals > 0 {
				warnings = append(warnings,
					fmt.Sprintf("component %q %s uses %d numeric literals; prefer named parameters",
						c.ID, where, literals))
			}
		}

		literals := 0
		count := func() { literals++ }
		for _, e := range c.At {
			e.walk(nil, count)
		}
		warn("placement", literals)

		for j := range c.Steps {
			st := &c.Steps[j]
			sh := &st.Shape
			literals = 0
			for _, e := range sh.At {
				e.walk(nil, count)
			}
			for _, e := range sh.Size {
				e.walk(nil, count)
			}
			for _, pt := range sh.Outline {
				for _, e := range pt {
					e.walk(nil, count)
				}
			}
			for _, e := range []Expr{sh.Dia, sh.H, sh.W, sh.X, sh.Y, sh.Taper, sh.S, sh.Depth} {
				e.walk(nil, count)
			}
			warn(fmt.Sprintf("step %q", st.Label()), literals)
		}
	}
	return warnings
}
