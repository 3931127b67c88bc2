// Package spec loads and validates the declarative JSON model
// specification. The Spec is the single source of truth for every
// dimension, color, component recipe and hardware item; it is read once
// at build start and never mutated, so it is safe to share without
// locking.
package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// Role classifies what a component is for. Roles are informational; the
// builder interprets the component's recipe steps, not its role.
type Role string

const (
	RoleShell     Role = "shell"
	RolePanel     Role = "panel"
	RoleMount     Role = "mount"
	RoleAccessory Role = "accessory"
)

// Op is a boolean composition operation in a recipe step.
type Op string

const (
	OpAdd Op = "add"
	OpCut Op = "cut"
)

// Side names one of the four vertical faces of the tapered shell.
type Side string

const (
	SideFront Side = "front" // y = 0 face
	SideRear  Side = "rear"  // y = max face
	SideLeft  Side = "left"  // x = 0 face
	SideRight Side = "right" // x = max face
)

// Shape kinds understood by the recipe evaluator. A closed set of tagged
// variants; adding a pattern means adding a generator, not a new evaluator.
const (
	KindBox            = "box"
	KindCylinder       = "cylinder"
	KindTaperedBox     = "tapered-box"
	KindDiamond        = "diamond"
	KindHexagon        = "hexagon"
	KindShield         = "shield"
	KindCrystalSlot    = "crystal-slot"
	KindPrism          = "prism"
	KindPanelPlate     = "panel-plate"
	KindPanelOpening   = "panel-opening"
	KindMagnetRecesses = "magnet-recesses"
	KindPattern        = "pattern"
)

// Decorative pattern names for KindPattern shapes.
const (
	PatternCrystalBurst = "crystal-burst"
	PatternHexMatrix    = "hex-matrix"
	PatternShieldArray  = "shield-array"
	PatternCrystalWave  = "crystal-wave"
	PatternCrystalSlots = "crystal-slots"
)

// Spec is the root configuration document.
type Spec struct {
	Name       string             `json:"name"`
	Params     map[string]float64 `json:"params"`
	Colors     map[string]Color   `json:"colors"`
	Components []Component        `json:"components"`
	Hardware   []HardwareItem     `json:"hardware,omitempty"`
}

// Color is a named palette entry.
type Color struct {
	Hex string `json:"hex"` // "#RRGGBB"
}

// RGB decodes the hex triplet. Returns an error for anything that is not
// exactly "#RRGGBB".
func (c Color) RGB() (r, g, b uint8, err error) {
	h := strings.TrimPrefix(c.Hex, "#")
	if len(c.Hex) != 7 || len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("color %q is not #RRGGBB", c.Hex)
	}
	for i, dst := range []*uint8{&r, &g, &b} {
		v, perr := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("color %q is not #RRGGBB", c.Hex)
		}
		*dst = uint8(v)
	}
	return r, g, b, nil
}

// HardwareItem is one line of the hardware bill of materials.
type HardwareItem struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
	Spec string `json:"spec,omitempty"`
}

// Component describes one printable body: an id, a role, a color
// reference, an output mesh file name, an optional placement, and the
// ordered construction recipe. Purely descriptive; read once.
type Component struct {
	ID    string  `json:"id"`
	Role  Role    `json:"role"`
	Color string  `json:"color"`
	STL   string  `json:"stl,omitempty"` // defaults to <id>.stl
	At    []Expr  `json:"at,omitempty"`  // placement translate, 3 expressions
	Steps []Step  `json:"steps"`
}

// STLName returns the per-component mesh file name.
func (c *Component) STLName() string {
	if c.STL != "" {
		return c.STL
	}
	return c.ID + ".stl"
}

// Step is one base-shape + boolean-operation entry in a recipe.
// Cut steps carry an id so failures can name the offending cutout.
type Step struct {
	Op    Op     `json:"op"`
	ID    string `json:"id,omitempty"`
	Shape Shape  `json:"shape"`
}

// Label returns the step id, falling back to its shape kind.
func (s *Step) Label() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Shape.Kind
}

// Shape is a tagged shape variant. Kind selects the variant; the other
// fields are interpreted per kind and ignored otherwise.
type Shape struct {
	Kind string `json:"kind"`

	At   []Expr `json:"at,omitempty"`   // position, 3 expressions
	Size []Expr `json:"size,omitempty"` // box: x,y,z extents

	// Outline is the prism cross-section: face-plane [u,v] expression
	// pairs, implicitly closed.
	Outline [][]Expr `json:"outline,omitempty"`

	Dia   Expr `json:"dia,omitempty"`   // cylinder diameter
	H     Expr `json:"h,omitempty"`     // cylinder/tapered-box/crystal-slot height
	W     Expr `json:"w,omitempty"`     // crystal-slot width
	X     Expr `json:"x,omitempty"`     // tapered-box base footprint
	Y     Expr `json:"y,omitempty"`
	Taper Expr `json:"taper,omitempty"`
	S     Expr `json:"s,omitempty"`     // decorative shape size
	Depth Expr `json:"depth,omitempty"` // decorative extrusion depth

	Axis    string `json:"axis,omitempty"`    // x, -x, y, -y, z, -z
	Side    Side   `json:"side,omitempty"`    // side-derived shapes
	Into    string `json:"into,omitempty"`    // magnet-recesses: frame | panel
	Pattern string `json:"pattern,omitempty"` // pattern generator name
}

// Component returns the descriptor with the given id.
func (s *Spec) Component(id string) (*Component, bool) {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i], true
		}
	}
	return nil, false
}
