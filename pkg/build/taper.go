package build

import (
	"fmt"

	"github.com/chazu/spire/pkg/kernel"
)

// Profile is the taper interpolation of the shell footprint. The base
// rectangle sits at z=0 with its minimum corner at the origin; every
// cross-section above it is the footprint uniformly scaled and centered.
type Profile struct {
	BaseX  float64
	BaseY  float64
	Height float64
	Taper  float64 // top scale relative to base, in (0,1]
}

// profileFromParams pulls the well-known profile parameters from a spec
// parameter map. Reported missing keys have already been caught by spec
// validation for any recipe that needs a profile.
func profileFromParams(params map[string]float64) (Profile, error) {
	p := Profile{}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"base_x", &p.BaseX},
		{"base_y", &p.BaseY},
		{"height", &p.Height},
		{"taper", &p.Taper},
	} {
		v, ok := params[f.name]
		if !ok {
			return Profile{}, fmt.Errorf("missing parameter %q", f.name)
		}
		*f.dst = v
	}
	return p, nil
}

// Scale returns the cross-section scale factor at height z.
// Exactly 1.0 at z<=0 and exactly the taper ratio at z>=Height; the
// endpoint branches keep floating-point drift out of the boundary
// cross-sections.
func (p Profile) Scale(z float64) float64 {
	if z <= 0 {
		return 1.0
	}
	if z >= p.Height {
		return p.Taper
	}
	return 1.0 - (1.0-p.Taper)*(z/p.Height)
}

// XAt returns the footprint X extent at height z.
func (p Profile) XAt(z float64) float64 { return p.BaseX * p.Scale(z) }

// YAt returns the footprint Y extent at height z.
func (p Profile) YAt(z float64) float64 { return p.BaseY * p.Scale(z) }

// OffsetAt returns the XY offset of the (centered) cross-section's
// minimum corner at height z.
func (p Profile) OffsetAt(z float64) (ox, oy float64) {
	return (p.BaseX - p.XAt(z)) / 2, (p.BaseY - p.YAt(z)) / 2
}

// Outline returns the rectangular cross-section outline at height z,
// inset inward on all sides, counterclockwise with no repeated end
// vertex.
func (p Profile) Outline(z, inset float64) []kernel.Vec2 {
	ox, oy := p.OffsetAt(z)
	x0 := ox + inset
	y0 := oy + inset
	x1 := ox + p.XAt(z) - inset
	y1 := oy + p.YAt(z) - inset
	return []kernel.Vec2{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
}
