package build

import (
	"fmt"
	"math"

	"github.com/chazu/spire/pkg/kernel"
)

// cylinderSegments is passed to kernels that approximate round faces
// with flat segments. SDF kernels ignore it.
const cylinderSegments = 32

// orientation carries the rotation that maps a +Z extrusion onto a
// recipe axis, plus the unit direction of the extrusion.
type orientation struct {
	rx, ry, rz float64
	dir        [3]float64
}

var orientations = map[string]orientation{
	"z":  {0, 0, 0, [3]float64{0, 0, 1}},
	"-z": {180, 0, 0, [3]float64{0, 0, -1}},
	"y":  {-90, 0, 0, [3]float64{0, 1, 0}},
	"-y": {90, 0, 0, [3]float64{0, -1, 0}},
	"x":  {0, 90, 0, [3]float64{1, 0, 0}},
	"-x": {0, -90, 0, [3]float64{-1, 0, 0}},
}

func axisOrientation(axis string) (orientation, error) {
	if axis == "" {
		axis = "z"
	}
	o, ok := orientations[axis]
	if !ok {
		return orientation{}, fmt.Errorf("unknown axis %q", axis)
	}
	return o, nil
}

// planeToLocal converts a profile drawn in face-plane coordinates
// (u horizontal along the face, v vertical) into the local XY plane of
// a +Z extrusion, undoing the rotation the axis will apply. Winding may
// flip; the kernel normalizes it.
func planeToLocal(axis string, outline []kernel.Vec2) []kernel.Vec2 {
	out := make([]kernel.Vec2, len(outline))
	for i, p := range outline {
		u, v := p.X, p.Y
		switch axis {
		case "", "z":
			out[i] = kernel.Vec2{X: u, Y: v}
		case "-z":
			out[i] = kernel.Vec2{X: u, Y: -v}
		case "y":
			out[i] = kernel.Vec2{X: u, Y: -v}
		case "-y":
			out[i] = kernel.Vec2{X: u, Y: v}
		case "x":
			out[i] = kernel.Vec2{X: -v, Y: u}
		case "-x":
			out[i] = kernel.Vec2{X: v, Y: u}
		}
	}
	return out
}

// diamondOutline is a square rotated 45 degrees, point up.
func diamondOutline(size float64) []kernel.Vec2 {
	h := size / 2
	return []kernel.Vec2{
		{X: h, Y: 0},
		{X: 0, Y: h},
		{X: -h, Y: 0},
		{X: 0, Y: -h},
	}
}

// hexagonOutline is a flat-top hexagon with circumradius size.
func hexagonOutline(size float64) []kernel.Vec2 {
	pts := make([]kernel.Vec2, 6)
	for i := 0; i < 6; i++ {
		a := math.Pi/6 + float64(i)*math.Pi/3
		pts[i] = kernel.Vec2{X: size * math.Cos(a), Y: size * math.Sin(a)}
	}
	return pts
}

// shieldOutline is a pentagon-like crest, pointed at the bottom.
func shieldOutline(size float64) []kernel.Vec2 {
	h := size
	w := size * 0.8
	return []kernel.Vec2{
		{X: 0, Y: h * 0.5},
		{X: w / 2, Y: h * 0.3},
		{X: w / 2, Y: -h * 0.2},
		{X: 0, Y: -h * 0.5},
		{X: -w / 2, Y: -h * 0.2},
		{X: -w / 2, Y: h * 0.3},
	}
}

// slotOutline is an octagonal vent slot: a rectangle with corners cut
// at 30% of the smaller half-extent.
func slotOutline(width, height float64) []kernel.Vec2 {
	w := width / 2
	h := height / 2
	c := math.Min(w, h) * 0.3
	return []kernel.Vec2{
		{X: -w + c, Y: h},
		{X: w - c, Y: h},
		{X: w, Y: h - c},
		{X: w, Y: -h + c},
		{X: w - c, Y: -h},
		{X: -w + c, Y: -h},
		{X: -w, Y: -h + c},
		{X: -w, Y: h - c},
	}
}

// extrudeFace extrudes a face-plane profile along the given axis. The
// profile's plane origin lands at world position at; the solid extends
// depth along the axis from there.
func (s *Session) extrudeFace(outline []kernel.Vec2, depth float64, axis string, at [3]float64) (kernel.Solid, error) {
	o, err := axisOrientation(axis)
	if err != nil {
		return nil, err
	}
	solid, err := s.k.ExtrudePolygon(planeToLocal(axis, outline), depth)
	if err != nil {
		return nil, err
	}
	if o.rx != 0 || o.ry != 0 || o.rz != 0 {
		solid = s.k.Rotate(solid, o.rx, o.ry, o.rz)
	}
	return s.k.Translate(solid, at[0], at[1], at[2]), nil
}

// cylinderFrom builds a cylinder whose base circle center sits at world
// position at, extending height along the given axis.
func (s *Session) cylinderFrom(at [3]float64, axis string, dia, height float64) (kernel.Solid, error) {
	o, err := axisOrientation(axis)
	if err != nil {
		return nil, err
	}
	c := s.k.Cylinder(height, dia/2, cylinderSegments)
	if o.rx != 0 || o.ry != 0 || o.rz != 0 {
		c = s.k.Rotate(c, o.rx, o.ry, o.rz)
	}
	return s.k.Translate(c,
		at[0]+o.dir[0]*height/2,
		at[1]+o.dir[1]*height/2,
		at[2]+o.dir[2]*height/2), nil
}

// taperedBox lofts a centered, uniformly scaled top rectangle over a
// base rectangle whose minimum corner is at the origin.
func (s *Session) taperedBox(x, y, height, taper float64, at [3]float64) (kernel.Solid, error) {
	p := Profile{BaseX: x, BaseY: y, Height: height, Taper: taper}
	solid, err := s.k.Loft(p.Outline(0, 0), p.Outline(height, 0), 0, height)
	if err != nil {
		return nil, err
	}
	if at != [3]float64{} {
		solid = s.k.Translate(solid, at[0], at[1], at[2])
	}
	return solid, nil
}
