package build

import (
	"fmt"

	"github.com/chazu/spire/pkg/kernel"
	"github.com/chazu/spire/pkg/spec"
)

// Overshoots keep cut solids from leaving coplanar faces with the solid
// they cut, which produces zero-thickness shells in the mesh.
const (
	cutOvershoot         = 1.0
	panelRecessOvershoot = 0.5
)

// Magnet recess layout around a panel opening: two per vertical edge,
// two along the top edge.
const (
	magnetEdgeInset  = 8.0
	magnetBottomLift = 20.0
	magnetTopDrop    = 10.0
)

// sideGeom resolves face geometry for one of the four vertical shell
// faces: the lateral extent along the face at a given height, the outer
// wall coordinate, and the inward extrusion axis. All of it follows the
// taper, so side-derived shapes stay flush with the sloped walls.
type sideGeom struct {
	p    Profile
	side spec.Side
}

func (s *Session) side(side spec.Side) (sideGeom, error) {
	if !s.hasProfile {
		return sideGeom{}, fmt.Errorf("side %q geometry needs the shell profile parameters", side)
	}
	return sideGeom{p: s.profile, side: side}, nil
}

// lateral returns the minimum coordinate and extent of the face along
// its horizontal axis at height z.
func (g sideGeom) lateral(z float64) (off, extent float64) {
	ox, oy := g.p.OffsetAt(z)
	switch g.side {
	case spec.SideFront, spec.SideRear:
		return ox, g.p.XAt(z)
	default:
		return oy, g.p.YAt(z)
	}
}

// center returns the lateral center of the face.
func (g sideGeom) center() float64 {
	if g.side == spec.SideFront || g.side == spec.SideRear {
		return g.p.BaseX / 2
	}
	return g.p.BaseY / 2
}

// outer returns the coordinate of the outer wall surface along the face
// normal at height z.
func (g sideGeom) outer(z float64) float64 {
	ox, oy := g.p.OffsetAt(z)
	switch g.side {
	case spec.SideFront:
		return oy
	case spec.SideRear:
		return oy + g.p.YAt(z)
	case spec.SideLeft:
		return ox
	default:
		return ox + g.p.XAt(z)
	}
}

// axis returns the inward extrusion axis for the face.
func (g sideGeom) axis() string {
	switch g.side {
	case spec.SideFront:
		return "y"
	case spec.SideRear:
		return "-y"
	case spec.SideLeft:
		return "x"
	default:
		return "-x"
	}
}

// inward is the sign of the inward face normal along its world axis.
func (g sideGeom) inward() float64 {
	if g.side == spec.SideFront || g.side == spec.SideLeft {
		return 1
	}
	return -1
}

// at assembles a world position from face coordinates: lateral u,
// normal coordinate n, height z.
func (g sideGeom) at(u, n, z float64) [3]float64 {
	switch g.side {
	case spec.SideFront, spec.SideRear:
		return [3]float64{u, n, z}
	default:
		return [3]float64{n, u, z}
	}
}

// wallRect is the face cross-section rectangle at height z: lateral
// inset from both edges, spanning n0..n1 along the face normal.
func (g sideGeom) wallRect(z, inset, n0, n1 float64) []kernel.Vec2 {
	off, ext := g.lateral(z)
	u0, u1 := off+inset, off+ext-inset
	if n1 < n0 {
		n0, n1 = n1, n0
	}
	switch g.side {
	case spec.SideFront, spec.SideRear:
		return []kernel.Vec2{
			{X: u0, Y: n0}, {X: u1, Y: n0}, {X: u1, Y: n1}, {X: u0, Y: n1},
		}
	default:
		return []kernel.Vec2{
			{X: n0, Y: u0}, {X: n1, Y: u0}, {X: n1, Y: u1}, {X: n0, Y: u1},
		}
	}
}

// panelSpan returns the bottom and top heights of the panel openings.
func (s *Session) panelSpan() (zb, zt float64) {
	zb = s.param("panel_bottom")
	zt = s.profile.Height - s.param("panel_top_margin")
	return zb, zt
}

// panelOpening lofts the through-wall cutout for a removable panel,
// overshooting both wall surfaces.
func (s *Session) panelOpening(side spec.Side) (kernel.Solid, error) {
	g, err := s.side(side)
	if err != nil {
		return nil, err
	}
	zb, zt := s.panelSpan()
	m := s.param("panel_margin")
	wall := s.param("wall")
	in := g.inward()

	rect := func(z float64) []kernel.Vec2 {
		outer := g.outer(z)
		return g.wallRect(z, m, outer-in*cutOvershoot, outer+in*(wall+cutOvershoot))
	}
	return s.k.Loft(rect(zb), rect(zt), zb, zt)
}

// panelPlate lofts a removable panel body sized to its opening with the
// fit tolerance applied on the lateral and vertical edges.
func (s *Session) panelPlate(side spec.Side) (kernel.Solid, error) {
	g, err := s.side(side)
	if err != nil {
		return nil, err
	}
	zb, zt := s.panelSpan()
	tol := s.param("tolerance")
	m := s.param("panel_margin") + tol
	thick := s.param("panel_thick")
	in := g.inward()

	rect := func(z float64) []kernel.Vec2 {
		outer := g.outer(z)
		return g.wallRect(z, m, outer, outer+in*thick)
	}
	return s.k.Loft(rect(zb+tol), rect(zt-tol), zb+tol, zt-tol)
}

// magnetSpots returns the six (lateral, z) recess centers around a
// panel opening. The top pair sits closer together on the narrow faces.
func (s *Session) magnetSpots(g sideGeom) [][2]float64 {
	zb, zt := s.panelSpan()
	zm := (zb + zt) / 2
	m := s.param("panel_margin")
	spread := 15.0
	if g.side == spec.SideLeft || g.side == spec.SideRight {
		spread = 10.0
	}

	offB, extB := g.lateral(zb)
	offM, extM := g.lateral(zm)
	offT, extT := g.lateral(zt)
	return [][2]float64{
		{offB + m + magnetEdgeInset, zb + magnetBottomLift},
		{offM + m + magnetEdgeInset, zm},
		{offB + extB - m - magnetEdgeInset, zb + magnetBottomLift},
		{offM + extM - m - magnetEdgeInset, zm},
		{offT + extT/2 - spread, zt - magnetTopDrop},
		{offT + extT/2 + spread, zt - magnetTopDrop},
	}
}

// magnetRecesses builds the six recess cylinders for one face. Frame
// recesses sink into the wall from its outer surface; panel recesses
// sink into the panel from its inner face, so the two sets align when
// the panel snaps in.
func (s *Session) magnetRecesses(side spec.Side, into string) (kernel.Solid, error) {
	g, err := s.side(side)
	if err != nil {
		return nil, err
	}
	dia := s.param("magnet_d")
	recess := s.param("magnet_recess")
	thick := s.param("panel_thick")
	in := g.inward()

	var solid kernel.Solid
	for _, spot := range s.magnetSpots(g) {
		u, z := spot[0], spot[1]
		outer := g.outer(z)
		var start, length float64
		if into == "panel" {
			start = outer + in*(thick-recess)
			length = recess + panelRecessOvershoot
		} else {
			start = outer - in*cutOvershoot
			length = recess + cutOvershoot
		}
		cyl, err := s.cylinderFrom(g.at(u, start, z), g.axis(), dia, length)
		if err != nil {
			return nil, err
		}
		if solid == nil {
			solid = cyl
		} else {
			solid = s.k.Union(solid, cyl)
		}
	}
	return solid, nil
}
