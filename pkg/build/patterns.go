package build

import (
	"fmt"
	"math"

	"github.com/chazu/spire/pkg/kernel"
	"github.com/chazu/spire/pkg/spec"
)

// pattern builds the union of all cutouts of a decorative pattern for
// one face. Each generator bounds-checks its cutouts against the
// tapered face so nothing lands in the frame margin.
func (s *Session) pattern(side spec.Side, name string) (kernel.Solid, error) {
	g, err := s.side(side)
	if err != nil {
		return nil, err
	}

	var cuts []kernel.Solid
	switch name {
	case spec.PatternCrystalBurst:
		cuts, err = s.crystalBurst(g)
	case spec.PatternHexMatrix:
		cuts, err = s.hexMatrix(g)
	case spec.PatternShieldArray:
		cuts, err = s.shieldArray(g)
	case spec.PatternCrystalWave:
		cuts, err = s.crystalWave(g)
	case spec.PatternCrystalSlots:
		cuts, err = s.crystalSlots(g)
	default:
		return nil, fmt.Errorf("unknown pattern %q", name)
	}
	if err != nil {
		return nil, err
	}
	if len(cuts) == 0 {
		return nil, fmt.Errorf("pattern %q produced no cutouts", name)
	}

	solid := cuts[0]
	for _, c := range cuts[1:] {
		solid = s.k.Union(solid, c)
	}
	return solid, nil
}

// pierce extrudes a face-plane profile through the panel at lateral u
// and height z, overshooting both panel faces.
func (s *Session) pierce(g sideGeom, outline []kernel.Vec2, u, z float64) (kernel.Solid, error) {
	in := g.inward()
	depth := s.param("panel_thick") + 3
	at := g.at(u, g.outer(z)-in*cutOvershoot, z)
	return s.extrudeFace(outline, depth, g.axis(), at)
}

// panelMargin is the effective keep-out inset used by pattern bounds
// checks: the frame margin plus the panel fit tolerance.
func (s *Session) panelMargin() float64 {
	return s.param("panel_margin") + s.param("tolerance")
}

// crystalBurst is a large central diamond with three rings of smaller
// diamonds radiating from it.
func (s *Session) crystalBurst(g sideGeom) ([]kernel.Solid, error) {
	zb, zt := s.panelSpan()
	cu := g.center()
	cz := (zb + zt) / 2
	m := s.panelMargin()

	var cuts []kernel.Solid
	add := func(outline []kernel.Vec2, u, z float64) error {
		c, err := s.pierce(g, outline, u, z)
		if err != nil {
			return err
		}
		cuts = append(cuts, c)
		return nil
	}

	if err := add(diamondOutline(25), cu, cz); err != nil {
		return nil, err
	}

	radii := []float64{25, 40, 55}
	sizes := []float64{12, 10, 8}
	counts := []int{6, 8, 10}
	for ring, radius := range radii {
		n := counts[ring]
		for i := 0; i < n; i++ {
			a := float64(i)*2*math.Pi/float64(n) + float64(ring)*math.Pi/float64(n)/2
			u := cu + radius*math.Cos(a)
			z := cz + radius*math.Sin(a)
			if z <= zb+10 || z >= zt-10 {
				continue
			}
			off, ext := g.lateral(z)
			if u <= off+m+10 || u >= off+ext-m-10 {
				continue
			}
			if err := add(diamondOutline(sizes[ring]), u, z); err != nil {
				return nil, err
			}
		}
	}
	return cuts, nil
}

// hexMatrix is the fortress-gate layout: a row of vent slots near the
// top, a staggered hexagon grid in the middle, and three large diamond
// vents at the bottom.
func (s *Session) hexMatrix(g sideGeom) ([]kernel.Solid, error) {
	zb, zt := s.panelSpan()
	cu := g.center()
	cz := (zb + zt) / 2
	m := s.panelMargin()

	var cuts []kernel.Solid
	add := func(outline []kernel.Vec2, u, z float64) error {
		c, err := s.pierce(g, outline, u, z)
		if err != nil {
			return err
		}
		cuts = append(cuts, c)
		return nil
	}

	for i := 0; i < 5; i++ {
		u := cu - 40 + float64(i)*20
		if err := add(slotOutline(12, 20), u, zt-25); err != nil {
			return nil, err
		}
	}

	hexSizes := []float64{8, 7, 6, 5}
	for row := 0; row < 4; row++ {
		z := cz - 15 + float64(row)*18
		n := 5 + row%2
		for i := 0; i < n; i++ {
			u := cu - 35 + float64(i)*15 + float64(row%2)*7.5
			off, ext := g.lateral(z)
			if u <= off+m+8 || u >= off+ext-m-8 {
				continue
			}
			if err := add(hexagonOutline(hexSizes[row]), u, z); err != nil {
				return nil, err
			}
		}
	}

	for i := 0; i < 3; i++ {
		u := cu - 30 + float64(i)*30
		if err := add(diamondOutline(15), u, zb+25); err != nil {
			return nil, err
		}
	}
	return cuts, nil
}

// shieldArray is a staggered grid of shield crests.
func (s *Session) shieldArray(g sideGeom) ([]kernel.Solid, error) {
	zb, zt := s.panelSpan()
	cu := g.center()
	m := s.panelMargin()

	var cuts []kernel.Solid
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			z := zb + 25 + float64(row)*28
			u := cu - 20 + float64(col)*20 + float64(row%2)*10
			if z <= zb+15 || z >= zt-15 {
				continue
			}
			off, ext := g.lateral(z)
			if u <= off+m+8 || u >= off+ext-m-8 {
				continue
			}
			c, err := s.pierce(g, shieldOutline(15), u, z)
			if err != nil {
				return nil, err
			}
			cuts = append(cuts, c)
		}
	}
	return cuts, nil
}

// crystalWave is rows of diamonds tracing a sine wave, tied together by
// full-width horizontal vent slots.
func (s *Session) crystalWave(g sideGeom) ([]kernel.Solid, error) {
	zb, zt := s.panelSpan()
	m := s.panelMargin()

	var cuts []kernel.Solid
	for wave := 0; wave < 5; wave++ {
		z := zb + 20 + float64(wave)*22
		if z >= zt-20 {
			continue
		}
		off, ext := g.lateral(z)
		for i := 0; i < 8; i++ {
			if i%2 != 0 {
				continue
			}
			t := float64(i) / 7
			u := off + m + 10 + t*(ext-2*m-20)
			waveOffset := 8 * math.Sin(t*2*math.Pi)
			size := 6.0
			if math.Abs(waveOffset) > 5 {
				size = 8.0
			}
			c, err := s.pierce(g, diamondOutline(size), u, z+waveOffset)
			if err != nil {
				return nil, err
			}
			cuts = append(cuts, c)
		}
	}

	for i := 0; i < 4; i++ {
		z := zb + 30 + float64(i)*25
		if z >= zt-25 {
			continue
		}
		_, ext := g.lateral(z)
		c, err := s.pierce(g, slotOutline(ext-2*m-30, 8), g.center(), z)
		if err != nil {
			return nil, err
		}
		cuts = append(cuts, c)
	}
	return cuts, nil
}

// crystalSlots is a standalone row of five vent slots near the top of
// the panel.
func (s *Session) crystalSlots(g sideGeom) ([]kernel.Solid, error) {
	_, zt := s.panelSpan()
	cu := g.center()

	var cuts []kernel.Solid
	for i := 0; i < 5; i++ {
		u := cu - 40 + float64(i)*20
		c, err := s.pierce(g, slotOutline(12, 20), u, zt-25)
		if err != nil {
			return nil, err
		}
		cuts = append(cuts, c)
	}
	return cuts, nil
}
