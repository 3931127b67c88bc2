// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/spire/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// emptySamples is the per-axis sampling resolution used by IsEmpty.
const emptySamples = 24

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct {
	meshCells int
}

// New returns a new sdfx kernel with the default tessellation resolution.
func New() *Kernel {
	return &Kernel{meshCells: defaultMeshCells}
}

// NewWithCells returns a kernel with a custom marching cubes resolution.
// Lower values tessellate faster at the cost of surface fidelity.
func NewWithCells(cells int) *Kernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &Kernel{meshCells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions. The resulting solid has its
// minimum corner at the origin (0,0,0) so that spec placements translate
// intuitively. sdf.Box3D centers the box at the origin, so we shift by
// half-dimensions.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder with the given height and radius, centered on
// the origin with its axis along Z. The segments parameter is ignored since
// SDF surfaces are smooth.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// toV2 converts an outline to the sdfx vector type.
func toV2(outline []kernel.Vec2) []v2.Vec {
	vs := make([]v2.Vec, len(outline))
	for i, p := range outline {
		vs[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	return vs
}

// signedArea returns twice the signed area of the outline.
func signedArea(outline []kernel.Vec2) float64 {
	var a float64
	for i, p := range outline {
		q := outline[(i+1)%len(outline)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a
}

// ccw returns the outline in counterclockwise winding. Polygon2D takes
// winding as inside/outside orientation, so a clockwise outline would
// produce an inverted profile.
func ccw(outline []kernel.Vec2) []kernel.Vec2 {
	if signedArea(outline) >= 0 {
		return outline
	}
	out := make([]kernel.Vec2, len(outline))
	for i, p := range outline {
		out[len(outline)-1-i] = p
	}
	return out
}

// checkOutline rejects outlines that cannot form a closed profile.
// Outlines are implicitly closed; a repeated end vertex means the caller
// passed an explicitly closed (and therefore degenerate) ring.
func checkOutline(outline []kernel.Vec2) error {
	if len(outline) < 3 {
		return fmt.Errorf("outline has %d vertices, need at least 3", len(outline))
	}
	if outline[0] == outline[len(outline)-1] {
		return fmt.Errorf("outline repeats its first vertex; pass an implicitly closed ring")
	}
	return nil
}

// ExtrudePolygon extrudes a closed outline along +Z from z=0 to z=depth.
func (k *Kernel) ExtrudePolygon(outline []kernel.Vec2, depth float64) (kernel.Solid, error) {
	if err := checkOutline(outline); err != nil {
		return nil, err
	}
	if depth <= 0 {
		return nil, fmt.Errorf("extrude depth %.4f, must be positive", depth)
	}
	poly, err := sdf.Polygon2D(toV2(ccw(outline)))
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	s := sdf.Extrude3D(poly, depth)
	// Extrude3D is symmetric about z=0; shift so the solid spans 0..depth.
	m := sdf.Translate3d(v3.Vec{Z: depth / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Loft interpolates between two closed outlines at heights z0 and z1.
// Corresponding vertices must match in count and winding order.
func (k *Kernel) Loft(bottom, top []kernel.Vec2, z0, z1 float64) (kernel.Solid, error) {
	if err := checkOutline(bottom); err != nil {
		return nil, fmt.Errorf("bottom outline: %w", err)
	}
	if err := checkOutline(top); err != nil {
		return nil, fmt.Errorf("top outline: %w", err)
	}
	if len(bottom) != len(top) {
		return nil, fmt.Errorf("outline vertex counts differ: bottom %d, top %d", len(bottom), len(top))
	}
	if z1 <= z0 {
		return nil, fmt.Errorf("loft heights z0=%.4f z1=%.4f, need z1 > z0", z0, z1)
	}

	b, err := sdf.Polygon2D(toV2(ccw(bottom)))
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D(bottom): %w", err)
	}
	t, err := sdf.Polygon2D(toV2(ccw(top)))
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D(top): %w", err)
	}

	s, err := sdf.Loft3D(b, t, z1-z0, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Loft3D: %w", err)
	}
	// Loft3D is symmetric about z=0; shift so the solid spans z0..z1.
	m := sdf.Translate3d(v3.Vec{Z: (z0 + z1) / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// IsEmpty samples the solid's bounding box on a coarse grid and reports
// whether any sample lies inside the surface. The distance field is exact
// enough at this resolution to catch zero-volume boolean results, which is
// all the builder needs.
func (k *Kernel) IsEmpty(s kernel.Solid) bool {
	sdf3 := unwrap(s)
	bb := sdf3.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return true
	}

	n := float64(emptySamples)
	for i := 0; i < emptySamples; i++ {
		x := bb.Min.X + (float64(i)+0.5)*size.X/n
		for j := 0; j < emptySamples; j++ {
			y := bb.Min.Y + (float64(j)+0.5)*size.Y/n
			for l := 0; l < emptySamples; l++ {
				z := bb.Min.Z + (float64(l)+0.5)*size.Z/n
				if sdf3.Evaluate(v3.Vec{X: x, Y: y, Z: z}) < 0 {
					return false
				}
			}
		}
	}
	return true
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
