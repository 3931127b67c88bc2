// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, manifold) provide solid modeling and
// boolean operations behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
package kernel

// Vec2 is a point on a 2D cross-section outline, in mm.
type Vec2 struct {
	X, Y float64
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation. Solids are
// immutable; every Kernel operation produces a new Solid and never
// mutates its inputs.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
// Implementations (sdfx, manifold) provide solid modeling behind this interface.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin; Cylinder is
	// centered on the origin with its axis along Z.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// ExtrudePolygon extrudes a closed outline (implicit closure, no
	// repeated end vertex) along +Z from z=0 to z=depth.
	ExtrudePolygon(outline []Vec2, depth float64) (Solid, error)

	// Loft interpolates between two closed outlines placed at heights z0
	// and z1. The outlines must have the same vertex count in the same
	// winding order; anything else cannot form a closed manifold and
	// returns an error.
	Loft(bottom, top []Vec2, z0, z1 float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// IsEmpty reports whether the solid contains no material, determined
	// by sampling its bounding box on a coarse grid. Used to detect
	// degenerate boolean results before they reach the exporter.
	IsEmpty(s Solid) bool

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
