//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold
// provides guaranteed-manifold mesh boolean operations, which makes it
// a useful cross-check against the SDF kernel's marching-cubes output.
//
// This package requires the Manifold C library (manifoldc) to be
// installed. Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/spire/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

// newSolid wraps a C ManifoldManifold pointer with a Go-side finalizer
// for automatic memory management.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct{}

// New creates a new ManifoldKernel. Returns an error if the Manifold
// C library cannot be initialized.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Box creates an axis-aligned box with its minimum corner at the origin.
func (k *ManifoldKernel) Box(x, y, z float64) kernel.Solid {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cube(alloc,
		C.double(x), C.double(y), C.double(z),
		C.int(0), // center=false, minimum corner at origin
	)
	return newSolid(ptr)
}

// Cylinder creates a cylinder along the Z axis, centered at the origin.
func (k *ManifoldKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cylinder(alloc,
		C.double(height),
		C.double(radius),
		C.double(radius),
		C.int(segments),
		C.int(1), // center=true
	)
	return newSolid(ptr)
}

// polygons converts an outline to a ManifoldPolygons set.
func polygons(outline []kernel.Vec2) *C.ManifoldPolygons {
	pts := make([]C.ManifoldVec2, len(outline))
	for i, p := range outline {
		pts[i] = C.ManifoldVec2{x: C.double(p.X), y: C.double(p.Y)}
	}
	spAlloc := C.manifold_alloc_simple_polygon()
	sp := C.manifold_simple_polygon(spAlloc, &pts[0], C.size_t(len(pts)))
	polysAlloc := C.manifold_alloc_polygons()
	return C.manifold_polygons(polysAlloc, &sp, 1)
}

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
func (k *ManifoldKernel) ExtrudePolygon(outline []kernel.Vec2, depth float64) (kernel.Solid, error) {
	if err := checkOutline(outline); err != nil {
		return nil, err
	}
	if depth <= 0 {
		return nil, fmt.Errorf("extrude depth %.4f, must be positive", depth)
	}
	polys := polygons(outline)
	defer C.manifold_delete_polygons(polys)

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_extrude(alloc, polys,
		C.double(depth), C.int(1), C.double(0),
		C.double(1), C.double(1),
	)
	s := newSolid(ptr)
	if C.manifold_is_empty(s.ptr) != 0 {
		return nil, fmt.Errorf("extrusion produced no volume; outline may self-intersect")
	}
	return s, nil
}

// Loft interpolates between two closed outlines at heights z0 and z1.
// An axis-scaled pair with matching centroids is handled exactly with a
// scaled extrusion; any other convex pair falls back to a hull. Manifold
// has no general loft, so non-convex offset profiles are rejected.
func (k *ManifoldKernel) Loft(bottom, top []kernel.Vec2, z0, z1 float64) (kernel.Solid, error) {
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

	if sx, sy, ok := axisScale(bottom, top); ok {
		polys := polygons(bottom)
		defer C.manifold_delete_polygons(polys)
		alloc := C.manifold_alloc_manifold()
		ptr := C.manifold_extrude(alloc, polys,
			C.double(z1-z0), C.int(1), C.double(0),
			C.double(sx), C.double(sy),
		)
		return k.Translate(newSolid(ptr), 0, 0, z0), nil
	}

	// Hull of two thin slabs. Exact for convex profiles, which covers
	// every rectangle loft the builder produces.
	const slab = 1e-3
	b, err := k.ExtrudePolygon(bottom, slab)
	if err != nil {
		return nil, err
	}
	t, err := k.ExtrudePolygon(top, slab)
	if err != nil {
		return nil, err
	}
	both := k.Union(k.Translate(b, 0, 0, z0), k.Translate(t, 0, 0, z1-slab))

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_hull(alloc, both.(*manifoldSolid).ptr)
	s := newSolid(ptr)
	if C.manifold_is_empty(s.ptr) != 0 {
		return nil, fmt.Errorf("loft produced no volume")
	}
	return s, nil
}

// axisScale reports whether top is bottom scaled per-axis about a
// shared centroid, returning the scale factors.
func axisScale(bottom, top []kernel.Vec2) (sx, sy float64, ok bool) {
	const tol = 1e-9
	var cbx, cby, ctx, cty float64
	for i := range bottom {
		cbx += bottom[i].X
		cby += bottom[i].Y
		ctx += top[i].X
		cty += top[i].Y
	}
	n := float64(len(bottom))
	cbx, cby, ctx, cty = cbx/n, cby/n, ctx/n, cty/n
	if math.Abs(cbx-ctx) > tol || math.Abs(cby-cty) > tol {
		return 0, 0, false
	}

	sx, sy = 1, 1
	haveX, haveY := false, false
	for i := range bottom {
		bx, by := bottom[i].X-cbx, bottom[i].Y-cby
		tx, ty := top[i].X-cbx, top[i].Y-cby
		if math.Abs(bx) > tol {
			s := tx / bx
			if haveX && math.Abs(s-sx) > tol {
				return 0, 0, false
			}
			sx, haveX = s, true
		} else if math.Abs(tx) > tol {
			return 0, 0, false
		}
		if math.Abs(by) > tol {
			s := ty / by
			if haveY && math.Abs(s-sy) > tol {
				return 0, 0, false
			}
			sy, haveY = s, true
		} else if math.Abs(ty) > tol {
			return 0, 0, false
		}
	}
	return sx, sy, true
}

// Union returns the boolean union of two solids.
func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_union(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Difference returns the boolean difference (a minus b).
func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_difference(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Intersection returns the boolean intersection of two solids.
func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_intersection(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Translate moves the solid by (x, y, z).
func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ms := s.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_translate(alloc, ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// Rotate rotates the solid by Euler angles (in degrees) around the X, Y, Z axes.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ms := s.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_rotate(alloc, ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// IsEmpty reports whether the solid contains no material. Manifold
// tracks this exactly, no sampling involved.
func (k *ManifoldKernel) IsEmpty(s kernel.Solid) bool {
	return C.manifold_is_empty(s.(*manifoldSolid).ptr) != 0
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format. Vertex positions and normals are interleaved in MeshGL; this
// method separates them into the kernel.Mesh flat-array layout.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ms := s.(*manifoldSolid)

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))

	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	// MeshGL stores vertex properties in a flat float array. The first
	// 3 per vertex are always position; normals follow when present.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propLen := numVert * numProp
	propData := make([]float32, propLen)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	triLen := numTri * 3
	indices := make([]uint32, triLen)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}

	for i := 0; i < numVert; i++ {
		base := i * numProp
		vertices[i*3+0] = propData[base+0]
		vertices[i*3+1] = propData[base+1]
		vertices[i*3+2] = propData[base+2]
		if hasNormals {
			normals[i*3+0] = propData[base+3]
			normals[i*3+1] = propData[base+4]
			normals[i*3+2] = propData[base+5]
		}
	}

	if !hasNormals {
		normals = computeFlatNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}

	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}
	return mesh, nil
}

// computeFlatNormals generates per-vertex normals by averaging the face
// normals of all triangles incident on each vertex. Fallback for MeshGL
// outputs without normal properties.
func computeFlatNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	normals := make([]float32, numVerts*3)

	numTris := len(indices) / 3
	for t := 0; t < numTris; t++ {
		i0 := indices[t*3+0]
		i1 := indices[t*3+1]
		i2 := indices[t*3+2]

		ax, ay, az := float64(vertices[i0*3]), float64(vertices[i0*3+1]), float64(vertices[i0*3+2])
		bx, by, bz := float64(vertices[i1*3]), float64(vertices[i1*3+1]), float64(vertices[i1*3+2])
		cx, cy, cz := float64(vertices[i2*3]), float64(vertices[i2*3+1]), float64(vertices[i2*3+2])

		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)

		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}
	return normals
}
