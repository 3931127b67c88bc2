package export

import (
	"fmt"
	"image/color"

	"github.com/hpinc/go3mf"

	"github.com/chazu/spire/pkg/kernel"
)

// Part is one colored body of the combined 3MF archive.
type Part struct {
	Name string
	Mesh *kernel.Mesh
	RGB  [3]uint8
}

// WriteArchive writes a multi-object 3MF file with one base material
// per part, so slicers show every body in its assigned color. Parts
// appear in the archive in the order given.
func WriteArchive(path string, parts []Part) error {
	if len(parts) == 0 {
		return fmt.Errorf("no parts to archive")
	}

	model := &go3mf.Model{Units: go3mf.UnitMillimeter}

	materials := &go3mf.BaseMaterials{ID: 1}
	for _, p := range parts {
		materials.Materials = append(materials.Materials, go3mf.Base{
			Name:  p.Name,
			Color: color.RGBA{R: p.RGB[0], G: p.RGB[1], B: p.RGB[2], A: 255},
		})
	}
	model.Resources.Assets = append(model.Resources.Assets, materials)

	for i, p := range parts {
		obj := &go3mf.Object{
			ID:     uint32(i + 2),
			Name:   p.Name,
			PID:    1,
			PIndex: uint32(i),
			Mesh:   indexedMesh(p.Mesh),
		}
		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: obj.ID})
	}

	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.Encode(model); err != nil {
		w.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return w.Close()
}

// indexedMesh welds the kernel's triangle soup into an indexed 3MF
// mesh. First occurrence wins, so vertex order is deterministic.
func indexedMesh(m *kernel.Mesh) *go3mf.Mesh {
	out := new(go3mf.Mesh)
	seen := make(map[[3]float32]uint32, len(m.Vertices)/3)

	lookup := func(i uint32) uint32 {
		key := [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		if idx, ok := seen[key]; ok {
			return idx
		}
		idx := uint32(len(out.Vertices.Vertex))
		out.Vertices.Vertex = append(out.Vertices.Vertex, go3mf.Point3D{key[0], key[1], key[2]})
		seen[key] = idx
		return idx
	}

	for t := 0; t < len(m.Indices); t += 3 {
		v1 := lookup(m.Indices[t])
		v2 := lookup(m.Indices[t+1])
		v3 := lookup(m.Indices[t+2])
		if v1 == v2 || v2 == v3 || v1 == v3 {
			// Weld collapsed this triangle to a sliver; drop it.
			continue
		}
		out.Triangles.Triangle = append(out.Triangles.Triangle, go3mf.Triangle{
			V1: v1, V2: v2, V3: v3,
		})
	}
	return out
}
