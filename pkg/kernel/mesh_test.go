package kernel

import "testing"

func TestMeshCounts(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
	if got := m.VertexCount(); got != 3 {
		t.Fatalf("VertexCount = %d, want 3", got)
	}
	if got := m.TriangleCount(); got != 1 {
		t.Fatalf("TriangleCount = %d, want 1", got)
	}
	if m.IsEmpty() {
		t.Fatal("mesh with vertices reported empty")
	}
}

func TestMeshEmpty(t *testing.T) {
	m := &Mesh{}
	if !m.IsEmpty() {
		t.Fatal("zero mesh should be empty")
	}
	if m.VertexCount() != 0 || m.TriangleCount() != 0 {
		t.Fatal("zero mesh should have zero counts")
	}
}
