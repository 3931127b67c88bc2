package export

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chazu/spire/pkg/kernel"
)

const stlHeaderSize = 80

// WriteSTL writes a binary STL file. Output depends only on the mesh
// contents, so repeated runs produce byte-identical files.
func WriteSTL(path string, m *kernel.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodeSTL(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// EncodeSTL encodes a triangle mesh as binary STL: an 80-byte header,
// a little-endian triangle count, then one 50-byte record per triangle.
func EncodeSTL(w io.Writer, m *kernel.Mesh) error {
	var header [stlHeaderSize]byte
	copy(header[:], "binary stl: "+m.Name)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	count := uint32(len(m.Indices) / 3)
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}

	// Normal, three vertices, attribute byte count.
	var record [50]byte
	for t := uint32(0); t < count; t++ {
		i0, i1, i2 := m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]

		off := 0
		put := func(v float32) {
			binary.LittleEndian.PutUint32(record[off:], math.Float32bits(v))
			off += 4
		}
		for c := uint32(0); c < 3; c++ {
			put(m.Normals[i0*3+c])
		}
		for _, idx := range []uint32{i0, i1, i2} {
			for c := uint32(0); c < 3; c++ {
				put(m.Vertices[idx*3+c])
			}
		}
		record[48] = 0
		record[49] = 0
		if _, err := w.Write(record[:]); err != nil {
			return err
		}
	}
	return nil
}
