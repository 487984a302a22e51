package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"cascade/internal/geom"
	"cascade/internal/model"
)

// stlExporter writes binary STL: an 80 byte header, a uint32 triangle
// count, then per triangle the normal, three vertices (float32 each)
// and a zero attribute word, all little-endian.
type stlExporter struct{}

func (stlExporter) Ext() string { return ".stl" }

func (stlExporter) Export(w io.Writer, g *geom.Geometry, attr model.Attributes) error {
	if g.Dim != geom.Dim3D {
		return fmt.Errorf("stl: need a 3D solid, got %dD geometry", g.Dim)
	}
	tris := g.Mesh.Triangles
	if len(tris) > math.MaxUint32 {
		return fmt.Errorf("stl: %d triangles exceed the format limit", len(tris))
	}

	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], "binary stl")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tris))); err != nil {
		return err
	}

	buf := make([]byte, 50)
	for _, t := range tris {
		n := t.Normal()
		putVec3(buf[0:], n)
		putVec3(buf[12:], t.A)
		putVec3(buf[24:], t.B)
		putVec3(buf[36:], t.C)
		buf[48], buf[49] = 0, 0
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVec3(b []byte, v geom.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}
