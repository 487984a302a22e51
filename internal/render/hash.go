// Package render turns a model tree into geometry: pull-based, memoized by
// a content hash over subtree structure, world transform and resolution.
package render

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"math"

	"cascade/internal/geom"
	"cascade/internal/model"
	"cascade/internal/value"
)

// Digest is a render cache key.
type Digest [32]byte

// ContentHash fingerprints everything that determines a node's rendered
// geometry: the structural identity of the full subtree (element kinds,
// builtin names, bound arguments, local matrices), the accumulated world
// matrix, and the effective resolution. Two nodes with equal hashes render
// identically.
func ContentHash(m *model.Model, world geom.Mat4, resolution float64) Digest {
	h := sha256.New()
	hashSubtree(h, m)
	hashMat(h, world)
	hashFloat(h, resolution)
	var d Digest
	h.Sum(d[:0])
	return d
}

func hashSubtree(h hash.Hash, m *model.Model) {
	switch el := m.Element.(type) {
	case model.Primitive:
		hashStr(h, "primitive", el.Name)
		hashArgs(h, el.Args)
	case model.Operation:
		hashStr(h, "operation", el.Name)
		hashArgs(h, el.Args)
	case model.Transform:
		hashStr(h, "transform", el.Name)
	case model.Workpiece:
		hashStr(h, "workpiece", el.Name)
		el.Props.Range(func(name string, v value.Value) bool {
			hashStr(h, name, v.Repr())
			return true
		})
	default:
		hashStr(h, m.Element.ElementKind(), "")
	}
	hashMat(h, m.Output.Local)
	hashFloat(h, m.Attr.Resolution)

	children := m.Children()
	hashInt(h, len(children))
	for _, c := range children {
		hashSubtree(h, c)
	}
}

func hashArgs(h hash.Hash, args []model.BoundArg) {
	hashInt(h, len(args))
	for _, a := range args {
		hashStr(h, a.Name, a.Value.Repr())
	}
}

func hashStr(h hash.Hash, parts ...string) {
	for _, s := range parts {
		hashInt(h, len(s))
		h.Write([]byte(s))
	}
}

func hashInt(h hash.Hash, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

func hashFloat(h hash.Hash, f float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	h.Write(buf[:])
}

func hashMat(h hash.Hash, m geom.Mat4) {
	for _, f := range m {
		hashFloat(h, f)
	}
}
