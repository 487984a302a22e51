package model

import (
	"fmt"

	"cascade/internal/geom"
)

// OutputType classifies what geometry a model node will produce once
// rendered. It starts NotDetermined and is inferred bottom-up.
type OutputType uint8

const (
	NotDetermined OutputType = iota
	Geometry2D
	Geometry3D
	InvalidMixed
)

func (t OutputType) String() string {
	switch t {
	case NotDetermined:
		return "not-determined"
	case Geometry2D:
		return "2d"
	case Geometry3D:
		return "3d"
	case InvalidMixed:
		return "invalid-mixed"
	}
	return fmt.Sprintf("OutputType(%d)", uint8(t))
}

// Merge combines two inferred types. NotDetermined is the neutral element;
// mixing 2D with 3D, or anything with InvalidMixed, is InvalidMixed.
func (t OutputType) Merge(o OutputType) OutputType {
	switch {
	case t == NotDetermined:
		return o
	case o == NotDetermined:
		return t
	case t == o:
		return t
	default:
		return InvalidMixed
	}
}

// Dim converts to the geometry dimensionality, ok=false when undecided
// or mixed.
func (t OutputType) Dim() (geom.Dim, bool) {
	switch t {
	case Geometry2D:
		return geom.Dim2D, true
	case Geometry3D:
		return geom.Dim3D, true
	}
	return 0, false
}

// OutputTypeOf maps a dimensionality to its output type.
func OutputTypeOf(d geom.Dim) OutputType {
	if d == geom.Dim2D {
		return Geometry2D
	}
	return Geometry3D
}
