// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package attrib implements typed mesh attribute storage: flat row-major
buffers over a closed set of scalar types, with per-attribute growth,
write, and copy policies, external buffer wrapping, and an ordered
registry ([Manager]) with copy-on-write sharing between meshes.
*/
package attrib

import (
	"math"
	"reflect"
)

// ID identifies an attribute within a [Manager]. Ids are stable across
// renames and are reused after deletion.
type ID = uint32

// InvalidID is the sentinel returned for missing attributes.
const InvalidID ID = math.MaxUint32

// Element is the mesh element type an attribute is attached to, which
// determines how many rows it has.
type Element int32

const (
	// Vertex attributes have one row per mesh vertex.
	Vertex Element = iota

	// Facet attributes have one row per mesh facet.
	Facet

	// Edge attributes have one row per mesh edge.
	Edge

	// Corner attributes have one row per facet corner.
	Corner

	// Value attributes are not indexed by any mesh element and are
	// never resized by element updates.
	Value

	// Indexed attributes pair a Value attribute with a per-corner
	// index attribute.
	Indexed
)

var elementNames = []string{"Vertex", "Facet", "Edge", "Corner", "Value", "Indexed"}

func (el Element) String() string {
	if el < 0 || int(el) >= len(elementNames) {
		return "Invalid"
	}
	return elementNames[el]
}

// Usage tags the semantic meaning of an attribute, which constrains its
// number of channels and, for index usages, its value type.
type Usage int32

const (
	// Vector is a generic attribute with any number of channels.
	Vector Usage = iota

	// Scalar attributes must have exactly one channel.
	Scalar

	// Position attributes have one channel per mesh dimension.
	Position

	// Normal attributes have dimension or dimension+1 channels.
	Normal

	// Tangent attributes have dimension or dimension+1 channels.
	Tangent

	// Bitangent attributes have dimension or dimension+1 channels.
	Bitangent

	// Color attributes have 1 to 4 channels.
	Color

	// UV attributes have exactly 2 channels.
	UV

	// VertexIndex attributes hold vertex indices in the mesh index type.
	VertexIndex

	// FacetIndex attributes hold facet indices in the mesh index type.
	FacetIndex

	// CornerIndex attributes hold corner indices in the mesh index type.
	CornerIndex

	// EdgeIndex attributes hold edge indices in the mesh index type.
	EdgeIndex
)

var usageNames = []string{"Vector", "Scalar", "Position", "Normal", "Tangent",
	"Bitangent", "Color", "UV", "VertexIndex", "FacetIndex", "CornerIndex", "EdgeIndex"}

func (u Usage) String() string {
	if u < 0 || int(u) >= len(usageNames) {
		return "Invalid"
	}
	return usageNames[u]
}

// IsIndex reports whether the usage tags index semantics, requiring the
// value type to be the mesh index type with a single channel.
func (u Usage) IsIndex() bool {
	return u >= VertexIndex && u <= EdgeIndex
}

// DataTypes is the closed set of scalar types attributes can hold.
type DataTypes interface {
	~float32 | ~float64 |
		~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IndexTypes is the closed set of mesh index types.
type IndexTypes interface {
	~uint32 | ~uint64
}

// NewOfKind returns a new zero-length [Attribute] of the scalar type
// given by kind, as a type-erased [AnyAttribute].
// Returns nil for kinds outside [DataTypes].
func NewOfKind(kind reflect.Kind, el Element, usage Usage, channels int) AnyAttribute {
	switch kind {
	case reflect.Float32:
		return New[float32](el, usage, channels)
	case reflect.Float64:
		return New[float64](el, usage, channels)
	case reflect.Int8:
		return New[int8](el, usage, channels)
	case reflect.Int16:
		return New[int16](el, usage, channels)
	case reflect.Int32:
		return New[int32](el, usage, channels)
	case reflect.Int64:
		return New[int64](el, usage, channels)
	case reflect.Uint8:
		return New[uint8](el, usage, channels)
	case reflect.Uint16:
		return New[uint16](el, usage, channels)
	case reflect.Uint32:
		return New[uint32](el, usage, channels)
	case reflect.Uint64:
		return New[uint64](el, usage, channels)
	}
	return nil
}
