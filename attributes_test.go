// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"testing"

	"github.com/meshkit/surface/attrib"
	"github.com/stretchr/testify/assert"
)

func TestCreateAttribute(t *testing.T) {
	m := newTriangleMesh(t)
	id, err := CreateAttribute[float64](m, "weight", attrib.Vertex, attrib.Scalar, 1, nil)
	assert.NoError(t, err)
	assert.True(t, m.HasAttribute("weight"))
	assert.Equal(t, id, m.AttributeID("weight"))
	assert.Equal(t, "weight", m.AttributeName(id))

	a, err := Attr[float64](m, id)
	assert.NoError(t, err)
	assert.Equal(t, 4, a.NumElements())
	assert.Equal(t, attrib.Vertex, a.Element())
	assert.Equal(t, attrib.Scalar, a.Usage())

	// duplicate names are rejected
	_, err = CreateAttribute[float64](m, "weight", attrib.Vertex, attrib.Scalar, 1, nil)
	assert.Error(t, err)

	// wrong typed access
	_, err = Attr[float32](m, id)
	assert.Error(t, err)
}

func TestCreateAttributeUsageValidation(t *testing.T) {
	m := New[float32, uint32]()

	_, err := CreateAttribute[float32](m, "pos", attrib.Vertex, attrib.Position, 2, nil)
	assert.Error(t, err) // dimension is 3

	_, err = CreateAttribute[float32](m, "nrm", attrib.Vertex, attrib.Normal, 4, nil)
	assert.NoError(t, err) // homogeneous coordinates allowed

	_, err = CreateAttribute[float32](m, "uv", attrib.Vertex, attrib.UV, 3, nil)
	assert.Error(t, err)

	_, err = CreateAttribute[float32](m, "col", attrib.Vertex, attrib.Color, 5, nil)
	assert.Error(t, err)

	_, err = CreateAttribute[uint32](m, "fi", attrib.Vertex, attrib.FacetIndex, 2, nil)
	assert.Error(t, err)

	// index attributes must use the mesh index type
	_, err = CreateAttribute[uint64](m, "fi", attrib.Vertex, attrib.FacetIndex, 1, nil)
	assert.Error(t, err)
	_, err = CreateAttribute[uint32](m, "fi", attrib.Vertex, attrib.FacetIndex, 1, nil)
	assert.NoError(t, err)

	_, err = CreateAttribute[float32](m, "zero", attrib.Vertex, attrib.Scalar, 0, nil)
	assert.Error(t, err)
}

func TestReservedAttributePolicies(t *testing.T) {
	m := newTriangleMesh(t)

	_, err := CreateAttribute[float32](m, "$mine", attrib.Vertex, attrib.Scalar, 1, nil)
	assert.Error(t, err)
	_, err = CreateAttribute[float32](m, "$mine", attrib.Vertex, attrib.Scalar, 1, nil, attrib.CreateForce)
	assert.NoError(t, err)

	pid := m.AttributeID(AttrVertexToPosition)
	assert.Error(t, m.DeleteAttribute(pid))
	assert.Error(t, m.RenameAttribute(AttrVertexToPosition, "positions"))
	_, err = m.ExportAttributeAny(pid, attrib.DeleteErrorIfReserved, attrib.ExportCopyIfExternal)
	assert.Error(t, err)

	assert.NoError(t, m.DeleteAttribute(m.AttributeID("$mine"), attrib.DeleteForce))
	assert.False(t, m.HasAttribute("$mine"))
}

func TestRenameAndDuplicate(t *testing.T) {
	m := newTriangleMesh(t)
	id, err := CreateAttribute[float32](m, "temp", attrib.Vertex, attrib.Scalar, 1,
		[]float32{1, 2, 3, 4})
	assert.NoError(t, err)

	assert.NoError(t, m.RenameAttribute("temp", "heat"))
	assert.False(t, m.HasAttribute("temp"))
	assert.Equal(t, id, m.AttributeID("heat"))

	did, err := m.DuplicateAttribute("heat", "heat2")
	assert.NoError(t, err)
	orig, err := Attr[float32](m, id)
	assert.NoError(t, err)
	dup, err := Attr[float32](m, did)
	assert.NoError(t, err)
	assert.Same(t, &orig.Values()[0], &dup.Values()[0])

	// writing the duplicate unshares it
	mdup, err := MutAttr[float32](m, did)
	assert.NoError(t, err)
	mdup.Set(0, 0, 9)
	assert.Equal(t, float32(1), orig.Get(0, 0))
	assert.Equal(t, float32(9), mdup.Get(0, 0))
}

func TestExportAttribute(t *testing.T) {
	m := newTriangleMesh(t)
	id, err := CreateAttribute[float32](m, "temp", attrib.Vertex, attrib.Scalar, 1,
		[]float32{1, 2, 3, 4})
	assert.NoError(t, err)

	a, err := ExportAttribute[float32](m, id, attrib.DeleteErrorIfReserved, attrib.ExportCopyIfExternal)
	assert.NoError(t, err)
	assert.False(t, m.HasAttribute("temp"))
	assert.Equal(t, []float32{1, 2, 3, 4}, a.Values())

	buf := []float32{5, 6, 7, 8}
	id, err = WrapAttribute(m, "wrapped", attrib.Vertex, attrib.Scalar, 1, buf)
	assert.NoError(t, err)
	_, err = ExportAttribute[float32](m, id, attrib.DeleteErrorIfReserved, attrib.ExportErrorIfExternal)
	assert.Error(t, err)
	a, err = ExportAttribute[float32](m, id, attrib.DeleteErrorIfReserved, attrib.ExportCopyIfExternal)
	assert.NoError(t, err)
	assert.False(t, a.IsExternal())
	buf[0] = 50
	assert.Equal(t, float32(5), a.Get(0, 0))
}

func TestCreateAttributeFrom(t *testing.T) {
	m := newTriangleMesh(t)
	id, err := CreateAttribute[float32](m, "temp", attrib.Vertex, attrib.Scalar, 1,
		[]float32{1, 2, 3, 4})
	assert.NoError(t, err)

	other := New[float32, uint32]()
	assert.NoError(t, other.AddVertices(4, nil))
	oid, err := CreateAttributeFrom(other, m, "temp", "temp")
	assert.NoError(t, err)
	oa, err := Attr[float32](other, oid)
	assert.NoError(t, err)
	ma, err := Attr[float32](m, id)
	assert.NoError(t, err)
	assert.Same(t, &ma.Values()[0], &oa.Values()[0])

	small := New[float32, uint32]()
	_, err = CreateAttributeFrom(small, m, "temp", "temp")
	assert.Error(t, err)
}

func TestIndexedAttribute(t *testing.T) {
	m := newTriangleMesh(t)
	id, err := CreateIndexedAttribute[float32](m, "uv", attrib.UV, 2)
	assert.NoError(t, err)

	ia, err := MutIndexedAttr[float32](m, id)
	assert.NoError(t, err)
	assert.Equal(t, 6, ia.Indices().NumElements())

	// three shared uv values, selected per corner
	assert.NoError(t, ia.Values().InsertValues([]float32{0, 0, 1, 0, 0, 1}))
	idx := ia.Indices()
	for c := range 6 {
		idx.Set(c, 0, uint32(c%3))
	}

	// indices grow with the corner count
	_, err = m.AddTriangle(0, 1, 3)
	assert.NoError(t, err)
	ra, err := IndexedAttr[float32](m, id)
	assert.NoError(t, err)
	assert.Equal(t, 9, ra.Indices().NumElements())
	assert.Equal(t, 3, ra.Values().NumElements())
}

func TestForeachAttribute(t *testing.T) {
	m := newTriangleMesh(t)
	_, err := CreateAttribute[float32](m, "b", attrib.Vertex, attrib.Scalar, 1, nil)
	assert.NoError(t, err)
	_, err = CreateAttribute[float32](m, "a", attrib.Vertex, attrib.Scalar, 1, nil)
	assert.NoError(t, err)

	var names []string
	m.ForeachAttribute(func(id attrib.ID, name string, a attrib.AnyAttribute) {
		names = append(names, name)
	})
	assert.Equal(t, []string{AttrCornerToVertex, AttrVertexToPosition, "a", "b"}, names)
	assert.Equal(t, 4, m.NumAttributes())

	assert.NoError(t, m.ParForeachAttributeID(func(id attrib.ID) error {
		assert.NotNil(t, m.Attribute(id))
		return nil
	}))
}
