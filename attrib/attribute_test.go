// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attrib

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestAttributeBasics(t *testing.T) {
	a := New[float32](Vertex, Position, 3)
	assert.Equal(t, Vertex, a.Element())
	assert.Equal(t, Position, a.Usage())
	assert.Equal(t, 3, a.NumChannels())
	assert.Equal(t, 0, a.NumElements())
	assert.Equal(t, reflect.Float32, a.DataType())

	assert.NoError(t, a.Resize(2))
	assert.Equal(t, 2, a.NumElements())
	assert.Equal(t, 6, len(a.Values()))

	a.SetRow(0, []float32{1, 2, 3})
	a.Set(1, 2, 9)
	assert.Equal(t, float32(2), a.Get(0, 1))
	assert.Equal(t, []float32{0, 0, 9}, a.Row(1))
}

func TestAttributeDefaultFill(t *testing.T) {
	a := New[uint32](Edge, Scalar, 1)
	a.Default = 42
	assert.NoError(t, a.Resize(3))
	assert.Equal(t, []uint32{42, 42, 42}, a.Values())

	// shrinking then regrowing refills with the default
	assert.NoError(t, a.Resize(1))
	a.Set(0, 0, 7)
	assert.NoError(t, a.Resize(2))
	assert.Equal(t, []uint32{7, 42}, a.Values())
}

func TestAttributeInsertValues(t *testing.T) {
	a := New[float64](Vertex, Vector, 2)
	assert.NoError(t, a.InsertValues([]float64{1, 2, 3, 4}))
	assert.Equal(t, 2, a.NumElements())
	assert.Error(t, a.InsertValues([]float64{1, 2, 3}))
	assert.Equal(t, 2, a.NumElements())
}

func TestAttributeWrap(t *testing.T) {
	buf := []float32{1, 2, 3, 4, 5, 6, 0, 0, 0}
	a, err := Wrap(Vertex, Position, 3, buf, 2)
	assert.NoError(t, err)
	assert.True(t, a.IsExternal())
	assert.False(t, a.IsReadOnly())
	assert.Equal(t, 2, a.NumElements())

	// writes go straight to the wrapped buffer
	a.Set(0, 0, 10)
	assert.Equal(t, float32(10), buf[0])

	// default growth policy rejects resizing
	assert.Error(t, a.Resize(3))

	// within-capacity growth uses the spare tail
	a.Growth = GrowthAllowWithinCapacity
	assert.NoError(t, a.Resize(3))
	assert.Equal(t, 3, a.NumElements())
	assert.Error(t, a.Resize(4))

	// copy-on-grow migrates to internal storage
	a.Growth = GrowthSilentCopy
	assert.NoError(t, a.Resize(4))
	assert.False(t, a.IsExternal())
	assert.Equal(t, float32(10), a.Get(0, 0))

	_, err = Wrap(Vertex, Position, 3, buf, 4)
	assert.Error(t, err)
}

func TestAttributeWrapConst(t *testing.T) {
	buf := []uint32{1, 2, 3}
	a, err := WrapConst(Facet, Scalar, 1, buf, 3)
	assert.NoError(t, err)
	assert.True(t, a.IsReadOnly())

	assert.Error(t, a.EnsureWritable())

	a.Write = WriteSilentCopy
	assert.NoError(t, a.EnsureWritable())
	assert.False(t, a.IsReadOnly())
	assert.False(t, a.IsExternal())
	a.Set(0, 0, 9)
	assert.Equal(t, uint32(1), buf[0])
}

func TestAttributeClone(t *testing.T) {
	a := New[float64](Vertex, Scalar, 1)
	assert.NoError(t, a.InsertValues([]float64{1, 2}))
	c, err := a.Clone()
	assert.NoError(t, err)
	c.Set(0, 0, 5)
	assert.Equal(t, float64(1), a.Get(0, 0))

	buf := []float64{1, 2}
	w, err := Wrap(Vertex, Scalar, 1, buf, 2)
	assert.NoError(t, err)

	wc, err := w.Clone()
	assert.NoError(t, err)
	assert.False(t, wc.IsExternal())

	w.Copy = CopyKeepExternalPtr
	wk, err := w.Clone()
	assert.NoError(t, err)
	assert.True(t, wk.IsExternal())
	wk.Set(0, 0, 7)
	assert.Equal(t, float64(7), buf[0])

	w.Copy = CopyErrorIfExternal
	_, err = w.Clone()
	assert.Error(t, err)
}

func TestAttributeMatrix(t *testing.T) {
	a := New[float32](Vertex, Position, 3)
	assert.NoError(t, a.InsertValues([]float32{1, 2, 3, 4, 5, 6}))
	mx := a.Matrix()
	r, c := mx.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, float64(5), mx.At(1, 1))
	assert.Equal(t, float64(21), mat.Sum(mx))
}

func TestIndexedAttribute(t *testing.T) {
	ia := NewIndexed[float32, uint32](UV, 2, 6)
	assert.Equal(t, Indexed, ia.Element())
	assert.Equal(t, 6, ia.NumElements())
	assert.Equal(t, 2, ia.NumChannels())
	assert.Equal(t, 0, ia.Values().NumElements())

	assert.NoError(t, ia.Values().InsertValues([]float32{0, 0, 1, 0, 1, 1}))
	ia.Indices().Set(3, 0, 2)
	assert.Equal(t, uint32(2), ia.Indices().Get(3, 0))

	// index part follows the corner count, value part does not
	assert.NoError(t, ia.Resize(9))
	assert.Equal(t, 9, ia.NumElements())
	assert.Equal(t, 3, ia.Values().NumElements())
}

func TestNewOfKind(t *testing.T) {
	a := NewOfKind(reflect.Uint16, Facet, Scalar, 1)
	assert.NotNil(t, a)
	assert.Equal(t, reflect.Uint16, a.DataType())
	assert.Equal(t, Facet, a.Element())
	assert.NoError(t, a.Resize(3))
	_, ok := a.(*Attribute[uint16])
	assert.True(t, ok)

	assert.Nil(t, NewOfKind(reflect.String, Vertex, Scalar, 1))
}

func TestAttributeWrapGrowthFillsDefault(t *testing.T) {
	buf := []int32{1, 2, 99, 99}
	a, err := Wrap(Vertex, Scalar, 1, buf, 2)
	assert.NoError(t, err)
	a.Default = -1
	a.Growth = GrowthAllowWithinCapacity

	// rows exposed by within-capacity growth are default-filled like
	// any other new rows
	assert.NoError(t, a.Resize(4))
	assert.Equal(t, []int32{1, 2, -1, -1}, a.Values())
	assert.Equal(t, []int32{1, 2, -1, -1}, buf)
}

func TestAttributeWrapConstGrowthNeedsWriteAccess(t *testing.T) {
	buf := []int32{1, 2, 0, 0}
	a, err := WrapConst(Vertex, Scalar, 1, buf, 2)
	assert.NoError(t, err)
	a.Default = -1
	a.Growth = GrowthAllowWithinCapacity

	// growing writes the default into the buffer, so the write policy
	// rejects it on a const buffer
	assert.Error(t, a.Resize(4))
	assert.Equal(t, 2, a.NumElements())
	assert.Equal(t, []int32{1, 2, 0, 0}, buf)

	// shrinking writes nothing
	assert.NoError(t, a.Resize(1))
	assert.Equal(t, 1, a.NumElements())

	// a copying write policy migrates to internal storage and fills
	a.Write = WriteSilentCopy
	assert.NoError(t, a.Resize(3))
	assert.False(t, a.IsExternal())
	assert.Equal(t, []int32{1, -1, -1}, a.Values())
	assert.Equal(t, []int32{1, 2, 0, 0}, buf)
}

func TestAttributeReserve(t *testing.T) {
	a := New[float32](Vertex, Scalar, 1)
	assert.NoError(t, a.Reserve(8))
	assert.GreaterOrEqual(t, cap(a.Values()), 8)
	assert.Equal(t, 0, a.NumElements())

	buf := []float32{1, 2, 3, 4}
	w, err := Wrap(Vertex, Scalar, 1, buf, 2)
	assert.NoError(t, err)

	// default growth policy rejects reserving on external buffers
	assert.Error(t, w.Reserve(3))

	// spare buffer capacity satisfies the reservation
	w.Growth = GrowthAllowWithinCapacity
	assert.NoError(t, w.Reserve(4))
	assert.Error(t, w.Reserve(5))

	// copying policies migrate to internal storage
	w.Growth = GrowthSilentCopy
	assert.NoError(t, w.Reserve(6))
	assert.False(t, w.IsExternal())
	assert.GreaterOrEqual(t, cap(w.Values()), 6)
	assert.Equal(t, []float32{1, 2}, w.Values())
}
