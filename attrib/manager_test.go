// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attrib

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerAddGetDelete(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0, m.Len())

	id, err := m.Add("color", New[float32](Vertex, Color, 3))
	assert.NoError(t, err)
	assert.Equal(t, ID(0), id)
	assert.True(t, m.Has("color"))
	assert.Equal(t, id, m.ID("color"))
	assert.Equal(t, "color", m.Name(id))

	_, err = m.Add("color", New[float32](Vertex, Color, 3))
	assert.Error(t, err)

	id2, err := m.Add("weight", New[float64](Vertex, Scalar, 1))
	assert.NoError(t, err)
	assert.Equal(t, ID(1), id2)

	assert.NoError(t, m.Delete(id))
	assert.False(t, m.Has("color"))
	assert.Nil(t, m.Get(id))
	assert.Equal(t, InvalidID, m.ID("color"))

	// freed ids are reused
	id3, err := m.Add("uv", New[float32](Corner, UV, 2))
	assert.NoError(t, err)
	assert.Equal(t, id, id3)
}

func TestManagerTypedAccess(t *testing.T) {
	m := NewManager()
	id, _ := m.Add("weight", New[float64](Vertex, Scalar, 1))

	a, err := Of[float64](m, id)
	assert.NoError(t, err)
	assert.Equal(t, Scalar, a.Usage())

	_, err = Of[float32](m, id)
	assert.Error(t, err)

	_, err = Of[float64](m, 99)
	assert.Error(t, err)
}

func TestManagerRename(t *testing.T) {
	m := NewManager()
	id, _ := m.Add("a", New[int32](Facet, Scalar, 1))
	m.Add("b", New[int32](Facet, Scalar, 1))

	assert.Error(t, m.Rename("missing", "c"))
	assert.Error(t, m.Rename("a", "b"))
	assert.NoError(t, m.Rename("a", "c"))
	assert.Equal(t, id, m.ID("c"))
	assert.Equal(t, "c", m.Name(id))
	assert.False(t, m.Has("a"))
}

func TestManagerCopyOnWrite(t *testing.T) {
	m := NewManager()
	id, _ := m.Add("w", New[float64](Vertex, Scalar, 1))
	a, _ := MutOf[float64](m, id)
	assert.NoError(t, a.InsertValues([]float64{1, 2, 3}))

	c := m.Clone(nil)
	cid := c.ID("w")
	ca, err := Of[float64](c, cid)
	assert.NoError(t, err)

	// reads share storage
	orig, _ := Of[float64](m, id)
	assert.Same(t, &orig.Values()[0], &ca.Values()[0])

	// first write access unshares
	cw, err := MutOf[float64](c, cid)
	assert.NoError(t, err)
	cw.Set(0, 0, 9)
	assert.Equal(t, float64(1), orig.Get(0, 0))
	assert.Equal(t, float64(9), cw.Get(0, 0))
}

func TestManagerShare(t *testing.T) {
	m := NewManager()
	id, _ := m.Add("w", New[float64](Vertex, Scalar, 1))
	a, _ := MutOf[float64](m, id)
	assert.NoError(t, a.InsertValues([]float64{4}))

	sid, err := m.Share("w2", m, id)
	assert.NoError(t, err)
	dup, _ := Of[float64](m, sid)
	assert.Equal(t, float64(4), dup.Get(0, 0))

	w, _ := MutOf[float64](m, id)
	w.Set(0, 0, 8)
	dup, _ = Of[float64](m, sid)
	assert.Equal(t, float64(4), dup.Get(0, 0))
}

func TestManagerExport(t *testing.T) {
	m := NewManager()
	buf := []float32{1, 2, 3}
	w, err := Wrap(Vertex, Scalar, 1, buf, 3)
	assert.NoError(t, err)
	id, _ := m.Add("ext", w)

	_, err = m.Export(id, ExportErrorIfExternal)
	assert.Error(t, err)
	assert.True(t, m.Has("ext"))

	out, err := m.Export(id, ExportCopyIfExternal)
	assert.NoError(t, err)
	assert.False(t, out.IsExternal())
	assert.False(t, m.Has("ext"))
	assert.Equal(t, 3, out.NumElements())
}

func TestManagerResizeElements(t *testing.T) {
	m := NewManager()
	vid, _ := m.Add("vw", New[float64](Vertex, Scalar, 1))
	fid, _ := m.Add("fw", New[float64](Facet, Scalar, 1))
	iid, _ := m.Add("uv", NewIndexed[float32, uint32](UV, 2, 0))

	assert.NoError(t, m.ResizeElements(Vertex, 4))
	assert.NoError(t, m.ResizeElements(Corner, 6))

	assert.Equal(t, 4, m.Get(vid).NumElements())
	assert.Equal(t, 0, m.Get(fid).NumElements())
	assert.Equal(t, 6, m.Get(iid).NumElements())
}

func TestManagerForeach(t *testing.T) {
	m := NewManager()
	m.Add("b", New[int32](Vertex, Scalar, 1))
	m.Add("a", New[int32](Vertex, Scalar, 1))
	m.Add("c", New[int32](Vertex, Scalar, 1))

	var names []string
	m.SeqForeach(func(id ID, name string, attr AnyAttribute) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"a", "b", "c"}, names)

	var count atomic.Int32
	err := m.ParForeach(func(id ID) error {
		count.Add(1)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int32(3), count.Load())
}
