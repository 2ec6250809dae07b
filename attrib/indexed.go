// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attrib

import (
	"reflect"

	"cogentcore.org/core/base/metadata"
)

// IndexedAttribute pairs a free-sized value buffer with a per-corner
// index buffer, so that multiple corners can share a value (seam-aware
// UVs, face-varying normals). The index part follows the mesh corner
// count; the value part is resized explicitly by the caller.
type IndexedAttribute[T DataTypes, I IndexTypes] struct {
	values  *Attribute[T]
	indices *Attribute[I]
}

// NewIndexed returns a new empty indexed attribute with the given usage
// and number of value channels. The index part holds indexRows corners.
func NewIndexed[T DataTypes, I IndexTypes](usage Usage, channels, indexRows int) *IndexedAttribute[T, I] {
	ia := &IndexedAttribute[T, I]{
		values:  New[T](Value, usage, channels),
		indices: New[I](Corner, usage, 1),
	}
	ia.indices.Resize(indexRows)
	return ia
}

// WrapIndexed returns an indexed attribute wrapping external buffers:
// values holds valueRows rows of channels values each, and indices
// holds one value index per corner.
func WrapIndexed[T DataTypes, I IndexTypes](usage Usage, channels int, values []T, valueRows int, indices []I, indexRows int) (*IndexedAttribute[T, I], error) {
	vals, err := Wrap(Value, usage, channels, values, valueRows)
	if err != nil {
		return nil, err
	}
	idx, err := Wrap(Corner, usage, 1, indices, indexRows)
	if err != nil {
		return nil, err
	}
	return &IndexedAttribute[T, I]{values: vals, indices: idx}, nil
}

// WrapConstIndexed is like [WrapIndexed] but both parts are read-only.
func WrapConstIndexed[T DataTypes, I IndexTypes](usage Usage, channels int, values []T, valueRows int, indices []I, indexRows int) (*IndexedAttribute[T, I], error) {
	vals, err := WrapConst(Value, usage, channels, values, valueRows)
	if err != nil {
		return nil, err
	}
	idx, err := WrapConst(Corner, usage, 1, indices, indexRows)
	if err != nil {
		return nil, err
	}
	return &IndexedAttribute[T, I]{values: vals, indices: idx}, nil
}

// Values returns the value part.
func (ia *IndexedAttribute[T, I]) Values() *Attribute[T] { return ia.values }

// Indices returns the per-corner index part.
func (ia *IndexedAttribute[T, I]) Indices() *Attribute[I] { return ia.indices }

func (ia *IndexedAttribute[T, I]) Element() Element { return Indexed }
func (ia *IndexedAttribute[T, I]) Usage() Usage     { return ia.values.usage }
func (ia *IndexedAttribute[T, I]) NumChannels() int { return ia.values.channels }

// NumElements returns the number of corners in the index part.
func (ia *IndexedAttribute[T, I]) NumElements() int { return ia.indices.rows }

func (ia *IndexedAttribute[T, I]) DataType() reflect.Kind {
	return ia.values.DataType()
}

func (ia *IndexedAttribute[T, I]) IsExternal() bool {
	return ia.values.IsExternal() || ia.indices.IsExternal()
}

func (ia *IndexedAttribute[T, I]) IsReadOnly() bool {
	return ia.values.IsReadOnly() || ia.indices.IsReadOnly()
}

func (ia *IndexedAttribute[T, I]) Metadata() *metadata.Data { return &ia.values.Meta }

// Resize sets the number of corners in the index part. The value part
// is unaffected.
func (ia *IndexedAttribute[T, I]) Resize(rows int) error { return ia.indices.Resize(rows) }

// InsertRows appends count corners to the index part.
func (ia *IndexedAttribute[T, I]) InsertRows(count int) error { return ia.indices.InsertRows(count) }

// Reserve pre-allocates the index part.
func (ia *IndexedAttribute[T, I]) Reserve(rows int) error { return ia.indices.Reserve(rows) }

// CopyRow copies index row src onto row dst.
func (ia *IndexedAttribute[T, I]) CopyRow(dst, src int) { ia.indices.CopyRow(dst, src) }

// Clear resets the index part to zero corners.
func (ia *IndexedAttribute[T, I]) Clear() { ia.indices.Clear() }

func (ia *IndexedAttribute[T, I]) ShrinkToFit() {
	ia.values.ShrinkToFit()
	ia.indices.ShrinkToFit()
}

func (ia *IndexedAttribute[T, I]) EnsureWritable() error {
	if err := ia.values.EnsureWritable(); err != nil {
		return err
	}
	return ia.indices.EnsureWritable()
}

func (ia *IndexedAttribute[T, I]) CheckExportable(policy ExportPolicy) error {
	if err := ia.values.CheckExportable(policy); err != nil {
		return err
	}
	return ia.indices.CheckExportable(policy)
}

func (ia *IndexedAttribute[T, I]) InternalCopy() {
	ia.values.InternalCopy()
	ia.indices.InternalCopy()
}

// Clone returns a deep copy of both parts, per their copy policies.
func (ia *IndexedAttribute[T, I]) Clone() (*IndexedAttribute[T, I], error) {
	vals, err := ia.values.Clone()
	if err != nil {
		return nil, err
	}
	idx, err := ia.indices.Clone()
	if err != nil {
		return nil, err
	}
	return &IndexedAttribute[T, I]{values: vals, indices: idx}, nil
}

func (ia *IndexedAttribute[T, I]) CloneAny() (AnyAttribute, error) { return ia.Clone() }
