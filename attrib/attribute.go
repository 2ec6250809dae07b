// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attrib

import (
	"fmt"
	"reflect"
	"slices"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/metadata"
	"cogentcore.org/core/base/slicesx"
	"gonum.org/v1/gonum/mat"
)

// AnyAttribute is the type-erased interface over [Attribute] and
// [IndexedAttribute], used by [Manager] and by element reindexing code
// that operates on all attributes regardless of scalar type.
type AnyAttribute interface {
	// Element returns the mesh element type the attribute is attached to.
	Element() Element

	// Usage returns the semantic usage tag.
	Usage() Usage

	// NumChannels returns the number of channels per element.
	NumChannels() int

	// NumElements returns the number of elements (rows).
	NumElements() int

	// DataType returns the scalar type of the attribute values.
	DataType() reflect.Kind

	// IsExternal reports whether the attribute wraps an external buffer.
	IsExternal() bool

	// IsReadOnly reports whether the attribute wraps a const buffer.
	IsReadOnly() bool

	// Metadata returns the user metadata for this attribute.
	Metadata() *metadata.Data

	// Resize sets the number of elements, filling any new rows with the
	// default value. Growth of external buffers is subject to the
	// attribute's [GrowthPolicy].
	Resize(rows int) error

	// InsertRows appends count default-filled rows.
	InsertRows(count int) error

	// Reserve pre-allocates storage for at least the given number of
	// elements. External buffers are subject to the attribute's
	// [GrowthPolicy].
	Reserve(rows int) error

	// CopyRow copies element row src onto row dst.
	CopyRow(dst, src int)

	// Clear resets the number of elements to zero.
	Clear()

	// ShrinkToFit releases spare internal capacity.
	ShrinkToFit()

	// EnsureWritable applies the [WritePolicy] ahead of write access,
	// copying read-only data into internal storage when the policy
	// allows it.
	EnsureWritable() error

	// CheckExportable returns an error if the given [ExportPolicy]
	// forbids detaching this attribute.
	CheckExportable(policy ExportPolicy) error

	// CloneAny returns a deep copy, subject to the attribute's
	// [CopyPolicy] for external buffers.
	CloneAny() (AnyAttribute, error)

	// InternalCopy unconditionally copies the data into an internal
	// writable buffer, detaching any external buffer.
	InternalCopy()
}

// Attribute is a flat row-major buffer of NumElements x NumChannels
// values of a single scalar type, attached to a mesh element type.
// The zero value is not usable: use [New], [Wrap], or [WrapConst].
type Attribute[T DataTypes] struct {
	element  Element
	usage    Usage
	channels int
	rows     int

	// values is the active data, rows*channels long. It aliases
	// external when the attribute wraps an external buffer.
	values []T

	// external is the full wrapped buffer, nil for internal storage.
	// Its length beyond the active range is spare capacity.
	external []T

	readOnly bool

	// Default fills rows created by growth.
	Default T

	// Growth controls resizing of external buffers.
	Growth GrowthPolicy

	// Write controls write access to read-only buffers.
	Write WritePolicy

	// Copy controls copying of external buffers.
	Copy CopyPolicy

	// Meta is user metadata (name, doc, etc).
	Meta metadata.Data
}

// New returns a new empty attribute for the given element type, usage,
// and number of channels per element.
func New[T DataTypes](el Element, usage Usage, channels int) *Attribute[T] {
	if channels <= 0 {
		channels = 1
	}
	return &Attribute[T]{element: el, usage: usage, channels: channels}
}

// Wrap returns an attribute wrapping the given external buffer, holding
// rows elements. The buffer must hold at least rows*channels values;
// anything beyond that is spare capacity available to
// [GrowthAllowWithinCapacity].
func Wrap[T DataTypes](el Element, usage Usage, channels int, buf []T, rows int) (*Attribute[T], error) {
	a := New[T](el, usage, channels)
	if rows*a.channels > len(buf) {
		return nil, fmt.Errorf("attrib.Wrap: buffer of length %d cannot hold %d elements with %d channels", len(buf), rows, a.channels)
	}
	a.external = buf
	a.values = buf[:rows*a.channels]
	a.rows = rows
	return a, nil
}

// WrapConst is like [Wrap] but marks the attribute read-only, so write
// access is subject to the [WritePolicy].
func WrapConst[T DataTypes](el Element, usage Usage, channels int, buf []T, rows int) (*Attribute[T], error) {
	a, err := Wrap(el, usage, channels, buf, rows)
	if err != nil {
		return nil, err
	}
	a.readOnly = true
	return a, nil
}

func (a *Attribute[T]) Element() Element { return a.element }
func (a *Attribute[T]) Usage() Usage     { return a.usage }
func (a *Attribute[T]) NumChannels() int { return a.channels }
func (a *Attribute[T]) NumElements() int { return a.rows }
func (a *Attribute[T]) IsExternal() bool { return a.external != nil }
func (a *Attribute[T]) IsReadOnly() bool { return a.readOnly }

func (a *Attribute[T]) DataType() reflect.Kind {
	var v T
	return reflect.TypeOf(v).Kind()
}

func (a *Attribute[T]) Metadata() *metadata.Data { return &a.Meta }

// Values returns the active data span, rows*channels long, in row-major
// order. Callers must not mutate it without [Attribute.EnsureWritable].
func (a *Attribute[T]) Values() []T { return a.values }

// Row returns the channel values of element i as a slice view.
func (a *Attribute[T]) Row(i int) []T {
	return a.values[i*a.channels : (i+1)*a.channels]
}

// Get returns channel c of element i.
func (a *Attribute[T]) Get(i, c int) T { return a.values[i*a.channels+c] }

// Set sets channel c of element i.
func (a *Attribute[T]) Set(i, c int, v T) { a.values[i*a.channels+c] = v }

// SetRow copies the given channel values onto element i.
func (a *Attribute[T]) SetRow(i int, vals []T) {
	copy(a.Row(i), vals)
}

// Resize sets the number of elements, filling any new rows with
// [Attribute.Default]. Resizing an external buffer is subject to the
// [GrowthPolicy].
func (a *Attribute[T]) Resize(rows int) error {
	if rows == a.rows {
		return nil
	}
	n := rows * a.channels
	old := a.rows * a.channels
	if a.external != nil {
		switch a.Growth {
		case GrowthErrorIfExternal:
			return fmt.Errorf("attrib: cannot resize attribute wrapping an external buffer (growth policy is ErrorIfExternal)")
		case GrowthAllowWithinCapacity:
			if n > len(a.external) {
				return fmt.Errorf("attrib: resize to %d elements exceeds external buffer capacity of %d values", rows, len(a.external))
			}
			// default-filling the exposed rows writes to the buffer, so
			// growing is subject to the write policy
			if n > old {
				if err := a.EnsureWritable(); err != nil {
					return err
				}
			}
			if a.external != nil {
				a.values = a.external[:n]
			} else {
				a.values = slicesx.SetLength(a.values, n)
			}
			a.fill(old, n)
			a.rows = rows
			return nil
		case GrowthWarnAndCopy:
			errors.Log(fmt.Errorf("attrib: resizing attribute wrapping an external buffer: copying to internal storage"))
			fallthrough
		case GrowthSilentCopy:
			a.InternalCopy()
			return a.Resize(rows)
		}
	} else {
		a.values = slicesx.SetLength(a.values, n)
	}
	a.fill(old, n)
	a.rows = rows
	return nil
}

// fill sets values[lo:hi] to the default value (no-op when hi <= lo).
func (a *Attribute[T]) fill(lo, hi int) {
	for i := lo; i < hi; i++ {
		a.values[i] = a.Default
	}
}

// InsertRows appends count default-filled rows.
func (a *Attribute[T]) InsertRows(count int) error {
	return a.Resize(a.rows + count)
}

// InsertValues appends elements initialized from vals, whose length
// must be a multiple of the number of channels.
func (a *Attribute[T]) InsertValues(vals []T) error {
	if len(vals)%a.channels != 0 {
		return fmt.Errorf("attrib: inserted values length %d is not a multiple of %d channels", len(vals), a.channels)
	}
	lo := a.rows * a.channels
	if err := a.Resize(a.rows + len(vals)/a.channels); err != nil {
		return err
	}
	copy(a.values[lo:], vals)
	return nil
}

// Reserve pre-allocates storage for at least the given number of
// elements. For external buffers the [GrowthPolicy] applies: spare
// buffer capacity satisfies the reservation under AllowWithinCapacity,
// and the copying policies migrate to internal storage.
func (a *Attribute[T]) Reserve(rows int) error {
	n := rows * a.channels
	if a.external != nil {
		switch a.Growth {
		case GrowthErrorIfExternal:
			return fmt.Errorf("attrib: cannot reserve on an attribute wrapping an external buffer (growth policy is ErrorIfExternal)")
		case GrowthAllowWithinCapacity:
			if n > len(a.external) {
				return fmt.Errorf("attrib: reserving %d elements exceeds external buffer capacity of %d values", rows, len(a.external))
			}
			return nil
		case GrowthWarnAndCopy:
			errors.Log(fmt.Errorf("attrib: reserving on an attribute wrapping an external buffer: copying to internal storage"))
			fallthrough
		case GrowthSilentCopy:
			a.InternalCopy()
		}
	}
	if n > cap(a.values) {
		a.values = slices.Grow(a.values, n-len(a.values))
	}
	return nil
}

// CopyRow copies element row src onto row dst.
func (a *Attribute[T]) CopyRow(dst, src int) {
	copy(a.Row(dst), a.Row(src))
}

// Clear resets the number of elements to zero, keeping capacity.
func (a *Attribute[T]) Clear() {
	a.values = a.values[:0]
	if a.external != nil {
		a.values = a.external[:0]
	}
	a.rows = 0
}

// ShrinkToFit releases spare internal capacity.
func (a *Attribute[T]) ShrinkToFit() {
	if a.external != nil {
		return
	}
	a.values = slices.Clip(a.values)
}

// EnsureWritable applies the [WritePolicy] ahead of write access.
func (a *Attribute[T]) EnsureWritable() error {
	if !a.readOnly {
		return nil
	}
	switch a.Write {
	case WriteErrorIfReadOnly:
		return fmt.Errorf("attrib: write access to read-only attribute (write policy is ErrorIfReadOnly)")
	case WriteWarnAndCopy:
		errors.Log(fmt.Errorf("attrib: write access to read-only attribute: copying to internal storage"))
	}
	a.InternalCopy()
	return nil
}

// CheckExportable returns an error if the policy forbids detaching.
func (a *Attribute[T]) CheckExportable(policy ExportPolicy) error {
	if a.external != nil && policy == ExportErrorIfExternal {
		return fmt.Errorf("attrib: cannot export attribute wrapping an external buffer (export policy is ErrorIfExternal)")
	}
	return nil
}

// InternalCopy unconditionally copies the data into an internal
// writable buffer, detaching any external buffer.
func (a *Attribute[T]) InternalCopy() {
	vals := make([]T, len(a.values), cap(a.values))
	copy(vals, a.values)
	a.values = vals
	a.external = nil
	a.readOnly = false
}

// Clone returns a deep copy. External buffers are handled per the
// attribute's [CopyPolicy]: copied into internal storage by default,
// shared under [CopyKeepExternalPtr], or rejected under
// [CopyErrorIfExternal].
func (a *Attribute[T]) Clone() (*Attribute[T], error) {
	c := &Attribute[T]{
		element:  a.element,
		usage:    a.usage,
		channels: a.channels,
		rows:     a.rows,
		Default:  a.Default,
		Growth:   a.Growth,
		Write:    a.Write,
		Copy:     a.Copy,
	}
	c.Meta.Copy(a.Meta)
	if a.external != nil {
		switch a.Copy {
		case CopyErrorIfExternal:
			return nil, fmt.Errorf("attrib: cannot copy attribute wrapping an external buffer (copy policy is ErrorIfExternal)")
		case CopyKeepExternalPtr:
			c.external = a.external
			c.values = a.values
			c.readOnly = a.readOnly
			return c, nil
		}
	}
	c.values = slices.Clone(a.values)
	return c, nil
}

func (a *Attribute[T]) CloneAny() (AnyAttribute, error) { return a.Clone() }

// Matrix returns a gonum mat.Matrix view of the attribute, with one row
// per element and one column per channel.
func (a *Attribute[T]) Matrix() mat.Matrix { return matrix[T]{a} }

type matrix[T DataTypes] struct {
	a *Attribute[T]
}

func (m matrix[T]) Dims() (r, c int)    { return m.a.rows, m.a.channels }
func (m matrix[T]) At(i, j int) float64 { return float64(m.a.Get(i, j)) }
func (m matrix[T]) T() mat.Matrix       { return mat.Transpose{Matrix: m} }
