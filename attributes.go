// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"fmt"
	"reflect"

	"github.com/meshkit/surface/attrib"
)

// HasAttribute reports whether an attribute with the given name exists.
func (m *Mesh[S, I]) HasAttribute(name string) bool { return m.attrs.Has(name) }

// AttributeID returns the id of the named attribute, or
// [attrib.InvalidID].
func (m *Mesh[S, I]) AttributeID(name string) attrib.ID { return m.attrs.ID(name) }

// AttributeName returns the name of the attribute with the given id.
func (m *Mesh[S, I]) AttributeName(id attrib.ID) string { return m.attrs.Name(id) }

// Attribute returns the attribute with the given id type-erased, for
// read access, or nil.
func (m *Mesh[S, I]) Attribute(id attrib.ID) attrib.AnyAttribute { return m.attrs.Get(id) }

// MutAttribute returns the attribute with the given id type-erased and
// ready for write access (storage unshared, write policy applied).
func (m *Mesh[S, I]) MutAttribute(id attrib.ID) (attrib.AnyAttribute, error) {
	return m.attrs.GetMut(id)
}

// NumAttributes returns the number of attributes, including reserved
// ones.
func (m *Mesh[S, I]) NumAttributes() int { return m.attrs.Len() }

// ForeachAttribute visits every attribute in name-sorted order.
func (m *Mesh[S, I]) ForeachAttribute(fn func(id attrib.ID, name string, a attrib.AnyAttribute)) {
	m.attrs.SeqForeach(fn)
}

// ParForeachAttributeID visits every attribute id concurrently.
func (m *Mesh[S, I]) ParForeachAttributeID(fn func(id attrib.ID) error) error {
	return m.attrs.ParForeach(fn)
}

// Attr returns the typed attribute with the given id for read access.
func Attr[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], id attrib.ID) (*attrib.Attribute[T], error) {
	return attrib.Of[T](m.attrs, id)
}

// MutAttr returns the typed attribute with the given id for write
// access, unsharing copy-on-write storage and applying the write
// policy.
func MutAttr[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], id attrib.ID) (*attrib.Attribute[T], error) {
	return attrib.MutOf[T](m.attrs, id)
}

// IndexedAttr returns the typed indexed attribute with the given id
// for read access.
func IndexedAttr[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], id attrib.ID) (*attrib.IndexedAttribute[T, I], error) {
	return attrib.IndexedOf[T, I](m.attrs, id)
}

// MutIndexedAttr is the write-access form of [IndexedAttr].
func MutIndexedAttr[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], id attrib.ID) (*attrib.IndexedAttribute[T, I], error) {
	return attrib.MutIndexedOf[T, I](m.attrs, id)
}

// checkAttribute validates name, usage, channel count, and value type
// ahead of attribute creation.
func (m *Mesh[S, I]) checkAttribute(name string, el attrib.Element, usage attrib.Usage, channels int, kind reflect.Kind, policy attrib.CreatePolicy) error {
	if attrib.IsReservedName(name) && policy != attrib.CreateForce {
		return fmt.Errorf("surface: attribute name %q is reserved", name)
	}
	if channels <= 0 {
		return fmt.Errorf("surface: attribute %q must have at least one channel", name)
	}
	dim := m.dimension
	switch usage {
	case attrib.Position:
		if channels != dim {
			return fmt.Errorf("surface: position attribute %q must have %d channels, not %d", name, dim, channels)
		}
	case attrib.Normal, attrib.Tangent, attrib.Bitangent:
		if channels != dim && channels != dim+1 {
			return fmt.Errorf("surface: %v attribute %q must have %d or %d channels, not %d", usage, name, dim, dim+1, channels)
		}
	case attrib.UV:
		if channels != 2 {
			return fmt.Errorf("surface: uv attribute %q must have 2 channels, not %d", name, channels)
		}
	case attrib.Scalar:
		if channels != 1 {
			return fmt.Errorf("surface: scalar attribute %q must have 1 channel, not %d", name, channels)
		}
	case attrib.Color:
		if channels > 4 {
			return fmt.Errorf("surface: color attribute %q must have at most 4 channels, not %d", name, channels)
		}
	}
	if usage.IsIndex() {
		if channels != 1 {
			return fmt.Errorf("surface: index attribute %q must have 1 channel, not %d", name, channels)
		}
		if kind != m.indexKind() {
			return fmt.Errorf("surface: index attribute %q must use the mesh index type %v, not %v", name, m.indexKind(), kind)
		}
	}
	return nil
}

// CreateAttribute creates a typed attribute sized to the current
// element count, optionally initialized from a flat span whose length
// must be count*channels (or empty for default-filled values).
func CreateAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, el attrib.Element, usage attrib.Usage, channels int, initial []T, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	pol := attrib.CreateErrorIfReserved
	if len(policy) > 0 {
		pol = policy[0]
	}
	var z T
	if err := m.checkAttribute(name, el, usage, channels, reflect.TypeOf(z).Kind(), pol); err != nil {
		return attrib.InvalidID, err
	}
	if el == attrib.Indexed {
		return attrib.InvalidID, fmt.Errorf("surface: use CreateIndexedAttribute for indexed attribute %q", name)
	}
	n := m.NumElements(el)
	if len(initial) != 0 && len(initial) != n*channels {
		return attrib.InvalidID, fmt.Errorf("surface: attribute %q initial values have length %d, want %d", name, len(initial), n*channels)
	}
	a := attrib.New[T](el, usage, channels)
	if len(initial) != 0 {
		if err := a.InsertValues(initial); err != nil {
			return attrib.InvalidID, err
		}
	} else if err := a.Resize(n); err != nil {
		return attrib.InvalidID, err
	}
	return m.attrs.Add(name, a)
}

// CreateIndexedAttribute creates an indexed attribute: a free-sized
// value buffer plus a per-corner index buffer sized to the corner
// count.
func CreateIndexedAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, usage attrib.Usage, channels int, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	pol := attrib.CreateErrorIfReserved
	if len(policy) > 0 {
		pol = policy[0]
	}
	var z T
	if err := m.checkAttribute(name, attrib.Indexed, usage, channels, reflect.TypeOf(z).Kind(), pol); err != nil {
		return attrib.InvalidID, err
	}
	ia := attrib.NewIndexed[T, I](usage, channels, m.numCorners)
	return m.attrs.Add(name, ia)
}

// WrapAttribute creates an attribute wrapping the given external
// buffer, which must hold at least count*channels values for the
// element's current count. Spare capacity beyond that is usable by the
// [attrib.GrowthAllowWithinCapacity] policy.
func WrapAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, el attrib.Element, usage attrib.Usage, channels int, buf []T, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	return wrapAttribute(m, name, el, usage, channels, buf, false, policy...)
}

// WrapConstAttribute is like [WrapAttribute] but the attribute is
// read-only.
func WrapConstAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, el attrib.Element, usage attrib.Usage, channels int, buf []T, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	return wrapAttribute(m, name, el, usage, channels, buf, true, policy...)
}

// WrapIndexedAttribute creates an indexed attribute wrapping external
// buffers: values holds valueRows rows of channels values each, and
// indices holds one value index per corner for the current corner
// count.
func WrapIndexedAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, usage attrib.Usage, channels int, values []T, valueRows int, indices []I, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	return wrapIndexedAttribute(m, name, usage, channels, values, valueRows, indices, false, policy...)
}

// WrapConstIndexedAttribute is like [WrapIndexedAttribute] but both
// buffers are read-only.
func WrapConstIndexedAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, usage attrib.Usage, channels int, values []T, valueRows int, indices []I, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	return wrapIndexedAttribute(m, name, usage, channels, values, valueRows, indices, true, policy...)
}

func wrapIndexedAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, usage attrib.Usage, channels int, values []T, valueRows int, indices []I, readOnly bool, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	pol := attrib.CreateErrorIfReserved
	if len(policy) > 0 {
		pol = policy[0]
	}
	var z T
	if err := m.checkAttribute(name, attrib.Indexed, usage, channels, reflect.TypeOf(z).Kind(), pol); err != nil {
		return attrib.InvalidID, err
	}
	var (
		ia  *attrib.IndexedAttribute[T, I]
		err error
	)
	if readOnly {
		ia, err = attrib.WrapConstIndexed[T, I](usage, channels, values, valueRows, indices, m.numCorners)
	} else {
		ia, err = attrib.WrapIndexed[T, I](usage, channels, values, valueRows, indices, m.numCorners)
	}
	if err != nil {
		return attrib.InvalidID, err
	}
	return m.attrs.Add(name, ia)
}

func wrapAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], name string, el attrib.Element, usage attrib.Usage, channels int, buf []T, readOnly bool, policy ...attrib.CreatePolicy) (attrib.ID, error) {
	pol := attrib.CreateErrorIfReserved
	if len(policy) > 0 {
		pol = policy[0]
	}
	var z T
	if err := m.checkAttribute(name, el, usage, channels, reflect.TypeOf(z).Kind(), pol); err != nil {
		return attrib.InvalidID, err
	}
	var a *attrib.Attribute[T]
	var err error
	if readOnly {
		a, err = attrib.WrapConst(el, usage, channels, buf, m.NumElements(el))
	} else {
		a, err = attrib.Wrap(el, usage, channels, buf, m.NumElements(el))
	}
	if err != nil {
		return attrib.InvalidID, err
	}
	return m.attrs.Add(name, a)
}

// DeleteAttribute deletes the attribute with the given id. Reserved
// attributes require [attrib.DeleteForce]; force-deleting connectivity
// attributes leaves the mesh inconsistent and is only intended for
// internal state transitions.
func (m *Mesh[S, I]) DeleteAttribute(id attrib.ID, policy ...attrib.DeletePolicy) error {
	pol := attrib.DeleteErrorIfReserved
	if len(policy) > 0 {
		pol = policy[0]
	}
	name := m.attrs.Name(id)
	if name == "" {
		return fmt.Errorf("surface: no attribute with id %d", id)
	}
	if attrib.IsReservedName(name) {
		if pol != attrib.DeleteForce {
			return fmt.Errorf("surface: attribute %q is reserved and cannot be deleted", name)
		}
		m.resetReservedID(id)
	}
	return m.attrs.Delete(id)
}

// resetReservedID clears the cached reserved id matching id.
func (m *Mesh[S, I]) resetReservedID(id attrib.ID) {
	r := &m.reserved
	for _, p := range []*attrib.ID{
		&r.vertexToPosition, &r.cornerToVertex,
		&r.facetToFirstCorner, &r.cornerToFacet,
		&r.cornerToEdge, &r.edgeToFirstCorner, &r.nextCornerAroundEdge,
		&r.vertexToFirstCorner, &r.nextCornerAroundVertex,
	} {
		if *p == id {
			*p = attrib.InvalidID
		}
	}
}

// ExportAttribute detaches the typed attribute from the mesh and
// returns it with owned storage, subject to the export policy for
// external buffers. Reserved attributes require [attrib.DeleteForce].
func ExportAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], id attrib.ID, deletePolicy attrib.DeletePolicy, exportPolicy attrib.ExportPolicy) (*attrib.Attribute[T], error) {
	if _, err := attrib.Of[T](m.attrs, id); err != nil {
		return nil, err
	}
	a, err := m.exportAttribute(id, deletePolicy, exportPolicy)
	if err != nil {
		return nil, err
	}
	return a.(*attrib.Attribute[T]), nil
}

// ExportIndexedAttribute is the [ExportAttribute] form for indexed
// attributes.
func ExportIndexedAttribute[T attrib.DataTypes, S Scalar, I Index](m *Mesh[S, I], id attrib.ID, deletePolicy attrib.DeletePolicy, exportPolicy attrib.ExportPolicy) (*attrib.IndexedAttribute[T, I], error) {
	if _, err := attrib.IndexedOf[T, I](m.attrs, id); err != nil {
		return nil, err
	}
	a, err := m.exportAttribute(id, deletePolicy, exportPolicy)
	if err != nil {
		return nil, err
	}
	return a.(*attrib.IndexedAttribute[T, I]), nil
}

// ExportAttributeAny is the type-erased form of [ExportAttribute].
func (m *Mesh[S, I]) ExportAttributeAny(id attrib.ID, deletePolicy attrib.DeletePolicy, exportPolicy attrib.ExportPolicy) (attrib.AnyAttribute, error) {
	return m.exportAttribute(id, deletePolicy, exportPolicy)
}

func (m *Mesh[S, I]) exportAttribute(id attrib.ID, deletePolicy attrib.DeletePolicy, exportPolicy attrib.ExportPolicy) (attrib.AnyAttribute, error) {
	name := m.attrs.Name(id)
	if name == "" {
		return nil, fmt.Errorf("surface: no attribute with id %d", id)
	}
	if attrib.IsReservedName(name) {
		if deletePolicy != attrib.DeleteForce {
			return nil, fmt.Errorf("surface: attribute %q is reserved and cannot be exported", name)
		}
		m.resetReservedID(id)
	}
	return m.attrs.Export(id, exportPolicy)
}

// DuplicateAttribute registers the attribute under a second name,
// sharing storage copy-on-write. Both attributes remain independent on
// write.
func (m *Mesh[S, I]) DuplicateAttribute(name, newName string) (attrib.ID, error) {
	id := m.attrs.ID(name)
	if id == attrib.InvalidID {
		return attrib.InvalidID, fmt.Errorf("surface: no attribute named %q", name)
	}
	if attrib.IsReservedName(newName) {
		return attrib.InvalidID, fmt.Errorf("surface: attribute name %q is reserved", newName)
	}
	return m.attrs.Share(newName, m.attrs, id)
}

// RenameAttribute renames an attribute, keeping its id. Reserved names
// are rejected on either side.
func (m *Mesh[S, I]) RenameAttribute(old, new string) error {
	if attrib.IsReservedName(old) || attrib.IsReservedName(new) {
		return fmt.Errorf("surface: cannot rename reserved attribute %q to %q", old, new)
	}
	return m.attrs.Rename(old, new)
}

// CreateAttributeFrom shares the named attribute of another mesh into
// this mesh copy-on-write. The element counts of the two meshes must
// agree for the attribute's element type.
func CreateAttributeFrom[S Scalar, I Index](m, src *Mesh[S, I], name, srcName string) (attrib.ID, error) {
	if attrib.IsReservedName(name) {
		return attrib.InvalidID, fmt.Errorf("surface: attribute name %q is reserved", name)
	}
	id := src.attrs.ID(srcName)
	if id == attrib.InvalidID {
		return attrib.InvalidID, fmt.Errorf("surface: no attribute named %q", srcName)
	}
	a := src.attrs.Get(id)
	el := a.Element()
	if m.NumElements(el) != src.NumElements(el) {
		return attrib.InvalidID, fmt.Errorf("surface: cannot share %v attribute %q between meshes with %d and %d elements",
			el, srcName, src.NumElements(el), m.NumElements(el))
	}
	return m.attrs.Share(name, src.attrs, id)
}
