// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attrib

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"cogentcore.org/core/base/keylist"
	"golang.org/x/sync/errgroup"
)

// IsReservedName reports whether the attribute name is reserved for
// internal use ("$" prefix).
func IsReservedName(name string) bool {
	return strings.HasPrefix(name, "$")
}

// shared is the unit of copy-on-write sharing: one storage buffer
// referenced by refs manager slots, possibly across meshes.
type shared struct {
	attr AnyAttribute
	refs int
}

type slot struct {
	name    string
	storage *shared
}

// Manager is an ordered name and id registry of attributes. Ids are
// dense, reused after deletion, and stable across renames. Storage is
// shared copy-on-write: [Manager.Share] and [Manager.Clone] alias
// storage, and the first owning access unshares it.
type Manager struct {
	names keylist.List[string, ID]
	slots []*slot
	free  []ID
}

// NewManager returns a new empty attribute registry.
func NewManager() *Manager {
	return &Manager{}
}

// Len returns the number of registered attributes.
func (m *Manager) Len() int { return m.names.Len() }

// Has reports whether an attribute with the given name exists.
func (m *Manager) Has(name string) bool {
	return m.names.IndexByKey(name) >= 0
}

// ID returns the id of the named attribute, or [InvalidID].
func (m *Manager) ID(name string) ID {
	id, ok := m.names.AtTry(name)
	if !ok {
		return InvalidID
	}
	return id
}

// Name returns the name of the attribute with the given id, or "".
func (m *Manager) Name(id ID) string {
	if sl := m.slot(id); sl != nil {
		return sl.name
	}
	return ""
}

func (m *Manager) slot(id ID) *slot {
	if int(id) >= len(m.slots) {
		return nil
	}
	return m.slots[id]
}

// Add registers the attribute under the given name, returning its id.
// Freed ids are reused before new ones are minted.
func (m *Manager) Add(name string, attr AnyAttribute) (ID, error) {
	if m.Has(name) {
		return InvalidID, fmt.Errorf("attrib: attribute %q already exists", name)
	}
	sl := &slot{name: name, storage: &shared{attr: attr, refs: 1}}
	var id ID
	if n := len(m.free); n > 0 {
		id = m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[id] = sl
	} else {
		id = ID(len(m.slots))
		m.slots = append(m.slots, sl)
	}
	m.names.Add(name, id)
	return id, nil
}

// Get returns the attribute with the given id for read access, or nil.
// The returned storage may be shared; use [Manager.GetMut] before
// mutating.
func (m *Manager) Get(id ID) AnyAttribute {
	if sl := m.slot(id); sl != nil {
		return sl.storage.attr
	}
	return nil
}

// Own returns the attribute with exclusively owned storage, unsharing
// it first if needed. Unsharing copies per the attribute's
// [CopyPolicy]. Unlike [Manager.GetMut] it does not apply the write
// policy, so resizing read-only buffers stays subject to the growth
// policy alone.
func (m *Manager) Own(id ID) (AnyAttribute, error) {
	sl := m.slot(id)
	if sl == nil {
		return nil, fmt.Errorf("attrib: no attribute with id %d", id)
	}
	if sl.storage.refs > 1 {
		attr, err := sl.storage.attr.CloneAny()
		if err != nil {
			return nil, err
		}
		sl.storage.refs--
		sl.storage = &shared{attr: attr, refs: 1}
	}
	return sl.storage.attr, nil
}

// GetMut returns the attribute ready for write access: storage is
// unshared and the [WritePolicy] is applied to read-only buffers.
func (m *Manager) GetMut(id ID) (AnyAttribute, error) {
	attr, err := m.Own(id)
	if err != nil {
		return nil, err
	}
	if err := attr.EnsureWritable(); err != nil {
		return nil, err
	}
	return attr, nil
}

// Rename renames an attribute, keeping its id. It is an error if the
// old name is missing or the new name already exists.
func (m *Manager) Rename(old, new string) error {
	idx := m.names.IndexByKey(old)
	if idx < 0 {
		return fmt.Errorf("attrib: no attribute named %q", old)
	}
	if m.Has(new) {
		return fmt.Errorf("attrib: attribute %q already exists", new)
	}
	m.names.RenameIndex(idx, new)
	m.slots[m.names.Values[idx]].name = new
	return nil
}

// Delete removes the attribute with the given id, returning its id to
// the free list.
func (m *Manager) Delete(id ID) error {
	sl := m.slot(id)
	if sl == nil {
		return fmt.Errorf("attrib: no attribute with id %d", id)
	}
	sl.storage.refs--
	m.names.DeleteByKey(sl.name)
	m.slots[id] = nil
	m.free = append(m.free, id)
	return nil
}

// Export detaches the attribute from the registry and returns it with
// owned storage, subject to the export policy for external buffers.
// Shared storage is copied; uniquely owned storage is moved out.
func (m *Manager) Export(id ID, policy ExportPolicy) (AnyAttribute, error) {
	sl := m.slot(id)
	if sl == nil {
		return nil, fmt.Errorf("attrib: no attribute with id %d", id)
	}
	if err := sl.storage.attr.CheckExportable(policy); err != nil {
		return nil, err
	}
	attr, err := m.Own(id)
	if err != nil {
		return nil, err
	}
	// Wrapped buffers are garbage collected like any other Go slice,
	// so CopyIfUnmanaged keeps the pointer, same as KeepExternalPtr.
	if attr.IsExternal() && policy == ExportCopyIfExternal {
		attr.InternalCopy()
	}
	m.Delete(id)
	return attr, nil
}

// Share registers the attribute storage of (src, id) under the given
// name in this registry, aliasing it copy-on-write.
func (m *Manager) Share(name string, src *Manager, id ID) (ID, error) {
	sl := src.slot(id)
	if sl == nil {
		return InvalidID, fmt.Errorf("attrib: no attribute with id %d", id)
	}
	if m.Has(name) {
		return InvalidID, fmt.Errorf("attrib: attribute %q already exists", name)
	}
	sl.storage.refs++
	nsl := &slot{name: name, storage: sl.storage}
	var nid ID
	if n := len(m.free); n > 0 {
		nid = m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[nid] = nsl
	} else {
		nid = ID(len(m.slots))
		m.slots = append(m.slots, nsl)
	}
	m.names.Add(name, nid)
	return nid, nil
}

// Clone returns a new registry sharing every attribute copy-on-write,
// except names for which skip returns true. Ids are not preserved.
func (m *Manager) Clone(skip func(name string) bool) *Manager {
	c := NewManager()
	m.SeqForeach(func(id ID, name string, attr AnyAttribute) {
		if skip != nil && skip(name) {
			return
		}
		c.Share(name, m, id)
	})
	return c
}

// SeqForeach visits every attribute in name-sorted order.
func (m *Manager) SeqForeach(fn func(id ID, name string, attr AnyAttribute)) {
	names := slices.Sorted(slices.Values(m.names.Keys))
	for _, name := range names {
		id := m.names.At(name)
		fn(id, name, m.slots[id].storage.attr)
	}
}

// ParForeach visits every attribute id concurrently, bounded by
// GOMAXPROCS, and returns the first error.
func (m *Manager) ParForeach(fn func(id ID) error) error {
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sl := range m.slots {
		if sl == nil {
			continue
		}
		id := ID(i)
		g.Go(func() error { return fn(id) })
	}
	return g.Wait()
}

// ResizeElements resizes every attribute attached to the given element
// type. Indexed attributes follow the Corner element through their
// index part.
func (m *Manager) ResizeElements(el Element, rows int) error {
	for i, sl := range m.slots {
		if sl == nil {
			continue
		}
		ael := sl.storage.attr.Element()
		if ael != el && !(el == Corner && ael == Indexed) {
			continue
		}
		attr, err := m.Own(ID(i))
		if err != nil {
			return err
		}
		if err := attr.Resize(rows); err != nil {
			return fmt.Errorf("attrib: resizing %q: %w", sl.name, err)
		}
	}
	return nil
}

// Of returns the attribute with the given id as its concrete typed
// form, for read access.
func Of[T DataTypes](m *Manager, id ID) (*Attribute[T], error) {
	a := m.Get(id)
	if a == nil {
		return nil, fmt.Errorf("attrib: no attribute with id %d", id)
	}
	t, ok := a.(*Attribute[T])
	if !ok {
		var z T
		return nil, fmt.Errorf("attrib: attribute %q is not a %T attribute", m.Name(id), z)
	}
	return t, nil
}

// MutOf is the write-access form of [Of]: storage is unshared and the
// write policy applied first.
func MutOf[T DataTypes](m *Manager, id ID) (*Attribute[T], error) {
	a, err := m.GetMut(id)
	if err != nil {
		return nil, err
	}
	t, ok := a.(*Attribute[T])
	if !ok {
		var z T
		return nil, fmt.Errorf("attrib: attribute %q is not a %T attribute", m.Name(id), z)
	}
	return t, nil
}

// IndexedOf returns the indexed attribute with the given id, for read
// access.
func IndexedOf[T DataTypes, I IndexTypes](m *Manager, id ID) (*IndexedAttribute[T, I], error) {
	a := m.Get(id)
	if a == nil {
		return nil, fmt.Errorf("attrib: no attribute with id %d", id)
	}
	t, ok := a.(*IndexedAttribute[T, I])
	if !ok {
		return nil, fmt.Errorf("attrib: attribute %q is not an indexed attribute of the requested type", m.Name(id))
	}
	return t, nil
}

// MutIndexedOf is the write-access form of [IndexedOf].
func MutIndexedOf[T DataTypes, I IndexTypes](m *Manager, id ID) (*IndexedAttribute[T, I], error) {
	a, err := m.GetMut(id)
	if err != nil {
		return nil, err
	}
	t, ok := a.(*IndexedAttribute[T, I])
	if !ok {
		return nil, fmt.Errorf("attrib: attribute %q is not an indexed attribute of the requested type", m.Name(id))
	}
	return t, nil
}
