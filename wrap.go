// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"fmt"

	"github.com/meshkit/surface/attrib"
)

// replaceReserved swaps the storage of a reserved attribute for the
// given one, keeping the name and updating the cached id.
func (m *Mesh[S, I]) replaceReserved(name string, cached *attrib.ID, a attrib.AnyAttribute) error {
	if *cached != attrib.InvalidID {
		if err := m.attrs.Delete(*cached); err != nil {
			return err
		}
	}
	id, err := m.attrs.Add(name, a)
	if err != nil {
		return err
	}
	*cached = id
	return nil
}

func (m *Mesh[S, I]) wrapVertices(buf []S, numVertices int, readOnly bool) error {
	if m.HasEdges() {
		return fmt.Errorf("surface: cannot wrap element buffers while edges are initialized; call ClearEdges first")
	}
	var (
		pos *attrib.Attribute[S]
		err error
	)
	if readOnly {
		pos, err = attrib.WrapConst(attrib.Vertex, attrib.Position, m.dimension, buf, numVertices)
	} else {
		pos, err = attrib.Wrap(attrib.Vertex, attrib.Position, m.dimension, buf, numVertices)
	}
	if err != nil {
		return err
	}
	pos.Growth = attrib.GrowthAllowWithinCapacity
	if err := m.replaceReserved(AttrVertexToPosition, &m.reserved.vertexToPosition, pos); err != nil {
		return err
	}
	return m.resizeVertices(numVertices)
}

// WrapAsVertices replaces vertex position storage with the given
// external buffer holding numVertices vertices. The buffer must hold
// at least numVertices*dimension coordinates; spare capacity admits
// later growth. Other vertex attributes are resized to match.
func (m *Mesh[S, I]) WrapAsVertices(buf []S, numVertices int) error {
	return m.wrapVertices(buf, numVertices, false)
}

// WrapAsConstVertices is like [Mesh.WrapAsVertices] with a read-only
// buffer, so writes to positions follow the write policy.
func (m *Mesh[S, I]) WrapAsConstVertices(buf []S, numVertices int) error {
	return m.wrapVertices(buf, numVertices, true)
}

func (m *Mesh[S, I]) wrapFacets(indices []I, numFacets, vertexPerFacet int, readOnly bool) error {
	if m.HasEdges() {
		return fmt.Errorf("surface: cannot wrap element buffers while edges are initialized; call ClearEdges first")
	}
	if vertexPerFacet <= 0 {
		return fmt.Errorf("surface: vertex per facet must be positive, got %d", vertexPerFacet)
	}
	numCorners := numFacets * vertexPerFacet
	var (
		cv  *attrib.Attribute[I]
		err error
	)
	if readOnly {
		cv, err = attrib.WrapConst(attrib.Corner, attrib.VertexIndex, 1, indices, numCorners)
	} else {
		cv, err = attrib.Wrap(attrib.Corner, attrib.VertexIndex, 1, indices, numCorners)
	}
	if err != nil {
		return err
	}
	cv.Growth = attrib.GrowthAllowWithinCapacity
	// wrapping a flat index buffer makes the mesh regular
	if m.IsHybrid() {
		if err := m.DeleteAttribute(m.reserved.facetToFirstCorner, attrib.DeleteForce); err != nil {
			return err
		}
		if err := m.DeleteAttribute(m.reserved.cornerToFacet, attrib.DeleteForce); err != nil {
			return err
		}
	}
	if err := m.replaceReserved(AttrCornerToVertex, &m.reserved.cornerToVertex, cv); err != nil {
		return err
	}
	m.vertexPerFacet = vertexPerFacet
	if err := m.resizeFacets(numFacets); err != nil {
		return err
	}
	return m.resizeCorners(numCorners)
}

// WrapAsFacets replaces facet storage with the given external flat
// index buffer of numFacets regular facets. The buffer must hold at
// least numFacets*vertexPerFacet indices. Any hybrid offsets are
// dropped.
func (m *Mesh[S, I]) WrapAsFacets(indices []I, numFacets, vertexPerFacet int) error {
	return m.wrapFacets(indices, numFacets, vertexPerFacet, false)
}

// WrapAsConstFacets is like [Mesh.WrapAsFacets] with a read-only
// buffer.
func (m *Mesh[S, I]) WrapAsConstFacets(indices []I, numFacets, vertexPerFacet int) error {
	return m.wrapFacets(indices, numFacets, vertexPerFacet, true)
}

func (m *Mesh[S, I]) wrapHybridFacets(offsets []I, numFacets int, indices []I, numCorners int, readOnly bool) error {
	if m.HasEdges() {
		return fmt.Errorf("surface: cannot wrap element buffers while edges are initialized; call ClearEdges first")
	}
	wrap := attrib.Wrap[I]
	if readOnly {
		wrap = attrib.WrapConst[I]
	}
	f2c, err := wrap(attrib.Facet, attrib.CornerIndex, 1, offsets, numFacets)
	if err != nil {
		return err
	}
	f2c.Growth = attrib.GrowthAllowWithinCapacity
	f2c.Default = Invalid[I]()
	cv, err := wrap(attrib.Corner, attrib.VertexIndex, 1, indices, numCorners)
	if err != nil {
		return err
	}
	cv.Growth = attrib.GrowthAllowWithinCapacity
	if err := m.replaceReserved(AttrFacetToFirstCorner, &m.reserved.facetToFirstCorner, f2c); err != nil {
		return err
	}
	if err := m.replaceReserved(AttrCornerToVertex, &m.reserved.cornerToVertex, cv); err != nil {
		return err
	}
	// the reverse corner-to-facet map is always internal, computed
	// from the wrapped offsets
	c2f := attrib.New[I](attrib.Corner, attrib.FacetIndex, 1)
	c2f.Default = Invalid[I]()
	if err := c2f.Resize(numCorners); err != nil {
		return err
	}
	if err := m.replaceReserved(AttrCornerToFacet, &m.reserved.cornerToFacet, c2f); err != nil {
		return err
	}
	m.vertexPerFacet = 0
	if err := m.resizeFacets(numFacets); err != nil {
		return err
	}
	if err := m.resizeCorners(numCorners); err != nil {
		return err
	}
	return m.computeCornerToFacet(0, numFacets)
}

// WrapAsHybridFacets replaces facet storage with externally provided
// hybrid buffers: per-facet first corner offsets and a flat corner
// vertex buffer.
func (m *Mesh[S, I]) WrapAsHybridFacets(offsets []I, numFacets int, indices []I, numCorners int) error {
	return m.wrapHybridFacets(offsets, numFacets, indices, numCorners, false)
}

// WrapAsConstHybridFacets is like [Mesh.WrapAsHybridFacets] with
// read-only buffers.
func (m *Mesh[S, I]) WrapAsConstHybridFacets(offsets []I, numFacets int, indices []I, numCorners int) error {
	return m.wrapHybridFacets(offsets, numFacets, indices, numCorners, true)
}
