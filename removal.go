// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"fmt"

	"github.com/meshkit/surface/attrib"
)

// Element removal keeps surviving elements in their original relative
// order: each element index maps monotonically onto its compacted
// position, with the invalid index marking removed elements. All
// attribute rows move accordingly, and the contents of index-usage
// attributes are remapped through the same mappings.

// RemoveVertices removes the listed vertices, which must be sorted
// strictly increasing and in range. Facets using a removed vertex are
// removed with it.
func (m *Mesh[S, I]) RemoveVertices(vertices []I) error {
	for i, v := range vertices {
		if int(v) >= m.numVertices {
			return fmt.Errorf("surface: vertex %d out of range, mesh has %d vertices", v, m.numVertices)
		}
		if i > 0 && vertices[i-1] >= v {
			return fmt.Errorf("surface: vertices to remove must be sorted strictly increasing")
		}
	}
	if len(vertices) == 0 {
		return nil
	}
	mask := make([]bool, m.numVertices)
	for _, v := range vertices {
		mask[v] = true
	}
	return m.removeVertices(func(v int) bool { return mask[v] })
}

// RemoveVerticesIf removes every vertex for which pred returns true,
// along with the facets using it.
func (m *Mesh[S, I]) RemoveVerticesIf(pred func(v I) bool) error {
	return m.removeVertices(func(v int) bool { return pred(I(v)) })
}

// RemoveFacets removes the listed facets, which must be sorted
// strictly increasing and in range. Vertices are kept even when no
// facet uses them anymore.
func (m *Mesh[S, I]) RemoveFacets(facets []I) error {
	for i, f := range facets {
		if int(f) >= m.numFacets {
			return fmt.Errorf("surface: facet %d out of range, mesh has %d facets", f, m.numFacets)
		}
		if i > 0 && facets[i-1] >= f {
			return fmt.Errorf("surface: facets to remove must be sorted strictly increasing")
		}
	}
	if len(facets) == 0 {
		return nil
	}
	mask := make([]bool, m.numFacets)
	for _, f := range facets {
		mask[f] = true
	}
	return m.removeFacets(func(f int) bool { return mask[f] })
}

// RemoveFacetsIf removes every facet for which pred returns true.
func (m *Mesh[S, I]) RemoveFacetsIf(pred func(f I) bool) error {
	return m.removeFacets(func(f int) bool { return pred(I(f)) })
}

func (m *Mesh[S, I]) removeVertices(remove func(v int) bool) error {
	inv := Invalid[I]()
	v2n := make([]I, m.numVertices)
	n := 0
	for v := range m.numVertices {
		if remove(v) {
			v2n[v] = inv
		} else {
			v2n[v] = I(n)
			n++
		}
	}
	if n == m.numVertices {
		return nil
	}
	cv := m.cornerVertices()
	err := m.removeFacets(func(f int) bool {
		begin, end := m.FacetCornerBegin(I(f)), m.FacetCornerEnd(I(f))
		for c := begin; c < end; c++ {
			if v2n[cv.Get(int(c), 0)] == inv {
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}
	if err := m.remapIndexContents(attrib.VertexIndex, v2n); err != nil {
		return err
	}
	if err := m.moveRows(attrib.Vertex, v2n); err != nil {
		return err
	}
	return m.resizeVertices(n)
}

func (m *Mesh[S, I]) removeFacets(remove func(f int) bool) error {
	if m.numFacets == 0 {
		return nil
	}
	inv := Invalid[I]()
	f2n := make([]I, m.numFacets)
	n := 0
	for f := range m.numFacets {
		if remove(f) {
			f2n[f] = inv
		} else {
			f2n[f] = I(n)
			n++
		}
	}
	if n == m.numFacets {
		return nil
	}
	return m.reindexFacets(f2n, n)
}

// reindexFacets compacts facets, corners, and edges onto the facet
// mapping: corner rows follow their facets, connectivity chains skip
// deleted corners, and edges left without corners are dropped.
func (m *Mesh[S, I]) reindexFacets(f2n []I, newNumFacets int) error {
	inv := Invalid[I]()

	c2n := make([]I, m.numCorners)
	nc := 0
	for f := range m.numFacets {
		begin, end := m.FacetCornerBegin(I(f)), m.FacetCornerEnd(I(f))
		keep := f2n[f] != inv
		for c := begin; c < end; c++ {
			if keep {
				c2n[c] = I(nc)
				nc++
			} else {
				c2n[c] = inv
			}
		}
	}

	var e2n []I
	newNumEdges := 0
	if m.HasEdges() {
		e2c, err := m.mutIndexAttr(m.reserved.edgeToFirstCorner)
		if err != nil {
			return err
		}
		nce, err := m.mutIndexAttr(m.reserved.nextCornerAroundEdge)
		if err != nil {
			return err
		}
		vfc, err := m.mutIndexAttr(m.reserved.vertexToFirstCorner)
		if err != nil {
			return err
		}
		ncv, err := m.mutIndexAttr(m.reserved.nextCornerAroundVertex)
		if err != nil {
			return err
		}
		// skip deleted corners in the chains, still in old corner ids;
		// the corner mapping is applied with the other index contents
		// below
		skipEdge := func(c I) I {
			for c != inv && c2n[c] == inv {
				c = nce.Get(int(c), 0)
			}
			return c
		}
		skipVertex := func(c I) I {
			for c != inv && c2n[c] == inv {
				c = ncv.Get(int(c), 0)
			}
			return c
		}
		for c := range m.numCorners {
			if c2n[c] == inv {
				continue
			}
			nce.Set(c, 0, skipEdge(nce.Get(c, 0)))
			ncv.Set(c, 0, skipVertex(ncv.Get(c, 0)))
		}
		for e := range m.numEdges {
			e2c.Set(e, 0, skipEdge(e2c.Get(e, 0)))
		}
		for v := range m.numVertices {
			vfc.Set(v, 0, skipVertex(vfc.Get(v, 0)))
		}
		// edges whose corners are all gone are dropped
		e2n = make([]I, m.numEdges)
		ne := 0
		for e := range m.numEdges {
			if e2c.Get(e, 0) == inv {
				e2n[e] = inv
			} else {
				e2n[e] = I(ne)
				ne++
			}
		}
		newNumEdges = ne
	}

	if err := m.remapIndexContents(attrib.FacetIndex, f2n); err != nil {
		return err
	}
	if err := m.remapIndexContents(attrib.CornerIndex, c2n); err != nil {
		return err
	}
	if e2n != nil {
		if err := m.remapIndexContents(attrib.EdgeIndex, e2n); err != nil {
			return err
		}
	}

	if err := m.moveRows(attrib.Facet, f2n); err != nil {
		return err
	}
	if err := m.resizeFacets(newNumFacets); err != nil {
		return err
	}
	if err := m.moveRows(attrib.Corner, c2n); err != nil {
		return err
	}
	if err := m.resizeCorners(nc); err != nil {
		return err
	}
	if e2n != nil {
		if err := m.moveRows(attrib.Edge, e2n); err != nil {
			return err
		}
		if err := m.resizeEdges(newNumEdges); err != nil {
			return err
		}
	}
	return nil
}

// remapIndexContents rewrites the contents of every attribute with the
// given index usage through the mapping. Values outside the mapping,
// including the invalid index, are left alone.
func (m *Mesh[S, I]) remapIndexContents(usage attrib.Usage, mapping []I) error {
	var ids []attrib.ID
	m.attrs.SeqForeach(func(id attrib.ID, name string, a attrib.AnyAttribute) {
		if a.Usage() == usage {
			ids = append(ids, id)
		}
	})
	for _, id := range ids {
		a, err := m.attrs.GetMut(id)
		if err != nil {
			return err
		}
		ta, ok := a.(*attrib.Attribute[I])
		if !ok {
			continue
		}
		vals := ta.Values()
		for i, x := range vals {
			if int(x) < len(mapping) {
				vals[i] = mapping[x]
			}
		}
	}
	return nil
}

// moveRows compacts the rows of every attribute on the given element
// through the monotone mapping. Indexed attributes follow the Corner
// element with their index part.
func (m *Mesh[S, I]) moveRows(el attrib.Element, mapping []I) error {
	inv := Invalid[I]()
	var ids []attrib.ID
	m.attrs.SeqForeach(func(id attrib.ID, name string, a attrib.AnyAttribute) {
		ael := a.Element()
		if ael == el || (el == attrib.Corner && ael == attrib.Indexed) {
			ids = append(ids, id)
		}
	})
	for _, id := range ids {
		a, err := m.attrs.GetMut(id)
		if err != nil {
			return err
		}
		for old, nw := range mapping {
			if nw != inv && int(nw) != old {
				a.CopyRow(int(nw), old)
			}
		}
	}
	return nil
}
