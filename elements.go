// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"fmt"

	"github.com/meshkit/surface/attrib"
)

// SetVertexCoordinatesFunc fills the coordinates of new vertex lv
// (local to the batch) into p, which has one channel per dimension.
type SetVertexCoordinatesFunc[S Scalar, I Index] func(lv I, p []S)

// SetSingleFacetIndicesFunc fills the vertex indices of a single new
// facet into t.
type SetSingleFacetIndicesFunc[I Index] func(t []I)

// SetMultiFacetsIndicesFunc fills the vertex indices of new facet lf
// (local to the batch) into t.
type SetMultiFacetsIndicesFunc[I Index] func(lf I, t []I)

// GetFacetsSizeFunc returns the size of new facet lf (local to the
// batch).
type GetFacetsSizeFunc[I Index] func(lf I) I

// GetEdgeVerticesFunc returns the two vertices of edge e.
type GetEdgeVerticesFunc[I Index] func(e I) [2]I

func (m *Mesh[S, I]) resizeVertices(n int) error {
	if err := m.attrs.ResizeElements(attrib.Vertex, n); err != nil {
		return err
	}
	m.numVertices = n
	return nil
}

func (m *Mesh[S, I]) resizeFacets(n int) error {
	if err := m.attrs.ResizeElements(attrib.Facet, n); err != nil {
		return err
	}
	m.numFacets = n
	return nil
}

func (m *Mesh[S, I]) resizeCorners(n int) error {
	if err := m.attrs.ResizeElements(attrib.Corner, n); err != nil {
		return err
	}
	m.numCorners = n
	return nil
}

func (m *Mesh[S, I]) resizeEdges(n int) error {
	if err := m.attrs.ResizeElements(attrib.Edge, n); err != nil {
		return err
	}
	m.numEdges = n
	return nil
}

// AddVertex appends one vertex with the given coordinates (or at the
// origin if p is empty) and returns its index.
func (m *Mesh[S, I]) AddVertex(p []S) (I, error) {
	if len(p) != 0 && len(p) != m.dimension {
		return Invalid[I](), fmt.Errorf("surface: position has %d channels, mesh dimension is %d", len(p), m.dimension)
	}
	v := m.numVertices
	if err := m.resizeVertices(v + 1); err != nil {
		return Invalid[I](), err
	}
	if len(p) != 0 {
		pos, err := m.mutPositions()
		if err != nil {
			return Invalid[I](), err
		}
		pos.SetRow(v, p)
	}
	return I(v), nil
}

// AddVertices appends count vertices. coords must be empty (vertices
// at the origin) or count*dimension coordinates.
func (m *Mesh[S, I]) AddVertices(count int, coords []S) error {
	if len(coords) != 0 && len(coords) != count*m.dimension {
		return fmt.Errorf("surface: coordinate span has length %d, want %d", len(coords), count*m.dimension)
	}
	first := m.numVertices
	if err := m.resizeVertices(first + count); err != nil {
		return err
	}
	if len(coords) != 0 {
		pos, err := m.mutPositions()
		if err != nil {
			return err
		}
		copy(pos.Values()[first*m.dimension:], coords)
	}
	return nil
}

// AddVerticesWith appends count vertices, calling fn to fill the
// coordinates of each.
func (m *Mesh[S, I]) AddVerticesWith(count int, fn SetVertexCoordinatesFunc[S, I]) error {
	first := m.numVertices
	if err := m.resizeVertices(first + count); err != nil {
		return err
	}
	pos, err := m.mutPositions()
	if err != nil {
		return err
	}
	for i := range count {
		fn(I(i), pos.Row(first+i))
	}
	return nil
}

// computeCornerToFacet fills the corner-to-facet attribute for facets
// in [facetBegin, facetEnd).
func (m *Mesh[S, I]) computeCornerToFacet(facetBegin, facetEnd int) error {
	c2f, err := m.mutIndexAttr(m.reserved.cornerToFacet)
	if err != nil {
		return err
	}
	for f := facetBegin; f < facetEnd; f++ {
		begin, end := m.FacetCornerBegin(I(f)), m.FacetCornerEnd(I(f))
		for c := begin; c < end; c++ {
			c2f.Set(int(c), 0, I(f))
		}
	}
	return nil
}

// reserveIndices prepares storage for count new facets with the given
// sizes, switching to hybrid storage if the batch breaks regularity.
func (m *Mesh[S, I]) reserveIndices(count int, size func(i int) int) error {
	firstFacet := m.numFacets
	firstCorner := m.numCorners
	total := 0
	uniform := true
	first := size(0)
	for i := range count {
		s := size(i)
		if s <= 0 {
			return fmt.Errorf("surface: facet size must be positive, got %d", s)
		}
		total += s
		if s != first {
			uniform = false
		}
	}
	if m.IsRegular() && uniform && (m.numFacets == 0 || first == m.vertexPerFacet) {
		m.vertexPerFacet = first
		if err := m.resizeFacets(firstFacet + count); err != nil {
			return err
		}
		return m.resizeCorners(firstCorner + total)
	}

	wasRegular := m.IsRegular()
	if wasRegular {
		// switch to hybrid storage: explicit per-facet corner offsets
		// plus the reverse corner-to-facet map
		vpf := m.vertexPerFacet
		f2c := attrib.New[I](attrib.Facet, attrib.CornerIndex, 1)
		f2c.Default = Invalid[I]()
		if err := f2c.Resize(firstFacet); err != nil {
			return err
		}
		for j := range firstFacet {
			f2c.Set(j, 0, I(j*vpf))
		}
		c2f := attrib.New[I](attrib.Corner, attrib.FacetIndex, 1)
		c2f.Default = Invalid[I]()
		if err := c2f.Resize(firstCorner); err != nil {
			return err
		}
		fid, err := m.attrs.Add(AttrFacetToFirstCorner, f2c)
		if err != nil {
			return err
		}
		cid, err := m.attrs.Add(AttrCornerToFacet, c2f)
		if err != nil {
			return err
		}
		m.reserved.facetToFirstCorner = fid
		m.reserved.cornerToFacet = cid
		m.vertexPerFacet = 0
	}

	if err := m.resizeFacets(firstFacet + count); err != nil {
		return err
	}
	if err := m.resizeCorners(firstCorner + total); err != nil {
		return err
	}
	f2c, err := m.mutIndexAttr(m.reserved.facetToFirstCorner)
	if err != nil {
		return err
	}
	offset := firstCorner
	for i := range count {
		f2c.Set(firstFacet+i, 0, I(offset))
		offset += size(i)
	}
	if wasRegular {
		// the previously regular prefix needs its reverse map filled too
		return m.computeCornerToFacet(0, firstFacet+count)
	}
	return m.computeCornerToFacet(firstFacet, firstFacet+count)
}

// addFacets is the common facet construction driver: reserve storage,
// fill corner vertices, then bring the edge subsystem up to date.
func (m *Mesh[S, I]) addFacets(count int, size func(i int) int, fill func(cv *attrib.Attribute[I], firstFacet, firstCorner int)) error {
	if count == 0 {
		return nil
	}
	firstFacet := m.numFacets
	firstCorner := m.numCorners
	if err := m.reserveIndices(count, size); err != nil {
		return err
	}
	if fill != nil {
		cv, err := m.mutCornerVertices()
		if err != nil {
			return err
		}
		fill(cv, firstFacet, firstCorner)
	}
	if m.HasEdges() {
		return m.updateEdgesLast(count)
	}
	return nil
}

// checkFacetIndices validates an eager index span ahead of mutation.
func (m *Mesh[S, I]) checkFacetIndices(indices []I, want int) error {
	if len(indices) == 0 {
		if m.HasEdges() {
			return fmt.Errorf("surface: facet indices are required when edges are initialized")
		}
		return nil
	}
	if len(indices) != want {
		return fmt.Errorf("surface: facet index span has length %d, want %d", len(indices), want)
	}
	for _, v := range indices {
		if int(v) >= m.numVertices {
			return fmt.Errorf("surface: facet references vertex %d, mesh has %d vertices", v, m.numVertices)
		}
	}
	return nil
}

func (m *Mesh[S, I]) addRegularFacets(count, size int, indices []I) error {
	if count == 0 {
		return nil
	}
	if err := m.checkFacetIndices(indices, count*size); err != nil {
		return err
	}
	var fill func(cv *attrib.Attribute[I], firstFacet, firstCorner int)
	if len(indices) != 0 {
		fill = func(cv *attrib.Attribute[I], _, firstCorner int) {
			copy(cv.Values()[firstCorner:], indices)
		}
	}
	return m.addFacets(count, func(int) int { return size }, fill)
}

// AddTriangle appends one triangle and returns its facet index.
func (m *Mesh[S, I]) AddTriangle(v0, v1, v2 I) (I, error) {
	f := I(m.numFacets)
	if err := m.addRegularFacets(1, 3, []I{v0, v1, v2}); err != nil {
		return Invalid[I](), err
	}
	return f, nil
}

// AddTriangles appends count triangles with the given flat vertex
// indices (3 per facet, or empty to fill later).
func (m *Mesh[S, I]) AddTriangles(count int, indices []I) error {
	return m.addRegularFacets(count, 3, indices)
}

// AddTrianglesWith appends count triangles, calling fn to fill the
// vertex indices of each. The callback receives the facet index local
// to the batch.
func (m *Mesh[S, I]) AddTrianglesWith(count int, fn SetMultiFacetsIndicesFunc[I]) error {
	return m.AddPolygonsWith(count, 3, fn)
}

// AddQuad appends one quad and returns its facet index.
func (m *Mesh[S, I]) AddQuad(v0, v1, v2, v3 I) (I, error) {
	f := I(m.numFacets)
	if err := m.addRegularFacets(1, 4, []I{v0, v1, v2, v3}); err != nil {
		return Invalid[I](), err
	}
	return f, nil
}

// AddQuads appends count quads with the given flat vertex indices (4
// per facet, or empty to fill later).
func (m *Mesh[S, I]) AddQuads(count int, indices []I) error {
	return m.addRegularFacets(count, 4, indices)
}

// AddQuadsWith appends count quads, calling fn to fill the vertex
// indices of each.
func (m *Mesh[S, I]) AddQuadsWith(count int, fn SetMultiFacetsIndicesFunc[I]) error {
	return m.AddPolygonsWith(count, 4, fn)
}

// AddPolygon appends one facet with the given vertices and returns its
// facet index.
func (m *Mesh[S, I]) AddPolygon(vertices []I) (I, error) {
	f := I(m.numFacets)
	if err := m.addRegularFacets(1, len(vertices), vertices); err != nil {
		return Invalid[I](), err
	}
	return f, nil
}

// AddPolygonWith appends one facet of the given size, calling fn to
// fill its vertex indices, and returns its facet index.
func (m *Mesh[S, I]) AddPolygonWith(size int, fn SetSingleFacetIndicesFunc[I]) (I, error) {
	f := I(m.numFacets)
	err := m.addFacets(1, func(int) int { return size },
		func(cv *attrib.Attribute[I], _, firstCorner int) {
			fn(cv.Values()[firstCorner : firstCorner+size])
		})
	if err != nil {
		return Invalid[I](), err
	}
	return f, nil
}

// AddPolygons appends count facets of uniform size with the given flat
// vertex indices (size per facet, or empty to fill later).
func (m *Mesh[S, I]) AddPolygons(count, size int, indices []I) error {
	return m.addRegularFacets(count, size, indices)
}

// AddPolygonsWith appends count facets of uniform size, calling fn to
// fill the vertex indices of each.
func (m *Mesh[S, I]) AddPolygonsWith(count, size int, fn SetMultiFacetsIndicesFunc[I]) error {
	return m.addFacets(count, func(int) int { return size },
		func(cv *attrib.Attribute[I], _, firstCorner int) {
			off := firstCorner
			for i := range count {
				fn(I(i), cv.Values()[off:off+size])
				off += size
			}
		})
}

// AddHybrid appends facets of varying sizes with the given flat vertex
// indices, whose length must be the sum of sizes (or empty to fill
// later, not allowed while edges are initialized).
func (m *Mesh[S, I]) AddHybrid(sizes []I, indices []I) error {
	if len(sizes) == 0 {
		return nil
	}
	total := 0
	for _, s := range sizes {
		total += int(s)
	}
	if err := m.checkFacetIndices(indices, total); err != nil {
		return err
	}
	var fill func(cv *attrib.Attribute[I], firstFacet, firstCorner int)
	if len(indices) != 0 {
		fill = func(cv *attrib.Attribute[I], _, firstCorner int) {
			copy(cv.Values()[firstCorner:], indices)
		}
	}
	return m.addFacets(len(sizes), func(i int) int { return int(sizes[i]) }, fill)
}

// AddHybridWith appends count facets of varying sizes, calling size
// for the size of each and fn to fill the vertex indices of each.
func (m *Mesh[S, I]) AddHybridWith(count int, size GetFacetsSizeFunc[I], fn SetMultiFacetsIndicesFunc[I]) error {
	sz := func(i int) int { return int(size(I(i))) }
	return m.addFacets(count, sz,
		func(cv *attrib.Attribute[I], _, firstCorner int) {
			off := firstCorner
			for i := range count {
				s := sz(i)
				fn(I(i), cv.Values()[off:off+s])
				off += s
			}
		})
}

// ClearFacets removes all facets and corners, keeping vertices. An
// initialized edge subsystem stays initialized with zero edges.
func (m *Mesh[S, I]) ClearFacets() error {
	if err := m.resizeFacets(0); err != nil {
		return err
	}
	if err := m.resizeCorners(0); err != nil {
		return err
	}
	if m.HasEdges() {
		if err := m.resizeEdges(0); err != nil {
			return err
		}
		// reset per-vertex chain heads to the invalid default
		vfc, err := m.mutIndexAttr(m.reserved.vertexToFirstCorner)
		if err != nil {
			return err
		}
		if err := vfc.Resize(0); err != nil {
			return err
		}
		if err := vfc.Resize(m.numVertices); err != nil {
			return err
		}
	}
	return nil
}

// ClearVertices removes all vertices, and with them all facets.
func (m *Mesh[S, I]) ClearVertices() error {
	if err := m.ClearFacets(); err != nil {
		return err
	}
	return m.resizeVertices(0)
}

// ShrinkToFit releases spare storage capacity on every attribute.
func (m *Mesh[S, I]) ShrinkToFit() {
	m.attrs.SeqForeach(func(id attrib.ID, name string, a attrib.AnyAttribute) {
		a.ShrinkToFit()
	})
}

// CompressIfRegular switches a hybrid mesh whose facets all have the
// same size back to regular storage, dropping the offset attributes.
// Corner indices are unchanged, so attributes and edges stay valid.
func (m *Mesh[S, I]) CompressIfRegular() error {
	if m.IsRegular() {
		return nil
	}
	size := 0
	if m.numFacets > 0 {
		size = m.FacetSize(0)
		for f := 1; f < m.numFacets; f++ {
			if m.FacetSize(I(f)) != size {
				return fmt.Errorf("surface: cannot compress mesh with facets of size %d and %d", size, m.FacetSize(I(f)))
			}
		}
	}
	fid, cid := m.reserved.facetToFirstCorner, m.reserved.cornerToFacet
	if err := m.DeleteAttribute(fid, attrib.DeleteForce); err != nil {
		return err
	}
	if err := m.DeleteAttribute(cid, attrib.DeleteForce); err != nil {
		return err
	}
	m.vertexPerFacet = size
	return nil
}
