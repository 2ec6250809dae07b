// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/meshkit/surface/attrib"
)

// The edge subsystem stores connectivity in five reserved attributes:
// a corner-to-edge map, plus singly linked corner chains around each
// edge and around each vertex, with per-edge and per-vertex chain
// heads. Chains are in no particular geometric order.

// unorientedEdge is the canonical key of a facet edge: its two
// vertices sorted, plus the corner it came from.
type unorientedEdge[I Index] struct {
	v0, v1 I
	corner I
}

func canonical[I Index](a, b I) (I, I) {
	if b < a {
		return b, a
	}
	return a, b
}

func compareEdges[I Index](a, b unorientedEdge[I]) int {
	if c := cmp.Compare(a.v0, b.v0); c != 0 {
		return c
	}
	if c := cmp.Compare(a.v1, b.v1); c != 0 {
		return c
	}
	return cmp.Compare(a.corner, b.corner)
}

// edgesMust panics unless the edge subsystem is initialized. Edge
// queries have no error return, like the other element accessors.
func (m *Mesh[S, I]) edgesMust() {
	if !m.HasEdges() {
		panic("surface: edges are not initialized; call InitializeEdges first")
	}
}

// nextCornerInFacet returns the corner after c within its facet,
// wrapping around.
func (m *Mesh[S, I]) nextCornerInFacet(c I) I {
	f := m.CornerFacet(c)
	begin, end := m.FacetCornerBegin(f), m.FacetCornerEnd(f)
	if c+1 == end {
		return begin
	}
	return c + 1
}

// prevCornerInFacet returns the corner before c within its facet,
// wrapping around.
func (m *Mesh[S, I]) prevCornerInFacet(c I) I {
	f := m.CornerFacet(c)
	begin, end := m.FacetCornerBegin(f), m.FacetCornerEnd(f)
	if c == begin {
		return end - 1
	}
	return c - 1
}

// cornerEdgeVertices returns the two vertices of the facet edge
// starting at corner c, in facet orientation.
func (m *Mesh[S, I]) cornerEdgeVertices(c I) [2]I {
	return [2]I{m.CornerVertex(c), m.CornerVertex(m.nextCornerInFacet(c))}
}

// collectCornerEdges gathers the canonical edge keys of every corner
// of facets in [facetBegin, facetEnd), sorted.
func (m *Mesh[S, I]) collectCornerEdges(facetBegin, facetEnd int) []unorientedEdge[I] {
	var edges []unorientedEdge[I]
	if facetBegin < facetEnd {
		first := m.FacetCornerBegin(I(facetBegin))
		last := m.FacetCornerEnd(I(facetEnd - 1))
		edges = make([]unorientedEdge[I], 0, last-first)
	}
	for f := facetBegin; f < facetEnd; f++ {
		begin, end := m.FacetCornerBegin(I(f)), m.FacetCornerEnd(I(f))
		for c := begin; c < end; c++ {
			vv := m.cornerEdgeVertices(c)
			v0, v1 := canonical(vv[0], vv[1])
			edges = append(edges, unorientedEdge[I]{v0: v0, v1: v1, corner: c})
		}
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

// createEdgeAttributes creates the five connectivity attributes sized
// to the current element counts, all defaulting to the invalid index.
func (m *Mesh[S, I]) createEdgeAttributes() error {
	inv := Invalid[I]()
	create := func(name string, cached *attrib.ID, el attrib.Element, usage attrib.Usage, rows int) error {
		a := attrib.New[I](el, usage, 1)
		a.Default = inv
		if err := a.Resize(rows); err != nil {
			return err
		}
		id, err := m.attrs.Add(name, a)
		if err != nil {
			return err
		}
		*cached = id
		return nil
	}
	r := &m.reserved
	if err := create(AttrCornerToEdge, &r.cornerToEdge, attrib.Corner, attrib.EdgeIndex, m.numCorners); err != nil {
		return err
	}
	if err := create(AttrEdgeToFirstCorner, &r.edgeToFirstCorner, attrib.Edge, attrib.CornerIndex, 0); err != nil {
		return err
	}
	if err := create(AttrNextCornerAroundEdge, &r.nextCornerAroundEdge, attrib.Corner, attrib.CornerIndex, m.numCorners); err != nil {
		return err
	}
	if err := create(AttrVertexToFirstCorner, &r.vertexToFirstCorner, attrib.Vertex, attrib.CornerIndex, m.numVertices); err != nil {
		return err
	}
	return create(AttrNextCornerAroundVertex, &r.nextCornerAroundVertex, attrib.Corner, attrib.CornerIndex, m.numCorners)
}

// InitializeEdges builds the edge subsystem, assigning edge ids in the
// order edges are discovered over sorted vertex pairs. A no-op follow
// up on an initialized mesh rebuilds from scratch.
func (m *Mesh[S, I]) InitializeEdges() error {
	return m.initializeEdges(nil)
}

// InitializeEdgesWithOrdering builds the edge subsystem with
// user-provided edge ids: pairs holds two vertices per edge, and edge
// e gets the vertices pairs[2e], pairs[2e+1]. The pairs must be
// exactly the edges induced by the facets, in any order, or an error
// is returned with the mesh left untouched.
func (m *Mesh[S, I]) InitializeEdgesWithOrdering(pairs []I) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("surface: edge vertex span has odd length %d", len(pairs))
	}
	return m.initializeEdges(pairs)
}

// InitializeEdgesWith builds the edge subsystem with numEdges
// user-provided edges, calling fn for the vertices of each.
func (m *Mesh[S, I]) InitializeEdgesWith(numEdges int, fn GetEdgeVerticesFunc[I]) error {
	pairs := make([]I, 0, 2*numEdges)
	for e := range numEdges {
		vv := fn(I(e))
		pairs = append(pairs, vv[0], vv[1])
	}
	return m.initializeEdges(pairs)
}

func (m *Mesh[S, I]) initializeEdges(userPairs []I) error {
	// validation only reads facet corners, so it runs before any
	// existing edge subsystem is torn down and a rejected ordering
	// leaves the mesh as it was
	var order []I
	if userPairs != nil {
		var err error
		order, err = m.validateEdgeOrdering(userPairs)
		if err != nil {
			return err
		}
	}
	if m.HasEdges() {
		if err := m.ClearEdges(); err != nil {
			return err
		}
	}
	if err := m.createEdgeAttributes(); err != nil {
		return err
	}
	return m.updateEdgesRange(0, m.numFacets, order)
}

// validateEdgeOrdering checks that the user pairs are a bijection onto
// the edges induced by the facets, and returns the edge id to assign
// to each group of the sorted induced corner edges.
func (m *Mesh[S, I]) validateEdgeOrdering(pairs []I) ([]I, error) {
	induced := m.collectCornerEdges(0, m.numFacets)
	type userEdge struct {
		v0, v1 I
		id     I
	}
	users := make([]userEdge, len(pairs)/2)
	for e := range users {
		v0, v1 := canonical(pairs[2*e], pairs[2*e+1])
		users[e] = userEdge{v0: v0, v1: v1, id: I(e)}
	}
	slices.SortFunc(users, func(a, b userEdge) int {
		if c := cmp.Compare(a.v0, b.v0); c != 0 {
			return c
		}
		return cmp.Compare(a.v1, b.v1)
	})
	order := make([]I, 0, len(users))
	ui := 0
	for i := 0; i < len(induced); {
		e := induced[i]
		for i < len(induced) && induced[i].v0 == e.v0 && induced[i].v1 == e.v1 {
			i++
		}
		if ui >= len(users) {
			return nil, fmt.Errorf("surface: incorrect number of edges: %d provided, mesh has more", len(users))
		}
		u := users[ui]
		if u.v0 != e.v0 || u.v1 != e.v1 {
			return nil, fmt.Errorf("surface: mismatched edge vertices: provided (%d, %d), mesh has (%d, %d)", u.v0, u.v1, e.v0, e.v1)
		}
		order = append(order, u.id)
		ui++
	}
	if ui != len(users) {
		return nil, fmt.Errorf("surface: incorrect number of edges: %d provided, mesh has %d", len(users), ui)
	}
	return order, nil
}

// updateEdgesLast brings the edge subsystem up to date after the last
// count facets were added.
func (m *Mesh[S, I]) updateEdgesLast(count int) error {
	return m.updateEdgesRange(m.numFacets-count, m.numFacets, nil)
}

// updateEdgesRange registers the corners of facets in [facetBegin,
// facetEnd) with the edge subsystem. Outside a whole-mesh rebuild,
// edges already present on the mesh are looked up through the existing
// vertex chains and reused; new edges get ids following the current
// count.
func (m *Mesh[S, I]) updateEdgesRange(facetBegin, facetEnd int, order []I) error {
	inv := Invalid[I]()
	edges := m.collectCornerEdges(facetBegin, facetEnd)
	wholeMesh := facetBegin == 0 && m.numEdges == 0

	// assign an edge id per unique vertex pair before resizing, so
	// existing chains are still intact for the reuse lookup
	type group struct {
		begin, end int
		id         I
	}
	var groups []group
	numNew := 0
	gi := 0
	for i := 0; i < len(edges); {
		e := edges[i]
		j := i
		for j < len(edges) && edges[j].v0 == e.v0 && edges[j].v1 == e.v1 {
			j++
		}
		var eid I
		switch {
		case order != nil:
			eid = order[gi]
		case !wholeMesh:
			eid = m.findEdgeAmongChains(e.v0, e.v1)
			if eid == inv {
				eid = I(m.numEdges + numNew)
				numNew++
			}
		default:
			eid = I(m.numEdges + numNew)
			numNew++
		}
		groups = append(groups, group{begin: i, end: j, id: eid})
		gi++
		i = j
	}
	if order != nil {
		numNew = len(groups)
	}
	if err := m.resizeEdges(m.numEdges + numNew); err != nil {
		return err
	}

	c2e, err := m.mutIndexAttr(m.reserved.cornerToEdge)
	if err != nil {
		return err
	}
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

	for _, g := range groups {
		for i := g.begin; i < g.end; i++ {
			c := int(edges[i].corner)
			c2e.Set(c, 0, g.id)
			// prepend to the corner chain around the edge
			nce.Set(c, 0, e2c.Get(int(g.id), 0))
			e2c.Set(int(g.id), 0, edges[i].corner)
		}
	}
	// chain the new corners around their vertices
	for f := facetBegin; f < facetEnd; f++ {
		begin, end := m.FacetCornerBegin(I(f)), m.FacetCornerEnd(I(f))
		for c := begin; c < end; c++ {
			v := int(m.CornerVertex(c))
			ncv.Set(int(c), 0, vfc.Get(v, 0))
			vfc.Set(v, 0, c)
		}
	}
	return nil
}

// findEdgeAmongChains looks for an existing edge with the given
// canonical vertices through the corner chains around v0.
func (m *Mesh[S, I]) findEdgeAmongChains(v0, v1 I) I {
	inv := Invalid[I]()
	found := inv
	m.foreachEdgeAroundVertexWithDuplicates(v0, func(e I) {
		if found != inv {
			return
		}
		vv := m.EdgeVertices(e)
		a, b := canonical(vv[0], vv[1])
		if a == v0 && b == v1 {
			found = e
		}
	})
	return found
}

// ClearEdges tears down the edge subsystem, deleting the five
// connectivity attributes. No-op when edges are not initialized.
func (m *Mesh[S, I]) ClearEdges() error {
	if !m.HasEdges() {
		return nil
	}
	r := &m.reserved
	for _, id := range []attrib.ID{
		r.cornerToEdge, r.edgeToFirstCorner, r.nextCornerAroundEdge,
		r.vertexToFirstCorner, r.nextCornerAroundVertex,
	} {
		if id == attrib.InvalidID {
			continue
		}
		if err := m.DeleteAttribute(id, attrib.DeleteForce); err != nil {
			return err
		}
	}
	m.numEdges = 0
	return nil
}

// CornerEdge returns the edge of corner c, the facet edge from c to
// the next corner in its facet.
func (m *Mesh[S, I]) CornerEdge(c I) I {
	m.edgesMust()
	return m.indexAttr(m.reserved.cornerToEdge).Get(int(c), 0)
}

// Edge returns the edge starting at vertex lv of facet f.
func (m *Mesh[S, I]) Edge(f I, lv int) I {
	return m.CornerEdge(m.FacetCornerBegin(f) + I(lv))
}

// EdgeVertices returns the two vertices of edge e, oriented by its
// first corner's facet.
func (m *Mesh[S, I]) EdgeVertices(e I) [2]I {
	m.edgesMust()
	c := m.indexAttr(m.reserved.edgeToFirstCorner).Get(int(e), 0)
	return m.cornerEdgeVertices(c)
}

// FirstCornerAroundEdge returns the head of the corner chain around
// edge e.
func (m *Mesh[S, I]) FirstCornerAroundEdge(e I) I {
	m.edgesMust()
	return m.indexAttr(m.reserved.edgeToFirstCorner).Get(int(e), 0)
}

// NextCornerAroundEdge returns the corner after c in the chain around
// its edge, or the invalid index at the end of the chain.
func (m *Mesh[S, I]) NextCornerAroundEdge(c I) I {
	m.edgesMust()
	return m.indexAttr(m.reserved.nextCornerAroundEdge).Get(int(c), 0)
}

// FirstCornerAroundVertex returns the head of the corner chain around
// vertex v, or the invalid index for an isolated vertex.
func (m *Mesh[S, I]) FirstCornerAroundVertex(v I) I {
	m.edgesMust()
	return m.indexAttr(m.reserved.vertexToFirstCorner).Get(int(v), 0)
}

// NextCornerAroundVertex returns the corner after c in the chain
// around its vertex, or the invalid index at the end of the chain.
func (m *Mesh[S, I]) NextCornerAroundVertex(c I) I {
	m.edgesMust()
	return m.indexAttr(m.reserved.nextCornerAroundVertex).Get(int(c), 0)
}

// ForeachCornerAroundEdge visits every corner sharing edge e.
func (m *Mesh[S, I]) ForeachCornerAroundEdge(e I, fn func(c I)) {
	inv := Invalid[I]()
	for c := m.FirstCornerAroundEdge(e); c != inv; c = m.NextCornerAroundEdge(c) {
		fn(c)
	}
}

// ForeachCornerAroundVertex visits every corner sharing vertex v.
func (m *Mesh[S, I]) ForeachCornerAroundVertex(v I, fn func(c I)) {
	inv := Invalid[I]()
	for c := m.FirstCornerAroundVertex(v); c != inv; c = m.NextCornerAroundVertex(c) {
		fn(c)
	}
}

// foreachEdgeAroundVertexWithDuplicates visits the edges incident to
// vertex v. An edge is visited once per incident facet corner, so
// interior edges appear multiple times.
func (m *Mesh[S, I]) foreachEdgeAroundVertexWithDuplicates(v I, fn func(e I)) {
	c2e := m.indexAttr(m.reserved.cornerToEdge)
	m.ForeachCornerAroundVertex(v, func(c I) {
		// the two facet edges meeting at this corner's vertex
		fn(c2e.Get(int(c), 0))
		fn(c2e.Get(int(m.prevCornerInFacet(c)), 0))
	})
}

// CountCornersAroundEdge returns the number of corners sharing edge e,
// the number of incident facets.
func (m *Mesh[S, I]) CountCornersAroundEdge(e I) int {
	n := 0
	m.ForeachCornerAroundEdge(e, func(I) { n++ })
	return n
}

// CountCornersAroundVertex returns the number of corners sharing
// vertex v.
func (m *Mesh[S, I]) CountCornersAroundVertex(v I) int {
	n := 0
	m.ForeachCornerAroundVertex(v, func(I) { n++ })
	return n
}

// OneCornerAroundEdge returns an arbitrary corner on edge e.
func (m *Mesh[S, I]) OneCornerAroundEdge(e I) I {
	return m.FirstCornerAroundEdge(e)
}

// OneCornerAroundVertex returns an arbitrary corner on vertex v, or
// the invalid index for an isolated vertex.
func (m *Mesh[S, I]) OneCornerAroundVertex(v I) I {
	return m.FirstCornerAroundVertex(v)
}

// OneFacetAroundEdge returns an arbitrary facet incident to edge e.
func (m *Mesh[S, I]) OneFacetAroundEdge(e I) I {
	c := m.FirstCornerAroundEdge(e)
	if c == Invalid[I]() {
		return Invalid[I]()
	}
	return m.CornerFacet(c)
}

// ForeachFacetAroundEdge visits every facet incident to edge e, once
// per incident corner.
func (m *Mesh[S, I]) ForeachFacetAroundEdge(e I, fn func(f I)) {
	m.ForeachCornerAroundEdge(e, func(c I) {
		fn(m.CornerFacet(c))
	})
}

// ForeachFacetAroundVertex visits every facet incident to vertex v,
// once per incident corner.
func (m *Mesh[S, I]) ForeachFacetAroundVertex(v I, fn func(f I)) {
	m.ForeachCornerAroundVertex(v, func(c I) {
		fn(m.CornerFacet(c))
	})
}

// ForeachFacetAroundFacet visits the facets sharing an edge with facet
// f, excluding f itself. Facets sharing more than one edge with f are
// visited once per shared edge.
func (m *Mesh[S, I]) ForeachFacetAroundFacet(f I, fn func(other I)) {
	m.edgesMust()
	c2e := m.indexAttr(m.reserved.cornerToEdge)
	begin, end := m.FacetCornerBegin(f), m.FacetCornerEnd(f)
	for c := begin; c < end; c++ {
		m.ForeachCornerAroundEdge(c2e.Get(int(c), 0), func(oc I) {
			if of := m.CornerFacet(oc); of != f {
				fn(of)
			}
		})
	}
}

// IsBoundaryEdge reports whether edge e has exactly one incident
// facet.
func (m *Mesh[S, I]) IsBoundaryEdge(e I) bool {
	c := m.FirstCornerAroundEdge(e)
	return m.NextCornerAroundEdge(c) == Invalid[I]()
}

// FindEdgeFromVertices returns the edge connecting the two vertices,
// or the invalid index if none exists.
func (m *Mesh[S, I]) FindEdgeFromVertices(v0, v1 I) I {
	m.edgesMust()
	a, b := canonical(v0, v1)
	return m.findEdgeAmongChains(a, b)
}
