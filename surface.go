// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package surface implements a generic polygonal surface mesh: vertices,
facets, and facet corners, with arbitrary typed attributes attached to
any element type (see [attrib]), and a lazily initialized edge and
connectivity subsystem for adjacency traversal.

Facet storage is regular (fixed vertices per facet, implicit corner
layout) until a facet of a different size is added, at which point the
mesh transparently switches to hybrid storage with explicit per-facet
corner offsets. [Mesh.CompressIfRegular] reverses the transition when
possible.
*/
package surface

import (
	"fmt"
	"reflect"

	"cogentcore.org/core/base/errors"
	"github.com/meshkit/surface/attrib"
)

// Scalar is the set of coordinate types a mesh can use.
type Scalar interface {
	~float32 | ~float64
}

// Index is the set of element index types a mesh can use.
type Index interface {
	~uint32 | ~uint64
}

// Invalid returns the invalid index sentinel, the maximum value of the
// index type.
func Invalid[I Index]() I {
	return ^I(0)
}

// Reserved attribute names. Names starting with "$" are reserved and
// can only be created or deleted with a Force policy.
const (
	// AttrVertexToPosition stores vertex coordinates, one row per
	// vertex with one channel per dimension.
	AttrVertexToPosition = "$vertex_to_position"

	// AttrCornerToVertex maps each facet corner to its vertex.
	AttrCornerToVertex = "$corner_to_vertex"

	// AttrFacetToFirstCorner maps each facet to its first corner.
	// Present only on hybrid meshes.
	AttrFacetToFirstCorner = "$facet_to_first_corner"

	// AttrCornerToFacet maps each corner back to its facet. Present
	// only on hybrid meshes.
	AttrCornerToFacet = "$corner_to_facet"

	// AttrCornerToEdge maps each corner to its edge. Present when
	// edges are initialized.
	AttrCornerToEdge = "$corner_to_edge"

	// AttrEdgeToFirstCorner maps each edge to the head of its corner
	// chain. Present when edges are initialized.
	AttrEdgeToFirstCorner = "$edge_to_first_corner"

	// AttrNextCornerAroundEdge links corners sharing an edge into a
	// singly linked chain. Present when edges are initialized.
	AttrNextCornerAroundEdge = "$next_corner_around_edge"

	// AttrVertexToFirstCorner maps each vertex to the head of its
	// corner chain. Present when edges are initialized.
	AttrVertexToFirstCorner = "$vertex_to_first_corner"

	// AttrNextCornerAroundVertex links corners sharing a vertex into a
	// singly linked chain. Present when edges are initialized.
	AttrNextCornerAroundVertex = "$next_corner_around_vertex"
)

// reservedIDs caches the attribute ids of reserved attributes.
// [attrib.InvalidID] marks attributes not currently present.
type reservedIDs struct {
	vertexToPosition       attrib.ID
	cornerToVertex         attrib.ID
	facetToFirstCorner     attrib.ID
	cornerToFacet          attrib.ID
	cornerToEdge           attrib.ID
	edgeToFirstCorner      attrib.ID
	nextCornerAroundEdge   attrib.ID
	vertexToFirstCorner    attrib.ID
	nextCornerAroundVertex attrib.ID
}

func newReservedIDs() reservedIDs {
	return reservedIDs{
		vertexToPosition:       attrib.InvalidID,
		cornerToVertex:         attrib.InvalidID,
		facetToFirstCorner:     attrib.InvalidID,
		cornerToFacet:          attrib.InvalidID,
		cornerToEdge:           attrib.InvalidID,
		edgeToFirstCorner:      attrib.InvalidID,
		nextCornerAroundEdge:   attrib.InvalidID,
		vertexToFirstCorner:    attrib.InvalidID,
		nextCornerAroundVertex: attrib.InvalidID,
	}
}

// Mesh is a polygonal surface mesh with scalar coordinate type S and
// element index type I. All element data, including vertex positions
// and facet corner indices, lives in attributes managed by an
// [attrib.Manager], so meshes share storage copy-on-write via
// [Mesh.Clone].
type Mesh[S Scalar, I Index] struct {
	attrs *attrib.Manager

	dimension int

	// vertexPerFacet is the uniform facet size on regular meshes, 0 on
	// hybrid or facet-less meshes.
	vertexPerFacet int

	numVertices int
	numFacets   int
	numCorners  int
	numEdges    int

	reserved reservedIDs
}

// Mesh32 is a mesh with float32 coordinates and uint32 indices.
type Mesh32 = Mesh[float32, uint32]

// Mesh64 is a mesh with float64 coordinates and uint64 indices.
type Mesh64 = Mesh[float64, uint64]

// Mesh32d is a mesh with float64 coordinates and uint32 indices.
type Mesh32d = Mesh[float64, uint32]

// Mesh64f is a mesh with float32 coordinates and uint64 indices.
type Mesh64f = Mesh[float32, uint64]

// New returns a new empty mesh with the given dimension (default 3).
func New[S Scalar, I Index](dimension ...int) *Mesh[S, I] {
	dim := 3
	if len(dimension) > 0 {
		dim = dimension[0]
	}
	if dim <= 0 {
		panic("surface.New: dimension must be positive")
	}
	m := &Mesh[S, I]{
		attrs:     attrib.NewManager(),
		dimension: dim,
		reserved:  newReservedIDs(),
	}
	pos := attrib.New[S](attrib.Vertex, attrib.Position, dim)
	m.reserved.vertexToPosition = errors.Log1(m.attrs.Add(AttrVertexToPosition, pos))
	cv := attrib.New[I](attrib.Corner, attrib.VertexIndex, 1)
	m.reserved.cornerToVertex = errors.Log1(m.attrs.Add(AttrCornerToVertex, cv))
	return m
}

// Dimension returns the number of coordinate channels per vertex.
func (m *Mesh[S, I]) Dimension() int { return m.dimension }

// NumVertices returns the number of vertices.
func (m *Mesh[S, I]) NumVertices() int { return m.numVertices }

// NumFacets returns the number of facets.
func (m *Mesh[S, I]) NumFacets() int { return m.numFacets }

// NumCorners returns the total number of facet corners.
func (m *Mesh[S, I]) NumCorners() int { return m.numCorners }

// NumEdges returns the number of edges, 0 unless edges are initialized.
func (m *Mesh[S, I]) NumEdges() int { return m.numEdges }

// NumElements returns the element count for the given element type.
// Corner counts are returned for Indexed attributes, and 0 for Value.
func (m *Mesh[S, I]) NumElements(el attrib.Element) int {
	switch el {
	case attrib.Vertex:
		return m.numVertices
	case attrib.Facet:
		return m.numFacets
	case attrib.Corner, attrib.Indexed:
		return m.numCorners
	case attrib.Edge:
		return m.numEdges
	}
	return 0
}

// IsHybrid reports whether the mesh uses hybrid facet storage with
// explicit corner offsets.
func (m *Mesh[S, I]) IsHybrid() bool {
	return m.reserved.facetToFirstCorner != attrib.InvalidID
}

// IsRegular reports whether all facets have the same size and the
// corner layout is implicit.
func (m *Mesh[S, I]) IsRegular() bool { return !m.IsHybrid() }

// VertexPerFacet returns the uniform facet size, or 0 on hybrid or
// facet-less meshes.
func (m *Mesh[S, I]) VertexPerFacet() int {
	if m.IsHybrid() {
		return 0
	}
	return m.vertexPerFacet
}

// IsTriangleMesh reports whether the mesh is regular with 3 vertices
// per facet (or empty).
func (m *Mesh[S, I]) IsTriangleMesh() bool {
	return m.IsRegular() && (m.vertexPerFacet == 3 || m.numFacets == 0)
}

// IsQuadMesh reports whether the mesh is regular with 4 vertices per
// facet (or empty).
func (m *Mesh[S, I]) IsQuadMesh() bool {
	return m.IsRegular() && (m.vertexPerFacet == 4 || m.numFacets == 0)
}

// HasEdges reports whether the edge subsystem is initialized.
func (m *Mesh[S, I]) HasEdges() bool {
	return m.reserved.edgeToFirstCorner != attrib.InvalidID
}

// indexKind returns the reflect.Kind of the mesh index type.
func (m *Mesh[S, I]) indexKind() reflect.Kind {
	var z I
	return reflect.TypeOf(z).Kind()
}

// positions returns the vertex position attribute for read access.
func (m *Mesh[S, I]) positions() *attrib.Attribute[S] {
	return errors.Log1(attrib.Of[S](m.attrs, m.reserved.vertexToPosition))
}

// mutPositions returns the vertex position attribute for write access,
// applying copy-on-write and the write policy.
func (m *Mesh[S, I]) mutPositions() (*attrib.Attribute[S], error) {
	return attrib.MutOf[S](m.attrs, m.reserved.vertexToPosition)
}

// cornerVertices returns the corner-to-vertex attribute for read access.
func (m *Mesh[S, I]) cornerVertices() *attrib.Attribute[I] {
	return errors.Log1(attrib.Of[I](m.attrs, m.reserved.cornerToVertex))
}

func (m *Mesh[S, I]) mutCornerVertices() (*attrib.Attribute[I], error) {
	return attrib.MutOf[I](m.attrs, m.reserved.cornerToVertex)
}

// indexAttr returns the reserved index attribute with the given cached
// id for read access.
func (m *Mesh[S, I]) indexAttr(id attrib.ID) *attrib.Attribute[I] {
	return errors.Log1(attrib.Of[I](m.attrs, id))
}

func (m *Mesh[S, I]) mutIndexAttr(id attrib.ID) (*attrib.Attribute[I], error) {
	return attrib.MutOf[I](m.attrs, id)
}

// Position returns the coordinates of vertex v as a read-only view.
func (m *Mesh[S, I]) Position(v I) []S {
	return m.positions().Row(int(v))
}

// Positions returns all vertex coordinates as a flat read-only span,
// numVertices*dimension long.
func (m *Mesh[S, I]) Positions() []S {
	return m.positions().Values()
}

// MutPositions returns all vertex coordinates for writing, subject to
// copy-on-write unsharing and the position attribute's write policy.
func (m *Mesh[S, I]) MutPositions() ([]S, error) {
	pos, err := m.mutPositions()
	if err != nil {
		return nil, err
	}
	return pos.Values(), nil
}

// SetPosition sets the coordinates of vertex v.
func (m *Mesh[S, I]) SetPosition(v I, p []S) error {
	if len(p) != m.dimension {
		return fmt.Errorf("surface: position has %d channels, mesh dimension is %d", len(p), m.dimension)
	}
	pos, err := m.mutPositions()
	if err != nil {
		return err
	}
	pos.SetRow(int(v), p)
	return nil
}

// FacetCornerBegin returns the first corner of facet f.
func (m *Mesh[S, I]) FacetCornerBegin(f I) I {
	if m.IsHybrid() {
		return m.indexAttr(m.reserved.facetToFirstCorner).Get(int(f), 0)
	}
	return f * I(m.vertexPerFacet)
}

// FacetCornerEnd returns one past the last corner of facet f.
func (m *Mesh[S, I]) FacetCornerEnd(f I) I {
	if m.IsHybrid() {
		if int(f)+1 == m.numFacets {
			return I(m.numCorners)
		}
		return m.indexAttr(m.reserved.facetToFirstCorner).Get(int(f)+1, 0)
	}
	return (f + 1) * I(m.vertexPerFacet)
}

// FacetSize returns the number of vertices in facet f.
func (m *Mesh[S, I]) FacetSize(f I) int {
	return int(m.FacetCornerEnd(f) - m.FacetCornerBegin(f))
}

// CornerVertex returns the vertex of corner c.
func (m *Mesh[S, I]) CornerVertex(c I) I {
	return m.cornerVertices().Get(int(c), 0)
}

// CornerFacet returns the facet of corner c.
func (m *Mesh[S, I]) CornerFacet(c I) I {
	if m.IsHybrid() {
		return m.indexAttr(m.reserved.cornerToFacet).Get(int(c), 0)
	}
	return c / I(m.vertexPerFacet)
}

// FacetVertex returns vertex lv of facet f.
func (m *Mesh[S, I]) FacetVertex(f I, lv int) I {
	return m.CornerVertex(m.FacetCornerBegin(f) + I(lv))
}

// FacetVertices returns the vertices of facet f as a read-only view.
func (m *Mesh[S, I]) FacetVertices(f I) []I {
	begin, end := m.FacetCornerBegin(f), m.FacetCornerEnd(f)
	return m.cornerVertices().Values()[begin:end]
}

// MutFacetVertices returns the vertices of facet f for writing. It is
// an error while edges are initialized, since rewriting facet indices
// would invalidate the connectivity chains.
func (m *Mesh[S, I]) MutFacetVertices(f I) ([]I, error) {
	if m.HasEdges() {
		return nil, fmt.Errorf("surface: cannot write facet vertices while edges are initialized; call ClearEdges first")
	}
	cv, err := m.mutCornerVertices()
	if err != nil {
		return nil, err
	}
	begin, end := m.FacetCornerBegin(f), m.FacetCornerEnd(f)
	return cv.Values()[begin:end], nil
}

// Clone returns a copy of the mesh sharing all attribute storage
// copy-on-write. The edge subsystem is never carried over: the clone
// has no edges regardless of the source, so connectivity must be
// reinitialized with [Mesh.InitializeEdges] if needed.
func (m *Mesh[S, I]) Clone() *Mesh[S, I] {
	c := &Mesh[S, I]{
		dimension:      m.dimension,
		vertexPerFacet: m.vertexPerFacet,
		numVertices:    m.numVertices,
		numFacets:      m.numFacets,
		numCorners:     m.numCorners,
		reserved:       newReservedIDs(),
	}
	c.attrs = m.attrs.Clone(func(name string) bool {
		return isEdgeAttrName(name)
	})
	c.reserved.vertexToPosition = c.attrs.ID(AttrVertexToPosition)
	c.reserved.cornerToVertex = c.attrs.ID(AttrCornerToVertex)
	c.reserved.facetToFirstCorner = c.attrs.ID(AttrFacetToFirstCorner)
	c.reserved.cornerToFacet = c.attrs.ID(AttrCornerToFacet)
	return c
}

func isEdgeAttrName(name string) bool {
	switch name {
	case AttrCornerToEdge, AttrEdgeToFirstCorner, AttrNextCornerAroundEdge,
		AttrVertexToFirstCorner, AttrNextCornerAroundVertex:
		return true
	}
	return false
}
