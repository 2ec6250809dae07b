// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortedPair(vv [2]uint32) [2]uint32 {
	if vv[1] < vv[0] {
		vv[0], vv[1] = vv[1], vv[0]
	}
	return vv
}

func TestInitializeEdges(t *testing.T) {
	m := newTriangleMesh(t)
	assert.False(t, m.HasEdges())
	assert.NoError(t, m.InitializeEdges())
	assert.True(t, m.HasEdges())
	assert.Equal(t, 5, m.NumEdges())

	for _, name := range []string{
		AttrCornerToEdge, AttrEdgeToFirstCorner, AttrNextCornerAroundEdge,
		AttrVertexToFirstCorner, AttrNextCornerAroundVertex,
	} {
		assert.True(t, m.HasAttribute(name), name)
	}

	// edge ids follow sorted vertex pairs on a full initialization
	assert.Equal(t, [2]uint32{0, 1}, sortedPair(m.EdgeVertices(0)))
	assert.Equal(t, [2]uint32{0, 2}, sortedPair(m.EdgeVertices(1)))
	assert.Equal(t, [2]uint32{1, 2}, sortedPair(m.EdgeVertices(2)))
	assert.Equal(t, [2]uint32{1, 3}, sortedPair(m.EdgeVertices(3)))
	assert.Equal(t, [2]uint32{2, 3}, sortedPair(m.EdgeVertices(4)))

	// the shared edge has two incident corners, the rest are boundary
	assert.Equal(t, 2, m.CountCornersAroundEdge(2))
	assert.False(t, m.IsBoundaryEdge(2))
	for _, e := range []uint32{0, 1, 3, 4} {
		assert.Equal(t, 1, m.CountCornersAroundEdge(e))
		assert.True(t, m.IsBoundaryEdge(e))
	}

	assert.Equal(t, uint32(2), m.Edge(0, 1))
	assert.Equal(t, uint32(2), m.CornerEdge(1))
	assert.Equal(t, uint32(2), m.CornerEdge(3))
	assert.Equal(t, uint32(2), m.FindEdgeFromVertices(2, 1))
	assert.Equal(t, Invalid[uint32](), m.FindEdgeFromVertices(0, 3))

	assert.Equal(t, 1, m.CountCornersAroundVertex(0))
	assert.Equal(t, 2, m.CountCornersAroundVertex(1))
	assert.Equal(t, 2, m.CountCornersAroundVertex(2))

	var around []uint32
	m.ForeachFacetAroundFacet(0, func(f uint32) { around = append(around, f) })
	assert.Equal(t, []uint32{1}, around)
}

func TestEdgeQueriesRequireInitialization(t *testing.T) {
	m := newTriangleMesh(t)
	assert.Panics(t, func() { m.CornerEdge(0) })
	assert.Panics(t, func() { m.EdgeVertices(0) })
}

func TestInitializeEdgesWithOrdering(t *testing.T) {
	m := newTriangleMesh(t)
	// reversed order relative to the automatic one
	pairs := []uint32{
		2, 3,
		1, 3,
		2, 1,
		0, 2,
		1, 0,
	}
	assert.NoError(t, m.InitializeEdgesWithOrdering(pairs))
	assert.Equal(t, 5, m.NumEdges())
	assert.Equal(t, [2]uint32{2, 3}, sortedPair(m.EdgeVertices(0)))
	assert.Equal(t, [2]uint32{0, 1}, sortedPair(m.EdgeVertices(4)))
	assert.Equal(t, uint32(2), m.FindEdgeFromVertices(1, 2))
	assert.False(t, m.IsBoundaryEdge(2))
}

func TestInitializeEdgesWithOrderingErrors(t *testing.T) {
	m := newTriangleMesh(t)

	// wrong edge count
	err := m.InitializeEdgesWithOrdering([]uint32{0, 1})
	assert.Error(t, err)
	assert.False(t, m.HasEdges())
	assert.False(t, m.HasAttribute(AttrCornerToEdge))

	// mismatched vertices
	err = m.InitializeEdgesWithOrdering([]uint32{
		0, 1,
		0, 2,
		1, 2,
		0, 3,
		2, 3,
	})
	assert.Error(t, err)
	assert.False(t, m.HasEdges())

	assert.Error(t, m.InitializeEdgesWithOrdering([]uint32{0, 1, 2}))
}

func TestRejectedOrderingKeepsExistingEdges(t *testing.T) {
	m := newTriangleMesh(t)
	assert.NoError(t, m.InitializeEdges())
	assert.Equal(t, 5, m.NumEdges())

	// a rejected ordering must leave the existing edge subsystem intact
	assert.Error(t, m.InitializeEdgesWithOrdering([]uint32{0, 1}))
	assert.True(t, m.HasEdges())
	assert.Equal(t, 5, m.NumEdges())
	assert.Equal(t, [2]uint32{1, 2}, sortedPair(m.EdgeVertices(2)))
	assert.Equal(t, 2, m.CountCornersAroundEdge(2))

	// and a valid ordering afterwards still replaces it
	assert.NoError(t, m.InitializeEdgesWithOrdering([]uint32{
		2, 3,
		1, 3,
		1, 2,
		0, 2,
		0, 1,
	}))
	assert.Equal(t, 5, m.NumEdges())
	assert.Equal(t, [2]uint32{0, 1}, sortedPair(m.EdgeVertices(4)))
}

func TestInitializeEdgesWithCallback(t *testing.T) {
	m := newTriangleMesh(t)
	pairs := [][2]uint32{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}}
	assert.NoError(t, m.InitializeEdgesWith(len(pairs), func(e uint32) [2]uint32 {
		return pairs[e]
	}))
	assert.Equal(t, 5, m.NumEdges())
	assert.Equal(t, [2]uint32{1, 2}, sortedPair(m.EdgeVertices(2)))
}

func TestIncrementalEdgeUpdate(t *testing.T) {
	m := newTriangleMesh(t)
	assert.NoError(t, m.InitializeEdges())
	assert.Equal(t, 5, m.NumEdges())

	// the new triangle shares edges (0,2) and (2,3), adds (0,3)
	_, err := m.AddTriangle(0, 2, 3)
	assert.NoError(t, err)
	assert.Equal(t, 6, m.NumEdges())
	assert.Equal(t, 2, m.CountCornersAroundEdge(1))
	assert.False(t, m.IsBoundaryEdge(1))
	assert.Equal(t, 2, m.CountCornersAroundEdge(4))
	e := m.FindEdgeFromVertices(0, 3)
	assert.Equal(t, uint32(5), e)
	assert.True(t, m.IsBoundaryEdge(e))
	assert.Equal(t, 3, m.CountCornersAroundVertex(2))
}

func TestEagerIndicesRequiredWithEdges(t *testing.T) {
	m := newTriangleMesh(t)
	assert.NoError(t, m.InitializeEdges())

	assert.Error(t, m.AddTriangles(1, nil))

	// callback forms fill indices before the edge update runs
	assert.NoError(t, m.AddTrianglesWith(1, func(lf uint32, tv []uint32) {
		copy(tv, []uint32{0, 3, 2})
	}))
	assert.Equal(t, 3, m.NumFacets())
	assert.Equal(t, 6, m.NumEdges())
}

func TestMutFacetVerticesBlockedByEdges(t *testing.T) {
	m := newTriangleMesh(t)
	fv, err := m.MutFacetVertices(0)
	assert.NoError(t, err)
	fv[0] = 3

	assert.NoError(t, m.InitializeEdges())
	_, err = m.MutFacetVertices(0)
	assert.Error(t, err)
}

func TestClearEdges(t *testing.T) {
	m := newTriangleMesh(t)
	assert.NoError(t, m.ClearEdges())
	assert.NoError(t, m.InitializeEdges())
	assert.NoError(t, m.ClearEdges())
	assert.False(t, m.HasEdges())
	assert.Equal(t, 0, m.NumEdges())
	assert.False(t, m.HasAttribute(AttrCornerToEdge))
	assert.False(t, m.HasAttribute(AttrVertexToFirstCorner))

	// reinitializing after a clear works from scratch
	assert.NoError(t, m.InitializeEdges())
	assert.Equal(t, 5, m.NumEdges())
}

func TestEdgesOnHybridMesh(t *testing.T) {
	m := New[float32, uint32]()
	assert.NoError(t, m.AddVertices(4, nil))
	_, err := m.AddTriangle(0, 1, 2)
	assert.NoError(t, err)
	_, err = m.AddQuad(0, 1, 2, 3)
	assert.NoError(t, err)
	assert.NoError(t, m.InitializeEdges())

	// triangle (0,1),(1,2),(0,2) plus quad (2,3),(0,3); (0,1),(1,2)
	// are shared
	assert.Equal(t, 5, m.NumEdges())
	assert.False(t, m.IsBoundaryEdge(m.FindEdgeFromVertices(0, 1)))
	assert.False(t, m.IsBoundaryEdge(m.FindEdgeFromVertices(1, 2)))
	assert.True(t, m.IsBoundaryEdge(m.FindEdgeFromVertices(2, 3)))
	assert.True(t, m.IsBoundaryEdge(m.FindEdgeFromVertices(0, 3)))
	assert.Equal(t, Invalid[uint32](), m.FindEdgeFromVertices(1, 3))
}
