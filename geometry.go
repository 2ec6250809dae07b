// Copyright (c) 2026, Meshkit Contributors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Convenience geometry helpers for 3D float32 meshes, bridging vertex
// positions to [math32] vectors.

// AddVertex3 appends one vertex at the given point and returns its
// index. The mesh must be 3 dimensional.
func AddVertex3[I Index](m *Mesh[float32, I], p math32.Vector3) (I, error) {
	if m.Dimension() != 3 {
		return Invalid[I](), fmt.Errorf("surface: mesh has dimension %d, want 3", m.Dimension())
	}
	return m.AddVertex([]float32{p.X, p.Y, p.Z})
}

// Position3 returns the position of vertex v as a vector. The mesh
// must be 3 dimensional.
func Position3[I Index](m *Mesh[float32, I], v I) math32.Vector3 {
	p := m.Position(v)
	return math32.Vec3(p[0], p[1], p[2])
}

// SetPosition3 sets the position of vertex v from a vector.
func SetPosition3[I Index](m *Mesh[float32, I], v I, p math32.Vector3) error {
	return m.SetPosition(v, []float32{p.X, p.Y, p.Z})
}

// BoundingBox3 returns the axis-aligned bounding box of all vertex
// positions, empty for a vertex-less mesh. The mesh must be 3
// dimensional.
func BoundingBox3[I Index](m *Mesh[float32, I]) math32.Box3 {
	b := math32.B3Empty()
	for v := range m.NumVertices() {
		b.ExpandByPoint(Position3(m, I(v)))
	}
	return b
}
