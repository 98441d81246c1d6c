// Package mesh holds the indexed triangle soup consumed by the SDF builder:
// an ordered list of geom.Triangle plus its AABB.
package mesh

import (
	"errors"

	"github.com/gekko3d/sdfcollide/geom"
)

// ErrEmptyMesh is returned by New when given zero triangles. spec.md treats
// an empty mesh as a caller-contract violation with undefined SDF-build
// behaviour; this module fails loudly instead of building on an undefined
// AABB, since New is the one public constructor every other package
// ultimately calls.
var ErrEmptyMesh = errors.New("mesh: cannot build from an empty triangle set")

// Mesh is an immutable indexed triangle list plus its world/local AABB.
type Mesh struct {
	Triangles []geom.Triangle
	Bounds    geom.AABB
}

// New computes the mesh AABB as the componentwise extremum of every vertex
// of every triangle. Degenerate (zero-area) triangles are dropped rather
// than included, matching spec.md §4.2's guidance that builders filter
// them upstream of the BVH.
func New(triangles []geom.Triangle) (*Mesh, error) {
	filtered := make([]geom.Triangle, 0, len(triangles))
	for _, t := range triangles {
		if t.Degenerate() {
			continue
		}
		filtered = append(filtered, t)
	}
	if len(filtered) == 0 {
		return nil, ErrEmptyMesh
	}

	bounds := geom.EmptyAABB()
	for _, t := range filtered {
		bounds = bounds.ExpandPoint(t.V0).ExpandPoint(t.V1).ExpandPoint(t.V2)
	}

	return &Mesh{Triangles: filtered, Bounds: bounds}, nil
}
