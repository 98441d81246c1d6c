// Package bvh implements the median-split Bounding Volume Hierarchy that
// accelerates both the closest-point query (SDF build) and the ray-parity
// intersection-count query (SDF inside/outside test). Grounded on the
// teacher's spatial-partitioning patterns (mod_spatialgrid.go) and on the
// binned-BVH shape found in the retrieval pack's raytrace reference code,
// adapted here to the median-split/depth-cap rule spec.md §4.2 mandates in
// place of SAH.
package bvh

import (
	"math"
	"sort"

	"github.com/gekko3d/sdfcollide/geom"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxLeafSize = 4
	maxDepth    = 20
)

// node is an arena-addressed BVH node: either a leaf carrying triangle
// indices into the owning BVH's Triangles slice, or an inner node pointing
// at two children by index. An arena keeps construction and traversal
// allocation-light and sidesteps ownership questions a heap-of-pointers
// tree would raise (spec.md §9 "Owning tree vs arena").
type node struct {
	bounds   geom.AABB
	indices  []int // non-nil only for leaves
	left     int   // -1 if leaf
	right    int   // -1 if leaf
}

func (n *node) isLeaf() bool { return n.left < 0 }

// BVH is an immutable tree over a fixed triangle slice, built once via
// Build and never mutated afterward.
type BVH struct {
	Triangles []geom.Triangle
	nodes     []node
	root      int
}

// Build constructs a BVH over triangles using top-down median splitting:
// at each node, compute the AABB of its index set; if the set has <=4
// triangles or the recursion depth exceeds 20, make a leaf; otherwise split
// on the longest axis at the median centroid. An empty triangle slice
// produces an empty BVH whose queries return the documented fallbacks
// (+Inf distance, 0 intersections).
func Build(triangles []geom.Triangle) *BVH {
	b := &BVH{Triangles: triangles}
	if len(triangles) == 0 {
		b.root = -1
		return b
	}

	indices := make([]int, len(triangles))
	for i := range indices {
		indices[i] = i
	}
	b.root = b.build(indices, 0)
	return b
}

func (b *BVH) boundsOf(indices []int) geom.AABB {
	bounds := geom.EmptyAABB()
	for _, i := range indices {
		tri := b.Triangles[i]
		bounds = bounds.ExpandPoint(tri.V0).ExpandPoint(tri.V1).ExpandPoint(tri.V2)
	}
	return bounds
}

func (b *BVH) build(indices []int, depth int) int {
	bounds := b.boundsOf(indices)

	if len(indices) <= maxLeafSize || depth > maxDepth {
		idx := len(b.nodes)
		b.nodes = append(b.nodes, node{bounds: bounds, indices: indices, left: -1, right: -1})
		return idx
	}

	axis := bounds.LongestAxis()
	sort.Slice(indices, func(i, j int) bool {
		return b.Triangles[indices[i]].Centroid()[axis] < b.Triangles[indices[j]].Centroid()[axis]
	})

	mid := len(indices) / 2
	leftIdx := make([]int, mid)
	rightIdx := make([]int, len(indices)-mid)
	copy(leftIdx, indices[:mid])
	copy(rightIdx, indices[mid:])

	// Reserve this node's slot before recursing so the arena index is known
	// ahead of the children's indices.
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{bounds: bounds, left: -1, right: -1})

	left := b.build(leftIdx, depth+1)
	right := b.build(rightIdx, depth+1)
	b.nodes[idx].left = left
	b.nodes[idx].right = right

	return idx
}

// ClosestDistance returns the Euclidean distance from p to the nearest
// triangle surface, via branch-and-bound: prune any subtree whose AABB
// distance already exceeds the current best, descend into the nearer
// child first, and quick-reject each leaf triangle with its bounding
// sphere before the full point-triangle test. Empty BVH returns +Inf.
func (b *BVH) ClosestDistance(p mgl32.Vec3) float32 {
	if b.root < 0 {
		return float32(math.Inf(1))
	}
	best := float32(math.Inf(1))
	b.closest(b.root, p, &best)
	return best
}

func (b *BVH) closest(nodeIdx int, p mgl32.Vec3, best *float32) {
	n := &b.nodes[nodeIdx]
	if n.bounds.PointDistance(p) >= *best {
		return
	}

	if n.isLeaf() {
		for _, i := range n.indices {
			tri := b.Triangles[i]
			center, radius := tri.BoundingSphere()
			if center.Sub(p).Len()-radius >= *best {
				continue
			}
			if d := tri.PointDistance(p); d < *best {
				*best = d
			}
		}
		return
	}

	leftDist := b.nodes[n.left].bounds.PointDistance(p)
	rightDist := b.nodes[n.right].bounds.PointDistance(p)

	first, second := n.left, n.right
	firstDist, secondDist := leftDist, rightDist
	if rightDist < leftDist {
		first, second = n.right, n.left
		firstDist, secondDist = rightDist, leftDist
	}

	if firstDist < *best {
		b.closest(first, p, best)
	}
	if secondDist < *best {
		b.closest(second, p, best)
	}
}

// CountIntersections returns the total number of Möller-Trumbore hits (not
// parity) of the ray (origin, dir) against every triangle whose containing
// subtree's AABB the ray intersects.
func (b *BVH) CountIntersections(origin, dir mgl32.Vec3) int {
	if b.root < 0 {
		return 0
	}
	return b.countIntersections(b.root, origin, dir)
}

func (b *BVH) countIntersections(nodeIdx int, origin, dir mgl32.Vec3) int {
	n := &b.nodes[nodeIdx]
	if !n.bounds.RayIntersect(origin, dir) {
		return 0
	}

	if n.isLeaf() {
		count := 0
		for _, i := range n.indices {
			if _, ok := b.Triangles[i].Intersect(origin, dir); ok {
				count++
			}
		}
		return count
	}

	return b.countIntersections(n.left, origin, dir) + b.countIntersections(n.right, origin, dir)
}

// Bounds returns the AABB of the whole tree (the root node's bounds), or a
// degenerate empty AABB if the BVH holds no triangles.
func (b *BVH) Bounds() geom.AABB {
	if b.root < 0 {
		return geom.EmptyAABB()
	}
	return b.nodes[b.root].bounds
}
