// Package geom holds the vector/triangle/AABB primitives the rest of the
// module builds on: point-triangle distance, Möller-Trumbore ray-triangle,
// slab ray-AABB, and point-AABB distance.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box. The zero value is NOT empty — use
// EmptyAABB() as the identity element for Union.
type AABB struct {
	Min, Max mgl32.Vec3
}

// EmptyAABB returns an AABB suitable as the starting point of a Union fold:
// unioning it with any other AABB yields that AABB unchanged.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Union returns the smallest AABB enclosing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: componentMin(a.Min, b.Min),
		Max: componentMax(a.Max, b.Max),
	}
}

// ExpandPoint grows the AABB, if necessary, to contain p.
func (a AABB) ExpandPoint(p mgl32.Vec3) AABB {
	return AABB{
		Min: componentMin(a.Min, p),
		Max: componentMax(a.Max, p),
	}
}

// Center returns the componentwise midpoint of Min and Max.
func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extent returns Max - Min.
func (a AABB) Extent() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// LongestAxis returns 0, 1, or 2 for the axis (x, y, z) along which the box
// is widest. Used by the BVH build to choose a median-split axis.
func (a AABB) LongestAxis() int {
	e := a.Extent()
	axis := 0
	longest := e.X()
	if e.Y() > longest {
		axis = 1
		longest = e.Y()
	}
	if e.Z() > longest {
		axis = 2
	}
	return axis
}

// Pad grows the box by frac of its extent on every face (frac=0.1 means a
// 10% pad per side, matching the SDF grid bounds rule).
func (a AABB) Pad(frac float32) AABB {
	pad := a.Extent().Mul(frac)
	return AABB{Min: a.Min.Sub(pad), Max: a.Max.Add(pad)}
}

// Corners returns the 8 corners of the box, used to compute the world AABB
// of a rotated OBB by transforming each corner and taking the extrema.
func (a AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
}

// Overlaps reports whether a and b intersect (touching counts as overlap).
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Diagonal returns the Euclidean length of Max-Min.
func (a AABB) Diagonal() float32 {
	return a.Extent().Len()
}

// PointDistance returns ||p - clamp(p, Min, Max)||, zero if p is inside.
func (a AABB) PointDistance(p mgl32.Vec3) float32 {
	c := clampVec(p, a.Min, a.Max)
	return p.Sub(c).Len()
}

// RayIntersect performs the slab test: true iff [tNear, tFar] intersects
// [0, +Inf). dir need not be normalized; zero components are allowed and
// propagate signed infinities through min/max as IEEE754 requires.
func (a AABB) RayIntersect(origin, dir mgl32.Vec3) bool {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		mn, mx := a.Min[axis], a.Max[axis]

		t1 := (mn - o) / d
		t2 := (mx - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
	}

	return tFar >= tNear && tFar >= 0
}

func componentMin(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Min(float64(a.X()), float64(b.X()))),
		float32(math.Min(float64(a.Y()), float64(b.Y()))),
		float32(math.Min(float64(a.Z()), float64(b.Z()))),
	}
}

func componentMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Max(float64(a.X()), float64(b.X()))),
		float32(math.Max(float64(a.Y()), float64(b.Y()))),
		float32(math.Max(float64(a.Z()), float64(b.Z()))),
	}
}

func clampVec(p, min, max mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		clampf(p.X(), min.X(), max.X()),
		clampf(p.Y(), min.Y(), max.Y()),
		clampf(p.Z(), min.Z(), max.Z()),
	}
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
