package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// rayEpsilon is the Möller-Trumbore parallel/behind-origin tolerance called
// out in spec.md §4.1; also used to exclude origin-on-surface parity hits.
const rayEpsilon = 1e-7

// Triangle is an immutable world- (or local-) space triangle with a
// precomputed unit face normal. Callers must not construct degenerate
// (zero-area) triangles; BVH/SDF builders are expected to filter those
// upstream (spec.md §4.2 "Failure/edge cases").
type Triangle struct {
	V0, V1, V2 mgl32.Vec3
	Normal     mgl32.Vec3
}

// NewTriangle computes the unit face normal via normalize((v1-v0)x(v2-v0)).
func NewTriangle(v0, v1, v2 mgl32.Vec3) Triangle {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	return Triangle{V0: v0, V1: v1, V2: v2, Normal: n.Normalize()}
}

// Bounds returns the triangle's AABB.
func (t Triangle) Bounds() AABB {
	return AABB{
		Min: componentMin(componentMin(t.V0, t.V1), t.V2),
		Max: componentMax(componentMax(t.V0, t.V1), t.V2),
	}
}

// Centroid is the arithmetic mean of the three vertices.
func (t Triangle) Centroid() mgl32.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

// MaxEdgeLength returns the longest of the triangle's three edges, used by
// the BVH's bounding-sphere quick reject (radius = 0.6 * this).
func (t Triangle) MaxEdgeLength() float32 {
	e0 := t.V1.Sub(t.V0).Len()
	e1 := t.V2.Sub(t.V1).Len()
	e2 := t.V0.Sub(t.V2).Len()
	m := e0
	if e1 > m {
		m = e1
	}
	if e2 > m {
		m = e2
	}
	return m
}

// BoundingSphere returns the (centroid, 0.6*maxEdge) conservative sphere
// used as a quick reject before the full PointDistance test.
func (t Triangle) BoundingSphere() (center mgl32.Vec3, radius float32) {
	return t.Centroid(), 0.6 * t.MaxEdgeLength()
}

// PointDistance returns the Euclidean distance from p to the closest point
// on the triangle (interior, edge, or vertex), via the classic barycentric
// region test: minimize |v0 + s*(v1-v0) + t*(v2-v0) - p|^2 subject to
// s>=0, t>=0, s+t<=1, clamping to the feasible region's boundary in each of
// the seven regions before evaluating distance.
func (t Triangle) PointDistance(p mgl32.Vec3) float32 {
	edge0 := t.V1.Sub(t.V0)
	edge1 := t.V2.Sub(t.V0)
	v0 := t.V0.Sub(p)

	a := edge0.Dot(edge0)
	b := edge0.Dot(edge1)
	c := edge1.Dot(edge1)
	d := edge0.Dot(v0)
	e := edge1.Dot(v0)

	det := a*c - b*b
	s := b*e - c*d
	tt := b*d - a*e

	if s+tt <= det {
		if s < 0 {
			if tt < 0 {
				// region 4
				if d < 0 {
					tt = 0
					if -d >= a {
						s = 1
					} else {
						s = -d / a
					}
				} else {
					s = 0
					if e >= 0 {
						tt = 0
					} else if -e >= c {
						tt = 1
					} else {
						tt = -e / c
					}
				}
			} else {
				// region 3
				s = 0
				if e >= 0 {
					tt = 0
				} else if -e >= c {
					tt = 1
				} else {
					tt = -e / c
				}
			}
		} else if tt < 0 {
			// region 5
			tt = 0
			if d >= 0 {
				s = 0
			} else if -d >= a {
				s = 1
			} else {
				s = -d / a
			}
		} else {
			// region 0 (interior)
			invDet := 1.0 / det
			s *= invDet
			tt *= invDet
		}
	} else {
		if s < 0 {
			// region 2
			tmp0 := b + d
			tmp1 := c + e
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				denom := a - 2*b + c
				if numer >= denom {
					s = 1
				} else {
					s = numer / denom
				}
				tt = 1 - s
			} else {
				s = 0
				if tmp1 <= 0 {
					tt = 1
				} else if e >= 0 {
					tt = 0
				} else {
					tt = -e / c
				}
			}
		} else if tt < 0 {
			// region 6
			tmp0 := b + e
			tmp1 := a + d
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				denom := a - 2*b + c
				if numer >= denom {
					tt = 1
				} else {
					tt = numer / denom
				}
				s = 1 - tt
			} else {
				tt = 0
				if tmp1 <= 0 {
					s = 1
				} else if d >= 0 {
					s = 0
				} else {
					s = -d / a
				}
			}
		} else {
			// region 1
			numer := c + e - b - d
			if numer <= 0 {
				s = 0
			} else {
				denom := a - 2*b + c
				if numer >= denom {
					s = 1
				} else {
					s = numer / denom
				}
			}
			tt = 1 - s
		}
	}

	closest := t.V0.Add(edge0.Mul(s)).Add(edge1.Mul(tt))
	return closest.Sub(p).Len()
}

// RayHit describes a ray-triangle intersection.
type RayHit struct {
	T, U, V float32
}

// Intersect implements Möller-Trumbore. dir need not be unit. A hit requires
// t > rayEpsilon and barycentric u,v within the triangle (u>=0, v>=0,
// u+v<=1). Parallel rays (|det| < rayEpsilon) miss.
func (t Triangle) Intersect(origin, dir mgl32.Vec3) (RayHit, bool) {
	edge1 := t.V1.Sub(t.V0)
	edge2 := t.V2.Sub(t.V0)
	h := dir.Cross(edge2)
	det := edge1.Dot(h)
	if det > -rayEpsilon && det < rayEpsilon {
		return RayHit{}, false
	}
	invDet := 1.0 / det

	s := origin.Sub(t.V0)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return RayHit{}, false
	}

	q := s.Cross(edge1)
	v := invDet * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return RayHit{}, false
	}

	hitT := invDet * edge2.Dot(q)
	if hitT <= rayEpsilon {
		return RayHit{}, false
	}

	return RayHit{T: hitT, U: u, V: v}, true
}

// Degenerate reports whether the triangle has (near) zero area, which would
// produce a NaN Normal. Builders should filter these before handing
// triangles to the BVH (spec.md §4.2).
func (t Triangle) Degenerate() bool {
	area := t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Len() * 0.5
	return math.IsNaN(float64(area)) || area < 1e-12
}
