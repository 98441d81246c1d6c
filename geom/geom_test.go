package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func almostEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestTrianglePointDistanceInterior(t *testing.T) {
	tri := NewTriangle(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{1, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
	d := tri.PointDistance(mgl32.Vec3{0.25, 0.25, 1})
	if !almostEqual(d, 1, 1e-4) {
		t.Errorf("expected distance ~1 above interior point, got %f", d)
	}
}

func TestTrianglePointDistanceVertexAndEdge(t *testing.T) {
	tri := NewTriangle(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{1, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
	// Beyond vertex V1.
	d := tri.PointDistance(mgl32.Vec3{2, 0, 0})
	if !almostEqual(d, 1, 1e-4) {
		t.Errorf("expected distance 1 beyond vertex, got %f", d)
	}
	// Off the hypotenuse edge.
	d = tri.PointDistance(mgl32.Vec3{1, 1, 0})
	if !almostEqual(d, mgl32.Vec3{0.5, 0.5, 0}.Len(), 1e-3) {
		t.Errorf("expected distance to hypotenuse midpoint, got %f", d)
	}
}

func bruteForcePointDistance(p mgl32.Vec3, tris []Triangle) float32 {
	best := float32(math.Inf(1))
	for _, tri := range tris {
		if d := tri.PointDistance(p); d < best {
			best = d
		}
	}
	return best
}

func TestTriangleIntersectHitsAndMisses(t *testing.T) {
	tri := NewTriangle(
		mgl32.Vec3{-1, -1, 0},
		mgl32.Vec3{1, -1, 0},
		mgl32.Vec3{0, 1, 0},
	)

	hit, ok := tri.Intersect(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1})
	if !ok {
		t.Fatal("expected hit through triangle interior")
	}
	if !almostEqual(hit.T, 5, 1e-3) {
		t.Errorf("expected t=5, got %f", hit.T)
	}

	_, ok = tri.Intersect(mgl32.Vec3{5, 5, -5}, mgl32.Vec3{0, 0, 1})
	if ok {
		t.Error("expected miss far outside triangle")
	}

	// Parallel ray (lies in triangle's plane) must miss.
	_, ok = tri.Intersect(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	if ok {
		t.Error("expected parallel ray to miss")
	}

	// Behind the origin.
	_, ok = tri.Intersect(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1})
	if ok {
		t.Error("expected ray pointing away from triangle to miss")
	}
}

func TestAABBPointDistance(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	if d := box.PointDistance(mgl32.Vec3{0, 0, 0}); d != 0 {
		t.Errorf("expected 0 distance inside box, got %f", d)
	}
	if d := box.PointDistance(mgl32.Vec3{3, 0, 0}); !almostEqual(d, 2, 1e-5) {
		t.Errorf("expected distance 2, got %f", d)
	}
}

func TestAABBRayIntersect(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	if !box.RayIntersect(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}) {
		t.Error("expected ray toward box to hit")
	}
	if box.RayIntersect(mgl32.Vec3{-5, 5, 0}, mgl32.Vec3{1, 0, 0}) {
		t.Error("expected parallel offset ray to miss")
	}
	// Zero-component direction (ray along the Z axis, through the box centre): must not
	// panic, and must resolve via propagated signed infinities.
	if !box.RayIntersect(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}) {
		t.Error("expected axis-aligned ray through box to hit")
	}
}

func TestAABBUnionAndLongestAxis(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{-1, 0, 0}, Max: mgl32.Vec3{2, 1, 1}}
	u := a.Union(b)
	if u.Min != (mgl32.Vec3{-1, 0, 0}) || u.Max != (mgl32.Vec3{2, 1, 1}) {
		t.Errorf("unexpected union bounds: %+v", u)
	}
	if axis := u.LongestAxis(); axis != 0 {
		t.Errorf("expected longest axis 0 (x, extent 3), got %d", axis)
	}
}
