package object

import (
	"math"
	"testing"

	"github.com/gekko3d/sdfcollide/geom"
	"github.com/gekko3d/sdfcollide/mesh"
	"github.com/gekko3d/sdfcollide/sdfgrid"
	"github.com/go-gl/mathgl/mgl32"
)

func almostEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func unitCubeMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	// 8 corners, 12 triangles, axis-aligned unit cube centered at origin.
	c := []mgl32.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	quad := func(a, b, cc, d int) []geom.Triangle {
		return []geom.Triangle{geom.NewTriangle(c[a], c[b], c[cc]), geom.NewTriangle(c[a], c[cc], c[d])}
	}
	var tris []geom.Triangle
	tris = append(tris, quad(0, 1, 2, 3)...) // back
	tris = append(tris, quad(5, 4, 7, 6)...) // front
	tris = append(tris, quad(4, 0, 3, 7)...) // left
	tris = append(tris, quad(1, 5, 6, 2)...) // right
	tris = append(tris, quad(3, 2, 6, 7)...) // top
	tris = append(tris, quad(4, 5, 1, 0)...) // bottom

	m, err := mesh.New(tris)
	if err != nil {
		t.Fatalf("unitCubeMesh: %v", err)
	}
	return m
}

func newCubeObject(t *testing.T, mass float32) *CollisionObject {
	t.Helper()
	m := unitCubeMesh(t)
	s, err := sdfgrid.Build(m, 16, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return New(m, s, mass)
}

// P6: worldToLocal(localToWorld(x)) ~= x.
func TestWorldLocalRoundTrip(t *testing.T) {
	o := newCubeObject(t, 1)
	o.SetPosition(mgl32.Vec3{3, -2, 5})
	o.SetRotation(mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}))
	o.SetScale(mgl32.Vec3{2, 1, 0.5})

	pts := []mgl32.Vec3{
		{0, 0, 0}, {1, 2, 3}, {-5, 0.5, 10}, {100, -100, 0},
	}
	for _, p := range pts {
		local := o.WorldToLocal(p)
		back := o.LocalToWorld(local)
		if back.Sub(p).Len() > 1e-3 {
			t.Errorf("round trip failed for %v: got %v", p, back)
		}
	}
}

// Scenario 2: rotated cube OBB world AABB.
func TestWorldAABBRotatedCube(t *testing.T) {
	o := newCubeObject(t, 0)
	o.SetRotation(mgl32.QuatRotate(float32(math.Pi)/4, mgl32.Vec3{0, 1, 0}))

	min, max := o.WorldAABB()

	half := float32(math.Sqrt2) / 2
	if !almostEqual(max.X(), half, 0.02) || !almostEqual(min.X(), -half, 0.02) {
		t.Errorf("expected X span +-%f, got min=%f max=%f", half, min.X(), max.X())
	}
	if !almostEqual(max.Z(), half, 0.02) || !almostEqual(min.Z(), -half, 0.02) {
		t.Errorf("expected Z span +-%f, got min=%f max=%f", half, min.Z(), max.Z())
	}
	if !almostEqual(max.Y(), 0.5, 0.02) || !almostEqual(min.Y(), -0.5, 0.02) {
		t.Errorf("expected Y span +-0.5, got min=%f max=%f", min.Y(), max.Y())
	}
}

func TestGetSignedDistanceAndNormalInvalidObject(t *testing.T) {
	var o CollisionObject
	d := o.GetSignedDistance(mgl32.Vec3{0, 0, 0})
	if !math.IsInf(float64(d), 1) {
		t.Errorf("expected +Inf for invalid object, got %f", d)
	}
	n := o.GetNormal(mgl32.Vec3{0, 0, 0})
	if n != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected (0,1,0) safe default, got %v", n)
	}
}

func TestStaticObjectDoesNotMove(t *testing.T) {
	o := newCubeObject(t, 0)
	o.Velocity = mgl32.Vec3{1, 0, 0}
	o.UpdatePhysics(1.0)
	if o.Position() != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("expected static object to stay put, got %v", o.Position())
	}
}

func TestDynamicObjectIntegrates(t *testing.T) {
	o := newCubeObject(t, 1)
	o.Velocity = mgl32.Vec3{1, 0, 0}
	o.UpdatePhysics(0.5)
	if !almostEqual(o.Position().X(), 0.5, 1e-4) {
		t.Errorf("expected x=0.5, got %f", o.Position().X())
	}
}
