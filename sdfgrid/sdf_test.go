package sdfgrid

import (
	"math"
	"testing"

	"github.com/gekko3d/sdfcollide/geom"
	"github.com/gekko3d/sdfcollide/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

func almostEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

// unitSphereMesh builds a lat/long triangulated unit sphere; 12 rings by 12
// segments gives well over 80 triangles (spec.md scenario 1).
func unitSphereMesh(t *testing.T, rings, segments int) *mesh.Mesh {
	t.Helper()
	var tris []geom.Triangle

	vertex := func(ring, seg int) mgl32.Vec3 {
		theta := math.Pi * float64(ring) / float64(rings)
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		y := math.Cos(theta)
		r := math.Sin(theta)
		x := r * math.Cos(phi)
		z := r * math.Sin(phi)
		return mgl32.Vec3{float32(x), float32(y), float32(z)}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			v00 := vertex(ring, seg)
			v01 := vertex(ring, seg+1)
			v10 := vertex(ring+1, seg)
			v11 := vertex(ring+1, seg+1)
			tris = append(tris, geom.NewTriangle(v00, v10, v11))
			tris = append(tris, geom.NewTriangle(v00, v11, v01))
		}
	}

	m, err := mesh.New(tris)
	if err != nil {
		t.Fatalf("unitSphereMesh: %v", err)
	}
	return m
}

// Scenario 1 + P4: unit sphere SDF sign and gradient direction.
func TestBuildUnitSphere(t *testing.T) {
	m := unitSphereMesh(t, 12, 12)

	s, err := Build(m, 32, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	center := s.Sample(mgl32.Vec3{0, 0, 0})
	if center >= 0 {
		t.Errorf("expected negative distance at sphere center, got %f", center)
	}
	if !almostEqual(center, -1, float32(2*s.CellSize.X())) {
		t.Errorf("expected ~-1 at sphere center (within 2 voxels), got %f", center)
	}

	outside := s.Sample(mgl32.Vec3{2, 0, 0})
	if outside <= 0 {
		t.Errorf("expected positive distance well outside sphere, got %f", outside)
	}
	if !almostEqual(outside, 1, float32(2*s.CellSize.X())) {
		t.Errorf("expected ~1 at x=2, got %f", outside)
	}

	grad := s.Gradient(mgl32.Vec3{1.5, 0, 0})
	want := mgl32.Vec3{1, 0, 0}
	if grad.Sub(want).Len() >= 0.4 {
		t.Errorf("expected gradient near (1,0,0) outside sphere, got %v", grad)
	}
}

// P5: rebuilding the same SDF from the same mesh is byte-identical.
func TestBuildIsIdempotent(t *testing.T) {
	m := unitSphereMesh(t, 8, 8)

	a, err := Build(m, 16, nil)
	if err != nil {
		t.Fatalf("Build a: %v", err)
	}
	b, err := Build(m, 16, nil)
	if err != nil {
		t.Fatalf("Build b: %v", err)
	}

	if len(a.Data) != len(b.Data) {
		t.Fatalf("data length mismatch: %d vs %d", len(a.Data), len(b.Data))
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("data mismatch at index %d: %f vs %f", i, a.Data[i], b.Data[i])
		}
	}
}

func TestBuildRejectsBadResolution(t *testing.T) {
	m := unitSphereMesh(t, 6, 6)
	if _, err := Build(m, 1, nil); err == nil {
		t.Error("expected error for resolution < 2")
	}
}
