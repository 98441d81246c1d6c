// Package sdfgrid builds and samples the uniform signed-distance grid over
// a mesh: a regular R×R×R lattice of signed distances, built once from a
// BVH over the mesh's triangles and sampled at runtime with trilinear
// interpolation and a central-difference gradient.
package sdfgrid

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/gekko3d/sdfcollide/bvh"
	"github.com/gekko3d/sdfcollide/logx"
	"github.com/gekko3d/sdfcollide/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// gridPadFraction pads the mesh AABB by 10% per face, per spec.md §4.3.
const gridPadFraction = 0.1

// parityRayDir is the fixed +X ray used for the inside/outside parity test.
// Any fixed direction works provided it never lies in the plane of a mesh
// triangle; +X is simplest to reason about for axis-aligned test meshes.
var parityRayDir = mgl32.Vec3{1, 0, 0}

// SDF is an immutable R×R×R grid of signed distances once Build returns.
type SDF struct {
	Resolution       int
	GridMin, GridMax mgl32.Vec3
	CellSize         mgl32.Vec3
	Data             []float32
}

// Build pads the mesh AABB by 10% per face, builds a BVH over its
// triangles, and fills every voxel with the signed distance to the
// surface (unsigned BVH closest-distance, sign from +X ray parity).
// Resolution must be >= 2. The build is a single blocking call; internally
// it may parallelize across Z-slices since each voxel read is independent
// and writes land in disjoint grid indices (spec.md §5) — the worker-pool
// shape mirrors the teacher's particle simulation job fan-out
// (particles_ecs.go's simulateEmitter/workerCount pattern).
func Build(m *mesh.Mesh, resolution int, logger logx.Logger) (*SDF, error) {
	logger = logx.Or(logger)
	if resolution < 2 {
		return nil, fmt.Errorf("sdfgrid: resolution must be >= 2, got %d", resolution)
	}
	if m == nil || len(m.Triangles) == 0 {
		return nil, fmt.Errorf("sdfgrid: cannot build from an empty mesh")
	}

	padded := m.Bounds.Pad(gridPadFraction)
	extent := padded.Max.Sub(padded.Min)
	cell := mgl32.Vec3{
		extent.X() / float32(resolution-1),
		extent.Y() / float32(resolution-1),
		extent.Z() / float32(resolution-1),
	}

	tree := bvh.Build(m.Triangles)

	s := &SDF{
		Resolution: resolution,
		GridMin:    padded.Min,
		GridMax:    padded.Max,
		CellSize:   cell,
		Data:       make([]float32, resolution*resolution*resolution),
	}

	logger.Infof("sdfgrid: building %dx%dx%d grid over %d triangles", resolution, resolution, resolution, len(m.Triangles))

	workers := runtime.GOMAXPROCS(0)
	if workers > resolution {
		workers = resolution
	}
	if workers < 1 {
		workers = 1
	}

	zJobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for z := range zJobs {
				s.buildZSlice(tree, z)
			}
		}()
	}
	for z := 0; z < resolution; z++ {
		zJobs <- z
	}
	close(zJobs)
	wg.Wait()

	return s, nil
}

func (s *SDF) buildZSlice(tree *bvh.BVH, z int) {
	r := s.Resolution
	for y := 0; y < r; y++ {
		for x := 0; x < r; x++ {
			w := s.GridMin.Add(mgl32.Vec3{
				float32(x) * s.CellSize.X(),
				float32(y) * s.CellSize.Y(),
				float32(z) * s.CellSize.Z(),
			})
			d := tree.ClosestDistance(w)
			hits := tree.CountIntersections(w, parityRayDir)
			if hits%2 != 0 {
				d = -d
			}
			s.Data[s.index(x, y, z)] = d
		}
	}
}

func (s *SDF) index(x, y, z int) int {
	r := s.Resolution
	return z*r*r + y*r + x
}

// worldToGrid maps a world point to fractional grid coordinates, clamped
// componentwise to [0, R-1].
func (s *SDF) worldToGrid(w mgl32.Vec3) mgl32.Vec3 {
	g := w.Sub(s.GridMin)
	g = mgl32.Vec3{g.X() / s.CellSize.X(), g.Y() / s.CellSize.Y(), g.Z() / s.CellSize.Z()}
	max := float32(s.Resolution - 1)
	return mgl32.Vec3{clamp(g.X(), 0, max), clamp(g.Y(), 0, max), clamp(g.Z(), 0, max)}
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Sample returns the trilinearly-interpolated signed distance at w. The
// result is continuous but only C0 — see Gradient for why.
func (s *SDF) Sample(w mgl32.Vec3) float32 {
	g := s.worldToGrid(w)
	return s.trilinear(g)
}

func (s *SDF) trilinear(g mgl32.Vec3) float32 {
	r := s.Resolution
	x0 := int(math.Floor(float64(g.X())))
	y0 := int(math.Floor(float64(g.Y())))
	z0 := int(math.Floor(float64(g.Z())))
	x1, y1, z1 := x0+1, y0+1, z0+1
	if x1 > r-1 {
		x1 = r - 1
	}
	if y1 > r-1 {
		y1 = r - 1
	}
	if z1 > r-1 {
		z1 = r - 1
	}

	fx := g.X() - float32(x0)
	fy := g.Y() - float32(y0)
	fz := g.Z() - float32(z0)

	c000 := s.Data[s.index(x0, y0, z0)]
	c100 := s.Data[s.index(x1, y0, z0)]
	c010 := s.Data[s.index(x0, y1, z0)]
	c110 := s.Data[s.index(x1, y1, z0)]
	c001 := s.Data[s.index(x0, y0, z1)]
	c101 := s.Data[s.index(x1, y0, z1)]
	c011 := s.Data[s.index(x0, y1, z1)]
	c111 := s.Data[s.index(x1, y1, z1)]

	c00 := lerp(c000, c100, fx)
	c10 := lerp(c010, c110, fx)
	c01 := lerp(c001, c101, fx)
	c11 := lerp(c011, c111, fx)

	c0 := lerp(c00, c10, fy)
	c1 := lerp(c01, c11, fy)

	return lerp(c0, c1, fz)
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// Gradient returns the (un-normalized) central-difference gradient of the
// field at w, with step epsilon = CellSize.X() * 0.1. It is piecewise
// constant within a voxel and discontinuous across voxel boundaries,
// which is acceptable because the surface is band-limited by the grid
// resolution (spec.md §4.3's C0-only contract). Callers normalize when
// they need a direction.
func (s *SDF) Gradient(w mgl32.Vec3) mgl32.Vec3 {
	eps := s.CellSize.X() * 0.1
	dx := mgl32.Vec3{eps, 0, 0}
	dy := mgl32.Vec3{0, eps, 0}
	dz := mgl32.Vec3{0, 0, eps}

	gx := (s.Sample(w.Add(dx)) - s.Sample(w.Sub(dx))) / (2 * eps)
	gy := (s.Sample(w.Add(dy)) - s.Sample(w.Sub(dy))) / (2 * eps)
	gz := (s.Sample(w.Add(dz)) - s.Sample(w.Sub(dz))) / (2 * eps)

	return mgl32.Vec3{gx, gy, gz}
}
