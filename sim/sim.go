// Package sim implements the Simulation tick (C7): integrate, resolve
// mesh-vs-wall, mesh-vs-mesh, particle-vs-wall, and particle-vs-mesh
// collisions, in the fixed order spec.md §4.5 requires. The impulse math
// is adapted from the teacher's ResolveContact (physics.go): same
// separating-velocity early-out, same `j = -(1+e)*vN/(wA+wB)` scalar
// impulse, generalized here from rigid-body-vs-rigid-body to the
// particle/CollisionObject pairing spec.md actually asks for (spec.md §9
// "Polymorphic collision partners" notes a Body capability would unify
// these two call sites; this module keeps spec.md's two explicit paths
// rather than introducing that abstraction, since the two paths differ in
// restitution policy, not just in operand type).
package sim

import (
	"math"

	"github.com/gekko3d/sdfcollide/logx"
	"github.com/gekko3d/sdfcollide/object"
	"github.com/gekko3d/sdfcollide/particle"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// meshCollisionTauFraction is τ from spec.md §4.5 step 3, expressed as a
	// fraction of the smaller object's world-AABB diagonal rather than an
	// absolute world-space length — resolving the open question in
	// spec.md §9 ("the absolute value has units of world-space length and
	// will behave differently at different mesh scales").
	meshCollisionTauFraction = 0.02

	meshRestitution     = 1.0
	particleRestitution = 0.8
	particleSurfaceEps  = 1e-3

	minMeshSeparation    = 0.02
	meshSeparationFactor = 1.2
	minMeshPenetration   = 0.05
)

// Simulation owns a fixed containment box, a particle system, and an
// ordered list of CollisionObjects.
type Simulation struct {
	BoundsMin, BoundsMax mgl32.Vec3

	Particles *particle.System
	Objects   []*object.CollisionObject

	Logger logx.Logger
}

// New builds a Simulation over the given bounds, particle system, and
// initial objects.
func New(boundsMin, boundsMax mgl32.Vec3, particles *particle.System, objects []*object.CollisionObject, logger logx.Logger) *Simulation {
	return &Simulation{
		BoundsMin: boundsMin,
		BoundsMax: boundsMax,
		Particles: particles,
		Objects:   objects,
		Logger:    logx.Or(logger),
	}
}

// Update runs one tick: integrate objects, wall-bounce objects, resolve
// mesh-mesh collisions, integrate particles, wall-bounce particles,
// resolve particle-mesh collisions — in exactly this order (spec.md §4.5,
// an observable ordering implementations must preserve).
func (s *Simulation) Update(dt float32) {
	s.integrateObjects(dt)
	s.wallBounceObjects()
	s.resolveMeshMeshCollisions()

	s.Particles.Advance(dt)
	s.wallBounceParticles()
	s.resolveParticleMeshCollisions()
}

func (s *Simulation) integrateObjects(dt float32) {
	for _, o := range s.Objects {
		o.UpdatePhysics(dt)
	}
}

// wallBounceObjects flips the offending velocity component to point inward
// (set to +|v| or -|v|, not reflected) and clamps the position so the
// world AABB just touches the wall, per spec.md §4.5 step 2.
func (s *Simulation) wallBounceObjects() {
	for _, o := range s.Objects {
		if o.IsStatic() {
			continue
		}
		min, max := o.WorldAABB()
		pos := o.Position()
		vel := o.Velocity

		for axis := 0; axis < 3; axis++ {
			if min[axis] < s.BoundsMin[axis] {
				pos[axis] += s.BoundsMin[axis] - min[axis]
				vel[axis] = float32(math.Abs(float64(vel[axis])))
			} else if max[axis] > s.BoundsMax[axis] {
				pos[axis] -= max[axis] - s.BoundsMax[axis]
				vel[axis] = -float32(math.Abs(float64(vel[axis])))
			}
		}

		o.SetPosition(pos)
		o.Velocity = vel
	}
}

// resolveMeshMeshCollisions checks every unordered pair of valid,
// not-both-static objects: broad-phase world-AABB overlap, then SDF
// sampling at each other's center, firing if either distance is below
// the (now scale-relative) surface threshold.
func (s *Simulation) resolveMeshMeshCollisions() {
	for i := 0; i < len(s.Objects); i++ {
		for j := i + 1; j < len(s.Objects); j++ {
			a, b := s.Objects[i], s.Objects[j]
			if !a.Valid() || !b.Valid() {
				continue
			}
			if a.IsStatic() && b.IsStatic() {
				continue
			}

			minA, maxA := a.WorldAABB()
			minB, maxB := b.WorldAABB()
			if !aabbOverlap(minA, maxA, minB, maxB) {
				continue
			}

			distA := b.GetSignedDistance(a.Position())
			distB := a.GetSignedDistance(b.Position())

			tau := meshCollisionTauFraction * smallerDiagonal(minA, maxA, minB, maxB)
			if distA >= tau && distB >= tau {
				continue
			}

			s.resolveMeshMeshContact(a, b, distA, distB)
		}
	}
}

func smallerDiagonal(minA, maxA, minB, maxB mgl32.Vec3) float32 {
	diagA := maxA.Sub(minA).Len()
	diagB := maxB.Sub(minB).Len()
	if diagA < diagB {
		return diagA
	}
	return diagB
}

func aabbOverlap(minA, maxA, minB, maxB mgl32.Vec3) bool {
	return minA.X() <= maxB.X() && maxA.X() >= minB.X() &&
		minA.Y() <= maxB.Y() && maxA.Y() >= minB.Y() &&
		minA.Z() <= maxB.Z() && maxA.Z() >= minB.Z()
}

// resolveMeshMeshContact's normal points from B to A (the direction
// applyImpulse's vRel = vA - vB needs for vRel.Dot(normal) to read negative
// on a genuine approach), matching the teacher's FindBodyContacts/
// ResolveContact convention (physics.go: `diff := posA.Sub(posB)` paired
// with `vRel := vA.Sub(vB)`).
func (s *Simulation) resolveMeshMeshContact(a, b *object.CollisionObject, distA, distB float32) {
	diff := a.Position().Sub(b.Position())
	var normal mgl32.Vec3
	if diff.Len() < 1e-6 {
		s.Logger.Warnf("sim: coincident object centers (%s, %s), falling back to +X separation", a.ID, b.ID)
		normal = mgl32.Vec3{1, 0, 0}
	} else {
		normal = diff.Normalize()
	}

	penetration := float32(0)
	if -distA > penetration {
		penetration = -distA
	}
	if -distB > penetration {
		penetration = -distB
	}
	if minMeshPenetration > penetration {
		penetration = minMeshPenetration
	}

	applyImpulse(
		a.Velocity, a.InverseMass(),
		b.Velocity, b.InverseMass(),
		normal, meshRestitution,
		func(v mgl32.Vec3) { a.Velocity = v },
		func(v mgl32.Vec3) { b.Velocity = v },
	)

	separation := minMeshSeparation
	if meshSeparationFactor*penetration > separation {
		separation = meshSeparationFactor * penetration
	}

	// normal points from B to A, so A is pushed apart along +normal and B
	// along -normal.
	aStatic, bStatic := a.IsStatic(), b.IsStatic()
	switch {
	case aStatic && !bStatic:
		b.SetPosition(b.Position().Sub(normal.Mul(separation)))
	case bStatic && !aStatic:
		a.SetPosition(a.Position().Add(normal.Mul(separation)))
	case !aStatic && !bStatic:
		half := separation * 0.5
		a.SetPosition(a.Position().Add(normal.Mul(half)))
		b.SetPosition(b.Position().Sub(normal.Mul(half)))
	}
}

// wallBounceParticles iterates the 6 walls; for each violated wall, the
// corresponding normal component is set to point inward, the accumulated
// normal is (re)normalized if multiple walls are hit in one tick, velocity
// is reflected, and position is snapped `radius` inside the bound.
func (s *Simulation) wallBounceParticles() {
	particles := s.Particles.Particles
	for i := range particles {
		p := &particles[i]
		var normal mgl32.Vec3
		hit := false

		for axis := 0; axis < 3; axis++ {
			if p.Position[axis]-p.Radius < s.BoundsMin[axis] {
				normal[axis] += 1
				p.Position[axis] = s.BoundsMin[axis] + p.Radius
				hit = true
			} else if p.Position[axis]+p.Radius > s.BoundsMax[axis] {
				normal[axis] -= 1
				p.Position[axis] = s.BoundsMax[axis] - p.Radius
				hit = true
			}
		}

		if !hit {
			continue
		}
		if normal.Len() > 1e-8 {
			normal = normal.Normalize()
		}
		p.Velocity = reflect(p.Velocity, normal)
	}
}

// resolveParticleMeshCollisions: for each particle, for each valid object,
// sample the signed distance; on penetration, skip a degenerate gradient,
// resolve the impulse, displace the particle clear of the surface, and
// stop checking further objects this tick (first-collision-wins).
func (s *Simulation) resolveParticleMeshCollisions() {
	particles := s.Particles.Particles
	for i := range particles {
		p := &particles[i]
		for _, o := range s.Objects {
			if !o.Valid() {
				continue
			}
			d := o.GetSignedDistance(p.Position)
			if d >= p.Radius {
				continue
			}

			n := o.GetNormal(p.Position)
			if n.Len() < 1e-3 {
				s.Logger.Debugf("sim: zero-length gradient for object %s at %v, skipping collision response this tick", o.ID, p.Position)
				continue
			}
			n = n.Normalize()

			restitution := float32(particleRestitution)
			if o.IsStatic() {
				restitution = 1.0
			}

			// n is the object's outward surface normal — already the B-to-A
			// (object-to-particle) direction applyImpulse needs, same
			// convention as resolveMeshMeshContact.
			applyImpulse(
				p.Velocity, p.InverseMass(),
				o.Velocity, o.InverseMass(),
				n, restitution,
				func(v mgl32.Vec3) { p.Velocity = v },
				func(v mgl32.Vec3) { o.Velocity = v },
			)

			p.Position = p.Position.Add(n.Mul(p.Radius - d + particleSurfaceEps))
			break
		}
	}
}

// applyImpulse is the shared impulse-response solver (spec.md §4.6):
// given bodies A, B with velocities/inverse masses and a normal pointing
// from B to A, compute and apply the scalar impulse j, or do nothing if
// the bodies are already separating (vRel.Dot(normal) > 0). Mirrors the
// teacher's ResolveContact structure (physics.go) generalized from
// rigid-body pairs to any (velocity, inverseMass) pair — particle-vs-object
// and object-vs-object both call through here, each supplying a normal in
// this same B-to-A convention.
func applyImpulse(vA mgl32.Vec3, wA float32, vB mgl32.Vec3, wB float32, normal mgl32.Vec3, e float32, setA, setB func(mgl32.Vec3)) {
	vRel := vA.Sub(vB)
	vN := vRel.Dot(normal)
	if vN > 0 {
		return
	}

	denom := wA + wB
	if denom == 0 {
		return
	}

	j := -(1 + e) * vN / denom

	setA(vA.Add(normal.Mul(j * wA)))
	setB(vB.Sub(normal.Mul(j * wB)))
}

func reflect(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}
