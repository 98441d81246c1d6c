// Package object implements CollisionObject: a rigid transform (position,
// rotation, scale) plus linear velocity and mass, wrapping a Mesh and an
// SDF built once in the object's local frame. The transform matrix and its
// inverse are cached and recomputed lazily, the same pattern the teacher
// uses for its TransformComponent-driven world matrices.
package object

import (
	"math"

	"github.com/gekko3d/sdfcollide/mesh"
	"github.com/gekko3d/sdfcollide/sdfgrid"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// CollisionObject owns a Mesh and an SDF built once from that Mesh in the
// object's local frame. Mesh/SDF are never mutated after New.
type CollisionObject struct {
	ID string

	Mesh *mesh.Mesh
	SDF  *sdfgrid.SDF

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	Velocity mgl32.Vec3
	Mass     float32

	matrix    mgl32.Mat4
	inverse   mgl32.Mat4
	dirty     bool
}

// New builds a CollisionObject around an already-constructed Mesh and SDF.
// Position defaults to the origin, rotation to identity, scale to (1,1,1).
func New(m *mesh.Mesh, s *sdfgrid.SDF, mass float32) *CollisionObject {
	o := &CollisionObject{
		ID:       uuid.NewString(),
		Mesh:     m,
		SDF:      s,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		Mass:     mass,
		dirty:    true,
	}
	o.recompute()
	return o
}

// Valid reports whether the object has both a loaded Mesh and a generated
// SDF (spec.md §3 "valid iff both Mesh loaded and SDF generated").
func (o *CollisionObject) Valid() bool {
	return o != nil && o.Mesh != nil && o.SDF != nil
}

// IsStatic reports whether the object has zero mass (the static sentinel).
func (o *CollisionObject) IsStatic() bool {
	return o.Mass <= 0
}

// InverseMass is 1/Mass for dynamic objects, 0 for static ones.
func (o *CollisionObject) InverseMass() float32 {
	if o.Mass > 0 {
		return 1.0 / o.Mass
	}
	return 0
}

func (o *CollisionObject) Position() mgl32.Vec3 { return o.position }
func (o *CollisionObject) Rotation() mgl32.Quat { return o.rotation }
func (o *CollisionObject) Scale() mgl32.Vec3    { return o.scale }

// SetPosition, SetRotation, and SetScale invalidate the cached transform;
// the matrix and its inverse are rebuilt lazily on next use.
func (o *CollisionObject) SetPosition(p mgl32.Vec3) {
	o.position = p
	o.dirty = true
}

func (o *CollisionObject) SetRotation(r mgl32.Quat) {
	o.rotation = r
	o.dirty = true
}

func (o *CollisionObject) SetScale(s mgl32.Vec3) {
	o.scale = s
	o.dirty = true
}

func (o *CollisionObject) ensureMatrix() {
	if o.dirty {
		o.recompute()
	}
}

func (o *CollisionObject) recompute() {
	t := mgl32.Translate3D(o.position.X(), o.position.Y(), o.position.Z())
	r := o.rotation.Mat4()
	s := mgl32.Scale3D(o.scale.X(), o.scale.Y(), o.scale.Z())
	o.matrix = t.Mul4(r).Mul4(s)
	o.inverse = o.matrix.Inv()
	o.dirty = false
}

// WorldToLocal transforms a world-space point into the object's local
// frame via M^-1.
func (o *CollisionObject) WorldToLocal(w mgl32.Vec3) mgl32.Vec3 {
	o.ensureMatrix()
	v := o.inverse.Mul4x1(mgl32.Vec4{w.X(), w.Y(), w.Z(), 1})
	return v.Vec3()
}

// LocalToWorld transforms a local-space point into world space via M.
func (o *CollisionObject) LocalToWorld(l mgl32.Vec3) mgl32.Vec3 {
	o.ensureMatrix()
	v := o.matrix.Mul4x1(mgl32.Vec4{l.X(), l.Y(), l.Z(), 1})
	return v.Vec3()
}

// mat4To3 truncates a Mat4 to its upper-left 3x3, the same extraction the
// teacher's QuatToMat3 (physics.go) uses to pull a rotation out of a Mat4.
func mat4To3(m mgl32.Mat4) mgl32.Mat3 {
	return mgl32.Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// normalMat3 returns (M^-1)^T truncated to 3x3, the correct adjugate
// transform for normals under non-uniform scale.
func (o *CollisionObject) normalMat3() mgl32.Mat3 {
	o.ensureMatrix()
	return mat4To3(o.inverse).Transpose()
}

// GetSignedDistance transforms w to local space, samples the SDF, and
// applies min(scale) as a first-order uniform-scale correction. For
// non-uniform scale this under-estimates distance magnitude — a documented
// approximation, not a bug (spec.md §4.4, §9). Invalid objects return
// +Inf, matching the SDF-query-on-invalid-object fallback in spec.md §7.
func (o *CollisionObject) GetSignedDistance(w mgl32.Vec3) float32 {
	if !o.Valid() {
		return float32(math.Inf(1))
	}
	local := o.WorldToLocal(w)
	d := o.SDF.Sample(local)
	minScale := o.scale.X()
	if o.scale.Y() < minScale {
		minScale = o.scale.Y()
	}
	if o.scale.Z() < minScale {
		minScale = o.scale.Z()
	}
	return d * minScale
}

// GetNormal transforms w to local space, takes the unnormalized local SDF
// gradient, transforms it by the adjugate (M^-1)^T, and re-normalizes.
// Invalid objects return (0,1,0), the documented safe default. A (near)
// zero-length gradient returns the zero vector, so callers can detect it
// and skip the collision response.
func (o *CollisionObject) GetNormal(w mgl32.Vec3) mgl32.Vec3 {
	if !o.Valid() {
		return mgl32.Vec3{0, 1, 0}
	}
	local := o.WorldToLocal(w)
	grad := o.SDF.Gradient(local)
	world := o.normalMat3().Mul3x1(grad)
	if world.Len() < 1e-8 {
		return mgl32.Vec3{}
	}
	return world.Normalize()
}

// WorldAABB transforms all 8 corners of the local mesh AABB by M and
// returns the componentwise extrema — the AABB of the rotated OBB, which
// is tighter than transforming the local AABB's min/max directly whenever
// rotation is non-trivial, and always conservative.
func (o *CollisionObject) WorldAABB() (min, max mgl32.Vec3) {
	o.ensureMatrix()
	corners := o.Mesh.Bounds.Corners()
	min = mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	max = mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	for _, c := range corners {
		w := o.LocalToWorld(c)
		min = componentMin(min, w)
		max = componentMax(max, w)
	}
	return min, max
}

// UpdatePhysics advances position by Velocity*dt; static objects never
// move.
func (o *CollisionObject) UpdatePhysics(dt float32) {
	if o.IsStatic() {
		return
	}
	o.SetPosition(o.position.Add(o.Velocity.Mul(dt)))
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
