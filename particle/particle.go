// Package particle implements the point-particle array (C6): position,
// velocity, radius, mass, with a cached inverse mass, plus plain advection.
package particle

import (
	"github.com/gekko3d/sdfcollide/randsrc"
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is a point mass with a collision radius.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Radius   float32
	Mass     float32
}

// InverseMass is 1/Mass if Mass>0, else the static sentinel 0.
func (p *Particle) InverseMass() float32 {
	if p.Mass > 0 {
		return 1.0 / p.Mass
	}
	return 0
}

// System is an array of particles advanced together each tick.
type System struct {
	Particles []Particle
}

// NewUniformInBox creates count particles with the given radius and mass,
// positions drawn uniformly from [min,max], zero initial velocity, using
// src for reproducible placement (spec.md C8).
func NewUniformInBox(count int, min, max mgl32.Vec3, radius, mass float32, src *randsrc.Source) *System {
	particles := make([]Particle, count)
	for i := range particles {
		particles[i] = Particle{
			Position: mgl32.Vec3{
				src.Range(min.X(), max.X()),
				src.Range(min.Y(), max.Y()),
				src.Range(min.Z(), max.Z()),
			},
			Radius: radius,
			Mass:   mass,
		}
	}
	return &System{Particles: particles}
}

// Advance integrates every particle's position by Velocity*dt.
func (s *System) Advance(dt float32) {
	for i := range s.Particles {
		s.Particles[i].Position = s.Particles[i].Position.Add(s.Particles[i].Velocity.Mul(dt))
	}
}
