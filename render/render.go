// Package render defines the drawing boundary the simulation loop calls
// into every frame. GPU rendering is explicitly out of scope (spec.md §1
// Non-goals); this package exists so cmd/* binaries have a real seam to
// call through, with NoOp as the only implementation this module ships.
package render

import (
	"github.com/gekko3d/sdfcollide/object"
	"github.com/gekko3d/sdfcollide/particle"
)

// Renderer draws the current simulation state. Implementations are called
// once per frame, after Simulation.Update, for every live particle system
// and collision object.
type Renderer interface {
	RenderParticles(particles []particle.Particle)
	RenderObject(o *object.CollisionObject)
}

// NoOp is a Renderer that draws nothing. Useful for headless runs and for
// the cmd/* binaries until a real graphics backend is wired in.
type NoOp struct{}

func (NoOp) RenderParticles(particles []particle.Particle) {}
func (NoOp) RenderObject(o *object.CollisionObject)         {}
