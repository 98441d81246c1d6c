package particle

import (
	"testing"

	"github.com/gekko3d/sdfcollide/randsrc"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewUniformInBoxStaysInBounds(t *testing.T) {
	min := mgl32.Vec3{-1, -1, -1}
	max := mgl32.Vec3{1, 1, 1}
	sys := NewUniformInBox(100, min, max, 0.1, 1, randsrc.NewSeeded(42))

	if len(sys.Particles) != 100 {
		t.Fatalf("expected 100 particles, got %d", len(sys.Particles))
	}
	for _, p := range sys.Particles {
		if p.Position.X() < min.X() || p.Position.X() > max.X() ||
			p.Position.Y() < min.Y() || p.Position.Y() > max.Y() ||
			p.Position.Z() < min.Z() || p.Position.Z() > max.Z() {
			t.Errorf("particle out of bounds: %v", p.Position)
		}
		if p.InverseMass() != 1 {
			t.Errorf("expected inverse mass 1 for mass 1, got %f", p.InverseMass())
		}
	}
}

func TestAdvance(t *testing.T) {
	sys := &System{Particles: []Particle{{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{1, 0, 0}}}}
	sys.Advance(0.5)
	if sys.Particles[0].Position != (mgl32.Vec3{0.5, 0, 0}) {
		t.Errorf("expected position (0.5,0,0), got %v", sys.Particles[0].Position)
	}
}

func TestStaticParticleInverseMassZero(t *testing.T) {
	p := Particle{Mass: 0}
	if p.InverseMass() != 0 {
		t.Errorf("expected 0 inverse mass for static sentinel, got %f", p.InverseMass())
	}
}
