// Command particle_simulation runs the particle-in-mesh demo: a fixed
// mesh's static CollisionObject sits inside a containment box with 100
// particles placed at random positions. The particles start at rest and no
// force acts on them: wall and mesh collisions only move those that start
// overlapping a wall or the mesh, and their velocity stays zero. Grounded on the teacher's voxelrt/rt_main.go
// window loop (glfw.Init/CreateWindow/poll-update-render), generalized
// from a single VoxelRT App to this module's Simulation.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/gekko3d/sdfcollide/logx"
	"github.com/gekko3d/sdfcollide/object"
	"github.com/gekko3d/sdfcollide/objfile"
	"github.com/gekko3d/sdfcollide/particle"
	"github.com/gekko3d/sdfcollide/randsrc"
	"github.com/gekko3d/sdfcollide/render"
	"github.com/gekko3d/sdfcollide/sdfgrid"
	"github.com/gekko3d/sdfcollide/sim"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const particleCount = 100

func init() {
	runtime.LockOSThread()
}

func main() {
	objPath := flag.String("obj", "data/stanford-bunny.obj", "path to the OBJ mesh to load")
	flag.Parse()

	resolution := 64
	if flag.NArg() > 0 {
		r, err := strconv.Atoi(flag.Arg(0))
		if err != nil || r <= 0 {
			fmt.Fprintf(os.Stderr, "particle_simulation: resolution must be a positive integer, got %q\n", flag.Arg(0))
			os.Exit(1)
		}
		resolution = r
	}

	logger := logx.NewDefaultLogger("particle_simulation", false)

	m, err := objfile.Load(*objPath, logger)
	if err != nil {
		logger.Errorf("failed to load mesh: %v", err)
		os.Exit(1)
	}

	sdf, err := sdfgrid.Build(m, resolution, logger)
	if err != nil {
		logger.Errorf("failed to build SDF: %v", err)
		os.Exit(1)
	}

	bunny := object.New(m, sdf, 0)

	boundsMin := mgl32.Vec3{-5, -5, -5}
	boundsMax := mgl32.Vec3{5, 5, 5}
	particles := particle.NewUniformInBox(particleCount, boundsMin, boundsMax, 0.05, 1, randsrc.New())

	simulation := sim.New(boundsMin, boundsMax, particles, []*object.CollisionObject{bunny}, logger)
	renderer := render.NoOp{}

	if err := glfw.Init(); err != nil {
		logger.Errorf("glfw init failed: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	window, err := glfw.CreateWindow(1280, 720, "Particle Simulation", nil, nil)
	if err != nil {
		logger.Errorf("window creation failed: %v", err)
		os.Exit(1)
	}
	defer window.Destroy()

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	const dt = float32(1.0 / 60.0)
	for !window.ShouldClose() {
		glfw.PollEvents()
		simulation.Update(dt)

		renderer.RenderParticles(particles.Particles)
		for _, o := range simulation.Objects {
			renderer.RenderObject(o)
		}
	}
}
