// Command collision_simulation runs the object-vs-object demo: two dynamic
// copies of a mesh and one static copy, scaled by (3,1,3), bounce inside a
// containment box. Same window-loop shape as cmd/particle_simulation, grounded on the
// teacher's voxelrt/rt_main.go.
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
	"github.com/gekko3d/sdfcollide/render"
	"github.com/gekko3d/sdfcollide/sdfgrid"
	"github.com/gekko3d/sdfcollide/sim"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	objPath := flag.String("obj", "data/bunny.obj", "path to the OBJ mesh to load")
	flag.Parse()

	resolution := 32
	if flag.NArg() > 0 {
		r, err := strconv.Atoi(flag.Arg(0))
		if err != nil || r <= 0 {
			fmt.Fprintf(os.Stderr, "collision_simulation: resolution must be a positive integer, got %q\n", flag.Arg(0))
			os.Exit(1)
		}
		resolution = r
	}

	logger := logx.NewDefaultLogger("collision_simulation", false)

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

	dynA := object.New(m, sdf, 1)
	dynA.SetPosition(mgl32.Vec3{-2, 0, 0})
	dynA.Velocity = mgl32.Vec3{1, 0, 0}

	dynB := object.New(m, sdf, 1)
	dynB.SetPosition(mgl32.Vec3{2, 0, 0})
	dynB.Velocity = mgl32.Vec3{-1, 0, 0}

	static := object.New(m, sdf, 0)
	static.SetPosition(mgl32.Vec3{0, -3, 0})
	static.SetScale(mgl32.Vec3{3, 1, 3})

	boundsMin := mgl32.Vec3{-10, -10, -10}
	boundsMax := mgl32.Vec3{10, 10, 10}
	objects := []*object.CollisionObject{dynA, dynB, static}

	simulation := sim.New(boundsMin, boundsMax, &particle.System{}, objects, logger)
	renderer := render.NoOp{}

	if err := glfw.Init(); err != nil {
		logger.Errorf("glfw init failed: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	window, err := glfw.CreateWindow(1280, 720, "Collision Simulation", nil, nil)
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

		for _, o := range simulation.Objects {
			renderer.RenderObject(o)
		}
	}
}
