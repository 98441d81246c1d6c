// Package objfile loads the ASCII Wavefront OBJ subset spec.md §6 names:
// "v x y z" vertex lines and "f ..." face lines (with fan triangulation
// for faces of more than 3 vertices), ignoring everything else. Grounded
// on the teacher's LoadVoxFile (vox.go): a single os.Open, a single
// top-to-bottom read loop, plain errors.New for hard failures.
package objfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d/sdfcollide/geom"
	"github.com/gekko3d/sdfcollide/logx"
	"github.com/gekko3d/sdfcollide/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoFaces is returned when a file contains vertices but no usable face.
var ErrNoFaces = errors.New("objfile: no triangles produced from file")

// Load reads path and builds a Mesh from its "v"/"f" lines. Malformed
// vertex lines are skipped with a warning (the file may still be usable);
// a face referencing an out-of-range vertex index, or a read failure, is a
// hard error — spec.md §6 treats those as unrecoverable.
func Load(path string, logger logx.Logger) (*mesh.Mesh, error) {
	logger = logx.Or(logger)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}
	defer file.Close()

	var vertices []mgl32.Vec3
	var triangles []geom.Triangle

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, ok := parseVertex(fields[1:])
			if !ok {
				logger.Warnf("objfile: %s:%d: malformed vertex line, skipping", path, lineNo)
				continue
			}
			vertices = append(vertices, v)

		case "f":
			faceTris, err := parseFace(fields[1:], vertices)
			if err != nil {
				return nil, fmt.Errorf("objfile: %s:%d: %w", path, lineNo, err)
			}
			triangles = append(triangles, faceTris...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}

	if len(triangles) == 0 {
		return nil, ErrNoFaces
	}

	m, err := mesh.New(triangles)
	if err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}
	logger.Infof("objfile: loaded %s: %d vertices, %d triangles", path, len(vertices), len(m.Triangles))
	return m, nil
}

func parseVertex(fields []string) (mgl32.Vec3, bool) {
	if len(fields) < 3 {
		return mgl32.Vec3{}, false
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return mgl32.Vec3{}, false
		}
		v[i] = float32(f)
	}
	return v, true
}

// parseFace resolves a face's vertex indices (the "v/vt/vn" OBJ index
// grouping, of which only the vertex index is used) and fan-triangulates:
// a face with vertices (0,1,2,3,4) becomes (0,1,2),(0,2,3),(0,3,4).
func parseFace(fields []string, vertices []mgl32.Vec3) ([]geom.Triangle, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face with fewer than 3 vertices")
	}

	indices := make([]int, len(fields))
	for i, f := range fields {
		idxStr := strings.SplitN(f, "/", 2)[0]
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, fmt.Errorf("malformed face index %q: %w", f, err)
		}
		// OBJ indices are 1-based; negative indices count from the end.
		if idx < 0 {
			idx = len(vertices) + idx + 1
		}
		if idx < 1 || idx > len(vertices) {
			return nil, fmt.Errorf("face index %d out of range (have %d vertices)", idx, len(vertices))
		}
		indices[i] = idx - 1
	}

	tris := make([]geom.Triangle, 0, len(indices)-2)
	for i := 1; i < len(indices)-1; i++ {
		tris = append(tris, geom.NewTriangle(
			vertices[indices[0]],
			vertices[indices[i]],
			vertices[indices[i+1]],
		))
	}
	return tris, nil
}
