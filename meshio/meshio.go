// Package meshio reads and writes meshes on disk. The engine itself
// never touches files; everything here sits in front of it.
package meshio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meshkit/meshdoctor/mesh"
)

// ErrDestinationExists reports a writer refusing to clobber an
// existing file.
var ErrDestinationExists = errors.New("destination file already exists")

// WriteSpec names the destination and encoding for WriteMesh.
type WriteSpec struct {
	Path   string
	Binary bool
}

// ReadMesh reads a mesh file based on extension.
func ReadMesh(filename string) (*mesh.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".vtk":
		return ReadVTK(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// WriteMesh writes a mesh to spec.Path, picking the format from the
// extension. Overwriting an existing destination is refused as a user
// error, never silently clobbered.
func WriteMesh(m *mesh.Mesh, spec WriteSpec) error {
	ext := strings.ToLower(filepath.Ext(spec.Path))
	switch ext {
	case ".vtk":
		return WriteVTK(m, spec)
	default:
		return fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
