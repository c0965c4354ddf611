package mesh

import (
	"errors"
	"fmt"
)

// ErrMalformedStream reports a face-stream buffer whose declared counts
// do not match its contents.
var ErrMalformedStream = errors.New("malformed face stream")

// FaceStream is the explicit per-face connectivity of a polyhedral
// cell. Face point order encodes outward orientation. FaceStream has
// value semantics: mutation operations return a new, independent
// instance.
type FaceStream struct {
	faces [][]int
}

// NewFaceStream builds a face stream from a face list. The input is
// deep-copied.
func NewFaceStream(faces [][]int) FaceStream {
	fs := FaceStream{faces: make([][]int, len(faces))}
	for i, f := range faces {
		fs.faces[i] = make([]int, len(f))
		copy(fs.faces[i], f)
	}
	return fs
}

// ParseFaceStream decodes the flat buffer layout
// [nFaces, n0, id..., n1, id..., ...]. A buffer whose declared counts
// do not match the consumed length fails with ErrMalformedStream, it
// is never silently truncated.
func ParseFaceStream(buf []int) (FaceStream, error) {
	if len(buf) == 0 {
		return FaceStream{}, fmt.Errorf("%w: empty buffer", ErrMalformedStream)
	}
	nFaces := buf[0]
	if nFaces < 0 {
		return FaceStream{}, fmt.Errorf("%w: negative face count %d", ErrMalformedStream, nFaces)
	}
	faces := make([][]int, 0, nFaces)
	pos := 1
	for f := 0; f < nFaces; f++ {
		if pos >= len(buf) {
			return FaceStream{}, fmt.Errorf("%w: buffer ends before face %d of %d",
				ErrMalformedStream, f, nFaces)
		}
		n := buf[pos]
		pos++
		if n < 0 {
			return FaceStream{}, fmt.Errorf("%w: face %d has negative point count %d",
				ErrMalformedStream, f, n)
		}
		if pos+n > len(buf) {
			return FaceStream{}, fmt.Errorf("%w: face %d declares %d points, %d remain",
				ErrMalformedStream, f, n, len(buf)-pos)
		}
		face := make([]int, n)
		copy(face, buf[pos:pos+n])
		faces = append(faces, face)
		pos += n
	}
	if pos != len(buf) {
		return FaceStream{}, fmt.Errorf("%w: %d trailing values after %d faces",
			ErrMalformedStream, len(buf)-pos, nFaces)
	}
	return FaceStream{faces: faces}, nil
}

// Dump is the exact inverse of ParseFaceStream.
func (fs FaceStream) Dump() []int {
	size := 1
	for _, f := range fs.faces {
		size += 1 + len(f)
	}
	buf := make([]int, 0, size)
	buf = append(buf, len(fs.faces))
	for _, f := range fs.faces {
		buf = append(buf, len(f))
		buf = append(buf, f...)
	}
	return buf
}

// NumFaces returns the face count.
func (fs FaceStream) NumFaces() int { return len(fs.faces) }

// NumPoints returns the total number of referenced support entries,
// duplicates included.
func (fs FaceStream) NumPoints() int {
	n := 0
	for _, f := range fs.faces {
		n += len(f)
	}
	return n
}

// Face returns a copy of face i.
func (fs FaceStream) Face(i int) []int {
	out := make([]int, len(fs.faces[i]))
	copy(out, fs.faces[i])
	return out
}

// Faces returns a deep copy of the face list.
func (fs FaceStream) Faces() [][]int {
	out := make([][]int, len(fs.faces))
	for i := range fs.faces {
		out[i] = fs.Face(i)
	}
	return out
}

// Clone returns an independent copy.
func (fs FaceStream) Clone() FaceStream {
	return NewFaceStream(fs.faces)
}

// FlipFaces reverses the point order of exactly the named faces and
// returns a new instance; unflipped faces are unchanged. An
// out-of-range face index is an input error.
func (fs FaceStream) FlipFaces(faceIndices []int) (FaceStream, error) {
	for _, fi := range faceIndices {
		if fi < 0 || fi >= len(fs.faces) {
			return FaceStream{}, fmt.Errorf("flip face index %d out of range [0,%d)",
				fi, len(fs.faces))
		}
	}
	out := fs.Clone()
	for _, fi := range faceIndices {
		f := out.faces[fi]
		for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
			f[i], f[j] = f[j], f[i]
		}
	}
	return out, nil
}

// Equal reports strict structural equality. Faces that differ only by
// rotation compare unequal; rotate with RotatedToLowest first for a
// rotation-insensitive comparison.
func (fs FaceStream) Equal(other FaceStream) bool {
	if len(fs.faces) != len(other.faces) {
		return false
	}
	for i, f := range fs.faces {
		g := other.faces[i]
		if len(f) != len(g) {
			return false
		}
		for j := range f {
			if f[j] != g[j] {
				return false
			}
		}
	}
	return true
}

// RotatedToLowest returns a copy with every face rotated so its lowest
// point index comes first. Orientation is preserved.
func (fs FaceStream) RotatedToLowest() FaceStream {
	out := fs.Clone()
	for _, f := range out.faces {
		if len(f) == 0 {
			continue
		}
		low := 0
		for i, id := range f {
			if id < f[low] {
				low = i
			}
		}
		rotated := make([]int, 0, len(f))
		rotated = append(rotated, f[low:]...)
		rotated = append(rotated, f[:low]...)
		copy(f, rotated)
	}
	return out
}
