// Package mesh describes indexed triangle geometry and builds the flat quad
// that carries a painting.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/artglb/pkg/math"
)

// Geometry errors.
var (
	ErrTooFewVertices    = errors.New("geometry needs at least 3 vertices")
	ErrAttributeCount    = errors.New("vertex attribute counts differ")
	ErrIndexCount        = errors.New("index count must be a positive multiple of 3")
	ErrIndexOutOfRange   = errors.New("index references a missing vertex")
	ErrInvalidDimensions = errors.New("width and height must be positive finite numbers")
	ErrTooManyVertices   = errors.New("vertex count exceeds 16-bit index range")
	ErrDegenerateFace    = errors.New("triangle has zero area")
)

// MaxVertices is the largest vertex count addressable by uint16 indices.
const MaxVertices = 1 << 16

// Geometry is an indexed triangle list with one normal and one texture
// coordinate per vertex.
type Geometry struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Indices   []uint16
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Validate checks that all attribute arrays describe the same vertex set,
// that every index resolves to a vertex and that no triangle is degenerate.
func (g *Geometry) Validate() error {
	n := len(g.Positions)
	if n < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewVertices, n)
	}
	if n > MaxVertices {
		return fmt.Errorf("%w: got %d", ErrTooManyVertices, n)
	}
	if len(g.Normals) != n || len(g.TexCoords) != n {
		return fmt.Errorf("%w: positions=%d normals=%d texcoords=%d",
			ErrAttributeCount, n, len(g.Normals), len(g.TexCoords))
	}
	if len(g.Indices) == 0 || len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: got %d", ErrIndexCount, len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: indices[%d]=%d, vertex count %d", ErrIndexOutOfRange, i, idx, n)
		}
	}
	for t := 0; t < g.TriangleCount(); t++ {
		if g.FaceNormal(t) == (math.Vec3{}) {
			return fmt.Errorf("%w: triangle %d", ErrDegenerateFace, t)
		}
	}
	return nil
}

// Bounds returns the component-wise minimum and maximum of all positions.
// Returns zero vectors for empty geometry.
func (g *Geometry) Bounds() (lo, hi math.Vec3) {
	if len(g.Positions) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	lo, hi = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// TriangleCount returns the number of triangles described by the indices.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// FaceNormal returns the unit normal of triangle t, following its winding.
// It is the zero vector when the triangle has no area.
func (g *Geometry) FaceNormal(t int) math.Vec3 {
	a := g.Positions[g.Indices[t*3]]
	b := g.Positions[g.Indices[t*3+1]]
	c := g.Positions[g.Indices[t*3+2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}
