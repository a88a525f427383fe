package mesh

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/artglb/pkg/math"
)

// CentimetersPerMeter converts catalog dimensions to glTF units (1 unit = 1 m).
const CentimetersPerMeter = 100.0

// CentimetersToMeters converts a length in centimeters to meters.
func CentimetersToMeters(cm float64) float64 {
	return cm / CentimetersPerMeter
}

// Quad builds a planar rectangle of the given size in meters, centered at the
// origin in the XY plane and facing +Z.
//
// Vertex order is bottom-left, bottom-right, top-right, top-left. Texture
// coordinates put image row 0 (the top of the picture) at the top edge, so
// the V axis runs opposite to model Y.
func Quad(width, height float64) (*Geometry, error) {
	if !validDimension(width) || !validDimension(height) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidDimensions, width, height)
	}

	// The half extents must survive narrowing to float32.
	hw := float32(width / 2)
	hh := float32(height / 2)
	if !validDimension(float64(hw)) || !validDimension(float64(hh)) {
		return nil, fmt.Errorf("%w: %gx%g m is outside float32 range", ErrInvalidDimensions, width, height)
	}

	forward := math.Vec3{X: 0, Y: 0, Z: 1}

	g := &Geometry{
		Positions: []math.Vec3{
			{X: -hw, Y: -hh, Z: 0}, // bottom-left
			{X: hw, Y: -hh, Z: 0},  // bottom-right
			{X: hw, Y: hh, Z: 0},   // top-right
			{X: -hw, Y: hh, Z: 0},  // top-left
		},
		Normals: []math.Vec3{forward, forward, forward, forward},
		TexCoords: []math.Vec2{
			{X: 0, Y: 1},
			{X: 1, Y: 1},
			{X: 1, Y: 0},
			{X: 0, Y: 0},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}

	// Subnormal half extents can still collapse the triangles.
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}
	return g, nil
}

// QuadFromCentimeters builds a quad from catalog dimensions in centimeters.
func QuadFromCentimeters(widthCM, heightCM float64) (*Geometry, error) {
	if !validDimension(widthCM) || !validDimension(heightCM) {
		return nil, fmt.Errorf("%w: %gcm x %gcm", ErrInvalidDimensions, widthCM, heightCM)
	}
	return Quad(CentimetersToMeters(widthCM), CentimetersToMeters(heightCM))
}

func validDimension(v float64) bool {
	return v > 0 && !gomath.IsInf(v, 0) && !gomath.IsNaN(v)
}
