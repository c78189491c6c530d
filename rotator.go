package variogram

import (
	"math"

	mat2d "github.com/flywave/go3d/float64/mat2"
	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
)

func DegToRad(angle float64) float64 {
	return angle * math.Pi / 180
}

func RadToDeg(angle float64) float64 {
	return angle * 180 / math.Pi
}

type Rotator struct {
	Degrees float64
}

func ZERO() Rotator {
	return Rotator{0}
}

func (r *Rotator) Add(degrees float64) {
	r.Degrees += degrees
}

func (r *Rotator) AddScaled(degrees, scale float64) {
	r.Degrees += degrees * scale
}

func (r Rotator) RotateVector(v vec2d.T) vec2d.T {
	v2 := v
	mat := r.RotationMatrix()
	mat.TransformVec2(&v2)
	return v2
}

func (r Rotator) RotationMatrix() (m mat2d.T) {
	rad := DegToRad(r.Degrees)

	c := math.Cos(rad)
	s := math.Sin(rad)

	m[0][0] = c
	m[0][1] = -s
	m[1][0] = s
	m[1][1] = c

	return m
}

// PlaneBasis is an orthonormal pair spanning the cross-section plane of an
// anisotropy sweep. Direction(theta) maps a plane angle back to 3D.
type PlaneBasis struct {
	U, V vec3d.T
}

// XYBasis is the horizontal cross-section, the default for 2D data.
func XYBasis() PlaneBasis {
	return PlaneBasis{U: vec3d.T{1, 0, 0}, V: vec3d.T{0, 1, 0}}
}

// NewPlaneBasis builds an orthonormal basis of the plane with the given
// normal.
func NewPlaneBasis(normal vec3d.T) PlaneBasis {
	n := normal.Normalized()
	// Pick the world axis least aligned with the normal as the seed.
	seed := vec3d.T{1, 0, 0}
	if math.Abs(n[0]) > math.Abs(n[1]) {
		seed = vec3d.T{0, 1, 0}
	}
	u := vec3d.Cross(&n, &seed)
	u = u.Normalized()
	v := vec3d.Cross(&n, &u)
	v = v.Normalized()
	return PlaneBasis{U: u, V: v}
}

// Direction returns the unit 3D direction at plane angle rad: the basis U
// vector turned in-plane by a Rotator through that angle.
func (b PlaneBasis) Direction(rad float64) vec3d.T {
	r := ZERO()
	r.Add(RadToDeg(rad))
	p := r.RotateVector(vec2d.T{1, 0})
	d := vec3d.T{
		p[0]*b.U[0] + p[1]*b.V[0],
		p[0]*b.U[1] + p[1]*b.V[1],
		p[0]*b.U[2] + p[1]*b.V[2],
	}
	return d.Normalized()
}

// Normal returns the plane normal U x V.
func (b PlaneBasis) Normal() vec3d.T {
	n := vec3d.Cross(&b.U, &b.V)
	return n.Normalized()
}
