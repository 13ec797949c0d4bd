package core

// Ray is a half-line in world or local space. Direction is expected to be
// unit length once localized into a primitive's object space.
type Ray struct {
	Origin    Vec3
	Direction Vec3

	// RefractiveIndex is the refractive index of the medium the ray is
	// currently travelling through. Rays spawned by reflection/refraction
	// at a dielectric boundary carry the index of their half-space.
	RefractiveIndex float64
}

// NewRay creates a ray with the default medium refractive index (air, 1.0).
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, RefractiveIndex: 1.0}
}

// NewRayTo creates a ray from origin toward target.
func NewRayTo(origin, target Vec3) Ray {
	return NewRay(origin, target.Subtract(origin).Normalize())
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Offset returns a copy of the ray with its origin displaced by epsilon
// along dir, used to avoid self-intersection when spawning child rays.
func (r Ray) Offset(origin, dir Vec3, epsilon float64) Ray {
	r2 := r
	r2.Origin = origin.Add(dir.Multiply(epsilon))
	r2.Direction = dir
	return r2
}
