package primitive

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Sphere is a unit sphere centered at the object-space origin, scaled and
// positioned by its Transform.
type Sphere struct {
	Transform Transform
	Material  int
	localAABB core.AABB
}

// NewSphere creates a unit sphere transformed by objectToWorld.
func NewSphere(objectToWorld core.M4, material int) *Sphere {
	return &Sphere{
		Transform: NewTransform(objectToWorld),
		Material:  material,
		localAABB: core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)),
	}
}

func (s *Sphere) MaterialIndex() int { return s.Material }

func (s *Sphere) WorldAABB() core.AABB { return s.Transform.WorldBounds(s.localAABB) }

func (s *Sphere) Centroid() core.Vec3 { return s.WorldAABB().Center() }

func (s *Sphere) ComputeTangent(normal, _ core.Vec3) core.Vec3 {
	yAxis := core.NewVec3(0, 1, 0)
	t := yAxis.Subtract(normal.Multiply(yAxis.Dot(normal)))
	if t.IsZero() {
		return core.NewVec3(1, 0, 0)
	}
	return t.Normalize()
}

// Intersect solves the sphere quadratic in local space, choosing the
// closest root that lies in front of the ray origin.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool) {
	local := s.Transform.Localize(ray)

	c := local.Origin.Negate()
	aMag := c.Dot(local.Direction)
	dMagSq := c.LengthSquared() - aMag*aMag
	if dMagSq > 1 {
		return Interaction{}, false
	}
	dMag := math.Sqrt(math.Max(0, dMagSq))

	bMag := math.Sqrt(math.Max(0, 1-dMag*dMag))
	t1 := aMag - bMag
	t2 := aMag + bMag

	t := t1
	if t < 1e-6 {
		t = t2
	}
	if t < 1e-6 {
		return Interaction{}, false
	}

	localPoint := local.At(t)
	localNormal := localPoint

	azimuthal := math.Atan2(localPoint.Y, localPoint.X)
	polar := math.Acos(core.NewVec3(0, 0, 1).Dot(localNormal))
	uv := core.NewVec2(azimuthal/(2*math.Pi)+0.5, polar/math.Pi)

	var inter Interaction
	inter.Hit = true
	inter.UV = uv
	inter.MaterialIndex = s.Material
	inter.Primitive = s
	s.Transform.Delocalize(&inter, localPoint, localNormal, ray.Origin)

	if inter.Distance < tMin || inter.Distance > tMax {
		return Interaction{}, false
	}
	return inter, true
}
