package primitive

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Plane is an unbounded surface through the object-space origin with
// normal (0, 1, 0) before transformation. Planes are never inserted into
// the BVH; scenes test them in a separate linear pass.
type Plane struct {
	Transform Transform
	Material  int
	normal    core.Vec3
}

func NewPlane(objectToWorld core.M4, material int) *Plane {
	return &Plane{Transform: NewTransform(objectToWorld), Material: material, normal: core.NewVec3(0, 1, 0)}
}

func (p *Plane) MaterialIndex() int { return p.Material }

// WorldAABB returns an infinite box; planes are excluded from BVH bucketing.
func (p *Plane) WorldAABB() core.AABB {
	inf := math.Inf(1)
	return core.NewAABB(core.NewVec3(-inf, -inf, -inf), core.NewVec3(inf, inf, inf))
}

func (p *Plane) Centroid() core.Vec3 { return core.Vec3{} }

func (p *Plane) ComputeTangent(_, surfacePoint core.Vec3) core.Vec3 {
	return p.Transform.WorldToObject.TransformPoint(surfacePoint).Normalize()
}

func (p *Plane) Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool) {
	local := p.Transform.Localize(ray)

	denom := local.Direction.Dot(p.normal)
	if math.Abs(denom) < 1e-6 {
		return Interaction{}, false
	}

	lambda := p.normal.Negate().Dot(local.Origin) / denom
	if lambda < 1e-6 {
		return Interaction{}, false
	}

	localPoint := local.At(lambda)

	var inter Interaction
	inter.Hit = true
	inter.MaterialIndex = p.Material
	inter.Primitive = p
	p.Transform.Delocalize(&inter, localPoint, p.normal, ray.Origin)

	if inter.Distance < tMin || inter.Distance > tMax {
		return Interaction{}, false
	}
	return inter, true
}
