package primitive

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Disk is a bounded flat circle of radius Radius (default 1) in the object-space XZ-ish
// plane (normal (0, 1, 0)), used both as a renderable primitive and as the
// emitting surface for area lights.
type Disk struct {
	Transform Transform
	Material  int
	Radius    float64
	normal    core.Vec3
	localAABB core.AABB
}

func NewDisk(objectToWorld core.M4, material int, radius float64) *Disk {
	if radius <= 0 {
		radius = 1
	}
	return &Disk{
		Transform: NewTransform(objectToWorld),
		Material:  material,
		Radius:    radius,
		normal:    core.NewVec3(0, 1, 0),
		localAABB: core.NewAABB(core.NewVec3(-radius, 0, -radius), core.NewVec3(radius, 0, radius)),
	}
}

func (d *Disk) MaterialIndex() int      { return d.Material }
func (d *Disk) WorldAABB() core.AABB    { return d.Transform.WorldBounds(d.localAABB) }
func (d *Disk) Centroid() core.Vec3     { return d.WorldAABB().Center() }

func (d *Disk) ComputeTangent(_, surfacePoint core.Vec3) core.Vec3 {
	origin := d.Transform.ObjectToWorld.TransformPoint(core.Vec3{})
	return origin.Subtract(surfacePoint).Normalize()
}

func (d *Disk) Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool) {
	local := d.Transform.Localize(ray)

	denom := local.Direction.Dot(d.normal)
	if math.Abs(denom) < 1e-6 {
		return Interaction{}, false
	}

	lambda := d.normal.Negate().Dot(local.Origin) / denom
	localPoint := local.At(lambda)
	if lambda < 1e-6 || localPoint.Length() > d.Radius {
		return Interaction{}, false
	}

	var inter Interaction
	inter.Hit = true
	inter.MaterialIndex = d.Material
	inter.Primitive = d
	d.Transform.Delocalize(&inter, localPoint, d.normal, ray.Origin)

	if inter.Distance < tMin || inter.Distance > tMax {
		return Interaction{}, false
	}
	return inter, true
}

// SampleUniform returns a world-space point and world-space normal sampled
// uniformly over the disk's surface, used by area-light sampling.
func (d *Disk) SampleUniform(s *core.Sampler) (point, normal core.Vec3) {
	u := d.Radius * math.Sqrt(s.Float64())
	theta := 2 * math.Pi * s.Float64()
	local := core.NewVec3(u*math.Cos(theta), 0, u*math.Sin(theta))
	world := d.Transform.ObjectToWorld.TransformPoint(local)
	n := d.Transform.NormalMatrix.TransformVector(d.normal).Normalize()
	return world, n
}

// Area returns the disk's world-space surface area, approximated assuming
// uniform scale (exact for the scene-construction conventions used here).
func (d *Disk) Area() float64 {
	p0 := d.Transform.ObjectToWorld.TransformPoint(core.NewVec3(d.Radius, 0, 0))
	origin := d.Transform.ObjectToWorld.TransformPoint(core.Vec3{})
	worldRadius := p0.Subtract(origin).Length()
	return math.Pi * worldRadius * worldRadius
}
