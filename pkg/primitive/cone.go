package primitive

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Cone is a unit-height, unit-base-radius cone apex-down at the object
// origin, opening toward +Y, capped implicitly at y in [0, 1].
type Cone struct {
	Transform Transform
	Material  int
	localAABB core.AABB
}

func NewCone(objectToWorld core.M4, material int) *Cone {
	return &Cone{
		Transform: NewTransform(objectToWorld),
		Material:  material,
		localAABB: core.NewAABB(core.NewVec3(-1, 0, -1), core.NewVec3(1, 1, 1)),
	}
}

func (c *Cone) MaterialIndex() int   { return c.Material }
func (c *Cone) WorldAABB() core.AABB { return c.Transform.WorldBounds(c.localAABB) }
func (c *Cone) Centroid() core.Vec3  { return c.WorldAABB().Center() }

func (c *Cone) ComputeTangent(core.Vec3, core.Vec3) core.Vec3 { return core.Vec3{} }

func (c *Cone) Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool) {
	local := c.Transform.Localize(ray)
	d, o := local.Direction, local.Origin

	a := d.X*d.X + d.Z*d.Z - d.Y*d.Y
	b := 2 * (o.X*d.X + o.Z*d.Z - o.Y*d.Y)
	cc := o.X*o.X + o.Z*o.Z - o.Y*o.Y

	radicand := b*b - 4*a*cc
	if radicand < 0 {
		return Interaction{}, false
	}

	var lambda float64
	if radicand == 0 {
		lambda = -b / (2 * a)
	} else {
		sq := math.Sqrt(radicand)
		l1 := (-b + sq) / (2 * a)
		l2 := (-b - sq) / (2 * a)
		if l1 > l2 {
			lambda = l2
		} else {
			lambda = l1
		}
	}
	if lambda < 0 {
		return Interaction{}, false
	}

	localPoint := local.At(lambda)
	if localPoint.Y > 1 || localPoint.Y < 0 {
		return Interaction{}, false
	}

	localNormal := core.NewVec3(2*localPoint.X, -2*localPoint.Y, 2*localPoint.Z).Normalize()

	var inter Interaction
	inter.Hit = true
	inter.MaterialIndex = c.Material
	inter.Primitive = c
	c.Transform.Delocalize(&inter, localPoint, localNormal, ray.Origin)

	if inter.Distance < tMin || inter.Distance > tMax {
		return Interaction{}, false
	}
	return inter, true
}
