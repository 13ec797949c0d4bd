package primitive

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// ChessboardPlane is an unbounded plane whose material alternates between
// two indices on a unit grid in its local XZ plane, the classic two-tone
// floor used for reflective/refractive showcase scenes.
type ChessboardPlane struct {
	Transform          Transform
	MaterialA, MaterialB int
	normal             core.Vec3
}

func NewChessboardPlane(objectToWorld core.M4, materialA, materialB int) *ChessboardPlane {
	return &ChessboardPlane{
		Transform: NewTransform(objectToWorld),
		MaterialA: materialA,
		MaterialB: materialB,
		normal:    core.NewVec3(0, 1, 0),
	}
}

func (c *ChessboardPlane) MaterialIndex() int { return c.MaterialA }

func (c *ChessboardPlane) WorldAABB() core.AABB {
	inf := math.Inf(1)
	return core.NewAABB(core.NewVec3(-inf, -inf, -inf), core.NewVec3(inf, inf, inf))
}

func (c *ChessboardPlane) Centroid() core.Vec3 { return core.Vec3{} }

func (c *ChessboardPlane) ComputeTangent(_, surfacePoint core.Vec3) core.Vec3 {
	return c.Transform.WorldToObject.TransformPoint(surfacePoint).Normalize()
}

func (c *ChessboardPlane) Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool) {
	local := c.Transform.Localize(ray)

	denom := local.Direction.Dot(c.normal)
	if math.Abs(denom) < 1e-6 {
		return Interaction{}, false
	}

	lambda := c.normal.Negate().Dot(local.Origin) / denom
	if lambda < 1e-6 {
		return Interaction{}, false
	}

	localPoint := local.At(lambda)

	unitX := int(math.Floor(localPoint.X))
	unitZ := int(math.Floor(localPoint.Z))
	materialIndex := c.MaterialA
	if (unitX+unitZ)%2 != 0 {
		materialIndex = c.MaterialB
	}

	var inter Interaction
	inter.Hit = true
	inter.MaterialIndex = materialIndex
	inter.Primitive = c
	c.Transform.Delocalize(&inter, localPoint, c.normal, ray.Origin)

	if inter.Distance < tMin || inter.Distance > tMax {
		return Interaction{}, false
	}
	return inter, true
}
