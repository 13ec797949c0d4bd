package primitive

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Vertex is one corner of a Triangle, carrying the per-vertex attributes
// needed for smooth (Phong) shading and normal mapping.
type Vertex struct {
	Position  core.Vec3
	Normal    core.Vec3
	Tangent   core.Vec3
	Bitangent core.Vec3
	UV        core.Vec2
	HasUV     bool
}

// Triangle is a flat or smoothly-shaded triangle living in the shared
// object space of its owning TriangleMesh (no per-triangle Transform: the
// mesh applies a single transform to every vertex at load time, matching
// how most mesh loaders bake transforms rather than paying an inverse
// matrix multiply per intersection test).
type Triangle struct {
	V             [3]Vertex
	Material      int
	SmoothShading bool

	normal           core.Vec3
	crossProduct     core.Vec3
	baryDenominator  float64
	worldBounds      core.AABB
}

const triangleEpsilon = 1e-6

// NewTriangle builds a triangle from three already-world-space vertices.
func NewTriangle(v0, v1, v2 Vertex, material int, smoothShading bool) *Triangle {
	cross := v1.Position.Subtract(v0.Position).Cross(v2.Position.Subtract(v0.Position))
	t := &Triangle{
		V:               [3]Vertex{v0, v1, v2},
		Material:        material,
		SmoothShading:   smoothShading,
		crossProduct:    cross,
		normal:          cross.Normalize(),
		baryDenominator: 1.0 / cross.LengthSquared(),
	}
	t.worldBounds = core.NewAABBFromPoints(v0.Position, v1.Position, v2.Position)
	return t
}

func (t *Triangle) MaterialIndex() int   { return t.Material }
func (t *Triangle) WorldAABB() core.AABB { return t.worldBounds }
func (t *Triangle) Centroid() core.Vec3  { return t.worldBounds.Center() }

func (t *Triangle) ComputeTangent(_, _ core.Vec3) core.Vec3 {
	size := t.worldBounds.Size()
	return core.NewVec3(0, size.Y, size.Z).Normalize()
}

func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool) {
	denom := ray.Direction.Dot(t.normal)
	if math.Abs(denom) < triangleEpsilon {
		return Interaction{}, false
	}

	lambda := t.normal.Dot(t.V[0].Position.Subtract(ray.Origin)) / denom
	if lambda < tMin || lambda > tMax {
		return Interaction{}, false
	}

	point := ray.At(lambda)

	var bary [3]float64
	for i := 0; i < 3; i++ {
		a := t.V[(i+1)%3].Position.Subtract(point)
		b := t.V[(i+2)%3].Position.Subtract(point)
		sub := a.Cross(b)
		bary[i] = t.crossProduct.Dot(sub) * t.baryDenominator
		if bary[i] < -triangleEpsilon {
			return Interaction{}, false
		}
	}

	normal := t.normal
	var uv core.Vec2
	if t.V[0].HasUV {
		uv = t.V[0].UV.Multiply(bary[0]).Add(t.V[1].UV.Multiply(bary[1])).Add(t.V[2].UV.Multiply(bary[2]))
	}

	if t.SmoothShading {
		normal = t.V[0].Normal.Multiply(bary[0]).
			Add(t.V[1].Normal.Multiply(bary[1])).
			Add(t.V[2].Normal.Multiply(bary[2])).
			Normalize()
	}

	var inter Interaction
	inter.Hit = true
	inter.Point = point
	inter.Normal = normal
	inter.UV = uv
	inter.Distance = lambda
	inter.MaterialIndex = t.Material
	inter.Primitive = t
	return inter, true
}
