// Package primitive defines the intersectable surface types and the
// transform machinery shared by all of them.
package primitive

import "github.com/guglielmo-pathtracer/raytracer/pkg/core"

// Interaction describes a ray/surface hit in world space.
type Interaction struct {
	Hit            bool
	Point          core.Vec3
	Normal         core.Vec3
	Tangent        core.Vec3
	UV             core.Vec2
	Distance       float64
	MaterialIndex  int
	Primitive      Primitive
}

// Primitive is any intersectable surface.
type Primitive interface {
	// Intersect tests the primitive against a world-space ray restricted to
	// [tMin, tMax], returning the closest valid hit.
	Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool)

	// ComputeTangent returns a tangent vector at a surface point, used to
	// build the TBN basis for anisotropic shading and normal mapping.
	ComputeTangent(normal, point core.Vec3) core.Vec3

	// WorldAABB returns the primitive's bounding box in world space.
	WorldAABB() core.AABB

	// Centroid returns the primitive's centroid in world space, used by
	// the BVH builder to bucket primitives along a split axis.
	Centroid() core.Vec3

	// MaterialIndex returns the index into the owning scene's material
	// table.
	MaterialIndex() int
}

// Transform bundles a primitive's object-to-world matrix and its inverse,
// shared by every concrete shape via composition (Go has no inheritance).
type Transform struct {
	ObjectToWorld core.M4
	WorldToObject core.M4
	NormalMatrix  core.M4
}

// NewTransform derives the inverse and normal matrices from an
// object-to-world matrix.
func NewTransform(objectToWorld core.M4) Transform {
	inv := objectToWorld.Inverse()
	return Transform{
		ObjectToWorld: objectToWorld,
		WorldToObject: inv,
		NormalMatrix:  inv.Transpose(),
	}
}

// Localize converts a world-space ray into the primitive's object space.
// The direction is renormalized so that shape intersection math that
// assumes a unit direction (e.g. the sphere quadratic) stays valid under
// non-uniform scale; the true world-space hit distance is recovered by
// Delocalize from the transformed point, not from the local ray parameter.
func (t Transform) Localize(ray core.Ray) core.Ray {
	origin := t.WorldToObject.TransformPoint(ray.Origin)
	dir := t.WorldToObject.TransformVector(ray.Direction).Normalize()
	return core.Ray{Origin: origin, Direction: dir, RefractiveIndex: ray.RefractiveIndex}
}

// Delocalize converts a local-space normal back to world space and
// recomputes the hit distance from the original world-space ray origin.
func (t Transform) Delocalize(interaction *Interaction, localPoint, localNormal core.Vec3, worldOrigin core.Vec3) {
	interaction.Point = t.ObjectToWorld.TransformPoint(localPoint)
	interaction.Normal = t.NormalMatrix.TransformVector(localNormal).Normalize()
	interaction.Distance = interaction.Point.Subtract(worldOrigin).Length()
}

// WorldBounds transforms a local-space AABB into world space.
func (t Transform) WorldBounds(local core.AABB) core.AABB {
	return local.Transform(t.ObjectToWorld)
}
