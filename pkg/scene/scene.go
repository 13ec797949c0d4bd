package scene

import (
	"fmt"

	"github.com/guglielmo-pathtracer/raytracer/pkg/accel"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/light"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
)

// Scene owns every resource a render needs: materials, finite primitives,
// unbounded planes and lights. It is mutable while being assembled and
// becomes read-only once Freeze builds the acceleration structure.
type Scene struct {
	Materials  []Material
	Primitives []primitive.Primitive
	Planes     []primitive.Primitive
	Lights     []light.Light

	bvh    *accel.BVH
	frozen bool
}

// New returns an empty, mutable scene.
func New() *Scene {
	return &Scene{}
}

// AddMaterial appends a material and returns its index for primitives to
// reference.
func (s *Scene) AddMaterial(m Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddPrimitive adds a bounded primitive to the scene. Unbounded primitives
// (infinite planes) must go through AddPlane instead.
func (s *Scene) AddPrimitive(p primitive.Primitive) {
	if s.frozen {
		panic("scene: AddPrimitive called after Freeze")
	}
	s.Primitives = append(s.Primitives, p)
}

// AddPlane registers an unbounded primitive, excluded from the BVH and
// tested separately on every ray.
func (s *Scene) AddPlane(p primitive.Primitive) {
	if s.frozen {
		panic("scene: AddPlane called after Freeze")
	}
	s.Planes = append(s.Planes, p)
}

// AddLight appends a light source.
func (s *Scene) AddLight(l light.Light) {
	if s.frozen {
		panic("scene: AddLight called after Freeze")
	}
	s.Lights = append(s.Lights, l)
}

// Material looks up a material by index, guarding against a primitive
// referencing a material that was never registered.
func (s *Scene) Material(index int) Material {
	if index < 0 || index >= len(s.Materials) {
		return DefaultMaterial()
	}
	return s.Materials[index]
}

// Freeze builds the BVH over s.Primitives using the given split heuristic
// and bucket count, and marks the scene read-only. It must be called
// exactly once, after every primitive/light/material has been added and
// before the first ray is traced.
func (s *Scene) Freeze(method accel.SplitMethod, sahBuckets int) error {
	if s.frozen {
		return fmt.Errorf("scene: Freeze called twice")
	}
	if len(s.Primitives) == 0 && len(s.Planes) == 0 {
		return fmt.Errorf("scene: no primitives to render")
	}
	s.bvh = accel.Build(s.Primitives, method, sahBuckets)
	s.frozen = true
	return nil
}

// BVH returns the frozen acceleration structure. Panics if called before
// Freeze, since no render loop should run against an unfrozen scene.
func (s *Scene) BVH() *accel.BVH {
	if !s.frozen {
		panic("scene: BVH requested before Freeze")
	}
	return s.bvh
}

// Intersect tests a ray against the BVH-accelerated bounded primitives and
// then the unbounded planes, returning the closest hit of either set.
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (primitive.Interaction, bool) {
	best, hit := s.BVH().Intersect(ray, tMin, tMax, accel.Closest)
	closest := tMax
	if hit {
		closest = best.Distance
	}

	for _, pl := range s.Planes {
		if inter, ok := pl.Intersect(ray, tMin, closest); ok {
			best = inter
			hit = true
			closest = inter.Distance
		}
	}

	if hit && best.Primitive != nil {
		best.Tangent = best.Primitive.ComputeTangent(best.Normal, best.Point)
	}
	return best, hit
}

// IntersectAny reports whether any primitive occludes the segment
// [tMin, tMax] along ray, stopping at the first match (used for shadow
// rays against opaque occluders).
func (s *Scene) IntersectAny(ray core.Ray, tMin, tMax float64) bool {
	if _, hit := s.BVH().Intersect(ray, tMin, tMax, accel.FirstWithinDistance); hit {
		return true
	}
	for _, pl := range s.Planes {
		if _, ok := pl.Intersect(ray, tMin, tMax); ok {
			return true
		}
	}
	return false
}
