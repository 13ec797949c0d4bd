// Package light implements point, directional-spot, Gaussian-spot and area
// light sources, each responsible for its own radiance and occlusion test.
package light

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Occluder is the minimal scene surface the lighting package needs: a
// shadow-ray test in which any geometry, transparent or not, blocks the
// ray. Implemented by
// *scene.Scene; kept as an interface here so pkg/light never imports
// pkg/scene (which imports pkg/light).
type Occluder interface {
	IntersectAny(ray core.Ray, tMin, tMax float64) bool
}

// Emitter is implemented by lights that can act as photon sources: it
// exposes the data traceCausticPhotons needs to build an emission basis,
// kept separate from Light since not every consumer needs it.
type Emitter interface {
	EmissionOrigin() core.Vec3
	// EmissionNormal returns the light's facing direction, or the zero
	// vector for an isotropic emitter with no preferred direction.
	EmissionNormal() core.Vec3
	TotalIntensity() core.Vec3
}

// Light is any source of direct illumination.
type Light interface {
	// Radiance returns the light's contribution at a surface point,
	// already folded in with attenuation and occlusion.
	Radiance(point core.Vec3, world Occluder, useOcclusion, useAttenuation bool) core.Vec3

	// Position returns the light's world-space origin, used to build a
	// shadow ray and for light-sampling PDFs.
	Position() core.Vec3
}

const occlusionEpsilon = 1e-3

func occluded(origin, point core.Vec3, world Occluder, useOcclusion bool) bool {
	if !useOcclusion {
		return false
	}
	dir := point.Subtract(origin).Normalize()
	target := point.Subtract(dir.Multiply(occlusionEpsilon))
	dist := target.Subtract(origin).Length()
	return world.IntersectAny(core.NewRay(origin, dir), occlusionEpsilon, dist)
}

func attenuation(origin, point core.Vec3, useAttenuation bool) float64 {
	if !useAttenuation {
		return 1
	}
	d := math.Max(point.Subtract(origin).Length(), 1.0)
	return 1.0 / (d * d)
}
