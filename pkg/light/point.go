package light

import "github.com/guglielmo-pathtracer/raytracer/pkg/core"

// Point is an isotropic point light.
type Point struct {
	Origin    core.Vec3
	Intensity core.Vec3
}

func NewPoint(origin, intensity core.Vec3) *Point {
	return &Point{Origin: origin, Intensity: intensity}
}

func (p *Point) Position() core.Vec3 { return p.Origin }

func (p *Point) EmissionOrigin() core.Vec3 { return p.Origin }

// EmissionNormal returns the zero vector: a point light emits isotropically
// and has no preferred facing direction.
func (p *Point) EmissionNormal() core.Vec3 { return core.Vec3{} }

func (p *Point) TotalIntensity() core.Vec3 { return p.Intensity }

func (p *Point) Radiance(point core.Vec3, world Occluder, useOcclusion, useAttenuation bool) core.Vec3 {
	if occluded(p.Origin, point, world, useOcclusion) {
		return core.Vec3{}
	}
	return p.Intensity.Multiply(attenuation(p.Origin, point, useAttenuation))
}
