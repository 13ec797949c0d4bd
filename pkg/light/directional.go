package light

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// DirectionalSpot is a cone-restricted spotlight: the surface receives
// intensity scaled by cos(theta) between the light's facing direction and
// the direction to the surface point, cut off outside Aperture.
type DirectionalSpot struct {
	Origin    core.Vec3
	Normal    core.Vec3 // world-space facing direction, expected unit length
	Intensity core.Vec3

	// CosAperture is cos(aperture angle); surface points whose cosine with
	// Normal falls below this receive zero radiance.
	CosAperture float64
}

// NewDirectionalSpot builds a spot light facing normal, with apertureDeg
// the half-angle of the cone in degrees.
func NewDirectionalSpot(origin, normal, intensity core.Vec3, apertureDeg float64) *DirectionalSpot {
	return &DirectionalSpot{
		Origin:      origin,
		Normal:      normal.Normalize(),
		Intensity:   intensity,
		CosAperture: math.Cos(apertureDeg * math.Pi / 180),
	}
}

func (d *DirectionalSpot) Position() core.Vec3 { return d.Origin }

func (d *DirectionalSpot) EmissionOrigin() core.Vec3 { return d.Origin }
func (d *DirectionalSpot) EmissionNormal() core.Vec3 { return d.Normal }
func (d *DirectionalSpot) TotalIntensity() core.Vec3 { return d.Intensity }

func (d *DirectionalSpot) Radiance(point core.Vec3, world Occluder, useOcclusion, useAttenuation bool) core.Vec3 {
	if occluded(d.Origin, point, world, useOcclusion) {
		return core.Vec3{}
	}

	toSurface := point.Subtract(d.Origin).Normalize()
	cosAngle := toSurface.Dot(d.Normal)
	if cosAngle < 0 || cosAngle < d.CosAperture {
		return core.Vec3{}
	}

	att := attenuation(d.Origin, point, useAttenuation)
	return d.Intensity.Multiply(cosAngle * att)
}

// GaussianSpot is a DirectionalSpot whose falloff inside the cone follows a
// Gaussian profile centered on the cone axis rather than a linear cosine
// ramp, producing softer-edged highlights.
type GaussianSpot struct {
	DirectionalSpot
	Mean     float64
	Variance float64
}

// NewGaussianSpot builds a Gaussian-falloff spot light.
func NewGaussianSpot(origin, normal, intensity core.Vec3, apertureDeg float64) *GaussianSpot {
	return &GaussianSpot{
		DirectionalSpot: *NewDirectionalSpot(origin, normal, intensity, apertureDeg),
		Mean:            1.0,
		Variance:        0.2,
	}
}

func (g *GaussianSpot) Radiance(point core.Vec3, world Occluder, useOcclusion, useAttenuation bool) core.Vec3 {
	if occluded(g.Origin, point, world, useOcclusion) {
		return core.Vec3{}
	}

	toSurface := point.Subtract(g.Origin).Normalize()
	cosAngle := toSurface.Dot(g.Normal)
	if cosAngle < 0 || cosAngle < g.CosAperture {
		return core.Vec3{}
	}

	coeff := math.Exp(-(math.Pow(cosAngle-g.Mean, 2) / (2 * g.Variance)))
	if coeff > 1 {
		coeff = 1
	}
	att := attenuation(g.Origin, point, useAttenuation)
	return g.Intensity.Multiply(coeff * att)
}
