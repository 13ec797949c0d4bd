package integrator

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/light"
	"github.com/guglielmo-pathtracer/raytracer/pkg/photon"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
	"github.com/guglielmo-pathtracer/raytracer/pkg/shading"
)

const (
	causticPolarIncrementDeg = 10
	causticRadiusSamples     = 10
	causticPhotonsPerLight   = (360 / causticPolarIncrementDeg) * causticRadiusSamples
)

// EmitPhotons runs the full photon-emission pass: a caustic pass that
// aims a polar/radius grid of rays from every directional-style light at
// every refractive or reflective primitive, and an indirect pass that
// scatters cosine-weighted photons from every light into the scene. It
// returns the two raw photon slices; the caller builds photon.Map values
// from them once emission is complete.
func (ig *Integrator) EmitPhotons() (indirect, caustic []photon.Photon) {
	if !ig.Config.UsePhotonMapping {
		return nil, nil
	}
	if ig.Config.UseCaustics {
		caustic = ig.traceCausticPhotons()
	}
	if ig.Config.UseIndirectLighting {
		indirect = ig.traceIndirectPhotons()
	}
	return indirect, caustic
}

// traceCausticPhotons ports the original engine's caustic emission pass:
// for every refractive or reflective primitive and every directional-style
// light, a polar/radius grid of rays is aimed at the primitive, perturbed
// within a tangent-space disk sized to the primitive's bounding box.
func (ig *Integrator) traceCausticPhotons() []photon.Photon {
	var out []photon.Photon

	emitters := ig.emittersOf(ig.Scene.Lights)
	if len(emitters) == 0 {
		return nil
	}

	for _, p := range ig.Scene.Primitives {
		mat := ig.Scene.Material(p.MaterialIndex())
		if mat.Refractivity <= 0 && mat.Reflectivity <= 0 {
			continue
		}

		bounds := p.WorldAABB()
		diagonal := bounds.Diagonal()
		primitiveSize := math.Max(diagonal.X, math.Max(diagonal.Y, diagonal.Z)) / 2.0
		primitiveOrigin := p.Centroid()

		for _, em := range emitters {
			lightOrigin := em.EmissionOrigin()
			lightNormal := em.EmissionNormal()
			if lightNormal.IsZero() {
				continue
			}
			intensity := em.TotalIntensity()

			startingVector := primitiveOrigin.Subtract(lightOrigin)
			normal := lightOrigin.Subtract(primitiveOrigin).Normalize()
			if normal.IsZero() {
				continue
			}

			reference := core.NewVec3(1, 0, 0)
			if math.Abs(normal.Dot(reference)) > 0.99 {
				reference = core.NewVec3(0, 0, 1)
			}
			tangent := reference.Subtract(normal.Multiply(reference.Dot(normal))).Normalize()
			bitangent := normal.Cross(tangent).Normalize()

			photonIntensity := intensity.Multiply(1.0 / float64(causticPhotonsPerLight))
			rayOrigin := lightOrigin.Add(lightNormal.Multiply(traceEpsilon))

			for radiusStep := 1; radiusStep <= causticRadiusSamples; radiusStep++ {
				radiusNormalized := float64(radiusStep) / float64(causticRadiusSamples)
				for polarDeg := 0; polarDeg < 360; polarDeg += causticPolarIncrementDeg {
					polarRad := float64(polarDeg) * math.Pi / 180
					localX := radiusNormalized * math.Cos(polarRad) * primitiveSize * 1.25
					localZ := radiusNormalized * math.Sin(polarRad) * primitiveSize * 1.25
					perturbance := tangent.Multiply(localX).Add(bitangent.Multiply(localZ))

					direction := startingVector.Add(perturbance).Normalize()
					ray := core.Ray{Origin: rayOrigin, Direction: direction, RefractiveIndex: 1.0}

					ig.tracePhoton(ray, photonIntensity, photon.Caustic, 0, nil, &out)
				}
			}
		}
	}
	return out
}

// traceIndirectPhotons scatters IndirectPhotonCount photons from every
// light's surface into a cosine-weighted hemisphere around its facing
// direction (or a uniform sphere for isotropic point lights), letting
// tracePhoton deposit them as they bounce through diffuse surfaces.
func (ig *Integrator) traceIndirectPhotons() []photon.Photon {
	var out []photon.Photon

	emitters := ig.emittersOf(ig.Scene.Lights)
	if len(emitters) == 0 {
		return nil
	}

	perLight := ig.Config.IndirectPhotonCount / len(emitters)
	if perLight <= 0 {
		return nil
	}

	for _, em := range emitters {
		origin := em.EmissionOrigin()
		normal := em.EmissionNormal()
		totalIntensity := em.TotalIntensity()
		photonIntensity := totalIntensity.Multiply(1.0 / float64(perLight))

		for i := 0; i < perLight; i++ {
			var direction core.Vec3
			if normal.IsZero() {
				direction = ig.Sampler.UnitSphere()
			} else {
				direction, _ = ig.Sampler.CosineHemisphere(normal)
			}
			ray := core.Ray{Origin: origin.Add(direction.Multiply(traceEpsilon)), Direction: direction, RefractiveIndex: 1.0}
			ig.tracePhoton(ray, photonIntensity, photon.Indirect, 0, &out, nil)
		}
	}
	return out
}

func (ig *Integrator) emittersOf(lights []light.Light) []light.Emitter {
	emitters := make([]light.Emitter, 0, len(lights))
	for _, l := range lights {
		if em, ok := l.(light.Emitter); ok {
			emitters = append(emitters, em)
		}
	}
	return emitters
}

// tracePhoton recursively follows a single photon through refraction,
// reflection and diffuse bounces, appending a deposit to indirectOut or
// causticOut (whichever is non-nil and matches kind) at every solid
// surface it touches.
func (ig *Integrator) tracePhoton(ray core.Ray, intensity core.Vec3, kind photon.Kind, depth int, indirectOut, causticOut *[]photon.Photon) {
	if depth >= ig.Config.MaxPhotonDepth {
		return
	}

	inter, hit := ig.Scene.Intersect(ray, traceEpsilon, math.Inf(1))
	if !hit {
		return
	}
	mat := ig.Scene.Material(inter.MaterialIndex)
	incident := ray.Direction

	if mat.Refractivity > 5e-2 {
		ig.tracePhotonRefraction(ray, inter, mat, intensity, depth, indirectOut, causticOut)
	}

	surfaceCoefficient := math.Max(0, 1-mat.Refractivity-mat.Reflectivity)
	if surfaceCoefficient < 1e-2 {
		return
	}

	depositIntensity := intensity.Multiply(surfaceCoefficient)
	deposit := photon.Photon{Position: inter.Point, Direction: incident, Intensity: depositIntensity, Kind: kind}

	switch kind {
	case photon.Indirect:
		if indirectOut != nil {
			*indirectOut = append(*indirectOut, deposit)
		}
	case photon.Caustic:
		if causticOut != nil {
			*causticOut = append(*causticOut, deposit)
		}
	}

	ig.bouncePhoton(ray, inter, mat, depositIntensity, depth, indirectOut, causticOut)
}

func (ig *Integrator) tracePhotonRefraction(ray core.Ray, inter primitive.Interaction, mat scene.Material, intensity core.Vec3, depth int, indirectOut, causticOut *[]photon.Photon) {
	incident := ray.Direction
	dotIncidentNormal := inter.Normal.Dot(incident)

	delta1 := ray.RefractiveIndex
	var delta2 float64
	var orientedNormal core.Vec3
	if dotIncidentNormal > 0 {
		delta2 = 1.0
		orientedNormal = inter.Normal.Negate()
	} else {
		delta2 = mat.RefractionIndex
		orientedNormal = inter.Normal
	}

	if delta1 == delta2 {
		refractedRay := core.Ray{
			Origin:          inter.Point.Add(incident.Multiply(traceEpsilon)),
			Direction:       incident,
			RefractiveIndex: delta2,
		}
		ig.tracePhoton(refractedRay, intensity.Multiply(mat.Refractivity), photon.Caustic, depth+1, indirectOut, causticOut)
		return
	}

	subRefracted := core.Refract(incident, orientedNormal, delta1/delta2)
	subReflected := core.Reflect(incident, orientedNormal)

	if ig.Config.UseFresnel {
		cosThetaIncident := math.Abs(dotIncidentNormal)
		f0 := math.Pow((delta1-delta2)/(delta1+delta2), 2)
		reflCoeff := clamp01(f0 + (1-f0)*math.Pow(1-cosThetaIncident, 5))
		refrCoeff := 1 - reflCoeff

		if refrCoeff > 1e-3 {
			refractedRay := core.Ray{
				Origin:          inter.Point.Add(subRefracted.Multiply(traceEpsilon)),
				Direction:       subRefracted,
				RefractiveIndex: delta2,
			}
			ig.tracePhoton(refractedRay, intensity.Multiply(refrCoeff), photon.Caustic, depth+1, indirectOut, causticOut)
		}
		if reflCoeff > 1e-3 {
			reflectedRay := core.Ray{
				Origin:          inter.Point.Add(subReflected.Multiply(traceEpsilon)),
				Direction:       subReflected,
				RefractiveIndex: delta1,
			}
			ig.tracePhoton(reflectedRay, intensity.Multiply(reflCoeff), photon.Caustic, depth+1, indirectOut, causticOut)
		}
		return
	}

	if !subRefracted.IsZero() {
		refractedRay := core.Ray{
			Origin:          inter.Point.Add(subRefracted.Multiply(traceEpsilon)),
			Direction:       subRefracted,
			RefractiveIndex: delta2,
		}
		ig.tracePhoton(refractedRay, intensity.Multiply(mat.Refractivity), photon.Caustic, depth+1, indirectOut, causticOut)
		return
	}

	reflectedRay := core.Ray{
		Origin:          inter.Point.Add(subReflected.Multiply(traceEpsilon)),
		Direction:       subReflected,
		RefractiveIndex: delta1,
	}
	ig.tracePhoton(reflectedRay, intensity.Multiply(mat.Refractivity), photon.Caustic, depth+1, indirectOut, causticOut)
}

func (ig *Integrator) bouncePhoton(ray core.Ray, inter primitive.Interaction, mat scene.Material, intensity core.Vec3, depth int, indirectOut, causticOut *[]photon.Photon) {
	incident := ray.Direction
	outgoing := core.Reflect(incident, inter.Normal)

	bitangent := inter.Normal.Cross(inter.Tangent)
	if !bitangent.IsZero() {
		bitangent = bitangent.Normalize()
	}

	reflectedIntensity := shading.ComputeReflectedIntensity(
		intensity,
		incident.Negate(),
		inter.Normal,
		outgoing.Negate(),
		inter.Tangent,
		bitangent,
		mat.DiffuseAt(inter.Point),
		mat,
		ig.Config.UseFresnel,
	)

	outgoingRay := core.Ray{
		Origin:          inter.Point.Add(outgoing.Multiply(traceEpsilon)),
		Direction:       outgoing,
		RefractiveIndex: ray.RefractiveIndex,
	}
	ig.tracePhoton(outgoingRay, reflectedIntensity, photon.Indirect, depth+1, indirectOut, causticOut)
}
