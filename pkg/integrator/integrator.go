// Package integrator implements the recursive ray integrator (reflection,
// refraction and volumetric transport, bottoming out in Cook-Torrance
// surface shading) and the photon-tracing pass that feeds the indirect and
// caustic photon maps consulted by pkg/shading.
package integrator

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/photon"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
	"github.com/guglielmo-pathtracer/raytracer/pkg/shading"
)

const traceEpsilon = 1e-4

// Integrator owns everything a single ray needs resolved against: the
// frozen scene, the render configuration, a private sampler for stochastic
// glossy reflection, and the two photon maps (nil when photon mapping is
// disabled).
type Integrator struct {
	Scene       *scene.Scene
	Config      config.Config
	Sampler     *core.Sampler
	IndirectMap *photon.Map
	CausticMap  *photon.Map
	Logger      core.Logger
}

// New builds an Integrator bound to a frozen scene.
func New(s *scene.Scene, cfg config.Config, sampler *core.Sampler, logger core.Logger) *Integrator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Integrator{Scene: s, Config: cfg, Sampler: sampler, Logger: logger}
}

// TraceRay recursively evaluates the radiance arriving along ray, branching
// into volumetric transport, glossy/mirror reflection and dielectric
// refraction before accumulating the direct+indirect surface term.
func (ig *Integrator) TraceRay(ray core.Ray, depth int) core.Vec3 {
	if depth >= ig.Config.MaxRayDepth {
		return core.Vec3{}
	}

	inter, hit := ig.Scene.Intersect(ray, traceEpsilon, math.Inf(1))
	if !hit {
		return core.Vec3{}
	}
	mat := ig.Scene.Material(inter.MaterialIndex)
	incident := ray.Direction

	if mat.Kind == scene.Volumetric {
		return ig.traceVolumetric(ray, inter, mat, depth)
	}

	var reflective, refractive core.Vec3

	if mat.Reflectivity > 5e-2 {
		reflective = ig.traceReflection(ray, inter, mat, depth)
	}

	if mat.Refractivity > 5e-2 {
		refractive = ig.traceRefraction(ray, inter, mat, depth)
	}

	surface := ig.surfaceIntensity(inter, incident)
	surface = surface.Multiply(math.Max(0, 1-mat.Refractivity-mat.Reflectivity))

	final := surface.Add(reflective).Add(refractive)
	if final.HasNaN() {
		return core.Vec3{}
	}
	return final
}

func (ig *Integrator) traceVolumetric(ray core.Ray, inter primitive.Interaction, mat scene.Material, depth int) core.Vec3 {
	incident := ray.Direction

	if incident.Dot(inter.Normal) > 0 {
		continuation := core.Ray{
			Origin:          inter.Point.Add(incident.Multiply(traceEpsilon)),
			Direction:       incident,
			RefractiveIndex: ray.RefractiveIndex,
		}
		return ig.TraceRay(continuation, depth+1)
	}

	volumetricRay := core.Ray{
		Origin:          inter.Point.Add(incident.Multiply(traceEpsilon)),
		Direction:       incident,
		RefractiveIndex: ray.RefractiveIndex,
	}
	nextInter, nextHit := ig.Scene.Intersect(volumetricRay, traceEpsilon, math.Inf(1))
	distance := 0.0
	if nextHit {
		distance = nextInter.Distance
	}

	probability := 1 - math.Exp(-distance*mat.Density)
	volumeIntensity := ig.surfaceIntensity(inter, incident).Multiply(probability)
	wrapped := ig.TraceRay(volumetricRay, depth+1).Multiply(1 - probability)
	return volumeIntensity.Add(wrapped)
}

func (ig *Integrator) traceReflection(ray core.Ray, inter primitive.Interaction, mat scene.Material, depth int) core.Vec3 {
	incident := ray.Direction
	reflected := core.Reflect(incident, inter.Normal)

	var intensity core.Vec3
	if mat.Glossiness >= 1.0 {
		reflectedRay := core.Ray{
			Origin:          inter.Point.Add(reflected.Multiply(traceEpsilon)),
			Direction:       reflected,
			RefractiveIndex: ray.RefractiveIndex,
		}
		intensity = ig.TraceRay(reflectedRay, depth+1)
	} else {
		samples := ig.Config.RoughSurfaceSamples
		if samples <= 0 {
			samples = 1
		}
		diskRadius := 2e-1 - mat.Glossiness*2e-1
		sum := core.Vec3{}
		for i := 0; i < samples; i++ {
			perturb := ig.Sampler.UnitDisk().Multiply(diskRadius)
			randomized := reflected.Add(core.NewVec3(perturb.X, perturb.Y, 0)).Normalize()
			randomizedRay := core.Ray{
				Origin:          inter.Point.Add(randomized.Multiply(traceEpsilon)),
				Direction:       randomized,
				RefractiveIndex: ray.RefractiveIndex,
			}
			sum = sum.Add(ig.TraceRay(randomizedRay, depth+1))
		}
		intensity = sum.Multiply(1.0 / float64(samples))
	}

	return intensity.Multiply(mat.Reflectivity).MultiplyVec(mat.ReflectionFilter)
}

func (ig *Integrator) traceRefraction(ray core.Ray, inter primitive.Interaction, mat scene.Material, depth int) core.Vec3 {
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

	var refractive core.Vec3
	if delta1 == delta2 {
		refractedRay := core.Ray{
			Origin:          inter.Point.Add(incident.Multiply(traceEpsilon)),
			Direction:       incident,
			RefractiveIndex: delta2,
		}
		refractive = ig.TraceRay(refractedRay, depth+1)
	} else {
		subRefracted := core.Refract(incident, orientedNormal, delta1/delta2)
		subReflected := core.Reflect(incident, orientedNormal)

		if ig.Config.UseFresnel {
			cosThetaIncident := math.Abs(dotIncidentNormal)
			f0 := math.Pow((delta1-delta2)/(delta1+delta2), 2)
			reflCoeff := clamp01(f0 + (1-f0)*math.Pow(1-cosThetaIncident, 5))
			refrCoeff := 1 - reflCoeff

			var subReflectedIntensity, subRefractedIntensity core.Vec3
			if reflCoeff > 1e-2 {
				reflectedRay := core.Ray{
					Origin:          inter.Point.Add(subReflected.Multiply(traceEpsilon)),
					Direction:       subReflected,
					RefractiveIndex: delta1,
				}
				subReflectedIntensity = ig.TraceRay(reflectedRay, depth+1).Multiply(reflCoeff)
			}
			if refrCoeff > 1e-2 {
				refractedRay := core.Ray{
					Origin:          inter.Point.Add(subRefracted.Multiply(traceEpsilon)),
					Direction:       subRefracted,
					RefractiveIndex: delta2,
				}
				subRefractedIntensity = ig.TraceRay(refractedRay, depth+1).Multiply(refrCoeff)
			}
			refractive = subReflectedIntensity.Add(subRefractedIntensity)
		} else if !subRefracted.IsZero() {
			refractedRay := core.Ray{
				Origin:          inter.Point.Add(subRefracted.Multiply(traceEpsilon)),
				Direction:       subRefracted,
				RefractiveIndex: delta2,
			}
			refractive = ig.TraceRay(refractedRay, depth+1)
		} else {
			reflectedRay := core.Ray{
				Origin:          inter.Point.Add(subReflected.Multiply(traceEpsilon)),
				Direction:       subReflected,
				RefractiveIndex: delta1,
			}
			refractive = ig.TraceRay(reflectedRay, depth+1)
		}
	}

	return refractive.Multiply(mat.Refractivity).MultiplyVec(mat.TransmissionFilter)
}

func (ig *Integrator) surfaceIntensity(inter primitive.Interaction, incident core.Vec3) core.Vec3 {
	mat := ig.Scene.Material(inter.MaterialIndex)
	toViewer := incident.Negate()
	return shading.SurfaceIntensity(inter, toViewer, mat, shading.SurfaceParams{
		Lights:      ig.Scene.Lights,
		World:       ig.Scene,
		IndirectMap: ig.IndirectMap,
		CausticMap:  ig.CausticMap,
		Config:      ig.Config,
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
