package shading

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/light"
	"github.com/guglielmo-pathtracer/raytracer/pkg/photon"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
)

// ComputeReflectedIntensity evaluates the Cook-Torrance microfacet BRDF for
// a single light direction, combining a GGX distribution term, a Smith
// geometric attenuation term and a Schlick Fresnel term into a specular
// lobe, with the diffuse lobe taking up whatever energy the specular lobe
// did not reflect.
func ComputeReflectedIntensity(lightIntensity, toLight, normal, toViewer, tangent, bitangent core.Vec3, diffuseColor core.Vec3, mat scene.Material, useFresnel bool) core.Vec3 {
	dotNormalLight := normal.Dot(toLight)
	if dotNormalLight <= 0 {
		return core.Vec3{}
	}

	half := toLight.Add(toViewer).Normalize()
	dotHalfNormal := half.Dot(normal)
	dotViewNormal := normal.Dot(toViewer)
	dotHalfView := half.Dot(toViewer)
	if dotViewNormal <= 0 || dotHalfView <= 0 {
		return core.Vec3{}
	}

	var distribution float64
	if mat.Anisotropy != 0 && !tangent.IsZero() {
		tangentAlpha := math.Min(1, math.Max(0.1, mat.Roughness*(1+mat.Anisotropy)))
		bitangentAlpha := math.Min(1, math.Max(0.1, mat.Roughness*(1-mat.Anisotropy)))
		distribution = AnisotropicGGX(tangentAlpha, bitangentAlpha, tangent, bitangent, half, dotHalfNormal)
	} else {
		distribution = IsotropicGGX(mat.Roughness, dotHalfNormal)
	}

	geometric := GeometricAttenuation(dotHalfNormal, dotViewNormal, dotNormalLight, dotHalfView)

	f0 := SchlickFresnelF0(mat.RefractionIndex)
	fresnel := f0
	if useFresnel {
		fresnel = SchlickFresnel(f0, dotHalfView)
	}

	specular := math.Max(0, distribution*geometric*fresnel/(4*dotNormalLight*dotViewNormal))
	diffuse := 1 - specular
	if diffuse < 0 {
		diffuse = 0
	}

	lobe := diffuseColor.Multiply(diffuse).Add(mat.Specular.Multiply(specular))
	return lightIntensity.MultiplyVec(lobe).Multiply(dotNormalLight)
}

const (
	indirectSigma = 0.2
	causticAlpha  = 0.918
	causticBeta   = 1.953
	densityCap    = 80
)

func gaussianWeight(distSq, sigma float64) float64 {
	return math.Exp(-distSq / (2 * sigma * sigma))
}

// coneFilterWeight is Wann Jensen's exponential photon filter, which
// de-emphasizes photons near the edge of the search radius more steeply
// than a plain Gaussian, sharpening caustic edges.
func coneFilterWeight(distSq, radiusSq float64) float64 {
	if radiusSq <= 0 {
		return 0
	}
	numerator := 1 - math.Exp(-causticBeta*distSq/(2*radiusSq))
	denominator := 1 - math.Exp(-causticBeta)
	return causticAlpha * (1 - numerator/denominator)
}

func densityEstimate(point core.Vec3, neighbors []photon.Photon, radius float64, weight func(distSq float64) float64) core.Vec3 {
	if len(neighbors) == 0 || radius <= 0 {
		return core.Vec3{}
	}
	normFactor := math.Min(densityCap, 1/(math.Pi*radius*radius))
	sum := core.Vec3{}
	for _, p := range neighbors {
		d2 := p.Position.Subtract(point).LengthSquared()
		sum = sum.Add(p.Intensity.Multiply(weight(d2)))
	}
	return sum.Multiply(normFactor)
}

// indirectRadiance estimates the indirect lighting term by running every
// neighboring photon through the surface's own Cook-Torrance BRDF (using
// the photon's arrival direction as the light vector), weighting each by a
// Gaussian falloff in distance, and normalizing by 1/k rather than by
// photon density over an area — matching computeReflectedIntensity's
// per-photon call and intensity_normalization in the original engine.
func indirectRadiance(inter primitive.Interaction, toViewer, tangent, bitangent core.Vec3, mat scene.Material, neighbors []photon.Photon, useFresnel bool) core.Vec3 {
	if len(neighbors) == 0 {
		return core.Vec3{}
	}
	point := inter.Point
	normal := inter.Normal
	diffuseColor := mat.DiffuseAt(point)

	sum := core.Vec3{}
	for _, p := range neighbors {
		d2 := p.Position.Subtract(point).LengthSquared()
		weight := gaussianWeight(d2, indirectSigma)
		toLight := p.Direction.Negate()
		contribution := ComputeReflectedIntensity(p.Intensity, toLight, normal, toViewer, tangent, bitangent, diffuseColor, mat, useFresnel)
		sum = sum.Add(contribution.Multiply(weight))
	}
	return sum.Multiply(1.0 / float64(len(neighbors)))
}

func maxDistance(point core.Vec3, neighbors []photon.Photon) float64 {
	max := 0.0
	for _, p := range neighbors {
		if d := p.Position.Subtract(point).Length(); d > max {
			max = d
		}
	}
	return max
}

// SurfaceParams bundles everything SurfaceIntensity needs beyond the hit
// itself: the lights to sum direct contributions over, the occluder used
// for shadow rays, and the two photon maps (either may be nil when photon
// mapping is disabled).
type SurfaceParams struct {
	Lights      []light.Light
	World       light.Occluder
	IndirectMap *photon.Map
	CausticMap  *photon.Map
	Config      config.Config
}

// SurfaceIntensity computes the full outgoing radiance at a surface hit:
// self-illuminance, ambient term, the sum of direct-light Cook-Torrance
// contributions, and photon-mapped indirect/caustic contributions when
// photon mapping is enabled.
func SurfaceIntensity(inter primitive.Interaction, toViewer core.Vec3, mat scene.Material, params SurfaceParams) core.Vec3 {
	cfg := params.Config
	normal := inter.Normal
	point := inter.Point
	tangent := inter.Tangent
	bitangent := normal.Cross(tangent)
	if !bitangent.IsZero() {
		bitangent = bitangent.Normalize()
	}

	diffuseColor := mat.DiffuseAt(point)

	result := mat.SelfIlluminance
	result = result.Add(mat.Ambient.MultiplyVec(cfg.AmbientLight))

	direct := core.Vec3{}
	for _, l := range params.Lights {
		toLight := l.Position().Subtract(point)
		if toLight.IsZero() {
			continue
		}
		toLight = toLight.Normalize()

		lightIntensity := l.Radiance(point, params.World, cfg.UseOcclusion, cfg.UseLightAttenuation)
		if lightIntensity.IsZero() {
			continue
		}
		direct = direct.Add(ComputeReflectedIntensity(lightIntensity, toLight, normal, toViewer, tangent, bitangent, diffuseColor, mat, cfg.UseFresnel))
	}
	result = result.Add(direct)

	if cfg.UsePhotonMapping {
		if cfg.UseIndirectLighting && params.IndirectMap != nil && params.IndirectMap.Size() > 0 {
			neighbors := params.IndirectMap.KNearest(point, cfg.IndirectNeighbors)
			indirect := indirectRadiance(inter, toViewer, tangent, bitangent, mat, neighbors, cfg.UseFresnel)

			directLum := direct.Luminance()
			indirectLum := indirect.Luminance()
			blend := 0.0
			if sum := directLum + indirectLum; sum > 0 {
				blend = clamp01(indirectLum / sum)
			}
			result = result.Add(indirect.Multiply(blend))
		}

		if cfg.UseCaustics && params.CausticMap != nil && params.CausticMap.Size() > 0 {
			neighbors := params.CausticMap.KNearest(point, cfg.CausticNeighbors)
			radius := maxDistance(point, neighbors)
			caustic := densityEstimate(point, neighbors, radius, func(d2 float64) float64 {
				return coneFilterWeight(d2, radius*radius)
			}).MultiplyVec(diffuseColor)
			result = result.Add(caustic)
		}
	}

	return result
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
