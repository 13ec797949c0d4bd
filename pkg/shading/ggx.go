// Package shading implements the Cook-Torrance microfacet BRDF, Fresnel
// terms and the full surface-intensity composition (direct lights plus
// photon-mapped indirect/caustic contributions).
package shading

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// IsotropicGGX evaluates the GGX normal distribution function for a
// perfectly isotropic microfacet surface. roughness == 0 collapses to a
// mirror (a delta distribution approximated by a tight tolerance band).
func IsotropicGGX(roughness, dotHalfNormal float64) float64 {
	if roughness == 0 {
		if math.Abs(dotHalfNormal-1) <= 9e-4 {
			return 1
		}
		return 0
	}
	alpha2 := roughness * roughness
	denomInner := dotHalfNormal*dotHalfNormal*(alpha2-1) + 1
	return alpha2 / (math.Pi * denomInner * denomInner)
}

// AnisotropicGGX evaluates the GGX distribution stretched independently
// along the tangent and bitangent directions, producing elliptical
// highlights for brushed-metal-style materials.
func AnisotropicGGX(tangentAlpha, bitangentAlpha float64, tangent, bitangent, half core.Vec3, dotHalfNormal float64) float64 {
	tangentAlpha2 := tangentAlpha * tangentAlpha
	bitangentAlpha2 := bitangentAlpha * bitangentAlpha
	dotTangentHalf := tangent.Dot(half)
	dotBitangentHalf := bitangent.Dot(half)
	dotHalfNormal2 := dotHalfNormal * dotHalfNormal

	inner := dotTangentHalf*dotTangentHalf/tangentAlpha2 + dotBitangentHalf*dotBitangentHalf/bitangentAlpha2 + dotHalfNormal2
	distribution := 1.0 / (inner * inner)
	normalization := 1.0 / (math.Pi * tangentAlpha * bitangentAlpha)
	return normalization * distribution
}

// GeometricAttenuation computes the Smith-style shadowing-masking term
// used by the Cook-Torrance microfacet model.
func GeometricAttenuation(dotHalfNormal, dotViewNormal, dotNormalLight, dotHalfView float64) float64 {
	g := math.Min(
		2*dotHalfNormal*dotViewNormal/dotHalfView,
		2*dotHalfNormal*dotNormalLight/dotHalfView,
	)
	return math.Min(1, g)
}

// SchlickFresnelF0 returns the normal-incidence reflectance derived from a
// material's index of refraction.
func SchlickFresnelF0(refractivity float64) float64 {
	return math.Pow((refractivity-1)/(refractivity+1), 2)
}

// SchlickFresnel evaluates Schlick's approximation of the Fresnel
// reflectance at the given half/view angle.
func SchlickFresnel(f0, dotHalfView float64) float64 {
	return f0 + (1-f0)*math.Pow(1-dotHalfView, 5)
}
