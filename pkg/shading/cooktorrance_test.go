package shading

import (
	"math"
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/light"
	"github.com/guglielmo-pathtracer/raytracer/pkg/photon"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
)

type noOccluder struct{}

func (noOccluder) IntersectAny(core.Ray, float64, float64) bool { return false }

func TestIsotropicGGXPeaksAtNormalIncidence(t *testing.T) {
	atNormal := IsotropicGGX(0.3, 1.0)
	offNormal := IsotropicGGX(0.3, 0.5)
	if atNormal <= offNormal {
		t.Errorf("expected distribution to peak when half vector aligns with normal: at=%v off=%v", atNormal, offNormal)
	}
}

func TestIsotropicGGXMirrorEdgeCase(t *testing.T) {
	if got := IsotropicGGX(0, 1.0); got != 1 {
		t.Errorf("expected mirror-like roughness=0 at normal incidence to return 1, got %v", got)
	}
	if got := IsotropicGGX(0, 0.5); got != 0 {
		t.Errorf("expected mirror-like roughness=0 off axis to return 0, got %v", got)
	}
}

func TestSchlickFresnelIncreasesTowardGrazingAngle(t *testing.T) {
	f0 := SchlickFresnelF0(1.5)
	grazing := SchlickFresnel(f0, 0.1)
	headOn := SchlickFresnel(f0, 0.9)
	if grazing <= headOn {
		t.Errorf("expected Fresnel reflectance to increase toward grazing angles: grazing=%v headOn=%v", grazing, headOn)
	}
}

func TestComputeReflectedIntensityZeroBelowHorizon(t *testing.T) {
	mat := scene.DefaultMaterial()
	normal := core.NewVec3(0, 1, 0)
	toLight := core.NewVec3(0, -1, 0)
	toViewer := core.NewVec3(0, 1, 0)
	got := ComputeReflectedIntensity(core.NewVec3(1, 1, 1), toLight, normal, toViewer, core.Vec3{}, core.Vec3{}, mat.Diffuse, mat, true)
	if !got.IsZero() {
		t.Errorf("expected zero contribution when light is below the horizon, got %v", got)
	}
}

func TestComputeReflectedIntensityNonzeroAtNormalIncidence(t *testing.T) {
	mat := scene.DefaultMaterial()
	normal := core.NewVec3(0, 1, 0)
	toLight := core.NewVec3(0, 1, 0)
	toViewer := core.NewVec3(0, 1, 0)
	got := ComputeReflectedIntensity(core.NewVec3(1, 1, 1), toLight, normal, toViewer, core.Vec3{}, core.Vec3{}, mat.Diffuse, mat, true)
	if got.IsZero() {
		t.Error("expected nonzero contribution for a light directly overhead")
	}
}

func TestSurfaceIntensityIncludesSelfIlluminance(t *testing.T) {
	mat := scene.DefaultMaterial()
	mat.SelfIlluminance = core.NewVec3(2, 2, 2)

	inter := primitive.Interaction{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}
	params := SurfaceParams{
		World:  noOccluder{},
		Config: config.DefaultConfig(),
	}
	got := SurfaceIntensity(inter, core.NewVec3(0, 1, 0), mat, params)
	if got.X < mat.SelfIlluminance.X {
		t.Errorf("expected self-illuminance to contribute, got %v", got)
	}
}

func TestSurfaceIntensitySumsDirectLights(t *testing.T) {
	mat := scene.DefaultMaterial()
	inter := primitive.Interaction{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}
	p1 := light.NewPoint(core.NewVec3(0, 5, 0), core.NewVec3(5, 5, 5))
	p2 := light.NewPoint(core.NewVec3(0, 5, 0), core.NewVec3(5, 5, 5))

	cfg := config.DefaultConfig()
	cfg.UseOcclusion = false

	oneLight := SurfaceIntensity(inter, core.NewVec3(0, 1, 0), mat, SurfaceParams{
		Lights: []light.Light{p1}, World: noOccluder{}, Config: cfg,
	})
	twoLights := SurfaceIntensity(inter, core.NewVec3(0, 1, 0), mat, SurfaceParams{
		Lights: []light.Light{p1, p2}, World: noOccluder{}, Config: cfg,
	})

	if twoLights.X <= oneLight.X {
		t.Errorf("expected two identical lights to contribute more than one: one=%v two=%v", oneLight.X, twoLights.X)
	}
}

func TestSurfaceIntensityIndirectContributionBlendsIn(t *testing.T) {
	mat := scene.DefaultMaterial()
	inter := primitive.Interaction{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}

	photons := make([]photon.Photon, 0, 64)
	for i := 0; i < 64; i++ {
		angle := float64(i) / 64 * 2 * math.Pi
		photons = append(photons, photon.Photon{
			Position:  core.NewVec3(0.1*math.Cos(angle), 0, 0.1*math.Sin(angle)),
			Direction: core.NewVec3(0, -1, 0),
			Intensity: core.NewVec3(1, 1, 1),
			Kind:      photon.Indirect,
		})
	}
	indirectMap := photon.Build(photons)

	cfg := config.DefaultConfig()
	cfg.UsePhotonMapping = true
	cfg.UseIndirectLighting = true
	cfg.UseCaustics = false
	cfg.IndirectNeighbors = 20

	withPhotons := SurfaceIntensity(inter, core.NewVec3(0, 1, 0), mat, SurfaceParams{
		World: noOccluder{}, Config: cfg, IndirectMap: indirectMap,
	})

	cfgNoPhotons := cfg
	cfgNoPhotons.UsePhotonMapping = false
	withoutPhotons := SurfaceIntensity(inter, core.NewVec3(0, 1, 0), mat, SurfaceParams{
		World: noOccluder{}, Config: cfgNoPhotons,
	})

	if withPhotons.X <= withoutPhotons.X {
		t.Errorf("expected indirect photon contribution to add energy: with=%v without=%v", withPhotons.X, withoutPhotons.X)
	}
}

func TestDensityEstimateZeroWithNoNeighbors(t *testing.T) {
	got := densityEstimate(core.Vec3{}, nil, 1.0, func(float64) float64 { return 1 })
	if !got.IsZero() {
		t.Errorf("expected zero density estimate with no neighbors, got %v", got)
	}
}

func TestConeFilterWeightDecreasesWithDistance(t *testing.T) {
	near := coneFilterWeight(0.01, 1.0)
	far := coneFilterWeight(0.9, 1.0)
	if far >= near {
		t.Errorf("expected cone filter weight to decrease with distance: near=%v far=%v", near, far)
	}
}
