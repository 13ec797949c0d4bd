package integrator

import (
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/accel"
	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/light"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
)

func buildDiffuseSphereScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()
	mat := scene.DefaultMaterial()
	matIdx := s.AddMaterial(mat)

	sphere := primitive.NewSphere(core.Translate4(core.NewVec3(0, 0, 5)), matIdx)
	s.AddPrimitive(sphere)
	s.AddLight(light.NewPoint(core.NewVec3(0, 5, 0), core.NewVec3(20, 20, 20)))

	if err := s.Freeze(accel.SAH, 12); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	return s
}

func TestTraceRayHitsDiffuseSphere(t *testing.T) {
	s := buildDiffuseSphereScene(t)
	cfg := config.DefaultConfig()
	cfg.UseOcclusion = false
	ig := New(s, cfg, core.NewSampler(1), nil)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	color := ig.TraceRay(ray, 0)
	if color.IsZero() {
		t.Error("expected nonzero color hitting a lit diffuse sphere")
	}
	if color.HasNaN() {
		t.Error("color should not contain NaN")
	}
}

func TestTraceRayMissReturnsZero(t *testing.T) {
	s := buildDiffuseSphereScene(t)
	ig := New(s, config.DefaultConfig(), core.NewSampler(1), nil)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	color := ig.TraceRay(ray, 0)
	if !color.IsZero() {
		t.Errorf("expected zero color for a ray that misses everything, got %v", color)
	}
}

func TestTraceRayRespectsMaxDepth(t *testing.T) {
	s := scene.New()
	mat := scene.DefaultMaterial()
	mat.Reflectivity = 1.0
	mat.Glossiness = 1.0
	matIdx := s.AddMaterial(mat)
	sphere := primitive.NewSphere(core.Translate4(core.NewVec3(0, 0, 5)), matIdx)
	s.AddPrimitive(sphere)
	if err := s.Freeze(accel.SAH, 12); err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.MaxRayDepth = 0
	ig := New(s, cfg, core.NewSampler(1), nil)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	color := ig.TraceRay(ray, 0)
	if !color.IsZero() {
		t.Errorf("expected zero color at depth limit, got %v", color)
	}
}

func TestReflectiveSphereTerminatesWithFiniteDepth(t *testing.T) {
	s := scene.New()
	mat := scene.DefaultMaterial()
	mat.Reflectivity = 0.9
	mat.Glossiness = 1.0
	matIdx := s.AddMaterial(mat)
	sphere := primitive.NewSphere(core.Translate4(core.NewVec3(0, 0, 5)), matIdx)
	s.AddPrimitive(sphere)
	if err := s.Freeze(accel.SAH, 12); err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.MaxRayDepth = 4
	ig := New(s, cfg, core.NewSampler(1), nil)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	color := ig.TraceRay(ray, 0)
	if color.HasNaN() {
		t.Error("recursive reflection should not produce NaN")
	}
}

func TestEmitPhotonsNoOpWhenDisabled(t *testing.T) {
	s := buildDiffuseSphereScene(t)
	cfg := config.DefaultConfig()
	cfg.UsePhotonMapping = false
	ig := New(s, cfg, core.NewSampler(1), nil)

	indirect, caustic := ig.EmitPhotons()
	if indirect != nil || caustic != nil {
		t.Error("expected no photons emitted when photon mapping is disabled")
	}
}

func TestEmitCausticPhotonsFromRefractiveSphere(t *testing.T) {
	s := scene.New()
	mat := scene.DefaultMaterial()
	mat.Refractivity = 0.9
	mat.RefractionIndex = 1.5
	mat.TransmissionFilter = core.NewVec3(1, 1, 1)
	matIdx := s.AddMaterial(mat)
	sphere := primitive.NewSphere(core.Translate4(core.NewVec3(0, 0, 5)), matIdx)
	s.AddPrimitive(sphere)
	s.AddLight(light.NewDirectionalSpot(core.NewVec3(0, 10, 5), core.NewVec3(0, -1, 0), core.NewVec3(50, 50, 50), 60))
	if err := s.Freeze(accel.SAH, 12); err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.UsePhotonMapping = true
	cfg.UseCaustics = true
	cfg.UseIndirectLighting = false
	cfg.MaxPhotonDepth = 4
	ig := New(s, cfg, core.NewSampler(2), nil)

	_, caustic := ig.EmitPhotons()
	for _, p := range caustic {
		if p.Intensity.HasNaN() {
			t.Fatal("caustic photon intensity should not be NaN")
		}
	}
}
