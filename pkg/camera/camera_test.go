package camera

import (
	"math"
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

func identityCamera(width, height int, fov float64) *Camera {
	return New("test", core.Identity4(), width, height, fov)
}

func straightThroughTrace(ray core.Ray, depth int) core.Vec3 {
	return core.NewVec3(ray.Direction.X, ray.Direction.Y, ray.Direction.Z)
}

func TestPixelCenterDirectionPointsForward(t *testing.T) {
	cam := identityCamera(2, 2, 90)
	cfg := config.DefaultConfig()
	cfg.UseAntialiasing = false
	cfg.UseDepthOfField = false
	sampler := core.NewSampler(1)

	color := cam.Pixel(cfg, sampler, 0, 0, straightThroughTrace)
	if color.Z <= 0 {
		t.Errorf("expected forward-facing ray (positive Z direction), got %v", color)
	}
}

func TestPixelAntialiasingAveragesSubsamples(t *testing.T) {
	cam := identityCamera(4, 4, 60)
	cfg := config.DefaultConfig()
	cfg.UseAntialiasing = true
	cfg.AASubdiv = 4
	cfg.UseDepthOfField = false
	sampler := core.NewSampler(1)

	color := cam.Pixel(cfg, sampler, 1, 1, straightThroughTrace)
	if color.HasNaN() {
		t.Fatal("antialiased pixel should not contain NaN")
	}
	if math.Abs(color.Length()) == 0 {
		t.Error("expected a nonzero averaged direction")
	}
}

func TestPixelDepthOfFieldAveragesLensSamples(t *testing.T) {
	cam := identityCamera(2, 2, 90).WithLens(5.0, 0.2)
	cfg := config.DefaultConfig()
	cfg.UseAntialiasing = false
	cfg.UseDepthOfField = true
	cfg.DOFSamples = 8
	sampler := core.NewSampler(2)

	called := 0
	trace := func(ray core.Ray, depth int) core.Vec3 {
		called++
		return core.NewVec3(1, 1, 1)
	}
	color := cam.Pixel(cfg, sampler, 0, 0, trace)
	if called != cfg.DOFSamples {
		t.Errorf("expected %d trace calls, got %d", cfg.DOFSamples, called)
	}
	if color.X != 1 || color.Y != 1 || color.Z != 1 {
		t.Errorf("expected averaged constant color {1,1,1}, got %v", color)
	}
}

func TestGlobalizeRayTransformsByCameraTransform(t *testing.T) {
	transform := core.Translate4(core.NewVec3(0, 3, -5))
	cam := New("translated", transform, 2, 2, 90)

	ray := cam.globalizeRay(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)))
	if ray.Origin.Y != 3 || ray.Origin.Z != -5 {
		t.Errorf("expected origin translated to (0,3,-5), got %v", ray.Origin)
	}
	if math.Abs(ray.Direction.Length()-1) > 1e-9 {
		t.Errorf("expected renormalized direction, got length %v", ray.Direction.Length())
	}
}

func TestPixelGeometryMatchesFOV(t *testing.T) {
	cam := identityCamera(100, 100, 90)
	pixelSize, topLeftX, topLeftY := cam.pixelGeometry()
	if pixelSize <= 0 {
		t.Fatal("expected positive pixel size")
	}
	if topLeftX >= 0 || topLeftY <= 0 {
		t.Errorf("expected top-left corner in (-x, +y) quadrant, got (%v, %v)", topLeftX, topLeftY)
	}
}
