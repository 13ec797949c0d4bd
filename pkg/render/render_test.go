package render

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/camera"
	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

func TestFrameFillsEveryPixel(t *testing.T) {
	cam := camera.New("test", core.Identity4(), 6, 4, 60)
	cfg := config.DefaultConfig()
	cfg.UseAntialiasing = false
	cfg.UseDepthOfField = false
	cfg.WorkerCount = 3

	newTrace := func(sampler *core.Sampler) TraceFunc {
		return func(ray core.Ray, depth int) core.Vec3 {
			return core.NewVec3(1, 1, 1)
		}
	}

	f := Frame(cam, cfg, 1, newTrace, nil)
	if f.Width != 6 || f.Height != 4 {
		t.Fatalf("unexpected film dimensions %dx%d", f.Width, f.Height)
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			if c.X != 1 || c.Y != 1 || c.Z != 1 {
				t.Errorf("pixel (%d,%d) not filled: %v", x, y, c)
			}
		}
	}
}

func TestFrameReportsProgressForEveryRow(t *testing.T) {
	cam := camera.New("test", core.Identity4(), 3, 5, 60)
	cfg := config.DefaultConfig()
	cfg.UseAntialiasing = false
	cfg.WorkerCount = 2

	var mu sync.Mutex
	seen := map[int]bool{}
	var calls int64

	newTrace := func(sampler *core.Sampler) TraceFunc {
		return func(ray core.Ray, depth int) core.Vec3 { return core.Vec3{} }
	}
	Frame(cam, cfg, 7, newTrace, func(done, total int) {
		atomic.AddInt64(&calls, 1)
		mu.Lock()
		seen[done] = true
		mu.Unlock()
		if total != 5 {
			t.Errorf("expected total=5, got %d", total)
		}
	})

	if calls != 5 {
		t.Errorf("expected 5 progress calls, got %d", calls)
	}
}

func TestFrameIsRaceFreeAcrossWorkers(t *testing.T) {
	cam := camera.New("test", core.Identity4(), 20, 20, 70)
	cfg := config.DefaultConfig()
	cfg.WorkerCount = 8

	newTrace := func(sampler *core.Sampler) TraceFunc {
		return func(ray core.Ray, depth int) core.Vec3 {
			return core.NewVec3(ray.Direction.X, ray.Direction.Y, ray.Direction.Z)
		}
	}
	f := Frame(cam, cfg, 3, newTrace, nil)
	if f.Width*f.Height != len(f.Pixels) {
		t.Errorf("film pixel count mismatch")
	}
}
