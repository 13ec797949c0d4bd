// Package render drives the parallel frame render: a worker pool pulls
// row tiles off a shared queue, each row is rendered with its own
// row-seeded sampler, each worker writes only to the rows it took, and a shared atomic
// counter tracks progress.
package render

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/guglielmo-pathtracer/raytracer/pkg/camera"
	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/film"
)

// TraceFunc resolves a world-space ray into a radiance value. It is the
// integrator's TraceRay method, injected so this package stays independent
// of pkg/integrator.
type TraceFunc func(ray core.Ray, depth int) core.Vec3

// TraceFuncFactory builds a TraceFunc bound to a sampler owned exclusively
// by one worker. An integrator's internal sampler (used for glossy
// reflection and photon-map jittering) is not safe for concurrent use, so
// Frame asks for a fresh TraceFunc per row rather than sharing one
// across goroutines; the factory is expected to construct its integrator
// around the given sampler.
type TraceFuncFactory func(sampler *core.Sampler) TraceFunc

// ProgressFunc is called after every completed row with (rowsDone, totalRows).
// May be called concurrently from multiple workers; implementations must be
// safe for concurrent use or do their own synchronization.
type ProgressFunc func(done, total int)

// Frame renders cam into a freshly allocated film, distributing rows across
// cfg.WorkerCount workers (runtime.NumCPU() when zero). Each row gets a
// sampler seeded deterministically from its row index and baseSeed, owned
// exclusively by the worker rendering that row (used for both camera
// antialiasing/DOF jitter and whatever newTrace builds from it), and each
// worker writes only into the rows it took from the queue, so a fixed
// baseSeed reproduces the same frame regardless of how work happens to
// interleave across goroutines.
func Frame(cam *camera.Camera, cfg config.Config, baseSeed int64, newTrace TraceFuncFactory, onProgress ProgressFunc) *film.Film {
	f := film.New(cam.Width, cam.Height)

	numWorkers := cfg.WorkerCount
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	rows := make(chan int, cam.Height)
	for row := 0; row < cam.Height; row++ {
		rows <- row
	}
	close(rows)

	var done int64
	total := cam.Height

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rows {
				sampler := core.NewSampler(baseSeed + int64(row))
				traceRay := newTrace(sampler)
				for col := 0; col < cam.Width; col++ {
					color := cam.Pixel(cfg, sampler, col, row, traceRay)
					f.Set(col, row, color)
				}
				if onProgress != nil {
					onProgress(int(atomic.AddInt64(&done, 1)), total)
				}
			}
		}()
	}
	wg.Wait()

	return f
}
