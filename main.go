// Command raytracer renders a scene (a built-in default, or an OBJ/glTF
// file given with -scene) to a PPM image.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/guglielmo-pathtracer/raytracer/internal/loader"
	"github.com/guglielmo-pathtracer/raytracer/internal/writer"
	"github.com/guglielmo-pathtracer/raytracer/pkg/accel"
	"github.com/guglielmo-pathtracer/raytracer/pkg/camera"
	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/integrator"
	"github.com/guglielmo-pathtracer/raytracer/pkg/light"
	"github.com/guglielmo-pathtracer/raytracer/pkg/photon"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/render"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
)

// cliOptions mirrors the flags parsed by parseFlags.
type cliOptions struct {
	ScenePath  string
	OutPath    string
	Width      int
	Height     int
	Samples    int
	Workers    int
	Photons    int
	ToneMap    string
	CPUProfile string
}

func main() {
	opts := parseFlags()
	logger := core.NewStdLogger()

	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			logger.Errorf("create cpuprofile: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Errorf("start cpuprofile: %v", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	cfg := buildConfig(opts)

	s, err := buildScene(opts.ScenePath)
	if err != nil {
		logger.Errorf("build scene: %v", err)
		os.Exit(1)
	}
	if err := s.Freeze(accel.SplitMethod(cfg.SplitMethod), cfg.SAHBuckets); err != nil {
		logger.Errorf("freeze scene: %v", err)
		os.Exit(1)
	}

	cam := camera.New("main", core.Translate4(core.NewVec3(0, 1.5, -6)), opts.Width, opts.Height, 60)

	var indirectMap, causticMap *photon.Map
	if cfg.UsePhotonMapping {
		start := time.Now()
		emitter := integrator.New(s, cfg, core.NewSampler(1), logger)
		indirect, caustic := emitter.EmitPhotons()
		indirectMap = photon.Build(indirect)
		causticMap = photon.Build(caustic)
		logger.Infof("emitted %d indirect / %d caustic photons in %v", len(indirect), len(caustic), time.Since(start))
	}

	start := time.Now()
	f := render.Frame(cam, cfg, 42, func(sampler *core.Sampler) render.TraceFunc {
		ig := integrator.New(s, cfg, sampler, logger)
		ig.IndirectMap = indirectMap
		ig.CausticMap = causticMap
		return ig.TraceRay
	}, func(done, total int) {
		if done == total || done%16 == 0 {
			logger.Infof("rendered row %d/%d", done, total)
		}
	})
	logger.Infof("render completed in %v", time.Since(start))

	f.ApplyPostProcessing(cfg)

	if err := writer.WritePPMFile(opts.OutPath, f); err != nil {
		logger.Errorf("write output: %v", err)
		os.Exit(1)
	}
	logger.Infof("wrote %s", opts.OutPath)
}

func parseFlags() cliOptions {
	opts := cliOptions{}
	flag.StringVar(&opts.ScenePath, "scene", "", "path to an OBJ or glTF/GLB scene file (default: built-in test scene)")
	flag.StringVar(&opts.OutPath, "out", "render.ppm", "output PPM path")
	flag.IntVar(&opts.Width, "width", 640, "image width in pixels")
	flag.IntVar(&opts.Height, "height", 480, "image height in pixels")
	flag.IntVar(&opts.Samples, "samples", 2, "antialiasing subdivisions per pixel (NxN grid)")
	flag.IntVar(&opts.Workers, "workers", 0, "number of render workers (0 = auto-detect CPU count)")
	flag.IntVar(&opts.Photons, "photons", 0, "indirect photon count (0 disables photon mapping; caustics use half this count)")
	flag.StringVar(&opts.ToneMap, "tonemap", "aces", "tone mapping operator: linear, power, logarithmic, aces, reinhard-extended")
	flag.StringVar(&opts.CPUProfile, "cpuprofile", "", "write a CPU profile to this file")
	flag.Parse()
	return opts
}

func buildConfig(opts cliOptions) config.Config {
	cfg := config.DefaultConfig()
	cfg.WorkerCount = opts.Workers
	cfg.AASubdiv = opts.Samples
	cfg.UseAntialiasing = opts.Samples > 1

	if opts.Photons > 0 {
		cfg.UsePhotonMapping = true
		cfg.IndirectPhotonCount = opts.Photons
		cfg.CausticPhotonCount = opts.Photons / 2
	}

	if op, ok := parseToneMap(opts.ToneMap); ok {
		cfg.ToneMapping = op
	}
	return cfg
}

func parseToneMap(name string) (config.ToneMappingOperator, bool) {
	switch strings.ToLower(name) {
	case "linear":
		return config.ToneMapLinear, true
	case "power":
		return config.ToneMapPower, true
	case "logarithmic", "log":
		return config.ToneMapLogarithmic, true
	case "aces":
		return config.ToneMapACES, true
	case "reinhard-extended", "reinhard":
		return config.ToneMapReinhardExtended, true
	default:
		return config.ToneMapLinear, false
	}
}

// buildScene loads path (OBJ or glTF, dispatched by extension) when given,
// falling back to a small built-in test scene otherwise.
func buildScene(path string) (*scene.Scene, error) {
	if path == "" {
		return buildDefaultScene(), nil
	}

	s := scene.New()
	fallback := scene.DefaultMaterial()
	identity := core.Identity4()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		result, err := loader.LoadOBJ(path, identity, true)
		if err != nil {
			return nil, fmt.Errorf("load obj: %w", err)
		}
		result.AddToScene(s, fallback)
	case ".gltf", ".glb":
		result, err := loader.LoadGLTF(path, identity)
		if err != nil {
			return nil, fmt.Errorf("load gltf: %w", err)
		}
		result.AddToScene(s, fallback)
	default:
		return nil, fmt.Errorf("unrecognized scene file extension %q", ext)
	}

	addDefaultLighting(s)
	return s, nil
}

// buildDefaultScene assembles a minimal smoke-test scene: a diffuse,
// slightly reflective sphere resting on a two-tone chessboard ground
// plane, lit by a single point light.
func buildDefaultScene() *scene.Scene {
	s := scene.New()

	darkFloor := scene.DefaultMaterial()
	darkFloor.Diffuse = core.NewVec3(0.15, 0.15, 0.15)
	darkIdx := s.AddMaterial(darkFloor)

	lightFloor := scene.DefaultMaterial()
	lightFloor.Diffuse = core.NewVec3(0.85, 0.85, 0.85)
	lightIdx := s.AddMaterial(lightFloor)

	sphereMat := scene.DefaultMaterial()
	sphereMat.Diffuse = core.NewVec3(0.9, 0.2, 0.2)
	sphereMat.Reflectivity = 0.1
	sphereMat.Roughness = 0.4
	sphereIdx := s.AddMaterial(sphereMat)

	s.AddPlane(primitive.NewChessboardPlane(core.Identity4(), darkIdx, lightIdx))
	s.AddPrimitive(primitive.NewSphere(core.Translate4(core.NewVec3(0, 1, 0)), sphereIdx))

	addDefaultLighting(s)
	return s
}

func addDefaultLighting(s *scene.Scene) {
	s.AddLight(light.NewPoint(core.NewVec3(-4, 6, -4), core.NewVec3(40, 40, 40)))
}
