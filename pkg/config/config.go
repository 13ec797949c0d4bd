// Package config collects every tunable knob of the renderer into a single
// struct with a sensible default, so callers can override just the fields
// they care about.
package config

import "github.com/guglielmo-pathtracer/raytracer/pkg/core"

// SplitMethod selects the BVH construction heuristic.
type SplitMethod int

const (
	SplitMiddle SplitMethod = iota
	SplitEqualCounts
	SplitSAH
)

func (m SplitMethod) String() string {
	switch m {
	case SplitMiddle:
		return "middle"
	case SplitEqualCounts:
		return "equal-counts"
	case SplitSAH:
		return "sah"
	default:
		return "unknown"
	}
}

// ToneMappingOperator selects how HDR radiance is mapped to display range.
type ToneMappingOperator int

const (
	ToneMapLinear ToneMappingOperator = iota
	ToneMapPower
	ToneMapLogarithmic
	ToneMapACES
	ToneMapReinhardExtended
)

func (op ToneMappingOperator) String() string {
	switch op {
	case ToneMapLinear:
		return "linear"
	case ToneMapPower:
		return "power"
	case ToneMapLogarithmic:
		return "logarithmic"
	case ToneMapACES:
		return "aces"
	case ToneMapReinhardExtended:
		return "reinhard-extended"
	default:
		return "unknown"
	}
}

// Config bundles every renderer option. Zero value is not meaningful;
// always start from DefaultConfig and override fields explicitly.
type Config struct {
	// Integrator
	MaxRayDepth    int
	MaxPhotonDepth int
	UseFresnel     bool

	// Sampling
	UseAntialiasing     bool
	AASubdiv            int
	UseDepthOfField     bool
	DOFSamples          int
	AreaLightSamples    int
	RoughSurfaceSamples int

	// Lighting
	UseOcclusion        bool
	UseLightAttenuation bool
	AmbientLight        core.Vec3

	// Photon mapping
	UsePhotonMapping    bool
	UseIndirectLighting bool
	UseCaustics         bool
	IndirectPhotonCount int
	CausticPhotonCount  int
	IndirectNeighbors   int
	CausticNeighbors    int

	// Acceleration
	SplitMethod SplitMethod
	SAHBuckets  int

	// Film / post-process
	ToneMapping          ToneMappingOperator
	UseToneMapping       bool
	UseGammaCorrection   bool
	Gamma                float64
	ToneMappingExposure  float64
	ReinhardWhitePoint   float64

	// Execution
	WorkerCount int
}

// DefaultConfig returns the renderer's baseline configuration.
func DefaultConfig() Config {
	return Config{
		MaxRayDepth:    5,
		MaxPhotonDepth: 3,
		UseFresnel:     true,

		UseAntialiasing:     true,
		AASubdiv:            2,
		UseDepthOfField:     false,
		DOFSamples:          15,
		AreaLightSamples:    250,
		RoughSurfaceSamples: 25,

		UseOcclusion:        true,
		UseLightAttenuation: true,
		AmbientLight:        core.NewVec3(0.05, 0.05, 0.05),

		UsePhotonMapping:    false,
		UseIndirectLighting: true,
		UseCaustics:         true,
		IndirectPhotonCount: 100000,
		CausticPhotonCount:  50000,
		IndirectNeighbors:   150,
		CausticNeighbors:    60,

		SplitMethod: SplitSAH,
		SAHBuckets:  12,

		ToneMapping:        ToneMapACES,
		UseToneMapping:     true,
		UseGammaCorrection: true,
		Gamma:              2.2,
		ToneMappingExposure: 1.0,
		ReinhardWhitePoint:  4.0,

		WorkerCount: 0, // 0 means runtime.NumCPU()
	}
}
