// Package film accumulates per-pixel HDR radiance into a buffer and runs
// the post-processing pipeline (tone mapping, clamping, gamma correction)
// that turns it into a displayable image.
package film

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Film is a float RGB buffer, row-major, one Vec3 per pixel.
type Film struct {
	Width, Height int
	Pixels        []core.Vec3
}

// New allocates a black film of the given resolution.
func New(width, height int) *Film {
	return &Film{Width: width, Height: height, Pixels: make([]core.Vec3, width*height)}
}

func (f *Film) index(x, y int) int { return y*f.Width + x }

// Set stores the radiance for pixel (x, y). Safe to call concurrently
// across workers as long as each worker owns a disjoint set of pixels.
func (f *Film) Set(x, y int, color core.Vec3) {
	f.Pixels[f.index(x, y)] = color
}

// At returns the radiance stored at pixel (x, y).
func (f *Film) At(x, y int) core.Vec3 {
	return f.Pixels[f.index(x, y)]
}

// ApplyPostProcessing runs the configured tone-mapping operator, RGB
// clamping and gamma correction in place, in that order.
func (f *Film) ApplyPostProcessing(cfg config.Config) {
	if cfg.UseToneMapping {
		f.applyToneMapping(cfg)
	}
	f.clampRGB()
	if cfg.UseGammaCorrection {
		f.applyGammaCorrection(cfg.Gamma)
	}
}

func (f *Film) clampRGB() {
	for i, c := range f.Pixels {
		f.Pixels[i] = core.Vec3{
			X: math.Max(0, math.Min(1, c.X)),
			Y: math.Max(0, math.Min(1, c.Y)),
			Z: math.Max(0, math.Min(1, c.Z)),
		}
	}
}

func (f *Film) applyGammaCorrection(gamma float64) {
	if gamma == 0 {
		gamma = 2.2
	}
	for i, c := range f.Pixels {
		f.Pixels[i] = c.GammaCorrect(gamma)
	}
}

// applyToneMapping computes a per-pixel luminance, runs the selected curve
// over the whole luminance field to find each pixel's target luminance,
// then rescales every RGB channel by the ratio of output to input
// luminance (clamped to avoid brightening a channel past its original
// value), matching the original engine's compress-by-luminance approach
// rather than tone-mapping each channel independently.
func (f *Film) applyToneMapping(cfg config.Config) {
	exposure := cfg.ToneMappingExposure
	if exposure <= 0 {
		exposure = 1.0
	}

	n := len(f.Pixels)
	inputLuminance := make([]float64, n)
	maxLuminance := 0.0
	for i, c := range f.Pixels {
		l := c.Luminance() * exposure
		inputLuminance[i] = l
		if l > maxLuminance {
			maxLuminance = l
		}
	}
	if maxLuminance == 0 {
		return
	}

	outputLuminance := make([]float64, n)
	curve := toneCurve(cfg.ToneMapping)
	for i, l := range inputLuminance {
		outputLuminance[i] = curve(l, maxLuminance, cfg)
	}

	for i, c := range f.Pixels {
		coefficient := outputLuminance[i] / (inputLuminance[i] + 1e-6)
		f.Pixels[i] = core.Vec3{
			X: c.X * math.Min(1, coefficient),
			Y: c.Y * math.Min(1, coefficient),
			Z: c.Z * math.Min(1, coefficient),
		}
	}
}

func toneCurve(op config.ToneMappingOperator) func(l, maxL float64, cfg config.Config) float64 {
	switch op {
	case config.ToneMapPower:
		return func(l, _ float64, _ config.Config) float64 {
			return 0.8 * math.Pow(l, 0.85)
		}
	case config.ToneMapLogarithmic:
		return func(l, maxL float64, _ config.Config) float64 {
			return math.Log(l+1) / math.Log(maxL+1)
		}
	case config.ToneMapACES:
		return func(l, _ float64, _ config.Config) float64 {
			const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
			return (l * (a*l + b)) / (l*(c*l+d) + e)
		}
	case config.ToneMapReinhardExtended:
		return func(l, maxL float64, cfg config.Config) float64 {
			white := cfg.ReinhardWhitePoint
			if white <= 0 {
				white = maxL
			}
			return (l * (1 + l/(white*white))) / (1 + l)
		}
	default: // ToneMapLinear
		return func(l, maxL float64, _ config.Config) float64 {
			return l / maxL
		}
	}
}
