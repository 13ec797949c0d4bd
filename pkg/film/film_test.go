package film

import (
	"math"
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

func TestSetAndAtRoundTrip(t *testing.T) {
	f := New(4, 3)
	f.Set(2, 1, core.NewVec3(0.5, 0.25, 0.75))
	got := f.At(2, 1)
	if got.X != 0.5 || got.Y != 0.25 || got.Z != 0.75 {
		t.Errorf("got %v", got)
	}
}

func TestClampRGBCapsAboveOne(t *testing.T) {
	f := New(1, 1)
	f.Set(0, 0, core.NewVec3(2, 0.5, -1))
	f.clampRGB()
	got := f.At(0, 0)
	if got.X != 1 {
		t.Errorf("expected red clamped to 1, got %v", got.X)
	}
	if got.Z != 0 {
		t.Errorf("expected negative blue clamped to 0, got %v", got.Z)
	}
}

func TestGammaCorrectionBrightensMidtones(t *testing.T) {
	f := New(1, 1)
	f.Set(0, 0, core.NewVec3(0.5, 0.5, 0.5))
	f.applyGammaCorrection(2.2)
	got := f.At(0, 0)
	if got.X <= 0.5 {
		t.Errorf("expected gamma correction to brighten a midtone, got %v", got.X)
	}
}

func TestApplyPostProcessingBlackImageStaysBlack(t *testing.T) {
	f := New(2, 2)
	cfg := config.DefaultConfig()
	f.ApplyPostProcessing(cfg)
	for _, c := range f.Pixels {
		if !c.IsZero() {
			t.Errorf("expected all-black image to remain black, got %v", c)
		}
	}
}

func TestToneMappingNeverBrightensAChannel(t *testing.T) {
	f := New(2, 1)
	f.Set(0, 0, core.NewVec3(10, 0.1, 0.1))
	f.Set(1, 0, core.NewVec3(0.2, 0.2, 0.2))

	for _, op := range []config.ToneMappingOperator{
		config.ToneMapLinear, config.ToneMapPower, config.ToneMapLogarithmic,
		config.ToneMapACES, config.ToneMapReinhardExtended,
	} {
		f2 := New(2, 1)
		copy(f2.Pixels, f.Pixels)
		cfg := config.DefaultConfig()
		cfg.ToneMapping = op
		f2.applyToneMapping(cfg)
		for i, c := range f2.Pixels {
			in := f.Pixels[i]
			if c.X > in.X+1e-9 || c.Y > in.Y+1e-9 || c.Z > in.Z+1e-9 {
				t.Errorf("operator %v brightened a channel: in=%v out=%v", op, in, c)
			}
			if c.HasNaN() {
				t.Errorf("operator %v produced NaN: %v", op, c)
			}
		}
	}
}

func TestLinearToneMappingScalesByMaxLuminance(t *testing.T) {
	f := New(1, 1)
	f.Set(0, 0, core.NewVec3(1, 1, 1))
	cfg := config.DefaultConfig()
	cfg.ToneMapping = config.ToneMapLinear
	f.applyToneMapping(cfg)
	got := f.At(0, 0)
	if math.Abs(got.X-1) > 1e-6 {
		t.Errorf("a single pixel at max luminance should map to ~1, got %v", got.X)
	}
}
