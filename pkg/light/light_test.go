package light

import (
	"math"
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

type noOccluder struct{}

func (noOccluder) IntersectAny(core.Ray, float64, float64) bool { return false }

type alwaysOccluder struct{}

func (alwaysOccluder) IntersectAny(core.Ray, float64, float64) bool { return true }

func TestPointLightAttenuation(t *testing.T) {
	p := NewPoint(core.NewVec3(0, 0, 0), core.NewVec3(10, 10, 10))
	near := p.Radiance(core.NewVec3(0, 0, 1), noOccluder{}, false, true)
	far := p.Radiance(core.NewVec3(0, 0, 10), noOccluder{}, false, true)

	if near.X <= far.X {
		t.Errorf("expected closer point to receive more radiance: near=%v far=%v", near.X, far.X)
	}
}

func TestPointLightOcclusion(t *testing.T) {
	p := NewPoint(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	r := p.Radiance(core.NewVec3(0, 0, 5), alwaysOccluder{}, true, true)
	if !r.IsZero() {
		t.Errorf("expected zero radiance when occluded, got %v", r)
	}
}

func TestDirectionalSpotAperture(t *testing.T) {
	spot := NewDirectionalSpot(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1), 10)

	inside := spot.Radiance(core.NewVec3(0, 0, 5), noOccluder{}, false, false)
	outside := spot.Radiance(core.NewVec3(5, 0, 0.01), noOccluder{}, false, false)

	if inside.IsZero() {
		t.Error("expected nonzero radiance inside the cone")
	}
	if !outside.IsZero() {
		t.Errorf("expected zero radiance outside the cone, got %v", outside)
	}
}

func TestGaussianSpotFalloff(t *testing.T) {
	g := NewGaussianSpot(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1), 45)
	onAxis := g.Radiance(core.NewVec3(0, 0, 5), noOccluder{}, false, false)
	if onAxis.IsZero() {
		t.Error("expected nonzero on-axis radiance")
	}
}

func TestAreaLightSumsSamples(t *testing.T) {
	sampler := core.NewSampler(1)
	a := NewArea(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), core.NewVec3(10, 10, 10), 1.0, 90, 16, sampler, true, 0)
	if len(a.Samples) != 16 {
		t.Fatalf("expected 16 samples, got %d", len(a.Samples))
	}
	if a.Disk == nil {
		t.Fatal("expected a disk primitive when generateDisk is true")
	}

	r := a.Radiance(core.NewVec3(0, 0, 0), noOccluder{}, false, false)
	if r.IsZero() {
		t.Error("expected nonzero aggregate radiance")
	}
	if math.IsNaN(r.X) {
		t.Error("radiance should not be NaN")
	}
}
