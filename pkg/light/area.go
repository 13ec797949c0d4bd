package light

import (
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
)

// Area approximates an area light by a fixed set of independent
// DirectionalSpot samples placed uniformly over a disk, each carrying
// 1/N of the total intensity, plus an optional emissive Disk primitive
// so the light is visible when looked at directly.
type Area struct {
	Samples []*DirectionalSpot
	Disk    *primitive.Disk
}

// NewArea builds an area light by scattering sampleCount directional spots
// over a disk of the given radius centered at origin, facing normal. When
// generateDisk is true, the returned Disk is an emissive primitive of that
// same radius and orientation, self-illuminating with normalizedIntensity;
// emissionMaterial must already be registered in the scene's material list
// (light has no scene access of its own) and ought to carry that same
// self-illuminance. Callers add the Disk to the scene's primitive list
// themselves; it is nil when generateDisk is false.
func NewArea(origin, normal, intensity core.Vec3, diskRadius, apertureDeg float64, sampleCount int, sampler *core.Sampler, generateDisk bool, emissionMaterial int) *Area {
	if sampleCount <= 0 {
		sampleCount = 1
	}
	t, b := core.OrthonormalBasis(normal.Normalize())
	perSample := intensity.Multiply(1.0 / float64(sampleCount))

	a := &Area{Samples: make([]*DirectionalSpot, 0, sampleCount)}
	for i := 0; i < sampleCount; i++ {
		offset := sampler.UnitDisk().Multiply(diskRadius)
		samplePos := origin.Add(t.Multiply(offset.X)).Add(b.Multiply(offset.Y))
		a.Samples = append(a.Samples, NewDirectionalSpot(samplePos, normal, perSample, apertureDeg))
	}

	if generateDisk {
		a.Disk = primitive.NewDisk(core.Basis4(origin, normal), emissionMaterial, diskRadius)
	}
	return a
}

func (a *Area) Position() core.Vec3 {
	if len(a.Samples) == 0 {
		return core.Vec3{}
	}
	return a.Samples[0].Origin
}

func (a *Area) Radiance(point core.Vec3, world Occluder, useOcclusion, useAttenuation bool) core.Vec3 {
	total := core.Vec3{}
	for _, s := range a.Samples {
		total = total.Add(s.Radiance(point, world, useOcclusion, useAttenuation))
	}
	return total
}

func (a *Area) EmissionOrigin() core.Vec3 {
	if len(a.Samples) == 0 {
		return core.Vec3{}
	}
	return a.Samples[0].Origin
}

func (a *Area) EmissionNormal() core.Vec3 {
	if len(a.Samples) == 0 {
		return core.Vec3{}
	}
	return a.Samples[0].Normal
}

func (a *Area) TotalIntensity() core.Vec3 {
	total := core.Vec3{}
	for _, s := range a.Samples {
		total = total.Add(s.Intensity)
	}
	return total
}
