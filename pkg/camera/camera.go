// Package camera turns a camera's transform and lens parameters into
// world-space rays, one per pixel (or per antialiasing/depth-of-field
// sub-sample), ready to hand to pkg/integrator.
package camera

import (
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/config"
	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Camera carries a local->world transform and lens parameters. Width and
// Height are pixel counts; FOVDegrees is the vertical field of view.
// FocalDistance and Aperture are only consulted when depth-of-field
// sampling is enabled.
type Camera struct {
	Name      string
	Transform core.M4

	Width, Height int
	FOVDegrees    float64

	FocalDistance float64
	Aperture      float64
}

// New builds a pinhole camera. Use WithLens to add depth-of-field.
func New(name string, transform core.M4, width, height int, fovDegrees float64) *Camera {
	return &Camera{Name: name, Transform: transform, Width: width, Height: height, FOVDegrees: fovDegrees}
}

// WithLens returns a copy of the camera with depth-of-field parameters set.
func (c *Camera) WithLens(focalDistance, aperture float64) *Camera {
	clone := *c
	clone.FocalDistance = focalDistance
	clone.Aperture = aperture
	return &clone
}

// globalizeRay transforms a camera-local ray into world space: the
// direction is transformed as a vector (w=0) and renormalized, the origin
// as a point (w=1).
func (c *Camera) globalizeRay(local core.Ray) core.Ray {
	local.Direction = c.Transform.TransformVector(local.Direction).Normalize()
	local.Origin = c.Transform.TransformPoint(local.Origin)
	return local
}

// pixelGeometry returns the local-space pixel size and the local-space
// coordinates of the top-left pixel corner, derived from the vertical FOV.
func (c *Camera) pixelGeometry() (pixelSize, topLeftX, topLeftY float64) {
	pixelSize = 2 * math.Tan(c.FOVDegrees/2*math.Pi/180) / float64(c.Height)
	topLeftX = -(pixelSize * float64(c.Width)) / 2
	topLeftY = (pixelSize * float64(c.Height)) / 2
	return pixelSize, topLeftX, topLeftY
}

// computePixel resolves a single local-space ray direction into a final
// pixel color using traceRay, branching into depth-of-field lens sampling
// when the configuration enables it.
func (c *Camera) computePixel(cfg config.Config, sampler *core.Sampler, direction core.Vec3, traceRay func(core.Ray, int) core.Vec3) core.Vec3 {
	if cfg.UseDepthOfField && c.Aperture > 0 {
		focalPoint := direction.Multiply(c.FocalDistance / direction.Z)

		samples := cfg.DOFSamples
		if samples <= 0 {
			samples = 1
		}
		sum := core.Vec3{}
		for k := 0; k < samples; k++ {
			lensOffset := sampler.UnitDisk().Multiply(c.Aperture)
			shiftedOrigin := core.NewVec3(lensOffset.X, lensOffset.Y, 0)
			shiftedDirection := focalPoint.Subtract(shiftedOrigin).Normalize()

			ray := c.globalizeRay(core.NewRay(shiftedOrigin, shiftedDirection))
			sum = sum.Add(traceRay(ray, 0))
		}
		return sum.Multiply(1.0 / float64(samples))
	}

	ray := c.globalizeRay(core.NewRay(core.Vec3{}, direction))
	return traceRay(ray, 0)
}

// Pixel returns the final color for pixel (i, j), handling antialiasing
// subdivision internally. traceRay is the integrator entry point; it is
// injected so this package stays independent of pkg/integrator.
func (c *Camera) Pixel(cfg config.Config, sampler *core.Sampler, i, j int, traceRay func(core.Ray, int) core.Vec3) core.Vec3 {
	pixelSize, topLeftX, topLeftY := c.pixelGeometry()

	if !cfg.UseAntialiasing {
		direction := core.NewVec3(
			topLeftX+float64(i)*pixelSize+pixelSize/2,
			topLeftY-float64(j)*pixelSize-pixelSize/2,
			1.0,
		).Normalize()
		return c.computePixel(cfg, sampler, direction, traceRay)
	}

	subdiv := cfg.AASubdiv
	if subdiv <= 0 {
		subdiv = 1
	}
	increment := pixelSize / float64(subdiv)

	sum := core.Vec3{}
	for dx := 0; dx < subdiv; dx++ {
		for dy := 0; dy < subdiv; dy++ {
			direction := core.NewVec3(
				topLeftX+float64(i)*pixelSize+increment*float64(dx),
				topLeftY-float64(j)*pixelSize-increment*float64(dy),
				1.0,
			).Normalize()
			sum = sum.Add(c.computePixel(cfg, sampler, direction, traceRay))
		}
	}
	return sum.Multiply(1.0 / float64(subdiv*subdiv))
}
