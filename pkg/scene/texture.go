package scene

import (
	"image"
	"math"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

// Texture evaluates a color at a world-space surface point.
type Texture interface {
	Evaluate(p core.Vec3) core.Vec3
}

// ConstantTexture always returns the same color; used when a Material only
// needs the plain Diffuse field, wrapped as a Texture for composability.
type ConstantTexture struct {
	Color core.Vec3
}

func (t ConstantTexture) Evaluate(core.Vec3) core.Vec3 { return t.Color }

// CheckerTexture alternates between two colors based on the sign of the
// product of sines of the scaled point coordinates, producing a 3D
// chessboard pattern.
type CheckerTexture struct {
	Odd, Even core.Vec3
	Scale     float64
}

func NewCheckerTexture(odd, even core.Vec3, scale float64) CheckerTexture {
	if scale == 0 {
		scale = 1
	}
	return CheckerTexture{Odd: odd, Even: even, Scale: scale}
}

func (t CheckerTexture) Evaluate(p core.Vec3) core.Vec3 {
	sines := math.Sin(t.Scale*p.X) * math.Sin(t.Scale*p.Y) * math.Sin(t.Scale*p.Z)
	if sines < 0 {
		return t.Odd
	}
	return t.Even
}

// ImageTexture samples a decoded raster image using UV coordinates via
// EvaluateUV. Evaluate receives only a world point, so it returns the
// texel at UV (0, 0); no primitive in this module calls EvaluateUV.
type ImageTexture struct {
	Img image.Image
}

func NewImageTexture(img image.Image) ImageTexture { return ImageTexture{Img: img} }

func (t ImageTexture) Evaluate(core.Vec3) core.Vec3 {
	return t.EvaluateUV(core.NewVec2(0, 0))
}

// EvaluateUV samples the texture at normalized UV coordinates, wrapping and
// flipping V to match standard image row ordering.
func (t ImageTexture) EvaluateUV(uv core.Vec2) core.Vec3 {
	bounds := t.Img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return core.NewVec3(1, 0, 1)
	}
	u := uv.X - math.Floor(uv.X)
	v := 1 - (uv.Y - math.Floor(uv.Y))
	x := bounds.Min.X + int(u*float64(w))
	y := bounds.Min.Y + int(v*float64(h))
	x = clampInt(x, bounds.Min.X, bounds.Max.X-1)
	y = clampInt(y, bounds.Min.Y, bounds.Max.Y-1)

	r, g, b, _ := t.Img.At(x, y).RGBA()
	return core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MarbleTexture renders veined marble by combining several octaves of
// Perlin noise and feeding the result through a sine, matching the
// fractional-Brownian-motion construction used for procedural marble.
type MarbleTexture struct {
	VeinsColor, FillingColor core.Vec3
	Octaves                  int
	Noise                    *Perlin
}

func NewMarbleTexture(veins, filling core.Vec3, noise *Perlin) MarbleTexture {
	return MarbleTexture{VeinsColor: veins, FillingColor: filling, Octaves: 6, Noise: noise}
}

func (t MarbleTexture) Evaluate(p core.Vec3) core.Vec3 {
	octaves := t.Octaves
	if octaves <= 0 {
		octaves = 6
	}
	noise := 0.0
	amplitude := 1.0
	frequency := 1.0
	for i := 0; i < octaves; i++ {
		noise += amplitude * t.Noise.Noise(frequency*p.X, frequency*p.Y, frequency*p.Z)
		amplitude *= 0.5
		frequency *= 2.0
	}

	const veinsScale = 0.01
	marble := math.Sin(veinsScale*p.Y + noise)
	marble = (marble + 1) * 0.5
	marble = math.Pow(marble, 15.0)

	return core.Lerp(t.FillingColor, t.VeinsColor, marble)
}
