package scene

import "github.com/guglielmo-pathtracer/raytracer/pkg/core"

// MaterialKind distinguishes solid surfaces from participating media.
type MaterialKind int

const (
	Solid MaterialKind = iota
	Volumetric
)

// Material bundles every shading parameter a surface or volume can carry.
// Diffuse may be overridden per-point by a texture (see DiffuseTexture
// below); the plain fields are the constant values otherwise.
type Material struct {
	Name string
	Kind MaterialKind

	SelfIlluminance core.Vec3
	Ambient         core.Vec3
	Diffuse         core.Vec3
	Specular        core.Vec3

	Refractivity      float64
	RefractionIndex   float64
	Reflectivity      float64
	Glossiness        float64
	Transparency      float64
	TransmissionFilter core.Vec3
	ReflectionFilter   core.Vec3

	Roughness  float64
	Anisotropy float64

	// Density is the extinction coefficient used by volumetric transport.
	Density float64

	// DiffuseTexture, when non-nil, overrides Diffuse with a procedurally
	// or image-evaluated color at the hit point.
	DiffuseTexture Texture
}

// DefaultMaterial returns a matte white Lambertian-like material.
func DefaultMaterial() Material {
	return Material{
		Kind:               Solid,
		Ambient:            core.NewVec3(1, 1, 1),
		Diffuse:            core.NewVec3(0.8, 0.8, 0.8),
		RefractionIndex:    1,
		Roughness:          1,
		TransmissionFilter: core.NewVec3(1, 1, 1),
		ReflectionFilter:   core.NewVec3(1, 1, 1),
	}
}

// DiffuseAt returns the diffuse color at a surface point, consulting the
// procedural texture if one is set.
func (m Material) DiffuseAt(p core.Vec3) core.Vec3 {
	if m.DiffuseTexture != nil {
		return m.DiffuseTexture.Evaluate(p)
	}
	return m.Diffuse
}

// IsTransparent reports whether the material lets light through
// (Transparency > 0); refraction is governed by Refractivity.
func (m Material) IsTransparent() bool { return m.Transparency > 0 }

// IsReflective reports whether the material spawns reflection rays.
func (m Material) IsReflective() bool { return m.Reflectivity > 0 }

// IsEmissive reports whether the material emits light directly.
func (m Material) IsEmissive() bool { return !m.SelfIlluminance.IsZero() }
