// Package core provides the vector, matrix, ray, bounding-box and sampling
// primitives shared by every other package in the ray tracer.
package core

import (
	"fmt"
	"math"
)

// Vec3 is a 3-component vector used for points, directions and RGB color.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a 2-component vector, used for UV coordinates.
type Vec2 struct {
	X, Y float64
}

// NewVec3 creates a new Vec3.
func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// NewVec2 creates a new Vec2.
func NewVec2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec3) String() string {
	return fmt.Sprintf("{%.4g, %.4g, %.4g}", v.X, v.Y, v.Z)
}

// Add returns the sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Subtract returns the difference of two vectors.
func (v Vec3) Subtract(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Multiply returns the vector scaled by a scalar.
func (v Vec3) Multiply(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// MultiplyVec returns the component-wise product of two vectors.
func (v Vec3) MultiplyVec(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Negate returns the vector pointing in the opposite direction.
func (v Vec3) Negate() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// AbsDot returns the absolute value of the dot product.
func (v Vec3) AbsDot(o Vec3) float64 { return math.Abs(v.Dot(o)) }

// Cross returns the cross product of two vectors.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of the vector.
func (v Vec3) Length() float64 { return math.Sqrt(v.LengthSquared()) }

// LengthSquared returns the squared Euclidean length of the vector.
func (v Vec3) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Normalize returns a unit vector in the same direction, or the zero
// vector if v has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Multiply(1.0 / l)
}

// Clamp clamps every component to [minVal, maxVal].
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: math.Max(minVal, math.Min(maxVal, v.X)),
		Y: math.Max(minVal, math.Min(maxVal, v.Y)),
		Z: math.Max(minVal, math.Min(maxVal, v.Z)),
	}
}

// GammaCorrect raises every component to the power 1/gamma.
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	inv := 1.0 / gamma
	return Vec3{math.Pow(math.Max(0, v.X), inv), math.Pow(math.Max(0, v.Y), inv), math.Pow(math.Max(0, v.Z), inv)}
}

// Luminance returns the Rec.709 perceptual luminance of an RGB color.
func (v Vec3) Luminance() float64 { return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z }

// IsZero reports whether every component is exactly zero.
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// HasNaN reports whether any component is NaN, used to sanitize the
// integrator's recursive return values per the error-handling design.
func (v Vec3) HasNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// Component returns the value of the given axis (0=X, 1=Y, 2=Z).
func (v Vec3) Component(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Min returns the component-wise minimum of two vectors.
func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum of two vectors.
func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Multiply(1 - t).Add(b.Multiply(t))
}

// Reflect returns v reflected about the normal n (n assumed unit length).
func Reflect(v, n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract returns the refraction of incident v across normal n for a ratio
// of refractive indices eta = n1/n2, mirroring GLSL/GLM's refract. Returns
// the zero vector when the angle exceeds the critical angle (total
// internal reflection), matching glm::refract's convention.
func Refract(v, n Vec3, eta float64) Vec3 {
	dotNI := n.Dot(v)
	k := 1 - eta*eta*(1-dotNI*dotNI)
	if k < 0 {
		return Vec3{}
	}
	return v.Multiply(eta).Subtract(n.Multiply(eta*dotNI + math.Sqrt(k)))
}

// Add returns the sum of two Vec2 values.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Multiply returns a Vec2 scaled by a scalar.
func (v Vec2) Multiply(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Subtract returns the difference of two Vec2 values.
func (v Vec2) Subtract(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
