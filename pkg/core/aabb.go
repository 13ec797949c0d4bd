package core

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// NewAABB creates an AABB from explicit min/max corners.
func NewAABB(min, max Vec3) AABB { return AABB{Min: min, Max: max} }

// EmptyAABB returns a degenerate AABB suitable as the identity element for
// repeated Union calls (min = +inf, max = -inf).
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// NewAABBFromPoints bounds a set of points.
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.UnionPoint(p)
	}
	return box
}

// Hit reports whether the ray intersects the box using the slab method
// with precomputed reciprocals and sign flags (ray direction components
// that are exactly zero are tolerated via signed-infinity arithmetic).
func (b AABB) Hit(ray Ray, tMin, tMax float64) bool {
	hit, _, _ := b.HitT(ray, tMin, tMax)
	return hit
}

// HitT performs the slab test and also returns the entry distance and
// entry point. A ray whose origin lies inside the box yields distance 0.
func (b AABB) HitT(ray Ray, tMin, tMax float64) (hit bool, entry Vec3, distance float64) {
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Component(axis)
		dir := ray.Direction.Component(axis)
		lo := b.Min.Component(axis)
		hi := b.Max.Component(axis)

		invD := 1.0 / dir // dir == 0 yields +/-Inf, handled correctly by the comparisons below
		t1 := (lo - origin) * invD
		t2 := (hi - origin) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false, Vec3{}, 0
		}
	}
	if tMax < 0 {
		return false, Vec3{}, 0
	}
	entryDistance := math.Max(tMin, 0)
	return true, ray.At(entryDistance), entryDistance
}

// HitSlab reports hit/miss given precomputed direction reciprocals and
// sign flags, as used by the BVH's hot traversal loop.
func (b AABB) HitSlab(ray Ray, recip Vec3, signs [3]bool, tMin, tMax float64) bool {
	bounds := [2]Vec3{b.Min, b.Max}
	for axis := 0; axis < 3; axis++ {
		var near, far float64
		if signs[axis] {
			near = bounds[1].Component(axis)
			far = bounds[0].Component(axis)
		} else {
			near = bounds[0].Component(axis)
			far = bounds[1].Component(axis)
		}
		t1 := (near - ray.Origin.Component(axis)) * recip.Component(axis)
		t2 := (far - ray.Origin.Component(axis)) * recip.Component(axis)
		tMin = math.Max(tMin, math.Min(t1, t2))
		tMax = math.Min(tMax, math.Max(t1, t2))
		if tMin > tMax {
			return false
		}
	}
	return tMax >= 0
}

// Union returns the smallest AABB containing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{Min: Min(b.Min, other.Min), Max: Max(b.Max, other.Max)}
}

// UnionPoint returns the smallest AABB containing both b and p.
func (b AABB) UnionPoint(p Vec3) AABB {
	return AABB{Min: Min(b.Min, p), Max: Max(b.Max, p)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Multiply(0.5) }

// Size returns the extent of the box along each axis.
func (b AABB) Size() Vec3 { return b.Max.Subtract(b.Min) }

// SurfaceArea returns the total surface area of the box. A degenerate
// (zero-volume) box correctly yields a finite, possibly zero, area.
func (b AABB) SurfaceArea() float64 {
	s := b.Size()
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return 0
	}
	return 2.0 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the greatest extent.
func (b AABB) LongestAxis() int {
	s := b.Size()
	if s.X > s.Y && s.X > s.Z {
		return 0
	}
	if s.Y > s.Z {
		return 1
	}
	return 2
}

// Offset returns the position of p within the box, normalized to [0,1]
// per axis (p at Min -> 0, p at Max -> 1).
func (b AABB) Offset(p Vec3) Vec3 {
	o := p.Subtract(b.Min)
	s := b.Size()
	if s.X > 0 {
		o.X /= s.X
	}
	if s.Y > 0 {
		o.Y /= s.Y
	}
	if s.Z > 0 {
		o.Z /= s.Z
	}
	return o
}

// IsValid reports whether Min <= Max on every axis.
func (b AABB) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Diagonal returns the vector from Min to Max.
func (b AABB) Diagonal() Vec3 { return b.Max.Subtract(b.Min) }

// Transform returns the AABB enclosing all eight transformed corners of b.
func (b AABB) Transform(m M4) AABB {
	corners := [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
	box := EmptyAABB()
	for _, c := range corners {
		box = box.UnionPoint(m.TransformPoint(c))
	}
	return box
}
