package core

import (
	"math"
	"testing"
)

func TestAABBHit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0))

	hit, entry, dist := box.HitT(ray, 0, math.MaxFloat64)
	if !hit {
		t.Fatal("expected hit")
	}
	if dist != 4 {
		t.Errorf("distance = %v, want 4", dist)
	}
	if entry != (Vec3{-1, 0, 0}) {
		t.Errorf("entry = %v, want {-1 0 0}", entry)
	}
}

func TestAABBMiss(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(-5, 5, 0), NewVec3(1, 0, 0))
	if box.Hit(ray, 0, math.MaxFloat64) {
		t.Error("expected miss")
	}
}

func TestAABBUnion(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-1, -1, -1), NewVec3(0.5, 0.5, 0.5))
	u := a.Union(b)
	if u.Min != (Vec3{-1, -1, -1}) || u.Max != (Vec3{1, 1, 1}) {
		t.Errorf("Union = %v, want min{-1,-1,-1} max{1,1,1}", u)
	}
}

func TestAABBSurfaceArea(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 2, 2))
	if got := box.SurfaceArea(); got != 24 {
		t.Errorf("SurfaceArea = %v, want 24", got)
	}
}

func TestAABBLongestAxis(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 5, 2))
	if got := box.LongestAxis(); got != 1 {
		t.Errorf("LongestAxis = %v, want 1", got)
	}
}

func TestAABBOffset(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(10, 10, 10))
	o := box.Offset(NewVec3(5, 10, 0))
	if o != (Vec3{0.5, 1, 0}) {
		t.Errorf("Offset = %v, want {0.5 1 0}", o)
	}
}

func TestAABBEmptyIsIdentityForUnion(t *testing.T) {
	box := NewAABB(NewVec3(1, 1, 1), NewVec3(2, 2, 2))
	u := EmptyAABB().Union(box)
	if u != box {
		t.Errorf("EmptyAABB union = %v, want %v", u, box)
	}
}
