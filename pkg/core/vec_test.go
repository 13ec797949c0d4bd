package core

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -1, 2)

	if got := a.Add(b); got != (Vec3{5, 1, 5}) {
		t.Errorf("Add = %v, want {5 1 5}", got)
	}
	if got := a.Subtract(b); got != (Vec3{-3, 3, 1}) {
		t.Errorf("Subtract = %v, want {-3 3 1}", got)
	}
	if got := a.Dot(b); got != 8 {
		t.Errorf("Dot = %v, want 8", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	got := x.Cross(y)
	want := NewVec3(0, 0, 1)
	if got != want {
		t.Errorf("Cross(X,Y) = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0)
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("Normalize length = %v, want 1", n.Length())
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("Normalize of zero vector = %v, want zero", zero)
	}
}

func TestVec3HasNaN(t *testing.T) {
	if (Vec3{1, 2, 3}).HasNaN() {
		t.Error("finite vector reported as NaN")
	}
	if !(Vec3{X: math.NaN()}).HasNaN() {
		t.Error("NaN component not detected")
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)
	got := Reflect(v, n)
	want := NewVec3(1, 1, 0)
	if got != want {
		t.Errorf("Reflect = %v, want %v", got, want)
	}
}

func TestClampAndGamma(t *testing.T) {
	v := NewVec3(-1, 0.5, 2)
	clamped := v.Clamp(0, 1)
	if clamped != (Vec3{0, 0.5, 1}) {
		t.Errorf("Clamp = %v, want {0 0.5 1}", clamped)
	}

	g := NewVec3(0.5, 0.5, 0.5).GammaCorrect(2.2)
	if g.X <= 0 || g.X >= 1 {
		t.Errorf("GammaCorrect out of range: %v", g.X)
	}
}
