package primitive

import (
	"math"
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

func TestSphereIntersectCentered(t *testing.T) {
	s := NewSphere(core.Identity4(), 0)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	inter, hit := s.Intersect(ray, 1e-4, math.MaxFloat64)
	if !hit {
		t.Fatal("expected hit")
	}
	if math.Abs(inter.Distance-4) > 1e-6 {
		t.Errorf("distance = %v, want 4", inter.Distance)
	}
	if math.Abs(inter.Normal.Length()-1) > 1e-6 {
		t.Errorf("normal not unit length: %v", inter.Normal)
	}
}

func TestSphereIntersectMiss(t *testing.T) {
	s := NewSphere(core.Identity4(), 0)
	ray := core.NewRay(core.NewVec3(0, 5, -5), core.NewVec3(0, 0, 1))
	if _, hit := s.Intersect(ray, 1e-4, math.MaxFloat64); hit {
		t.Error("expected miss")
	}
}

func TestSphereScaledTransform(t *testing.T) {
	s := NewSphere(core.Scale4(core.NewVec3(2, 2, 2)), 0)
	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))

	inter, hit := s.Intersect(ray, 1e-4, math.MaxFloat64)
	if !hit {
		t.Fatal("expected hit on scaled sphere")
	}
	if math.Abs(inter.Distance-8) > 1e-6 {
		t.Errorf("distance = %v, want 8", inter.Distance)
	}
}

func TestPlaneIntersect(t *testing.T) {
	p := NewPlane(core.Identity4(), 0)
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	inter, hit := p.Intersect(ray, 1e-4, math.MaxFloat64)
	if !hit {
		t.Fatal("expected hit")
	}
	if math.Abs(inter.Distance-5) > 1e-6 {
		t.Errorf("distance = %v, want 5", inter.Distance)
	}
}

func TestDiskBoundedIntersect(t *testing.T) {
	d := NewDisk(core.Identity4(), 0, 1)
	inside := core.NewRay(core.NewVec3(0.5, 5, 0), core.NewVec3(0, -1, 0))
	outside := core.NewRay(core.NewVec3(5, 5, 0), core.NewVec3(0, -1, 0))

	if _, hit := d.Intersect(inside, 1e-4, math.MaxFloat64); !hit {
		t.Error("expected hit within disk radius")
	}
	if _, hit := d.Intersect(outside, 1e-4, math.MaxFloat64); hit {
		t.Error("expected miss outside disk radius")
	}
}

func TestTriangleIntersect(t *testing.T) {
	tri := NewTriangle(
		Vertex{Position: core.NewVec3(-1, -1, 0)},
		Vertex{Position: core.NewVec3(1, -1, 0)},
		Vertex{Position: core.NewVec3(0, 1, 0)},
		0, false,
	)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	inter, hit := tri.Intersect(ray, 1e-4, math.MaxFloat64)
	if !hit {
		t.Fatal("expected hit through triangle interior")
	}
	if math.Abs(inter.Distance-5) > 1e-6 {
		t.Errorf("distance = %v, want 5", inter.Distance)
	}
}

func TestTriangleMissOutsideEdges(t *testing.T) {
	tri := NewTriangle(
		Vertex{Position: core.NewVec3(-1, -1, 0)},
		Vertex{Position: core.NewVec3(1, -1, 0)},
		Vertex{Position: core.NewVec3(0, 1, 0)},
		0, false,
	)
	ray := core.NewRay(core.NewVec3(5, 5, -5), core.NewVec3(0, 0, 1))
	if _, hit := tri.Intersect(ray, 1e-4, math.MaxFloat64); hit {
		t.Error("expected miss outside triangle")
	}
}

func TestChessboardAlternatesMaterial(t *testing.T) {
	cb := NewChessboardPlane(core.Identity4(), 1, 2)

	down := func(x, z float64) int {
		ray := core.NewRay(core.NewVec3(x, 5, z), core.NewVec3(0, -1, 0))
		inter, hit := cb.Intersect(ray, 1e-4, math.MaxFloat64)
		if !hit {
			t.Fatalf("expected hit at (%v, %v)", x, z)
		}
		return inter.MaterialIndex
	}

	if down(0.5, 0.5) == down(1.5, 0.5) {
		t.Error("adjacent chessboard cells should alternate material")
	}
}
