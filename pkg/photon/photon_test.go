package photon

import (
	"math"
	"testing"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
)

func gridPhotons(n int) []Photon {
	photons := make([]Photon, 0, n*n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				photons = append(photons, Photon{
					Position:  core.NewVec3(float64(x), float64(y), float64(z)),
					Intensity: core.NewVec3(1, 1, 1),
				})
			}
		}
	}
	return photons
}

func TestKNearestReturnsClosestFirst(t *testing.T) {
	photons := gridPhotons(5)
	m := Build(photons)

	query := core.NewVec3(2, 2, 2)
	nearest := m.KNearest(query, 5)
	if len(nearest) != 5 {
		t.Fatalf("expected 5 neighbors, got %d", len(nearest))
	}

	for i := 1; i < len(nearest); i++ {
		d0 := nearest[i-1].Position.Subtract(query).LengthSquared()
		d1 := nearest[i].Position.Subtract(query).LengthSquared()
		if d1 < d0 {
			t.Errorf("neighbors not sorted ascending at index %d: %v then %v", i, d0, d1)
		}
	}

	// (2,2,2) is itself a grid point, so the closest neighbor must be exact.
	if nearest[0].Position != query {
		t.Errorf("closest neighbor = %v, want exact match %v", nearest[0].Position, query)
	}
}

func TestKNearestEmptyMap(t *testing.T) {
	m := Build(nil)
	if got := m.KNearest(core.Vec3{}, 5); got != nil {
		t.Errorf("expected nil result from empty map, got %v", got)
	}
}

func TestKNearestRequestMoreThanAvailable(t *testing.T) {
	photons := gridPhotons(2)
	m := Build(photons)
	nearest := m.KNearest(core.NewVec3(0, 0, 0), 1000)
	if len(nearest) != len(photons) {
		t.Errorf("expected %d neighbors (all photons), got %d", len(photons), len(nearest))
	}
}

func TestMapSize(t *testing.T) {
	photons := gridPhotons(3)
	m := Build(photons)
	if m.Size() != len(photons) {
		t.Errorf("Size() = %d, want %d", m.Size(), len(photons))
	}
}

func TestKNearestAgainstBruteForce(t *testing.T) {
	photons := []Photon{
		{Position: core.NewVec3(0, 0, 0)},
		{Position: core.NewVec3(5, 1, -2)},
		{Position: core.NewVec3(-3, 4, 1)},
		{Position: core.NewVec3(2, 2, 2)},
		{Position: core.NewVec3(-1, -1, -1)},
		{Position: core.NewVec3(10, 10, 10)},
	}
	m := Build(photons)
	query := core.NewVec3(1, 1, 1)

	got := m.KNearest(query, 3)

	type scored struct {
		p core.Vec3
		d float64
	}
	var brute []scored
	for _, p := range photons {
		brute = append(brute, scored{p.Position, p.Position.Subtract(query).LengthSquared()})
	}
	for i := 0; i < len(brute); i++ {
		for j := i + 1; j < len(brute); j++ {
			if brute[j].d < brute[i].d {
				brute[i], brute[j] = brute[j], brute[i]
			}
		}
	}

	for i, n := range got {
		if math.Abs(n.Position.Subtract(query).LengthSquared()-brute[i].d) > 1e-9 {
			t.Errorf("index %d: kdtree distance %v != brute-force distance %v",
				i, n.Position.Subtract(query).LengthSquared(), brute[i].d)
		}
	}
}
