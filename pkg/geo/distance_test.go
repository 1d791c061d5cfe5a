package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_ZeroDistance(t *testing.T) {
	p := Coordinate{Lat: 6.745, Lng: 6.135}
	if d := HaversineKm(p, p); d < 0 || d > 1e-9 {
		t.Fatalf("distance between identical points = %v, want ~0", d)
	}
}

func TestHaversineKm_KnownCityPair(t *testing.T) {
	// Lagos -> Abuja, roughly 536 km great-circle.
	lagos := Coordinate{Lat: 6.5244, Lng: 3.3792}
	abuja := Coordinate{Lat: 9.0765, Lng: 7.3986}

	d := HaversineKm(lagos, abuja)
	if d < 520 || d > 550 {
		t.Fatalf("Lagos-Abuja = %v km, want ~536", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := Coordinate{Lat: 6.74, Lng: 6.13}
	b := Coordinate{Lat: 6.75, Lng: 6.14}

	if d1, d2 := HaversineKm(a, b), HaversineKm(b, a); math.Abs(d1-d2) > 1e-12 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineKm_NaNPropagates(t *testing.T) {
	d := HaversineKm(Coordinate{Lat: math.NaN()}, Coordinate{})
	if !math.IsNaN(d) {
		t.Fatalf("expected NaN for NaN input, got %v", d)
	}
}
