package match

import (
	"errors"
	"testing"
)

func TestNearest_PicksMinimumDistance(t *testing.T) {
	s := NewSelector(2.0)
	candidates := []Candidate{
		{RiderID: "r1", DistanceKm: 1.2},
		{RiderID: "r2", DistanceKm: 2.5},
		{RiderID: "r3", DistanceKm: 0.9},
	}

	best, err := s.Nearest(candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.RiderID != "r3" {
		t.Fatalf("nearest = %s, want r3", best.RiderID)
	}
}

func TestNearest_EmptyList(t *testing.T) {
	s := NewSelector(2.0)
	if _, err := s.Nearest(nil); !errors.Is(err, ErrNoRiders) {
		t.Fatalf("expected ErrNoRiders, got %v", err)
	}
}

func TestNearest_TieBreaksOnFirstEncountered(t *testing.T) {
	s := NewSelector(2.0)
	candidates := []Candidate{
		{RiderID: "first", DistanceKm: 1.5},
		{RiderID: "second", DistanceKm: 1.5},
	}

	best, err := s.Nearest(candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.RiderID != "first" {
		t.Fatalf("tie-break picked %s, want first", best.RiderID)
	}
}

func TestSelect_AutoWithinThreshold(t *testing.T) {
	s := NewSelector(2.0)
	candidates := []Candidate{
		{RiderID: "r1", DistanceKm: 1.2},
		{RiderID: "r2", DistanceKm: 0.9},
	}

	d, err := s.Select(candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Auto {
		t.Fatal("expected auto assignment within threshold")
	}
	if d.Candidate.RiderID != "r2" {
		t.Fatalf("selected %s, want r2", d.Candidate.RiderID)
	}
}

func TestSelect_ManualBeyondThreshold(t *testing.T) {
	s := NewSelector(2.0)
	candidates := []Candidate{{RiderID: "r1", DistanceKm: 5.0}}

	d, err := s.Select(candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Auto {
		t.Fatal("expected manual selection beyond threshold")
	}
	if d.Candidate.RiderID != "r1" {
		t.Fatalf("suggested candidate = %s, want r1", d.Candidate.RiderID)
	}
}

func TestSelect_ExactlyAtThresholdIsAuto(t *testing.T) {
	s := NewSelector(2.0)
	d, err := s.Select([]Candidate{{RiderID: "r1", DistanceKm: 2.0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Auto {
		t.Fatal("distance equal to threshold should auto-assign")
	}
}
