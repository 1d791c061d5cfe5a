package match

import "errors"

// ErrNoRiders is returned when the rider directory snapshot is empty.
// Callers surface this as a terminal "no riders available" state; the
// selection is not retried automatically.
var ErrNoRiders = errors.New("no riders available")

// Candidate is an ephemeral rider entry used during a single booking
// attempt. DistanceKm is the precomputed distance from the pickup point.
type Candidate struct {
	RiderID    string  `json:"rider_id"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
}

// Decision is the outcome of a selection run. When Auto is false the
// nearest rider exceeded the threshold and the caller must fall back to
// manual selection; Candidate is still populated as a suggestion.
type Decision struct {
	Candidate Candidate `json:"candidate"`
	Auto      bool      `json:"auto"`
}

// Selector picks the nearest rider for automatic assignment.
type Selector struct {
	ThresholdKm float64
}

func NewSelector(thresholdKm float64) *Selector {
	return &Selector{ThresholdKm: thresholdKm}
}

// Nearest returns the candidate with the minimum distance. Ties are broken
// by whichever candidate is encountered first in iteration order.
func (s *Selector) Nearest(candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, ErrNoRiders
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.DistanceKm < best.DistanceKm {
			best = c
		}
	}
	return best, nil
}

// Select runs nearest-rider selection against the threshold. A nearest
// rider within the threshold is auto-assignable; beyond it the decision
// flags manual selection instead.
func (s *Selector) Select(candidates []Candidate) (Decision, error) {
	best, err := s.Nearest(candidates)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Candidate: best,
		Auto:      best.DistanceKm <= s.ThresholdKm,
	}, nil
}
