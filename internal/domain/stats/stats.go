// Package stats defines the four-dimensional player state vector and its
// update rules. This package is PURE and must NOT import any infrastructure
// packages (network, events, platform).
package stats

// Bounds for the clamped dimensions. Sanity and Corruption live in
// [MinBounded, MaxBounded]; Truth and Trust accumulate without limit.
const (
	MinBounded = 0.0
	MaxBounded = 100.0
)

// Vector is the player state: sanity, corruption, truth, trust.
type Vector struct {
	Sanity     float64 `json:"sanity" yaml:"sanity"`
	Corruption float64 `json:"corruption" yaml:"corruption"`
	Truth      float64 `json:"truth" yaml:"truth"`
	Trust      float64 `json:"trust" yaml:"trust"`
}

// Delta is a partial stat adjustment. Absent fields decode to zero, which is
// the additive identity, so "no change" and "missing" are equivalent.
type Delta struct {
	Sanity     float64 `json:"sanity,omitempty" yaml:"sanity,omitempty"`
	Corruption float64 `json:"corruption,omitempty" yaml:"corruption,omitempty"`
	Truth      float64 `json:"truth,omitempty" yaml:"truth,omitempty"`
	Trust      float64 `json:"trust,omitempty" yaml:"trust,omitempty"`
}

// Initial returns the starting vector for a fresh session.
func Initial() Vector {
	return Vector{Sanity: 90, Corruption: 10, Truth: 5, Trust: 0}
}

// Apply returns the vector after adding the delta. Sanity and corruption are
// clamped to [0, 100]; truth and trust are unbounded. Pure and total.
func Apply(v Vector, d Delta) Vector {
	return Vector{
		Sanity:     clamp(v.Sanity + d.Sanity),
		Corruption: clamp(v.Corruption + d.Corruption),
		Truth:      v.Truth + d.Truth,
		Trust:      v.Trust + d.Trust,
	}
}

func clamp(x float64) float64 {
	if x < MinBounded {
		return MinBounded
	}
	if x > MaxBounded {
		return MaxBounded
	}
	return x
}
