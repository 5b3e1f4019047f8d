package rules

import "github.com/fractured-if/engine/internal/domain/stats"

// MaxIntensity is a deliberate saturation ceiling: the signal never reports
// "fully glitched", leaving headroom for one-off presentation spikes.
const MaxIntensity = 0.98

// GlitchModeThreshold is the scene base intensity above which the session
// flips into glitch mode on entry.
const GlitchModeThreshold = 0.5

// GlitchIntensity derives the presentation distortion signal from the stat
// vector and the scene's authored base intensity. Pure function into
// [0, 0.98]; monotonic non-decreasing as sanity falls or corruption rises.
func GlitchIntensity(v stats.Vector, sceneBaseIntensity float64) float64 {
	intensity := sceneBaseIntensity * 0.4

	// Linear scaling for moderate sanity loss.
	if v.Sanity < 60 {
		intensity += (60 - v.Sanity) / 150
	}

	// Spike for critical sanity.
	if v.Sanity < 30 {
		intensity += 0.3
		intensity += (30 - v.Sanity) / 40
	}

	// Corruption influence.
	if v.Corruption > 40 {
		intensity += (v.Corruption - 40) / 120
	}

	if intensity > MaxIntensity {
		return MaxIntensity
	}
	return intensity
}
