// Package rules contains the pure calculation logic for the narrative
// mechanics. This package is PURE and must NOT import any infrastructure
// packages.
package rules

import (
	"github.com/fractured-if/engine/internal/domain/stats"
	"github.com/fractured-if/engine/internal/domain/story"
)

// EligibleChoices filters a scene's choices against the current stats and
// flags, preserving authored order. A choice is excluded when it is hidden
// and no flag keyed by the choice's own id is set, or when any of its stat
// predicates fails.
func EligibleChoices(sc story.Scene, v stats.Vector, flags map[string]bool) []story.Choice {
	eligible := make([]story.Choice, 0, len(sc.Choices))
	for _, c := range sc.Choices {
		if c.Hidden && !flags[c.ID] {
			continue
		}
		if !ChecksPass(c.RequiredStats, v) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// ChecksPass reports whether every predicate holds against the vector.
// An empty predicate set always passes.
func ChecksPass(checks []story.StatCheck, v stats.Vector) bool {
	for _, chk := range checks {
		if !checkHolds(chk, v) {
			return false
		}
	}
	return true
}

// checkHolds compares the current stat value against the literal threshold.
// Exact comparison: no tolerance.
func checkHolds(chk story.StatCheck, v stats.Vector) bool {
	val := statValue(chk.Stat, v)
	switch chk.Op {
	case story.OpGreaterThan:
		return val > chk.Value
	case story.OpLessThan:
		return val < chk.Value
	case story.OpEqual:
		return val == chk.Value
	default:
		// An operator outside the closed set can only come from broken
		// content; treat the predicate as unmet.
		return false
	}
}

func statValue(f story.StatField, v stats.Vector) float64 {
	switch f {
	case story.FieldSanity:
		return v.Sanity
	case story.FieldCorruption:
		return v.Corruption
	case story.FieldTruth:
		return v.Truth
	case story.FieldTrust:
		return v.Trust
	default:
		return 0
	}
}
