package rules

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/fractured-if/engine/internal/domain/stats"
	"github.com/fractured-if/engine/internal/domain/story"
)

func TestHiddenChoiceRequiresFlag(t *testing.T) {
	sc := story.Scene{
		ID: "s",
		Choices: []story.Choice{
			{ID: "a", NextSceneID: "x"},
			{ID: "secret", NextSceneID: "y", Hidden: true},
		},
	}
	v := stats.Initial()

	got := EligibleChoices(sc, v, map[string]bool{})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only visible choice, got %v", got)
	}

	got = EligibleChoices(sc, v, map[string]bool{"secret": true})
	if len(got) != 2 {
		t.Fatalf("expected hidden choice revealed by flag, got %v", got)
	}
}

func TestRequiredStatsGateExactly(t *testing.T) {
	v := stats.Vector{Sanity: 60, Corruption: 40, Truth: 80, Trust: 50}

	cases := []struct {
		check story.StatCheck
		want  bool
	}{
		{story.StatCheck{Stat: story.FieldTruth, Op: story.OpGreaterThan, Value: 80}, false},
		{story.StatCheck{Stat: story.FieldTruth, Op: story.OpGreaterThan, Value: 79.9}, true},
		{story.StatCheck{Stat: story.FieldSanity, Op: story.OpLessThan, Value: 60}, false},
		{story.StatCheck{Stat: story.FieldSanity, Op: story.OpLessThan, Value: 60.1}, true},
		{story.StatCheck{Stat: story.FieldCorruption, Op: story.OpEqual, Value: 40}, true},
		{story.StatCheck{Stat: story.FieldCorruption, Op: story.OpEqual, Value: 40.0001}, false},
		{story.StatCheck{Stat: story.FieldTrust, Op: "gte", Value: 1}, false}, // unknown op never passes
	}

	for i, tc := range cases {
		if got := ChecksPass([]story.StatCheck{tc.check}, v); got != tc.want {
			t.Errorf("case %d: ChecksPass(%+v) = %v, want %v", i, tc.check, got, tc.want)
		}
	}
}

func TestEmptyPredicateSetAlwaysPasses(t *testing.T) {
	if !ChecksPass(nil, stats.Vector{}) {
		t.Error("empty predicate set should pass")
	}
}

func TestEligibleChoicesPreservesAuthoredOrder(t *testing.T) {
	sc := story.Scene{
		ID: "s",
		Choices: []story.Choice{
			{ID: "c1", NextSceneID: "x"},
			{ID: "c2", NextSceneID: "y", RequiredStats: []story.StatCheck{{Stat: story.FieldTruth, Op: story.OpGreaterThan, Value: 1000}}},
			{ID: "c3", NextSceneID: "z"},
		},
	}

	got := EligibleChoices(sc, stats.Initial(), nil)
	if len(got) != 2 || got[0].ID != "c1" || got[1].ID != "c3" {
		t.Fatalf("expected [c1 c3] in order, got %v", got)
	}
}

// Randomized check: for arbitrary vectors and choice sets, every returned
// choice must satisfy its own gates, and the result must be an ordered
// subsequence of the authored list.
func TestEligibleChoicesRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	fields := []story.StatField{story.FieldSanity, story.FieldCorruption, story.FieldTruth, story.FieldTrust}
	ops := []story.CompareOp{story.OpGreaterThan, story.OpLessThan, story.OpEqual}

	for iter := 0; iter < 200; iter++ {
		v := stats.Vector{
			Sanity:     rng.Float64() * 100,
			Corruption: rng.Float64() * 100,
			Truth:      rng.Float64()*200 - 100,
			Trust:      rng.Float64()*200 - 100,
		}

		n := rng.Intn(8)
		sc := story.Scene{ID: "s"}
		for i := 0; i < n; i++ {
			c := story.Choice{ID: fmt.Sprintf("c%d", i), NextSceneID: "x", Hidden: rng.Intn(3) == 0}
			for k := rng.Intn(3); k > 0; k-- {
				c.RequiredStats = append(c.RequiredStats, story.StatCheck{
					Stat:  fields[rng.Intn(len(fields))],
					Op:    ops[rng.Intn(len(ops))],
					Value: rng.Float64()*200 - 100,
				})
			}
			sc.Choices = append(sc.Choices, c)
		}

		flags := map[string]bool{}
		for i := 0; i < n; i++ {
			if rng.Intn(2) == 0 {
				flags[fmt.Sprintf("c%d", i)] = true
			}
		}

		got := EligibleChoices(sc, v, flags)

		last := -1
		pos := map[string]int{}
		for i, c := range sc.Choices {
			pos[c.ID] = i
		}
		for _, c := range got {
			if c.Hidden && !flags[c.ID] {
				t.Fatalf("iter %d: hidden choice %s returned without flag", iter, c.ID)
			}
			if !ChecksPass(c.RequiredStats, v) {
				t.Fatalf("iter %d: choice %s returned with failing predicates", iter, c.ID)
			}
			if pos[c.ID] <= last {
				t.Fatalf("iter %d: authored order not preserved", iter)
			}
			last = pos[c.ID]
		}
	}
}
