package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractured-if/engine/internal/domain/stats"
	"github.com/fractured-if/engine/internal/domain/story"
)

func reducerGraph() *story.Graph {
	scenes := map[string]story.Scene{
		"start": {ID: "start", Text: "begin"},
		"calm":  {ID: "calm", Text: "quiet", GlitchIntensity: 0.2},
		"storm": {ID: "storm", Text: "loud", GlitchIntensity: 0.8},
	}
	return story.NewGraph("start", scenes)
}

func TestApplyTransitionAppendsHistoryAndGlitchMode(t *testing.T) {
	g := reducerGraph()
	s := initialState()

	s, fellBack := Apply(g, s, Transition{SceneID: "storm"})
	require.False(t, fellBack)
	assert.Equal(t, "storm", s.CurrentSceneID)
	assert.Equal(t, []string{"storm"}, s.History)
	assert.True(t, s.GlitchMode, "intensity 0.8 is above the glitch mode threshold")

	s, fellBack = Apply(g, s, Transition{SceneID: "calm"})
	require.False(t, fellBack)
	assert.False(t, s.GlitchMode, "glitch mode clears on entering a calm scene")
	assert.Equal(t, []string{"storm", "calm"}, s.History)
}

func TestApplyTransitionFallsBackOnUnknownScene(t *testing.T) {
	g := reducerGraph()
	s := initialState()

	s, fellBack := Apply(g, s, Transition{SceneID: "does_not_exist"})
	assert.True(t, fellBack)
	assert.Equal(t, "start", s.CurrentSceneID)
	assert.Equal(t, []string{"start"}, s.History)
}

func TestApplyResetCarriesMetaMemoryOnly(t *testing.T) {
	g := reducerGraph()
	s := initialState()
	s, _ = Apply(g, s, Transition{SceneID: "storm"})
	s, _ = Apply(g, s, UpdateStats{Delta: stats.Delta{Sanity: -40}})
	s, _ = Apply(g, s, SetFlag{Key: "seen_door", Value: true})
	s, _ = Apply(g, s, UpdateMeta{Key: "hasSeenDoor", Value: true})

	s, _ = Apply(g, s, Reset{})

	assert.Equal(t, stats.Initial(), s.Stats)
	assert.Empty(t, s.History)
	assert.Empty(t, s.Flags)
	assert.False(t, s.GlitchMode)
	assert.Equal(t, map[string]any{"hasSeenDoor": true}, s.MetaMemory)
}

func TestApplyLoadClonesSnapshot(t *testing.T) {
	g := reducerGraph()
	snapshot := initialState()
	snapshot.CurrentSceneID = "calm"
	snapshot.History = []string{"start", "calm"}
	snapshot.Flags["x"] = true

	s, _ := Apply(g, initialState(), Load{Snapshot: snapshot})

	snapshot.Flags["x"] = false
	snapshot.History[0] = "mutated"

	assert.True(t, s.Flags["x"], "loaded state must not alias the snapshot's maps")
	assert.Equal(t, "start", s.History[0])
}

func TestApplyUnknownCommandIsNoOp(t *testing.T) {
	g := reducerGraph()
	s := initialState()
	got, fellBack := Apply(g, s, nil)
	assert.False(t, fellBack)
	assert.Equal(t, s, got)
}
