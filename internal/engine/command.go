package engine

import (
	"github.com/fractured-if/engine/internal/domain/rules"
	"github.com/fractured-if/engine/internal/domain/stats"
	"github.com/fractured-if/engine/internal/domain/story"
)

// Command is the tagged union of state machine commands.
type Command interface {
	isCommand()
}

// Transition moves the session to a target scene, appends it to history and
// recomputes glitch mode from the entered scene.
type Transition struct {
	SceneID string
}

// UpdateStats applies a stat delta to the vector. No other state changes.
type UpdateStats struct {
	Delta stats.Delta
}

// SetFlag sets a narrative flag. Independent of stats.
type SetFlag struct {
	Key   string
	Value bool
}

// UpdateMeta writes a meta-memory key. The session triggers the synchronous
// meta-save when committing this command.
type UpdateMeta struct {
	Key   string
	Value any
}

// Reset replaces the session state with the default initial state, carrying
// the current meta-memory forward unchanged.
type Reset struct{}

// Load replaces the session state with a previously-valid snapshot.
type Load struct {
	Snapshot State
}

func (Transition) isCommand()  {}
func (UpdateStats) isCommand() {}
func (SetFlag) isCommand()     {}
func (UpdateMeta) isCommand()  {}
func (Reset) isCommand()       {}
func (Load) isCommand()        {}

// Apply is the pure transition function of the state machine. It never
// fails: a Transition whose target is absent from the graph degrades to the
// designated start scene, reported through the second return so the caller
// can surface a content-integrity warning.
func Apply(g *story.Graph, s State, cmd Command) (State, bool) {
	switch c := cmd.(type) {
	case Transition:
		target, ok := g.Lookup(c.SceneID)
		fellBack := false
		if !ok {
			target = g.Start()
			fellBack = true
		}
		next := s.Clone()
		next.CurrentSceneID = target.ID
		next.History = append(next.History, target.ID)
		next.GlitchMode = target.GlitchIntensity > rules.GlitchModeThreshold
		return next, fellBack

	case UpdateStats:
		next := s.Clone()
		next.Stats = stats.Apply(s.Stats, c.Delta)
		return next, false

	case SetFlag:
		next := s.Clone()
		next.Flags[c.Key] = c.Value
		return next, false

	case UpdateMeta:
		next := s.Clone()
		next.MetaMemory[c.Key] = c.Value
		return next, false

	case Reset:
		next := initialState()
		for k, v := range s.MetaMemory {
			next.MetaMemory[k] = v
		}
		return next, false

	case Load:
		return c.Snapshot.Clone(), false

	default:
		return s, false
	}
}
