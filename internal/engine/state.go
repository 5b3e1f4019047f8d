// Package engine contains the narrative state machine. It owns the single
// mutable session state and is the only writer; presentation reads snapshots
// and dispatches commands, never mutating state directly.
package engine

import "github.com/fractured-if/engine/internal/domain/stats"

// State is the full session state. It is JSON-serializable as-is: the
// persisted session blob is this struct, overwritten whole on every save.
type State struct {
	CurrentSceneID string          `json:"currentSceneId"`
	Stats          stats.Vector    `json:"stats"`
	Inventory      []string        `json:"inventory"`
	Flags          map[string]bool `json:"flags"`
	History        []string        `json:"history"`
	GlitchMode     bool            `json:"glitchMode"`
	MetaMemory     map[string]any  `json:"metaMemory"`
}

// initialState is the default session state before the start scene has been
// entered. MetaMemory is empty; callers carrying meta forward overwrite it.
func initialState() State {
	return State{
		Stats:      stats.Initial(),
		Inventory:  []string{},
		Flags:      map[string]bool{},
		History:    []string{},
		MetaMemory: map[string]any{},
	}
}

// Clone returns a deep copy. Snapshots handed to readers must not alias the
// engine's live maps and slices.
func (s State) Clone() State {
	out := s
	out.Inventory = append([]string(nil), s.Inventory...)
	out.History = append([]string(nil), s.History...)
	out.Flags = make(map[string]bool, len(s.Flags))
	for k, v := range s.Flags {
		out.Flags[k] = v
	}
	out.MetaMemory = make(map[string]any, len(s.MetaMemory))
	for k, v := range s.MetaMemory {
		out.MetaMemory[k] = v
	}
	return out
}
