// Package story defines the immutable scene graph for the narrative.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform).
package story

import "github.com/fractured-if/engine/internal/domain/stats"

// StatField names one dimension of the stat vector in a predicate.
type StatField string

const (
	FieldSanity     StatField = "sanity"
	FieldCorruption StatField = "corruption"
	FieldTruth      StatField = "truth"
	FieldTrust      StatField = "trust"
)

// CompareOp is the comparison operator of a stat predicate.
type CompareOp string

const (
	OpGreaterThan CompareOp = "gt"
	OpLessThan    CompareOp = "lt"
	OpEqual       CompareOp = "eq"
)

// StatCheck gates a choice on the current value of one stat. Comparison is
// exact: no tolerance, integral and fractional thresholds both supported.
type StatCheck struct {
	Stat  StatField `yaml:"stat" json:"stat"`
	Op    CompareOp `yaml:"op" json:"op"`
	Value float64   `yaml:"value" json:"value"`
}

// Choice is a player-selectable edge from one scene to another. A choice
// belongs to exactly one scene; its ID is unique within that scene.
type Choice struct {
	ID            string       `yaml:"id" json:"id"`
	Text          string       `yaml:"text" json:"text"`
	NextSceneID   string       `yaml:"next" json:"nextSceneId"`
	Effects       *stats.Delta `yaml:"effects,omitempty" json:"effects,omitempty"`
	RequiredStats []StatCheck  `yaml:"required,omitempty" json:"requiredStats,omitempty"`
	MetaEffect    string       `yaml:"meta_effect,omitempty" json:"metaEffect,omitempty"`
	Hidden        bool         `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// AutoTransition advances to another scene automatically after a delay,
// absent player input.
type AutoTransition struct {
	DelayMS     int    `yaml:"delay_ms" json:"delay"`
	NextSceneID string `yaml:"next" json:"nextSceneId"`
}

// Scene is one node of narrative content. Scenes are loaded once as static
// content and never mutated at runtime.
type Scene struct {
	ID              string          `yaml:"id" json:"id"`
	Speaker         Speaker         `yaml:"speaker" json:"speaker"`
	Text            string          `yaml:"text" json:"text"`
	BgImage         string          `yaml:"bg_image,omitempty" json:"bgImage,omitempty"`
	Music           string          `yaml:"music,omitempty" json:"music,omitempty"`
	GlitchIntensity float64         `yaml:"glitch_intensity,omitempty" json:"glitchIntensity,omitempty"`
	AutoTransition  *AutoTransition `yaml:"auto,omitempty" json:"autoTransition,omitempty"`
	Choices         []Choice        `yaml:"choices" json:"choices"`
}

// Graph is the static directed graph of scenes. It is read-only after load
// and safe for any number of concurrent readers.
type Graph struct {
	startID string
	scenes  map[string]Scene
}

// NewGraph builds a graph from a scene set and a designated start id.
func NewGraph(startID string, scenes map[string]Scene) *Graph {
	return &Graph{startID: startID, scenes: scenes}
}

// Lookup returns the scene for an id. The second return is false when the id
// is not present in the graph; callers fall back to the start scene.
func (g *Graph) Lookup(id string) (Scene, bool) {
	sc, ok := g.scenes[id]
	return sc, ok
}

// StartID returns the id of the designated start scene.
func (g *Graph) StartID() string {
	return g.startID
}

// Start returns the designated start scene.
func (g *Graph) Start() Scene {
	return g.scenes[g.startID]
}

// Len returns the number of scenes in the graph.
func (g *Graph) Len() int {
	return len(g.scenes)
}

// SceneIDs returns every scene id in the graph, in no particular order.
func (g *Graph) SceneIDs() []string {
	ids := make([]string, 0, len(g.scenes))
	for id := range g.scenes {
		ids = append(ids, id)
	}
	return ids
}
