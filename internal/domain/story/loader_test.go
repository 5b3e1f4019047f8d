package story

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedStory(t *testing.T) {
	g, err := Load("")
	if err != nil {
		t.Fatalf("embedded storyline failed to load: %v", err)
	}
	if g.StartID() != "start" {
		t.Errorf("expected start scene id 'start', got %q", g.StartID())
	}
	if g.Len() < 40 {
		t.Errorf("embedded storyline suspiciously small: %d scenes", g.Len())
	}
	if g.Start().AutoTransition == nil {
		t.Error("start scene should auto-advance")
	}
}

// Content regression: every edge in the shipped storyline must resolve.
func TestEmbeddedStoryHasNoDanglingEdges(t *testing.T) {
	g, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range g.SceneIDs() {
		sc, _ := g.Lookup(id)
		for _, c := range sc.Choices {
			if _, ok := g.Lookup(c.NextSceneID); !ok {
				t.Errorf("scene %q: choice %q points at unknown scene %q", id, c.ID, c.NextSceneID)
			}
		}
		if sc.AutoTransition != nil {
			if _, ok := g.Lookup(sc.AutoTransition.NextSceneID); !ok {
				t.Errorf("scene %q: auto-transition points at unknown scene %q", id, sc.AutoTransition.NextSceneID)
			}
		}
	}
}

func TestParseRejectsBrokenFiles(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no start",
			yaml:    "scenes:\n  - id: a\n    text: hi\n",
			wantErr: "no start scene",
		},
		{
			name:    "no scenes",
			yaml:    "start: a\n",
			wantErr: "no scenes",
		},
		{
			name:    "duplicate scene id",
			yaml:    "start: a\nscenes:\n  - id: a\n    text: one\n  - id: a\n    text: two\n",
			wantErr: "duplicate scene id",
		},
		{
			name:    "start missing from scenes",
			yaml:    "start: missing\nscenes:\n  - id: a\n    text: hi\n",
			wantErr: "not present",
		},
		{
			name:    "empty scene id",
			yaml:    "start: a\nscenes:\n  - id: a\n    text: hi\n  - text: anonymous\n",
			wantErr: "empty id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseDecodesChoiceGates(t *testing.T) {
	yamlDoc := `
start: a
scenes:
  - id: a
    speaker: IRIS
    text: pick one
    choices:
      - id: c1
        text: visible
        next: a
        effects:
          sanity: -5
          truth: 10
      - id: c2
        text: gated
        next: a
        required:
          - stat: truth
            op: gt
            value: 80
        hidden: true
`
	g, err := Parse([]byte(yamlDoc))
	if err != nil {
		t.Fatal(err)
	}
	sc := g.Start()
	if len(sc.Choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(sc.Choices))
	}

	c1 := sc.Choices[0]
	if c1.Effects == nil || c1.Effects.Sanity != -5 || c1.Effects.Truth != 10 {
		t.Errorf("effects not decoded: %+v", c1.Effects)
	}

	c2 := sc.Choices[1]
	if !c2.Hidden {
		t.Error("hidden not decoded")
	}
	if len(c2.RequiredStats) != 1 || c2.RequiredStats[0].Stat != FieldTruth ||
		c2.RequiredStats[0].Op != OpGreaterThan || c2.RequiredStats[0].Value != 80 {
		t.Errorf("required stats not decoded: %+v", c2.RequiredStats)
	}
}

func TestSpeakerDisplayName(t *testing.T) {
	if got := SpeakerIris.DisplayName(); got != "DR. IRIS CHEN" {
		t.Errorf("SpeakerIris = %q", got)
	}
	if got := SpeakerUnknown.DisplayName(); got != "" {
		t.Errorf("SpeakerUnknown should render no label, got %q", got)
	}
	if got := Speaker("GARBAGE").DisplayName(); got != "???" {
		t.Errorf("unknown speaker should degrade to ???, got %q", got)
	}
}
