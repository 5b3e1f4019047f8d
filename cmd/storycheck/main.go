// Package main is an offline content linter for storyline files. The engine
// degrades gracefully at runtime when a link is broken; this tool reports
// those problems before they ship.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fractured-if/engine/internal/domain/story"
	"github.com/fractured-if/engine/internal/engine"
)

func main() {
	storyPath := flag.String("story", "", "storyline file to check (defaults to the embedded storyline)")
	flag.Parse()

	graph, err := story.Load(*storyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storycheck: %v\n", err)
		os.Exit(2)
	}

	problems := check(graph)
	if len(problems) == 0 {
		fmt.Printf("storycheck: %d scenes, no problems found\n", graph.Len())
		return
	}

	sort.Strings(problems)
	for _, p := range problems {
		fmt.Println(p)
	}
	fmt.Fprintf(os.Stderr, "storycheck: %d problem(s) in %d scenes\n", len(problems), graph.Len())
	os.Exit(1)
}

func check(g *story.Graph) []string {
	var problems []string

	ids := g.SceneIDs()
	sort.Strings(ids)

	revealable := engine.RevealableFlags()

	for _, id := range ids {
		sc, _ := g.Lookup(id)

		seen := map[string]bool{}
		for _, c := range sc.Choices {
			if seen[c.ID] {
				problems = append(problems, fmt.Sprintf("scene %q: duplicate choice id %q", id, c.ID))
			}
			seen[c.ID] = true

			if _, ok := g.Lookup(c.NextSceneID); !ok {
				problems = append(problems, fmt.Sprintf("scene %q: choice %q points at unknown scene %q", id, c.ID, c.NextSceneID))
			}

			// A hidden choice is gated on a flag matching its own id; if no
			// meta-effect tag can ever set that flag, the branch is dead.
			if c.Hidden && !revealable[c.ID] {
				problems = append(problems, fmt.Sprintf("scene %q: hidden choice %q can never be revealed", id, c.ID))
			}
		}

		if at := sc.AutoTransition; at != nil {
			if _, ok := g.Lookup(at.NextSceneID); !ok {
				problems = append(problems, fmt.Sprintf("scene %q: auto-transition points at unknown scene %q", id, at.NextSceneID))
			}
			if at.DelayMS <= 0 {
				problems = append(problems, fmt.Sprintf("scene %q: auto-transition delay must be positive", id))
			}
		}
	}

	for _, id := range unreachable(g) {
		problems = append(problems, fmt.Sprintf("scene %q: unreachable from start", id))
	}

	return problems
}

// unreachable walks the graph from the start scene over choice and
// auto-transition edges and returns the ids never visited.
func unreachable(g *story.Graph) []string {
	visited := map[string]bool{}
	queue := []string{g.StartID()}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		sc, ok := g.Lookup(id)
		if !ok {
			continue
		}
		for _, c := range sc.Choices {
			queue = append(queue, c.NextSceneID)
		}
		if sc.AutoTransition != nil {
			queue = append(queue, sc.AutoTransition.NextSceneID)
		}
	}

	var missing []string
	for _, id := range g.SceneIDs() {
		if !visited[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
