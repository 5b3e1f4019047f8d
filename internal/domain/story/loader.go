package story

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed story.yaml
var embeddedStory []byte

// storyFile is the on-disk authoring format: a designated start id plus an
// ordered list of scenes.
type storyFile struct {
	Start  string  `yaml:"start"`
	Scenes []Scene `yaml:"scenes"`
}

// Load reads a story graph from a YAML file. An empty path loads the
// embedded default storyline.
func Load(path string) (*Graph, error) {
	if path == "" {
		return Parse(embeddedStory)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read story file: %w", err)
	}
	return Parse(data)
}

// Parse decodes the YAML authoring format into an immutable Graph.
func Parse(data []byte) (*Graph, error) {
	var file storyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse story yaml: %w", err)
	}
	if file.Start == "" {
		return nil, fmt.Errorf("story file declares no start scene")
	}
	if len(file.Scenes) == 0 {
		return nil, fmt.Errorf("story file contains no scenes")
	}

	scenes := make(map[string]Scene, len(file.Scenes))
	for _, sc := range file.Scenes {
		if sc.ID == "" {
			return nil, fmt.Errorf("scene with empty id in story file")
		}
		if _, dup := scenes[sc.ID]; dup {
			return nil, fmt.Errorf("duplicate scene id %q in story file", sc.ID)
		}
		scenes[sc.ID] = sc
	}

	if _, ok := scenes[file.Start]; !ok {
		return nil, fmt.Errorf("start scene %q not present in story file", file.Start)
	}

	// Dangling choice targets are NOT rejected here: the engine degrades to
	// the start scene at runtime, and cmd/storycheck reports them offline.
	return NewGraph(file.Start, scenes), nil
}
