package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClassesFileName is the optional class-name table at the dataset root.
const ClassesFileName = "classes.yaml"

// classesFile matches the common dataset convention of either an ordered
// names list or an explicit id-to-name map.
type classesFile struct {
	Names yaml.Node `yaml:"names"`
}

// LoadClasses reads <root>/classes.yaml if present. A missing file yields an
// empty table; a malformed file is an error.
func LoadClasses(root string) (map[int]string, error) {
	path := filepath.Join(root, ClassesFileName)
	data, err := os.ReadFile(path) //nolint:gosec // G304: dataset root is user-selected
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", ClassesFileName, err)
	}

	var cf classesFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ClassesFileName, err)
	}

	out := map[int]string{}
	switch cf.Names.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := cf.Names.Decode(&names); err != nil {
			return nil, fmt.Errorf("parse %s names list: %w", ClassesFileName, err)
		}
		for i, name := range names {
			out[i] = name
		}
	case yaml.MappingNode:
		byID := map[int]string{}
		if err := cf.Names.Decode(&byID); err != nil {
			return nil, fmt.Errorf("parse %s names map: %w", ClassesFileName, err)
		}
		out = byID
	case 0:
		// No names key at all; treat like a missing file.
	default:
		return nil, fmt.Errorf("%s: names must be a list or a map", ClassesFileName)
	}
	return out, nil
}
