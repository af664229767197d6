// Package program reads and writes block programs as YAML documents.
//
//	robot:
//	  robotType: wheeled
//	blocks:
//	  - type: set_wheel_speed
//	    value: 0.8
//	  - type: move_forward
//
// Missing labels, categories, colours and values are filled from the catalog,
// and blocks without an id get a generated one. Unknown block types are kept.
package program

import (
	"fmt"
	"os"

	"github.com/aretw0/robotstudio/pkg/catalog"
	"github.com/aretw0/robotstudio/pkg/config"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Program is a robot configuration plus an ordered block list.
type Program struct {
	Robot  config.Robot   `yaml:"robot"`
	Blocks []domain.Block `yaml:"blocks"`
}

type document struct {
	Robot  map[string]any   `yaml:"robot"`
	Blocks []map[string]any `yaml:"blocks"`
}

// Load reads and parses a program file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML program.
func Parse(data []byte) (*Program, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}

	prog := &Program{Robot: config.Default()}
	if doc.Robot != nil {
		if err := prog.Robot.Merge(doc.Robot); err != nil {
			return nil, err
		}
	}

	prog.Blocks = make([]domain.Block, 0, len(doc.Blocks))
	for i, raw := range doc.Blocks {
		var b domain.Block
		if err := mapstructure.Decode(raw, &b); err != nil {
			return nil, fmt.Errorf("block %d: failed to decode: %w", i+1, err)
		}
		if b.Type == "" {
			return nil, fmt.Errorf("block %d: missing type", i+1)
		}
		_, hasValue := raw["value"]
		prog.Blocks = append(prog.Blocks, complete(b, hasValue))
	}
	return prog, nil
}

// complete fills the presentational fields and default value from the catalog.
func complete(b domain.Block, hasValue bool) domain.Block {
	if b.ID == "" {
		b.ID = catalog.NewID()
	}
	tpl, category, known := catalog.Lookup(b.Type)
	if !known {
		if b.Label == "" {
			b.Label = string(b.Type)
		}
		return b
	}
	if b.Label == "" {
		b.Label = tpl.Label
	}
	if b.Category == "" {
		b.Category = string(category)
	}
	if b.Color == "" {
		b.Color = tpl.Color
	}
	if !hasValue {
		b.Value = tpl.Value
	}
	return b
}

// Marshal encodes the program as YAML.
func Marshal(p *Program) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}
	return data, nil
}

// Save writes the program to path.
func Save(path string, p *Program) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write program: %w", err)
	}
	return nil
}
