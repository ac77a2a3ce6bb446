package plan

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a sample prompt offered to users.
type Preset struct {
	ID     string `yaml:"id" json:"id"`
	Label  string `yaml:"label" json:"label"`
	Prompt string `yaml:"prompt" json:"prompt"`
}

type presetCatalog struct {
	Presets []Preset `yaml:"presets"`
}

// Presets returns the bundled prompt presets in file order.
func Presets() ([]Preset, error) {
	var catalog presetCatalog
	if err := yaml.Unmarshal(presetsYAML, &catalog); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return catalog.Presets, nil
}
