package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLConfig is a read-only YAML view of a parsed config.
type YAMLConfig struct {
	Mode        string      `yaml:"mode"`
	Current     []string    `yaml:"current_color"`
	Colors      []YAMLColor `yaml:"colors"`
	TargetFiles []string    `yaml:"target_files"`
	Overwrite   bool        `yaml:"overwrite"`
}

// YAMLColor is one configured color (row) with its weight.
type YAMLColor struct {
	Colors []string `yaml:"colors,flow"`
	Weight uint     `yaml:"weight"`
}

// ToYAML builds the YAML view of cfg.
func ToYAML(cfg Config) YAMLConfig {
	yc := YAMLConfig{
		Mode:        string(cfg.Mode()),
		TargetFiles: cfg.Targets(),
		Overwrite:   cfg.Overwrites(),
	}
	for _, c := range CurrentRow(cfg) {
		yc.Current = append(yc.Current, c.String())
	}
	for _, choice := range Choices(cfg) {
		entry := YAMLColor{Weight: choice.Weight}
		for _, c := range choice.Row {
			entry.Colors = append(entry.Colors, c.String())
		}
		yc.Colors = append(yc.Colors, entry)
	}
	return yc
}

// MarshalYAML renders cfg as a YAML document.
func MarshalYAML(cfg Config) ([]byte, error) {
	out, err := yaml.Marshal(ToYAML(cfg))
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return out, nil
}
