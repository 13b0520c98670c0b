package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seed is the YAML document used to populate the catalog tables.
type Seed struct {
	Transports  []SeedTransport `yaml:"transports"`
	EnergyTypes []string        `yaml:"energy_types"`
	Locations   []string        `yaml:"locations"`
}

type SeedTransport struct {
	Name    string   `yaml:"name"`
	ApiName string   `yaml:"api_name"`
	Types   []string `yaml:"types"`
}

func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := seed.validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

func (s Seed) validate() error {
	typeNames := map[string]bool{}
	for i, transport := range s.Transports {
		if strings.TrimSpace(transport.Name) == "" || strings.TrimSpace(transport.ApiName) == "" {
			return fmt.Errorf("%w: transport %d needs name and api_name", ErrInvalidSeed, i)
		}
		for _, typeName := range transport.Types {
			if strings.TrimSpace(typeName) == "" {
				return fmt.Errorf("%w: empty type of transport %s", ErrInvalidSeed, transport.Name)
			}
			if typeNames[typeName] {
				return fmt.Errorf("%w: transport type %s listed twice", ErrInvalidSeed, typeName)
			}
			typeNames[typeName] = true
		}
	}
	for _, name := range append(append([]string{}, s.EnergyTypes...), s.Locations...) {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty energy type or location", ErrInvalidSeed)
		}
	}
	return nil
}
