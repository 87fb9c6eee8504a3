package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type file struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadFile reads scenario definitions from a YAML document of the form:
//
//	scenarios:
//	  - id: leaky_neuron
//	    dt: 0.001
//	    ...
//
// Every scenario is validated before the slice is returned.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for _, sc := range f.Scenarios {
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.ID, err)
		}
	}
	return f.Scenarios, nil
}

// SaveFile writes scenarios back out as YAML, the inverse of LoadFile.
func SaveFile(path string, scenarios []Scenario) error {
	data, err := yaml.Marshal(file{Scenarios: scenarios})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
