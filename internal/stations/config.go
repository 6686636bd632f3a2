package stations

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines the station fleet configuration file.
type Config struct {
	Stations []Station `yaml:"stations"`
}

// DefaultFleet returns the built-in two-station fleet.
func DefaultFleet() Fleet {
	return Fleet{
		{ID: "Station1", Racks: []string{"rack_1", "rack_2", "rack_3", "rack_4"}},
		{ID: "Station2", Racks: []string{"rack_5", "rack_6", "rack_7", "rack_8"}},
	}
}

// LoadFleet loads the fleet from a yaml file, falling back to the default
// fleet when no path is given.
func LoadFleet(path string) (Fleet, error) {
	if path == "" {
		return DefaultFleet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stations: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("stations: parse config: %w", err)
	}
	fleet := Fleet(cfg.Stations)
	if len(fleet) == 0 {
		fleet = DefaultFleet()
	}
	if err := fleet.Validate(); err != nil {
		return nil, err
	}
	return fleet, nil
}
