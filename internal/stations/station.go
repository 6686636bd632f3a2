package stations

import "errors"

// Station represents one dispensing site with a fixed, ordered set of racks.
type Station struct {
	ID    string   `yaml:"id"`
	Racks []string `yaml:"racks"`
}

// Validate checks station invariants.
func (s Station) Validate() error {
	if s.ID == "" {
		return errors.New("stations: empty id")
	}
	if len(s.Racks) == 0 {
		return errors.New("stations: station " + s.ID + " has no racks")
	}
	seen := make(map[string]struct{}, len(s.Racks))
	for _, rack := range s.Racks {
		if rack == "" {
			return errors.New("stations: station " + s.ID + " has an empty rack id")
		}
		if _, dup := seen[rack]; dup {
			return errors.New("stations: station " + s.ID + " has duplicate rack " + rack)
		}
		seen[rack] = struct{}{}
	}
	return nil
}

// Fleet is the configured set of stations. Order is preserved for display.
type Fleet []Station

// Validate checks fleet invariants.
func (f Fleet) Validate() error {
	if len(f) == 0 {
		return errors.New("stations: empty fleet")
	}
	seen := make(map[string]struct{}, len(f))
	for _, station := range f {
		if err := station.Validate(); err != nil {
			return err
		}
		if _, dup := seen[station.ID]; dup {
			return errors.New("stations: duplicate station " + station.ID)
		}
		seen[station.ID] = struct{}{}
	}
	return nil
}

// Get returns the station with the given id.
func (f Fleet) Get(id string) (Station, bool) {
	for _, station := range f {
		if station.ID == id {
			return station, true
		}
	}
	return Station{}, false
}

// IDs returns station ids in fleet order.
func (f Fleet) IDs() []string {
	ids := make([]string, 0, len(f))
	for _, station := range f {
		ids = append(ids, station.ID)
	}
	return ids
}
