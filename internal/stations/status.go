package stations

// Status is the derived occupancy state of a rack.
type Status string

const (
	StatusFull    Status = "Full"
	StatusEmpty   Status = "Empty"
	StatusUnknown Status = "Unknown"
)

// DeriveStatus maps a raw rack reading to its status.
// "1" means Full and "0" means Empty; any other value, including an
// absent reading, is Unknown. Never fails.
func DeriveStatus(raw string) Status {
	switch raw {
	case "1":
		return StatusFull
	case "0":
		return StatusEmpty
	default:
		return StatusUnknown
	}
}

// StatusMap derives a status for every configured rack of the station.
// Racks missing from the raw readings, and a nil reading set, come out Unknown.
func StatusMap(station Station, raw map[string]string) map[string]Status {
	statuses := make(map[string]Status, len(station.Racks))
	for _, rack := range station.Racks {
		value, ok := raw[rack]
		if !ok {
			statuses[rack] = StatusUnknown
			continue
		}
		statuses[rack] = DeriveStatus(value)
	}
	return statuses
}

// CountEmpty counts racks whose status is Empty. This is the authoritative
// bottle count for a delivery action.
func CountEmpty(statuses map[string]Status) int {
	count := 0
	for _, status := range statuses {
		if status == StatusEmpty {
			count++
		}
	}
	return count
}
