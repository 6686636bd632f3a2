package stations

import "testing"

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"1", StatusFull},
		{"0", StatusEmpty},
		{"", StatusUnknown},
		{"2", StatusUnknown},
		{"true", StatusUnknown},
		{"full", StatusUnknown},
		{"01", StatusUnknown},
		{" 1", StatusUnknown},
	}
	for _, tc := range cases {
		if got := DeriveStatus(tc.raw); got != tc.want {
			t.Fatalf("DeriveStatus(%q): expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}

func TestStatusMapMissingRacksAreUnknown(t *testing.T) {
	station := Station{ID: "Station1", Racks: []string{"rack_1", "rack_2", "rack_3", "rack_4"}}
	raw := map[string]string{"rack_1": "1", "rack_2": "0"}

	statuses := StatusMap(station, raw)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if statuses["rack_1"] != StatusFull {
		t.Fatalf("expected rack_1 Full, got %s", statuses["rack_1"])
	}
	if statuses["rack_2"] != StatusEmpty {
		t.Fatalf("expected rack_2 Empty, got %s", statuses["rack_2"])
	}
	if statuses["rack_3"] != StatusUnknown || statuses["rack_4"] != StatusUnknown {
		t.Fatalf("expected missing racks Unknown, got %s/%s", statuses["rack_3"], statuses["rack_4"])
	}
}

func TestStatusMapNilReadings(t *testing.T) {
	station := Station{ID: "Station1", Racks: []string{"rack_1", "rack_2"}}
	statuses := StatusMap(station, nil)
	for rack, status := range statuses {
		if status != StatusUnknown {
			t.Fatalf("expected %s Unknown with no data, got %s", rack, status)
		}
	}
}

func TestCountEmpty(t *testing.T) {
	statuses := map[string]Status{
		"rack_1": StatusFull,
		"rack_2": StatusEmpty,
		"rack_3": StatusUnknown,
		"rack_4": StatusEmpty,
	}
	if got := CountEmpty(statuses); got != 2 {
		t.Fatalf("expected 2 empty racks, got %d", got)
	}
	if got := CountEmpty(map[string]Status{}); got != 0 {
		t.Fatalf("expected 0 for empty mapping, got %d", got)
	}
	if got := CountEmpty(nil); got != 0 {
		t.Fatalf("expected 0 for nil mapping, got %d", got)
	}
}
