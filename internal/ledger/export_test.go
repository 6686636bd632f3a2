package ledger

import (
	"bytes"
	"testing"
	"time"
)

func TestBuildLedgerPDF(t *testing.T) {
	events := []DeliveryEvent{
		{Date: day(t, "2026-08-31"), Station: "Station1", Bottles: 3},
	}
	summaries := Summarize(events, day(t, "2026-08-31"), stationIDs)

	payload, err := BuildLedgerPDF("Juan Dela Cruz", summaries, events, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(payload, []byte("%PDF")) {
		t.Fatalf("expected PDF payload, got %q", payload[:4])
	}
}

func TestBuildLedgerXLSX(t *testing.T) {
	events := []DeliveryEvent{
		{Date: day(t, "2026-08-31"), Station: "Station1", Bottles: 3},
	}
	summaries := Summarize(events, day(t, "2026-08-31"), stationIDs)

	payload, err := BuildLedgerXLSX("Juan Dela Cruz", summaries, events, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	// XLSX is a zip container.
	if !bytes.HasPrefix(payload, []byte("PK")) {
		t.Fatalf("expected zip payload, got %q", payload[:2])
	}
}
