package ledger

import "time"

// DateLayout is the calendar-day format persisted in ledger files.
const DateLayout = "2006-01-02"

// DeliveryEvent is one recorded restock delivery. Events are immutable once
// appended; the ledger is the financial record of the operator.
type DeliveryEvent struct {
	Date    time.Time
	Station string
	Bottles int
}

// NewDeliveryEvent builds a validated delivery event for a calendar day.
func NewDeliveryEvent(day time.Time, station string, bottles int) (DeliveryEvent, error) {
	if day.IsZero() {
		return DeliveryEvent{}, ErrInvalidDay
	}
	if station == "" {
		return DeliveryEvent{}, ErrEmptyStation
	}
	if bottles <= 0 {
		return DeliveryEvent{}, ErrNoBottles
	}
	return DeliveryEvent{Date: Day(day), Station: station, Bottles: bottles}, nil
}

// Day truncates a time to its calendar day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
