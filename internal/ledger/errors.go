package ledger

import "errors"

var (
	// ErrEmptyOperator means no operator identity was supplied.
	ErrEmptyOperator = errors.New("ledger: empty operator")
	// ErrEmptyStation means a delivery event has no station.
	ErrEmptyStation = errors.New("ledger: empty station")
	// ErrInvalidDay means a delivery event has no calendar day.
	ErrInvalidDay = errors.New("ledger: invalid day")
	// ErrNoBottles means a delivery event was built with a non-positive
	// count. Zero empty racks means nothing to record, not a zero-value row.
	ErrNoBottles = errors.New("ledger: bottle count must be positive")
	// ErrNoHistory signals an empty ledger to history consumers, so the UI
	// shell can show a notice instead of an empty chart.
	ErrNoHistory = errors.New("ledger: no history")
)
