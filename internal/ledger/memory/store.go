package memory

import (
	"sync"

	"hydrotrack-cloud/internal/ledger"
)

// Store is an in-memory ledger store. It mirrors the file store contract,
// including create-on-first-access, and is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string][]ledger.DeliveryEvent
}

// NewStore constructs a store.
func NewStore() *Store {
	return &Store{data: make(map[string][]ledger.DeliveryEvent)}
}

// Load returns the operator's events in append order.
func (s *Store) Load(operator string) ([]ledger.DeliveryEvent, error) {
	if operator == "" {
		return nil, ledger.ErrEmptyOperator
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	events, ok := s.data[operator]
	if !ok {
		s.data[operator] = nil
		return nil, nil
	}
	out := make([]ledger.DeliveryEvent, len(events))
	copy(out, events)
	return out, nil
}

// Append adds one event to the end of the operator's ledger.
func (s *Store) Append(operator string, event ledger.DeliveryEvent) error {
	if operator == "" {
		return ledger.ErrEmptyOperator
	}
	if event.Station == "" {
		return ledger.ErrEmptyStation
	}
	if event.Bottles <= 0 {
		return ledger.ErrNoBottles
	}
	s.mu.Lock()
	s.data[operator] = append(s.data[operator], event)
	s.mu.Unlock()
	return nil
}
