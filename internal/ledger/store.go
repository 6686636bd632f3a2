package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Header is the canonical column order of a ledger file.
var Header = []string{"Date", "Station", "Bottles Delivered"}

// Store persists per-operator delivery ledgers.
type Store interface {
	// Load returns the operator's events in append order, creating an empty
	// ledger on first access. Rows that fail to parse are excluded.
	Load(operator string) ([]DeliveryEvent, error)
	// Append adds one event to the end of the operator's ledger.
	Append(operator string, event DeliveryEvent) error
}

// FileStore keeps one CSV ledger per operator under a directory. Appends are
// a full read-concatenate-write of the file; fine at this volume, and it
// keeps the persisted table readable by anything that speaks CSV.
type FileStore struct {
	dir string
}

// NewFileStore constructs a file store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("ledger: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Filename derives the ledger file name from an operator display name.
func Filename(operator string) string {
	return strings.ReplaceAll(operator, " ", "_") + "_stock.csv"
}

// Path returns the ledger file path for an operator.
func (s *FileStore) Path(operator string) string {
	return filepath.Join(s.dir, Filename(operator))
}

// Load implements Store.
func (s *FileStore) Load(operator string) ([]DeliveryEvent, error) {
	rows, err := s.readRows(operator)
	if err != nil {
		return nil, err
	}
	events := make([]DeliveryEvent, 0, len(rows))
	for _, row := range rows {
		event, ok := parseRow(row)
		if !ok {
			// Malformed rows stay in the file but never reach aggregates.
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Append implements Store. Existing rows, malformed ones included, are
// written back untouched and in their original order.
func (s *FileStore) Append(operator string, event DeliveryEvent) error {
	if event.Station == "" {
		return ErrEmptyStation
	}
	if event.Bottles <= 0 {
		return ErrNoBottles
	}
	if event.Date.IsZero() {
		return ErrInvalidDay
	}
	rows, err := s.readRows(operator)
	if err != nil {
		return err
	}
	rows = append(rows, formatRow(event))
	return s.writeRows(operator, rows)
}

// readRows returns the data rows of the operator's ledger, bootstrapping an
// empty file on first access.
func (s *FileStore) readRows(operator string) ([][]string, error) {
	if operator == "" {
		return nil, ErrEmptyOperator
	}
	path := s.Path(operator)
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.writeRows(operator, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ledger: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func (s *FileStore) writeRows(operator string, rows [][]string) error {
	path := s.Path(operator)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ledger: create %s: %w", path, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		file.Close()
		return fmt.Errorf("ledger: write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			file.Close()
			return fmt.Errorf("ledger: write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("ledger: write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("ledger: close %s: %w", path, err)
	}
	return nil
}

func parseRow(row []string) (DeliveryEvent, bool) {
	if len(row) < 3 {
		return DeliveryEvent{}, false
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(row[0]), time.UTC)
	if err != nil {
		return DeliveryEvent{}, false
	}
	station := strings.TrimSpace(row[1])
	if station == "" {
		return DeliveryEvent{}, false
	}
	bottles, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil || bottles < 0 {
		return DeliveryEvent{}, false
	}
	return DeliveryEvent{Date: day, Station: station, Bottles: bottles}, true
}

func formatRow(event DeliveryEvent) []string {
	return []string{
		event.Date.Format(DateLayout),
		event.Station,
		strconv.Itoa(event.Bottles),
	}
}
