package users

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// CSVRepository reads the user table from a CSV file. The file is created
// with the canonical header on first use if absent.
type CSVRepository struct {
	path string
}

// NewCSVRepository constructs a repository over the given file.
func NewCSVRepository(path string) (*CSVRepository, error) {
	if path == "" {
		return nil, errors.New("users: empty path")
	}
	repo := &CSVRepository{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := repo.bootstrap(); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("users: stat %s: %w", path, err)
	}
	return repo, nil
}

// FindByCredentials implements Repository.
func (r *CSVRepository) FindByCredentials(email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrNotFound
	}
	all, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Email == email && all[i].Password == password {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByName implements Repository.
func (r *CSVRepository) FindByName(name string) (*User, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	all, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// EmailExists implements Repository.
func (r *CSVRepository) EmailExists(email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	all, err := r.load()
	if err != nil {
		return false, err
	}
	for i := range all {
		if all[i].Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *CSVRepository) bootstrap() error {
	file, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("users: create %s: %w", r.path, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(Columns); err != nil {
		file.Close()
		return fmt.Errorf("users: write %s: %w", r.path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("users: write %s: %w", r.path, err)
	}
	return file.Close()
}

// load reads every account. Columns are resolved by header name so tables
// written with extra or reordered columns still read; missing columns fill
// with empty strings.
func (r *CSVRepository) load() ([]User, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("users: open %s: %w", r.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("users: read %s: %w", r.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, column := range records[0] {
		index[column] = i
	}
	field := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	accounts := make([]User, 0, len(records)-1)
	for _, row := range records[1:] {
		accounts = append(accounts, User{
			Name:           field(row, "Name"),
			Age:            field(row, "Age"),
			Address:        field(row, "Address"),
			Nationality:    field(row, "Nationality"),
			Religion:       field(row, "Religion"),
			CivilStatus:    field(row, "Civil Status"),
			Email:          field(row, "Email"),
			BusinessPermit: field(row, "Business Permit"),
			StationName:    field(row, "Station Name"),
			ContactNumber:  field(row, "Contact Number"),
			Password:       field(row, "Password"),
		})
	}
	return accounts, nil
}
