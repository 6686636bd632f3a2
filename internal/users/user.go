package users

import "errors"

// User is one operator account row from the user table.
type User struct {
	Name           string
	Age            string
	Address        string
	Nationality    string
	Religion       string
	CivilStatus    string
	Email          string
	BusinessPermit string
	StationName    string
	ContactNumber  string
	Password       string
}

// Columns is the canonical header of the user table.
var Columns = []string{
	"Name", "Age", "Address", "Nationality", "Religion",
	"Civil Status", "Email", "Business Permit",
	"Station Name", "Contact Number", "Password",
}

// ErrNotFound means no account matched the lookup.
var ErrNotFound = errors.New("users: not found")

// Repository reads operator accounts. This core never mutates the table;
// registration belongs to the UI shell.
type Repository interface {
	// FindByCredentials matches email and password by exact equality.
	FindByCredentials(email, password string) (*User, error)
	// FindByName returns the account for an operator display name.
	FindByName(name string) (*User, error)
	// EmailExists reports whether an account already uses the email.
	EmailExists(email string) (bool, error)
}
