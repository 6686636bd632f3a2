package dashboard

import (
	"errors"

	"hydrotrack-cloud/internal/users"
)

// ErrInvalidCredentials is the expected, operator-correctable rejection for
// a failed login. Session state is unchanged when it is returned.
var ErrInvalidCredentials = errors.New("dashboard: invalid email or password")

// Session is the explicit login state of one UI shell session. The zero
// value is logged out.
type Session struct {
	operator string
}

// LoggedIn reports whether the session carries an operator identity.
func (s Session) LoggedIn() bool { return s.operator != "" }

// Operator returns the session identity, empty when logged out.
func (s Session) Operator() string { return s.operator }

// Logout clears the session identity.
func (s Session) Logout() Session { return Session{} }

// Login matches credentials against the user table by exact equality and
// returns a logged-in session keyed by the account display name.
func Login(repo users.Repository, email, password string) (Session, *users.User, error) {
	if repo == nil {
		return Session{}, nil, errors.New("dashboard: nil user repository")
	}
	account, err := repo.FindByCredentials(email, password)
	if errors.Is(err, users.ErrNotFound) {
		return Session{}, nil, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, nil, err
	}
	if account.Name == "" {
		return Session{}, nil, ErrInvalidCredentials
	}
	return Session{operator: account.Name}, account, nil
}
