package dashboard

import (
	"errors"
	"testing"

	"hydrotrack-cloud/internal/users"
)

type stubUserRepo struct {
	accounts map[string]users.User
}

func (r *stubUserRepo) FindByCredentials(email, password string) (*users.User, error) {
	account, ok := r.accounts[email]
	if !ok || account.Password != password {
		return nil, users.ErrNotFound
	}
	return &account, nil
}

func (r *stubUserRepo) FindByName(name string) (*users.User, error) {
	for _, account := range r.accounts {
		if account.Name == name {
			found := account
			return &found, nil
		}
	}
	return nil, users.ErrNotFound
}

func (r *stubUserRepo) EmailExists(email string) (bool, error) {
	_, ok := r.accounts[email]
	return ok, nil
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubUserRepo{accounts: map[string]users.User{
		"juan@example.com": {Name: "Juan Dela Cruz", Email: "juan@example.com", Password: "secret", StationName: "Station1"},
	}}

	session, account, err := Login(repo, "juan@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !session.LoggedIn() {
		t.Fatal("expected logged-in session")
	}
	if session.Operator() != "Juan Dela Cruz" {
		t.Fatalf("expected operator keyed by display name, got %q", session.Operator())
	}
	if account.StationName != "Station1" {
		t.Fatalf("unexpected profile: %+v", account)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := &stubUserRepo{accounts: map[string]users.User{
		"juan@example.com": {Name: "Juan Dela Cruz", Email: "juan@example.com", Password: "secret"},
	}}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "juan@example.com", "nope"},
		{"unknown email", "nobody@example.com", "secret"},
		{"empty credentials", "", ""},
	}
	for _, tc := range cases {
		session, _, err := Login(repo, tc.email, tc.password)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
		if session.LoggedIn() {
			t.Fatalf("%s: expected logged-out session", tc.name)
		}
	}
}

func TestLogoutClearsIdentity(t *testing.T) {
	repo := &stubUserRepo{accounts: map[string]users.User{
		"juan@example.com": {Name: "Juan Dela Cruz", Email: "juan@example.com", Password: "secret"},
	}}
	session, _, err := Login(repo, "juan@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	session = session.Logout()
	if session.LoggedIn() {
		t.Fatal("expected logged-out session after logout")
	}
	if session.Operator() != "" {
		t.Fatalf("expected empty operator, got %q", session.Operator())
	}
}
