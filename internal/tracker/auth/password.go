package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	HasherPlain  = "plain"
	HasherBcrypt = "bcrypt"
)

// PasswordHasher turns a password into its stored form and checks a
// candidate password against a stored value.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, candidate string) (bool, error)
	Name() string
}

// NewPasswordHasher returns the hasher registered under name.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case HasherPlain:
		return PlainHasher{}, nil
	case HasherBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// PlainHasher stores passwords as given and compares them verbatim.
// It exists for compatibility with stores written by earlier clients and
// is insecure: anyone who can read the store can read every password.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlainHasher) Matches(stored, candidate string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}

func (PlainHasher) Name() string {
	return HasherPlain
}

// BcryptHasher stores bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptHasher) Matches(stored, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func (BcryptHasher) Name() string {
	return HasherBcrypt
}
