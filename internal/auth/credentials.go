package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned by a CredentialVerifier for any failed login.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Identity is the result of a successful credential check.
type Identity struct {
	UserID string
	Email  string
}

// CredentialVerifier checks an email/password pair.
// Implementations must return ErrInvalidCredentials without revealing which part was wrong.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*Identity, error)
}

// StaticCredential is one entry of a StaticVerifier.
type StaticCredential struct {
	Password string
	UserID   string
}

// StaticVerifier verifies against an in-memory table keyed by email.
// It is meant for tests and local fixtures, never for production wiring.
type StaticVerifier struct {
	creds map[string]StaticCredential
}

func NewStaticVerifier(creds map[string]StaticCredential) *StaticVerifier {
	normalized := make(map[string]StaticCredential, len(creds))
	for email, c := range creds {
		normalized[strings.ToLower(strings.TrimSpace(email))] = c
	}
	return &StaticVerifier{creds: normalized}
}

func (v *StaticVerifier) Verify(ctx context.Context, email, password string) (*Identity, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	c, ok := v.creds[key]
	if !ok || c.Password != password {
		return nil, ErrInvalidCredentials
	}
	return &Identity{UserID: c.UserID, Email: key}, nil
}
