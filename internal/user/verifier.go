package user

import (
	"context"
	"errors"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
)

type credentialVerifier struct {
	service Service
}

// NewCredentialVerifier adapts the user Service to auth.CredentialVerifier.
// Inactive accounts fail like a wrong password.
func NewCredentialVerifier(service Service) auth.CredentialVerifier {
	return &credentialVerifier{service: service}
}

func (v *credentialVerifier) Verify(ctx context.Context, email, password string) (*auth.Identity, error) {
	u, err := v.service.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInactiveUser) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return &auth.Identity{UserID: u.ID, Email: u.Email}, nil
}
