// Package auth implements the back-office login. There is exactly one
// administrator account, configured at deploy time; no user table, no
// roles. The session itself is the only thing issued on success.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/bendahara-app/bendahara/internal/shared"
)

// AdminUserID is the session user identity for the single admin.
const AdminUserID = "admin"

// Credential is the configured admin login.
type Credential struct {
	Email        string
	PasswordHash string
}

// Service wraps the credential check.
type Service struct {
	credential Credential
}

// NewService constructs a Service around the configured credential.
func NewService(credential Credential) *Service {
	return &Service{credential: credential}
}

// Authenticate validates the email/password pair against the configured
// admin credential. Both failure modes return the same error so the
// login page cannot be used to probe for the configured email.
func (s *Service) Authenticate(ctx context.Context, email, password string) error {
	if email != s.credential.Email {
		return shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.credential.PasswordHash), []byte(password)); err != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}
