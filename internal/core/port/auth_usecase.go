package port

import (
	"context"
	"errors"

	"mailtrack/internal/core/domain"
)

var (
	// ErrInvalidCredentials is returned for both unknown usernames and
	// wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAdminExists is returned when provisioning a username that is
	// already taken.
	ErrAdminExists = errors.New("admin already exists")
)

// AuthUseCase gates access to the admin views.
type AuthUseCase interface {
	// Login verifies the credentials and starts a new session.
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	// Authenticate resolves a session token. It returns nil when the
	// session does not exist or has expired.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	// Logout ends the session. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error
	// CreateAdmin provisions a new admin account.
	CreateAdmin(ctx context.Context, username, password string) (*domain.Admin, error)
	// EnsureAdmin creates the bootstrap account when no admin exists and
	// credentials were supplied. It reports whether an account was created.
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

// SessionStore persists admin sessions between requests.
type SessionStore interface {
	// Save stores the session until its ExpiresAt.
	Save(ctx context.Context, s domain.Session) error
	// Get returns nil when the token is unknown or expired.
	Get(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes a session; missing tokens are not an error.
	Delete(ctx context.Context, token string) error
}
