package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mailtrack/internal/core/domain"
	"mailtrack/internal/core/port"
	"mailtrack/internal/metrics"
	"mailtrack/internal/security/password"
)

// MinPasswordLength applies to newly provisioned admins only.
const MinPasswordLength = 10

// AuthOptions configures an AuthUseCase.
type AuthOptions struct {
	SessionTTL time.Duration
	// PasswordParams zero value means password.Default.
	PasswordParams password.Params
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// AuthUseCase implements port.AuthUseCase on top of an admin repository
// and a session store.
type AuthUseCase struct {
	admins   port.AdminRepository
	sessions port.SessionStore

	ttl     time.Duration
	params  password.Params
	logger  *slog.Logger
	metrics *metrics.Metrics

	now      func() time.Time
	newToken func() string

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase creates a new usecase with the provided admin repository
// and session store. Zero options fall back to defaults.
func NewAuthUseCase(admins port.AdminRepository, sessions port.SessionStore, opts AuthOptions) *AuthUseCase {
	params := opts.PasswordParams
	if params == (password.Params{}) {
		params = password.Default
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthUseCase{
		admins:   admins,
		sessions: sessions,
		ttl:      ttl,
		params:   params,
		logger:   logger,
		metrics:  opts.Metrics,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Login verifies the credentials and stores a new session. Unknown users
// and wrong passwords both return port.ErrInvalidCredentials.
func (u *AuthUseCase) Login(ctx context.Context, username, plain string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	admin, err := u.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if admin == nil {
		// burn the same amount of work as a real check
		password.Verify(plain, u.dummy())
		u.metrics.Login(false)
		return nil, port.ErrInvalidCredentials
	}
	if !password.Verify(plain, admin.PasswordHash) {
		u.metrics.Login(false)
		u.logger.Warn("login failed", slog.String("username", username))
		return nil, port.ErrInvalidCredentials
	}

	now := u.now()
	s := domain.Session{
		Token:     u.newToken(),
		AdminID:   admin.ID,
		Username:  admin.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(u.ttl),
	}
	if err = u.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	u.metrics.Login(true)
	u.logger.Info("admin logged in", slog.String("username", admin.Username))
	return &s, nil
}

// Authenticate resolves token to a live session, or nil when there is none.
func (u *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}
	s, err := u.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s == nil || s.Expired(u.now()) {
		return nil, nil
	}
	return s, nil
}

// Logout removes the session. An empty token is a no-op.
func (u *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := u.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CreateAdmin validates and stores a new admin. Validation failures are
// returned as *port.ValidationError.
func (u *AuthUseCase) CreateAdmin(ctx context.Context, username, plain string) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	fields := make(map[string]string)
	if username == "" {
		fields["username"] = "username is required"
	}
	if len(plain) < MinPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}
	if len(fields) > 0 {
		return nil, &port.ValidationError{Fields: fields}
	}

	hash, err := password.Hash(u.params, plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &domain.Admin{Username: username, PasswordHash: hash}
	if err = u.admins.CreateAdmin(ctx, a); err != nil {
		if errors.Is(err, port.ErrAdminExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	u.logger.Info("admin created", slog.String("username", a.Username))
	return a, nil
}

// EnsureAdmin creates the bootstrap admin while the admins table is empty.
// It reports whether an account was created.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, username, plain string) (bool, error) {
	n, err := u.admins.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if username == "" || plain == "" {
		u.logger.Warn("no admin account exists; run `mailtrack admin create` to provision one")
		return false, nil
	}
	if _, err = u.CreateAdmin(ctx, username, plain); err != nil {
		if errors.Is(err, port.ErrAdminExists) {
			// another instance won the race
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// dummy returns a hash used to burn verification time for unknown users.
func (u *AuthUseCase) dummy() string {
	u.dummyOnce.Do(func() {
		h, err := password.Hash(u.params, "mailtrack-dummy-password")
		if err == nil {
			u.dummyHash = h
		}
	})
	return u.dummyHash
}
