package ports

import (
	"context"
	"time"

	"github.com/finansys/finansys-api/internal/core/domain"
)

// LoginResult carries the issued token plus the display metadata returned to
// the client. It never includes the password hash.
type LoginResult struct {
	Token     string
	TokenType string // always "Bearer"
	ID        int64
	Name      string
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// RegisterResult is a non-exceptional outcome: a duplicate email or name is
// a failure result, not an error. Errors are reserved for system faults.
type RegisterResult struct {
	Success bool
	Message string
}

type AuthService interface {
	// Login verifies credentials and issues a session token. Unknown email,
	// wrong password and unusable account state all fail with
	// domain.ErrInvalidCredentials, deliberately indistinguishable.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) (*RegisterResult, error)
	// CheckEmailAvailability reports whether email is free. Read-only.
	CheckEmailAvailability(ctx context.Context, email string) (bool, error)
}
