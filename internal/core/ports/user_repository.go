package ports

import (
	"context"
	"time"

	"github.com/finansys/finansys-api/internal/core/domain"
)

// UserRepository is the credential store contract the auth core depends on.
// The core must not assume any persistence capability beyond these methods.
type UserRepository interface {
	// FindByEmail returns the user registered under email, or
	// domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcludingID supports profile-update uniqueness checks.
	ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateLastLogin stamps a successful authentication.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	// ListAll returns every account, newest first. Admin use only.
	ListAll(ctx context.Context) ([]*domain.User, error)
}
