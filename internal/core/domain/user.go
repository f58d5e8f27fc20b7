package domain

import "time"

// Role is the closed set of permission tiers.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Authority returns the authority string embedded in tokens for this role.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// User models a registered account. Email is the login identifier.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	Enabled               bool `json:"enabled"`
	AccountNonExpired     bool `json:"-"`
	AccountNonLocked      bool `json:"-"`
	CredentialsNonExpired bool `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// NewUser returns a user with the default role and account-state flags.
// The caller supplies an already-hashed password, never the plaintext.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Name:                  name,
		Email:                 email,
		PasswordHash:          passwordHash,
		Role:                  RoleUser,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// CanAuthenticate reports whether the account-state flags permit a login or a
// token-based re-authentication.
func (u *User) CanAuthenticate() bool {
	return u.Enabled && u.AccountNonExpired && u.AccountNonLocked && u.CredentialsNonExpired
}
