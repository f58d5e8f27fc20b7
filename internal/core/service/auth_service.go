package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/finansys/finansys-api/internal/api/metrics"
	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/password"
	"github.com/finansys/finansys-api/internal/core/ports"
	"github.com/finansys/finansys-api/internal/core/token"
)

// AuthService implements login, registration and email-availability checks.
// It is stateless; per-request identity lives in the request context, bound
// by the auth middleware.
type AuthService struct {
	users  ports.UserRepository
	codec  *token.Codec
	audit  ports.AuditTrail
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, codec *token.Codec, audit ports.AuditTrail, logger zerolog.Logger) *AuthService {
	if audit == nil {
		audit = ports.NopAuditTrail{}
	}
	return &AuthService{users: users, codec: codec, audit: audit, logger: logger}
}

// Login verifies credentials and issues a session token. Every failure mode
// (unknown email, wrong password, unusable account) collapses to
// domain.ErrInvalidCredentials so the response never reveals which part was
// wrong.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*ports.LoginResult, error) {
	if email == "" || plaintext == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.loginFailed(email, "unknown email")
		}
		return nil, err
	}

	if !user.CanAuthenticate() {
		return nil, s.loginFailed(email, "account not usable")
	}
	if !password.Matches(plaintext, user.PasswordHash) {
		return nil, s.loginFailed(email, "password mismatch")
	}

	now := time.Now()
	tokenString, err := s.codec.Issue(user.Email, map[string]any{
		"userId":      user.ID,
		"email":       user.Email,
		"authorities": []string{user.Role.Authority()},
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now.UTC()); err != nil {
		// The token is already issued; a failed stamp should not fail the login.
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("last-login update failed")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.Record(domain.AuditEvent{Actor: user.Email, Action: domain.AuditLoginSucceeded, Timestamp: now.UTC()})
	s.logger.Info().Str("email", user.Email).Msg("user authenticated")

	return &ports.LoginResult{
		Token:     tokenString,
		TokenType: "Bearer",
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: now.Add(s.codec.TTL()),
	}, nil
}

// loginFailed logs the real reason internally and returns the uniform error.
func (s *AuthService) loginFailed(email, reason string) error {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	s.audit.Record(domain.AuditEvent{Actor: email, Action: domain.AuditLoginFailed, Detail: reason, Timestamp: time.Now().UTC()})
	s.logger.Info().Str("email", email).Str("reason", reason).Msg("login rejected")
	return domain.ErrInvalidCredentials
}

// Register creates an account with role USER and default account flags.
// Duplicate email or name is a failure result, not an error; the caller can
// always tell a rejection from a system fault.
func (s *AuthService) Register(ctx context.Context, name, email, plaintext string) (*ports.RegisterResult, error) {
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return &ports.RegisterResult{Success: false, Message: "email already in use"}, nil
	}

	nameTaken, err := s.users.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if nameTaken {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return &ports.RegisterResult{Success: false, Message: "user name already in use"}, nil
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, domain.NewUser(name, email, hash))
	if err != nil {
		// A concurrent registration can still lose the race to the unique index.
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrNameTaken) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return &ports.RegisterResult{Success: false, Message: err.Error()}, nil
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.audit.Record(domain.AuditEvent{Actor: created.Email, Action: domain.AuditRegistered, Timestamp: time.Now().UTC()})
	s.logger.Info().Str("email", created.Email).Msg("user registered")

	return &ports.RegisterResult{Success: true, Message: "user registered successfully"}, nil
}

// CheckEmailAvailability reports whether email is free to register. It has
// no side effects and is safe to expose without authentication.
func (s *AuthService) CheckEmailAvailability(ctx context.Context, email string) (bool, error) {
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return !taken, nil
}
