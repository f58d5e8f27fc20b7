package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

// AuditService persists audit events dequeued by the dispatcher workers.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, event); err != nil {
		return err
	}
	s.logger.Debug().Str("actor", event.Actor).Str("action", event.Action).Msg("audit event recorded")
	return nil
}
