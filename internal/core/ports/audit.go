package ports

import (
	"context"

	"github.com/finansys/finansys-api/internal/core/domain"
)

// AuditTrail accepts audit events for asynchronous persistence. Record must
// never block request handling beyond the dispatcher's channel buffer.
type AuditTrail interface {
	Record(event domain.AuditEvent)
}

// AuditService persists a single audit event; invoked by dispatcher workers.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditRepository defines persistence for the audit log.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// NopAuditTrail discards events; used in tests.
type NopAuditTrail struct{}

func (NopAuditTrail) Record(domain.AuditEvent) {}

// TotalsCache caches expensive sum aggregations. A miss returns ok=false.
// Implementations must treat cache failures as misses, never as errors that
// reach the caller.
type TotalsCache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, value float64)
	// Invalidate drops every cached total; called after entry mutations.
	Invalidate(ctx context.Context)
}

// NopTotalsCache never hits; used in tests.
type NopTotalsCache struct{}

func (NopTotalsCache) Get(context.Context, string) (float64, bool) { return 0, false }
func (NopTotalsCache) Set(context.Context, string, float64)        {}
func (NopTotalsCache) Invalidate(context.Context)                  {}
