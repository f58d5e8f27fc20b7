package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finansys/finansys-api/internal/core/domain"
)

const auditCollection = "audit_log"

// AuditRepository persists the append-only audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Actor     string    `bson:"actor"`
	Action    string    `bson:"action"`
	Detail    string    `bson:"detail,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.coll.InsertOne(ctx, mongoAuditEvent{
		Actor:     event.Actor,
		Action:    event.Action,
		Detail:    event.Detail,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
