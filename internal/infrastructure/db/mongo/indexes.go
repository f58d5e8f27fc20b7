package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates every collection index the API relies on. Uniqueness
// of user email/name and category name is enforced here, not only in the
// service layer, so concurrent writers cannot race past the checks.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := EnsureUserIndexes(ctx, db); err != nil {
		return err
	}
	if err := EnsureCategoryIndexes(ctx, db); err != nil {
		return err
	}
	return EnsureEntryIndexes(ctx, db)
}
