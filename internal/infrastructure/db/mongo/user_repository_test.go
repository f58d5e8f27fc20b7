package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finansys/finansys-api/internal/core/domain"
)

func dupKeyError(message string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: message},
		},
	}
}

func TestDuplicateUserField(t *testing.T) {
	nameErr := dupKeyError(`E11000 duplicate key error collection: finansys.users index: name_1 dup key: { name: "Alice" }`)
	if !mongo.IsDuplicateKeyError(nameErr) {
		t.Fatalf("fixture is not a duplicate-key error")
	}
	if got := duplicateUserField(nameErr); !errors.Is(got, domain.ErrNameTaken) {
		t.Fatalf("name index violation: expected ErrNameTaken, got %v", got)
	}

	emailErr := dupKeyError(`E11000 duplicate key error collection: finansys.users index: email_1 dup key: { email: "a@example.com" }`)
	if got := duplicateUserField(emailErr); !errors.Is(got, domain.ErrEmailTaken) {
		t.Fatalf("email index violation: expected ErrEmailTaken, got %v", got)
	}
}
