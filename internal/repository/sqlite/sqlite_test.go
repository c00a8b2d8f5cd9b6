package sqlite

import (
	"context"
	"testing"

	"github.com/mkarim/pettrack/internal/model"
)

// newTestDB opens a fresh in-memory database with the schema applied.
// It exists only for the duration of the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(\":memory:\"): %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// seedUser inserts a user so rows with foreign keys have somewhere to
// point.
func seedUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "pbkdf2_sha256$1$c2FsdA$a2V5"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user
}
