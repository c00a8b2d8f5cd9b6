// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage provides the implementation.
package repository

import (
	"context"
	"time"

	"github.com/mkarim/pettrack/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new user. A duplicate email yields a
	// conflict error.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type PetRepository interface {
	CreatePet(ctx context.Context, pet *model.Pet) error
	// GetPetOwned fetches a pet only if it belongs to userID. A pet
	// owned by someone else is reported as not found, never forbidden.
	GetPetOwned(ctx context.Context, id, userID string) (*model.Pet, error)
	ListPetsByUser(ctx context.Context, userID string) ([]model.Pet, error)
}

type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *model.Activity) error
	// ListActivitiesByUser returns the user's activities, most recent
	// start first.
	ListActivitiesByUser(ctx context.Context, userID string) ([]model.Activity, error)
	// ListActivitiesBetween returns activities whose start timestamp
	// falls in the half-open interval [start, end).
	ListActivitiesBetween(ctx context.Context, userID string, start, end time.Time) ([]model.Activity, error)
	// HasActivityBetween reports whether at least one activity starts
	// in [start, end). Used by the streak walk-back, one day at a time.
	HasActivityBetween(ctx context.Context, userID string, start, end time.Time) (bool, error)
}

type StreakRepository interface {
	// InsertSnapshotIfAbsent writes the snapshot unless one already
	// exists for the same user and date. Returns true when a row was
	// inserted.
	InsertSnapshotIfAbsent(ctx context.Context, snapshot *model.StreakSnapshot) (bool, error)
	GetSnapshot(ctx context.Context, userID string, date model.Date) (*model.StreakSnapshot, error)
}
