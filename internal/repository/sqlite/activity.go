package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/repository"
)

var _ repository.ActivityRepository = (*DB)(nil)

// CreateActivity inserts a new activity, generating the ID and
// creation timestamp. Timestamps are persisted as handed over; the
// service layer has already normalized them to UTC.
func (db *DB) CreateActivity(ctx context.Context, activity *model.Activity) error {
	activity.ID = xid.New().String()
	activity.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO activities
			(id, user_id, pet_id, type, amount, unit, started_at, ended_at, note, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID,
		activity.UserID,
		activity.PetID,
		string(activity.Type),
		activity.Amount,
		string(activity.Unit),
		activity.StartedAt,
		activity.EndedAt,
		activity.Note,
		string(activity.Source),
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting activity: %w", err)
	}

	return nil
}

// ListActivitiesByUser returns all of a user's activities, most recent
// start first.
func (db *DB) ListActivitiesByUser(ctx context.Context, userID string) ([]model.Activity, error) {
	return db.queryActivities(ctx,
		`SELECT id, user_id, pet_id, type, amount, unit, started_at, ended_at, note, source, created_at
		 FROM activities WHERE user_id = ?
		 ORDER BY started_at DESC`,
		userID,
	)
}

// ListActivitiesBetween returns a user's activities with started_at in
// [start, end), oldest first.
func (db *DB) ListActivitiesBetween(ctx context.Context, userID string, start, end time.Time) ([]model.Activity, error) {
	return db.queryActivities(ctx,
		`SELECT id, user_id, pet_id, type, amount, unit, started_at, ended_at, note, source, created_at
		 FROM activities
		 WHERE user_id = ? AND started_at >= ? AND started_at < ?
		 ORDER BY started_at ASC`,
		userID, start, end,
	)
}

// HasActivityBetween checks for at least one activity starting in
// [start, end) without fetching any rows beyond the first.
func (db *DB) HasActivityBetween(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var id string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM activities
		 WHERE user_id = ? AND started_at >= ? AND started_at < ?
		 LIMIT 1`,
		userID, start, end,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("sqlite: checking activity existence: %w", err)
	}
	return true, nil
}

func (db *DB) queryActivities(ctx context.Context, query string, args ...any) ([]model.Activity, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing activities: %w", err)
	}
	defer rows.Close()

	activities := make([]model.Activity, 0)
	for rows.Next() {
		var (
			a     model.Activity
			petID sql.NullString
			note  sql.NullString
		)
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&petID,
			&a.Type,
			&a.Amount,
			&a.Unit,
			&a.StartedAt,
			&a.EndedAt,
			&note,
			&a.Source,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning activity row: %w", err)
		}
		if petID.Valid {
			a.PetID = &petID.String
		}
		if note.Valid {
			a.Note = &note.String
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating activities: %w", err)
	}

	return activities, nil
}
