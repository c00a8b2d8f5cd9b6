package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/repository"
)

var _ repository.StreakRepository = (*DB)(nil)

// InsertSnapshotIfAbsent writes a streak snapshot memo unless one
// already exists for the same user and date. INSERT OR IGNORE rides on
// the UNIQUE(user_id, date) constraint, so two concurrent first
// computations cannot produce duplicates; the loser is simply a no-op.
func (db *DB) InsertSnapshotIfAbsent(ctx context.Context, snapshot *model.StreakSnapshot) (bool, error) {
	snapshot.ID = xid.New().String()

	result, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO streak_snapshots
			(id, user_id, date, total_minutes, total_treats, met_goal)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snapshot.ID,
		snapshot.UserID,
		snapshot.Date,
		snapshot.TotalMinutes,
		snapshot.TotalTreats,
		snapshot.MetGoal,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: inserting streak snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return affected > 0, nil
}

// GetSnapshot retrieves the snapshot memo for a user and date.
func (db *DB) GetSnapshot(ctx context.Context, userID string, date model.Date) (*model.StreakSnapshot, error) {
	var s model.StreakSnapshot

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, date, total_minutes, total_treats, met_goal
		 FROM streak_snapshots
		 WHERE user_id = ? AND date = ?`,
		userID, date,
	).Scan(
		&s.ID,
		&s.UserID,
		&s.Date,
		&s.TotalMinutes,
		&s.TotalTreats,
		&s.MetGoal,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("streak snapshot", date.String())
		}
		return nil, fmt.Errorf("sqlite: getting streak snapshot: %w", err)
	}

	return &s, nil
}
