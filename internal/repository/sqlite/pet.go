package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/repository"
)

var _ repository.PetRepository = (*DB)(nil)

// CreatePet inserts a new pet, generating the ID and creation timestamp.
func (db *DB) CreatePet(ctx context.Context, pet *model.Pet) error {
	pet.ID = xid.New().String()
	pet.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO pets (id, user_id, name, species, weight, birthdate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pet.ID,
		pet.UserID,
		pet.Name,
		pet.Species,
		pet.Weight,
		pet.Birthdate,
		pet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting pet: %w", err)
	}

	return nil
}

// GetPetOwned fetches a pet scoped to its owner. Filtering on user_id in
// the WHERE clause means a pet belonging to someone else scans as no
// rows, which reports as not found without leaking existence.
func (db *DB) GetPetOwned(ctx context.Context, id, userID string) (*model.Pet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, species, weight, birthdate, created_at
		 FROM pets WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	pet, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("pet", id)
		}
		return nil, fmt.Errorf("sqlite: getting pet %s: %w", id, err)
	}

	return pet, nil
}

// ListPetsByUser returns all of a user's pets, oldest first.
func (db *DB) ListPetsByUser(ctx context.Context, userID string) ([]model.Pet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, species, weight, birthdate, created_at
		 FROM pets WHERE user_id = ?
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing pets: %w", err)
	}
	defer rows.Close()

	pets := make([]model.Pet, 0)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning pet row: %w", err)
		}
		pets = append(pets, *pet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating pets: %w", err)
	}

	return pets, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (*model.Pet, error) {
	var (
		p         model.Pet
		species   sql.NullString
		weight    sql.NullFloat64
		birthdate sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&species,
		&weight,
		&birthdate,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if species.Valid {
		p.Species = &species.String
	}
	if weight.Valid {
		p.Weight = &weight.Float64
	}
	if birthdate.Valid {
		d, err := model.ParseDate(birthdate.String)
		if err != nil {
			return nil, err
		}
		p.Birthdate = &d
	}

	return &p, nil
}
