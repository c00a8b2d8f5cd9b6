package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/repository"
)

const (
	MaxNoteLength = 2000
	// Inputs ahead of server time by more than this are clamped to now.
	futureSkewAllowance = time.Minute
)

// ActivityInput carries the caller-supplied fields for a new activity.
// Type, Unit, and Source arrive as raw strings and are checked against
// their closed sets here, at the boundary.
type ActivityInput struct {
	PetID     *string
	Type      string
	Amount    float64
	Unit      string
	StartedAt time.Time
	EndedAt   *time.Time
	Note      *string
	Source    string
}

// ActivityService handles activity logging and listing.
type ActivityService struct {
	activities repository.ActivityRepository
	pets       repository.PetRepository
	logger     *slog.Logger
	now        func() time.Time
}

func NewActivityService(
	activities repository.ActivityRepository,
	pets repository.PetRepository,
	logger *slog.Logger,
) *ActivityService {
	return &ActivityService{
		activities: activities,
		pets:       pets,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates and logs an activity for the given user.
//
// Rules enforced before persistence:
//   - type, unit, and source must be members of their closed sets
//   - amount must not be negative
//   - the unit must match the type: walk/play use minutes, treat uses
//     count, care/note use none or count
//   - timestamps are normalized to UTC; values more than a minute in
//     the future are clamped to now; ended_at defaults to started_at
//     and is clamped up to it
//   - a supplied pet_id must reference a pet owned by the caller, or
//     the request fails as not found
func (s *ActivityService) Create(ctx context.Context, userID string, in ActivityInput) (*model.Activity, error) {
	activityType, err := model.ParseActivityType(in.Type)
	if err != nil {
		return nil, apperror.ValidationFailed("type", err.Error())
	}
	unit, err := model.ParseActivityUnit(in.Unit)
	if err != nil {
		return nil, apperror.ValidationFailed("unit", err.Error())
	}
	source, err := model.ParseActivitySource(in.Source)
	if err != nil {
		return nil, apperror.ValidationFailed("source", err.Error())
	}

	if in.Amount < 0 {
		return nil, apperror.ValidationFailed("amount", "amount must not be negative")
	}
	if err := validateUnitForType(activityType, unit); err != nil {
		return nil, err
	}
	if in.StartedAt.IsZero() {
		return nil, apperror.ValidationFailed("started_at", "started_at is required")
	}
	if in.Note != nil && len(*in.Note) > MaxNoteLength {
		return nil, apperror.ValidationFailed("note",
			fmt.Sprintf("note must be %d characters or less", MaxNoteLength))
	}

	startedAt, endedAt := s.normalizeTimestamps(in.StartedAt, in.EndedAt)

	if in.PetID != nil {
		// Ownership check; a foreign pet reports as not found.
		if _, err := s.pets.GetPetOwned(ctx, *in.PetID, userID); err != nil {
			return nil, err
		}
	}

	activity := &model.Activity{
		UserID:    userID,
		PetID:     in.PetID,
		Type:      activityType,
		Amount:    in.Amount,
		Unit:      unit,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Note:      in.Note,
		Source:    source,
	}
	if err := s.activities.CreateActivity(ctx, activity); err != nil {
		s.logger.Error("failed to create activity",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating activity: %w", err)
	}

	s.logger.Info("activity logged",
		slog.String("id", activity.ID),
		slog.String("userID", userID),
		slog.String("type", string(activityType)),
	)

	return activity, nil
}

// List returns the caller's activities, most recent start first.
func (s *ActivityService) List(ctx context.Context, userID string) ([]model.Activity, error) {
	activities, err := s.activities.ListActivitiesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list activities",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return activities, nil
}

// validateUnitForType enforces the unit/type pairing rules.
func validateUnitForType(t model.ActivityType, u model.ActivityUnit) error {
	switch t {
	case model.ActivityWalk, model.ActivityPlay:
		if u != model.UnitMinutes {
			return apperror.ValidationFailed("unit", "walk/play must use 'min'")
		}
	case model.ActivityTreat:
		if u != model.UnitCount {
			return apperror.ValidationFailed("unit", "treat must use 'count'")
		}
	case model.ActivityCare, model.ActivityNote:
		if u != model.UnitNone && u != model.UnitCount {
			return apperror.ValidationFailed("unit", "care/note must use 'none' or 'count'")
		}
	}
	return nil
}

// normalizeTimestamps converts both timestamps to UTC, clamps clearly
// future values to now, defaults a missing end to the start, and
// clamps an end before the start up to the start.
func (s *ActivityService) normalizeTimestamps(startedAt time.Time, endedAt *time.Time) (time.Time, time.Time) {
	now := s.now().UTC()

	start := startedAt.UTC()
	end := start
	if endedAt != nil {
		end = endedAt.UTC()
	}

	if start.After(now.Add(futureSkewAllowance)) {
		start = now
	}
	if end.After(now.Add(futureSkewAllowance)) {
		end = now
	}
	if end.Before(start) {
		end = start
	}

	return start, end
}
