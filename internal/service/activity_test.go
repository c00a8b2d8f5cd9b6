package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/model"
)

// fixedNow pins the service clock so the future-clamp rules are
// deterministic.
var fixedNow = time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

func newTestActivityService(activities *fakeActivityRepo, pets *fakePetRepo) *ActivityService {
	svc := NewActivityService(activities, pets, testLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestActivityCreate(t *testing.T) {
	activities := newFakeActivityRepo()
	svc := newTestActivityService(activities, newFakePetRepo())
	ctx := context.Background()

	start := fixedNow.Add(-time.Hour)
	end := start.Add(25 * time.Minute)
	note := "around the block"

	act, err := svc.Create(ctx, "user-1", ActivityInput{
		Type:      "walk",
		Amount:    25,
		Unit:      "min",
		StartedAt: start,
		EndedAt:   &end,
		Note:      &note,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if act.Type != model.ActivityWalk || act.Amount != 25 || act.Unit != model.UnitMinutes {
		t.Errorf("got %s %.0f %s, want walk 25 min", act.Type, act.Amount, act.Unit)
	}
	if act.Source != model.SourceManual {
		t.Errorf("source = %q, want manual default", act.Source)
	}
	if !act.StartedAt.Equal(start) || !act.EndedAt.Equal(end) {
		t.Errorf("timestamps = %v..%v, want %v..%v", act.StartedAt, act.EndedAt, start, end)
	}
	if len(activities.activities) != 1 {
		t.Errorf("stored %d activities, want 1", len(activities.activities))
	}
}

func TestActivityCreateValidation(t *testing.T) {
	svc := newTestActivityService(newFakeActivityRepo(), newFakePetRepo())
	ctx := context.Background()

	start := fixedNow.Add(-time.Hour)
	longNote := strings.Repeat("x", 2001)

	cases := []struct {
		name string
		in   ActivityInput
	}{
		{"unknown type", ActivityInput{Type: "run", Unit: "min", StartedAt: start}},
		{"unknown unit", ActivityInput{Type: "walk", Unit: "hours", StartedAt: start}},
		{"unknown source", ActivityInput{Type: "walk", Unit: "min", Source: "import", StartedAt: start}},
		{"negative amount", ActivityInput{Type: "walk", Amount: -5, Unit: "min", StartedAt: start}},
		{"walk without min", ActivityInput{Type: "walk", Amount: 5, Unit: "count", StartedAt: start}},
		{"play without min", ActivityInput{Type: "play", Amount: 5, Unit: "none", StartedAt: start}},
		{"treat without count", ActivityInput{Type: "treat", Amount: 1, Unit: "min", StartedAt: start}},
		{"care with min", ActivityInput{Type: "care", Amount: 1, Unit: "min", StartedAt: start}},
		{"missing started_at", ActivityInput{Type: "walk", Amount: 5, Unit: "min"}},
		{"overlong note", ActivityInput{Type: "walk", Amount: 5, Unit: "min", StartedAt: start, Note: &longNote}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tc.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want validation failure", err)
			}
		})
	}
}

func TestActivityCreateUnitDefaults(t *testing.T) {
	svc := newTestActivityService(newFakeActivityRepo(), newFakePetRepo())
	ctx := context.Background()
	start := fixedNow.Add(-time.Hour)

	// an empty unit reads as none, legal for care and note
	act, err := svc.Create(ctx, "user-1", ActivityInput{Type: "note", StartedAt: start})
	if err != nil {
		t.Fatalf("Create note: %v", err)
	}
	if act.Unit != model.UnitNone {
		t.Errorf("unit = %q, want none", act.Unit)
	}

	// care accepts count as well
	if _, err := svc.Create(ctx, "user-1", ActivityInput{
		Type: "care", Amount: 2, Unit: "count", StartedAt: start,
	}); err != nil {
		t.Errorf("Create care with count: %v", err)
	}
}

func TestActivityCreateTimestampNormalization(t *testing.T) {
	svc := newTestActivityService(newFakeActivityRepo(), newFakePetRepo())
	ctx := context.Background()

	t.Run("future start clamps to now", func(t *testing.T) {
		act, err := svc.Create(ctx, "user-1", ActivityInput{
			Type: "walk", Amount: 10, Unit: "min",
			StartedAt: fixedNow.Add(2 * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if !act.StartedAt.Equal(fixedNow) {
			t.Errorf("StartedAt = %v, want clamped to %v", act.StartedAt, fixedNow)
		}
	})

	t.Run("slight clock skew passes through", func(t *testing.T) {
		start := fixedNow.Add(30 * time.Second)
		act, err := svc.Create(ctx, "user-1", ActivityInput{
			Type: "walk", Amount: 10, Unit: "min", StartedAt: start,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if !act.StartedAt.Equal(start) {
			t.Errorf("StartedAt = %v, want %v untouched", act.StartedAt, start)
		}
	})

	t.Run("missing end defaults to start", func(t *testing.T) {
		start := fixedNow.Add(-time.Hour)
		act, err := svc.Create(ctx, "user-1", ActivityInput{
			Type: "walk", Amount: 10, Unit: "min", StartedAt: start,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if !act.EndedAt.Equal(start) {
			t.Errorf("EndedAt = %v, want %v", act.EndedAt, start)
		}
	})

	t.Run("end before start clamps up", func(t *testing.T) {
		start := fixedNow.Add(-time.Hour)
		end := start.Add(-30 * time.Minute)
		act, err := svc.Create(ctx, "user-1", ActivityInput{
			Type: "walk", Amount: 10, Unit: "min", StartedAt: start, EndedAt: &end,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if !act.EndedAt.Equal(start) {
			t.Errorf("EndedAt = %v, want clamped to %v", act.EndedAt, start)
		}
	})

	t.Run("offsets convert to UTC", func(t *testing.T) {
		loc := time.FixedZone("plus2", 2*60*60)
		start := time.Date(2026, time.August, 29, 10, 0, 0, 0, loc)
		act, err := svc.Create(ctx, "user-1", ActivityInput{
			Type: "walk", Amount: 10, Unit: "min", StartedAt: start,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if act.StartedAt.Location() != time.UTC {
			t.Errorf("StartedAt zone = %v, want UTC", act.StartedAt.Location())
		}
		if act.StartedAt.Hour() != 8 {
			t.Errorf("StartedAt hour = %d, want 08 UTC", act.StartedAt.Hour())
		}
	})
}

func TestActivityCreatePetOwnership(t *testing.T) {
	pets := newFakePetRepo()
	svc := newTestActivityService(newFakeActivityRepo(), pets)
	ctx := context.Background()

	pet := &model.Pet{UserID: "user-1", Name: "Milo"}
	if err := pets.CreatePet(ctx, pet); err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	start := fixedNow.Add(-time.Hour)
	in := ActivityInput{
		PetID: &pet.ID, Type: "walk", Amount: 10, Unit: "min", StartedAt: start,
	}

	if _, err := svc.Create(ctx, "user-1", in); err != nil {
		t.Errorf("Create with own pet: %v", err)
	}

	// someone else's pet reports as not found
	_, err := svc.Create(ctx, "user-2", in)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}

	unknown := "no-such-pet"
	in.PetID = &unknown
	if _, err := svc.Create(ctx, "user-1", in); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want not found for unknown pet", err)
	}
}
