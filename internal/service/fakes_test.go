package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/model"
)

// =========================================================================
// IN-MEMORY FAKES
// =========================================================================
//
// The fakes are plain maps and slices behind the repository
// interfaces. Each one can be primed with a forced error to exercise
// the failure paths.

type fakeUserRepo struct {
	users     map[string]*model.User // keyed by ID
	byEmail   map[string]*model.User
	nextID    int
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return apperror.Conflict("email already registered")
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now().UTC()

	copied := *user
	f.users[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	return u, nil
}

type fakePetRepo struct {
	pets      map[string]*model.Pet
	nextID    int
	createErr error
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{pets: make(map[string]*model.Pet), nextID: 1}
}

func (f *fakePetRepo) CreatePet(ctx context.Context, pet *model.Pet) error {
	if f.createErr != nil {
		return f.createErr
	}
	pet.ID = fmt.Sprintf("pet-%d", f.nextID)
	f.nextID++
	pet.CreatedAt = time.Now().UTC()

	copied := *pet
	f.pets[pet.ID] = &copied
	return nil
}

func (f *fakePetRepo) GetPetOwned(ctx context.Context, id, userID string) (*model.Pet, error) {
	p, ok := f.pets[id]
	if !ok || p.UserID != userID {
		return nil, apperror.NotFound("pet", id)
	}
	return p, nil
}

func (f *fakePetRepo) ListPetsByUser(ctx context.Context, userID string) ([]model.Pet, error) {
	out := make([]model.Pet, 0)
	for _, p := range f.pets {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	activities []*model.Activity
	nextID     int
	createErr  error
	listErr    error
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{nextID: 1}
}

func (f *fakeActivityRepo) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if f.createErr != nil {
		return f.createErr
	}
	activity.ID = fmt.Sprintf("act-%d", f.nextID)
	f.nextID++
	activity.CreatedAt = time.Now().UTC()

	copied := *activity
	f.activities = append(f.activities, &copied)
	return nil
}

func (f *fakeActivityRepo) ListActivitiesByUser(ctx context.Context, userID string) ([]model.Activity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Activity, 0)
	for _, a := range f.activities {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) ListActivitiesBetween(ctx context.Context, userID string, start, end time.Time) ([]model.Activity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Activity, 0)
	for _, a := range f.activities {
		if a.UserID != userID {
			continue
		}
		if a.StartedAt.Before(start) || !a.StartedAt.Before(end) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeActivityRepo) HasActivityBetween(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	list, err := f.ListActivitiesBetween(ctx, userID, start, end)
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

type fakeStreakRepo struct {
	snapshots map[string]*model.StreakSnapshot // keyed by userID+date
	insertErr error
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{snapshots: make(map[string]*model.StreakSnapshot)}
}

func snapshotKey(userID string, date model.Date) string {
	return userID + "|" + date.String()
}

func (f *fakeStreakRepo) InsertSnapshotIfAbsent(ctx context.Context, snapshot *model.StreakSnapshot) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	key := snapshotKey(snapshot.UserID, snapshot.Date)
	if _, exists := f.snapshots[key]; exists {
		return false, nil
	}
	copied := *snapshot
	f.snapshots[key] = &copied
	return true, nil
}

func (f *fakeStreakRepo) GetSnapshot(ctx context.Context, userID string, date model.Date) (*model.StreakSnapshot, error) {
	s, ok := f.snapshots[snapshotKey(userID, date)]
	if !ok {
		return nil, apperror.NotFound("streak snapshot", date.String())
	}
	return s, nil
}

// testLogger discards everything below error level.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService wires an AuthService with fakes and fast crypto
// settings.
func newTestAuthService(t *testing.T, users *fakeUserRepo) *AuthService {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(1000)
	return NewAuthService(users, tokens, passwords, testLogger())
}
