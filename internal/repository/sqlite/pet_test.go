package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/model"
)

func TestCreatePetAndGetOwned(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	species := "dog"
	weight := 12.5
	birthdate := model.NewDate(2022, time.June, 1)
	pet := &model.Pet{
		UserID:    owner.ID,
		Name:      "Milo",
		Species:   &species,
		Weight:    &weight,
		Birthdate: &birthdate,
	}
	if err := db.CreatePet(ctx, pet); err != nil {
		t.Fatalf("CreatePet: %v", err)
	}
	if pet.ID == "" {
		t.Fatal("CreatePet did not assign an ID")
	}

	got, err := db.GetPetOwned(ctx, pet.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetPetOwned: %v", err)
	}
	if got.Name != "Milo" {
		t.Errorf("Name = %q, want Milo", got.Name)
	}
	if got.Species == nil || *got.Species != "dog" {
		t.Errorf("Species = %v, want dog", got.Species)
	}
	if got.Weight == nil || *got.Weight != 12.5 {
		t.Errorf("Weight = %v, want 12.5", got.Weight)
	}
	if got.Birthdate == nil || !got.Birthdate.Equal(birthdate) {
		t.Errorf("Birthdate = %v, want %v", got.Birthdate, birthdate)
	}
}

func TestCreatePetNullableFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	pet := &model.Pet{UserID: owner.ID, Name: "Mystery"}
	if err := db.CreatePet(ctx, pet); err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	got, err := db.GetPetOwned(ctx, pet.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetPetOwned: %v", err)
	}
	if got.Species != nil || got.Weight != nil || got.Birthdate != nil {
		t.Errorf("optional fields should be nil, got species=%v weight=%v birthdate=%v",
			got.Species, got.Weight, got.Birthdate)
	}
}

func TestGetPetOwnedScopesToOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")
	stranger := seedUser(t, db, "stranger@example.com")

	pet := &model.Pet{UserID: owner.ID, Name: "Milo"}
	if err := db.CreatePet(ctx, pet); err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	// someone else's pet reads as not found, not forbidden
	_, err := db.GetPetOwned(ctx, pet.ID, stranger.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestListPetsByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")

	for _, name := range []string{"Milo", "Luna"} {
		if err := db.CreatePet(ctx, &model.Pet{UserID: owner.ID, Name: name}); err != nil {
			t.Fatalf("CreatePet(%s): %v", name, err)
		}
	}
	if err := db.CreatePet(ctx, &model.Pet{UserID: other.ID, Name: "Rex"}); err != nil {
		t.Fatalf("CreatePet(Rex): %v", err)
	}

	pets, err := db.ListPetsByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListPetsByUser: %v", err)
	}
	if len(pets) != 2 {
		t.Fatalf("got %d pets, want 2", len(pets))
	}
	for _, p := range pets {
		if p.UserID != owner.ID {
			t.Errorf("pet %s belongs to %s, want %s", p.Name, p.UserID, owner.ID)
		}
	}

	empty, err := db.ListPetsByUser(ctx, "no-such-user")
	if err != nil {
		t.Fatalf("ListPetsByUser(empty): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d pets for unknown user, want 0", len(empty))
	}
}
