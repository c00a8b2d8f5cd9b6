package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/repository"
)

const MaxPetNameLength = 100

// PetInput carries the caller-supplied fields for a new pet.
type PetInput struct {
	Name      string
	Species   *string
	Weight    *float64
	Birthdate *model.Date
}

// PetService handles pet registration and listing.
type PetService struct {
	pets   repository.PetRepository
	logger *slog.Logger
}

func NewPetService(pets repository.PetRepository, logger *slog.Logger) *PetService {
	return &PetService{
		pets:   pets,
		logger: logger,
	}
}

// Create validates and registers a pet for the given owner.
func (s *PetService) Create(ctx context.Context, userID string, in PetInput) (*model.Pet, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "pet name is required")
	}
	if len(name) > MaxPetNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("pet name must be %d characters or less", MaxPetNameLength))
	}
	if in.Weight != nil && *in.Weight < 0 {
		return nil, apperror.ValidationFailed("weight", "weight must not be negative")
	}

	pet := &model.Pet{
		UserID:    userID,
		Name:      name,
		Species:   in.Species,
		Weight:    in.Weight,
		Birthdate: in.Birthdate,
	}
	if err := s.pets.CreatePet(ctx, pet); err != nil {
		s.logger.Error("failed to create pet",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating pet: %w", err)
	}

	s.logger.Info("pet created",
		slog.String("id", pet.ID),
		slog.String("userID", userID),
	)

	return pet, nil
}

// List returns the caller's pets.
func (s *PetService) List(ctx context.Context, userID string) ([]model.Pet, error) {
	pets, err := s.pets.ListPetsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list pets",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	return pets, nil
}
