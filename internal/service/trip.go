package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/ident"
	"github.com/voltatrips/volta/backend/internal/repo"
)

// NewTrip carries the raw add-trip input. Dates are dd/mm/yyyy strings.
type NewTrip struct {
	OwnerID     string
	Destination string
	StartDate   string
	EndDate     string
}

// TripService implements business logic for Trip operations.
type TripService struct {
	tx  repo.Transactor
	ids ident.Generator
}

// NewTripService constructs a TripService.
func NewTripService(tx repo.Transactor, ids ident.Generator) *TripService {
	return &TripService{tx: tx, ids: ids}
}

// List returns the owner's trips, newest first. Always non-nil.
// Returns domain.ErrNotFound if the owner does not exist.
func (s *TripService) List(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	var trips []domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Users.GetByID(ctx, ownerID); err != nil {
			return err
		}
		var err error
		trips, err = r.Trips.ListByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Create validates and persists a new trip.
// Returns domain.ErrValidation for bad input and domain.ErrNotFound if the
// owner does not exist.
func (s *TripService) Create(ctx context.Context, in NewTrip) (domain.Trip, error) {
	trip, err := s.buildTrip(in)
	if err != nil {
		return domain.Trip{}, err
	}

	var created domain.Trip
	err = s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Users.GetByID(ctx, in.OwnerID); err != nil {
			return err
		}
		var err error
		created, err = r.Trips.Create(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Delete removes a trip and everything under it.
// Returns domain.ErrNotFound if the trip does not exist and
// domain.ErrForbidden if requesterID is not the owner.
func (s *TripService) Delete(ctx context.Context, tripID, requesterID string) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := ownedTrip(ctx, r, tripID, requesterID); err != nil {
			return err
		}
		return r.Trips.Delete(ctx, tripID)
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// buildTrip enforces the add-trip rules:
//   - destination must be non-empty (whitespace-only is rejected).
//   - both dates must parse as dd/mm/yyyy.
//   - end_date must not be before start_date.
func (s *TripService) buildTrip(in NewTrip) (domain.Trip, error) {
	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		return domain.Trip{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	start, err := domain.ParseDate("start_date", in.StartDate)
	if err != nil {
		return domain.Trip{}, err
	}
	end, err := domain.ParseDate("end_date", in.EndDate)
	if err != nil {
		return domain.Trip{}, err
	}
	if end.Before(start) {
		return domain.Trip{}, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return domain.Trip{
		ID:          s.ids.NewID(),
		OwnerID:     in.OwnerID,
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// ownedTrip loads a trip and checks that requesterID owns it.
func ownedTrip(ctx context.Context, r repo.Repos, tripID, requesterID string) (domain.Trip, error) {
	trip, err := r.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if requesterID == "" || trip.OwnerID != requesterID {
		return domain.Trip{}, domain.ErrForbidden
	}
	return trip, nil
}
