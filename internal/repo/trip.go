package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/voltatrips/volta/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record with the
	// server-assigned creation_date populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// ListByOwner returns the owner's trips ordered by creation_date descending.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error)

	// Delete removes a trip together with its plans and their activities.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool or a pgx.Tx from the Transactor; in tests
// pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, owner_id, destination, start_date, end_date)
		VALUES (@id, @owner_id, @destination, @start_date, @end_date)
		RETURNING id, owner_id, destination, start_date, end_date, creation_date`

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"owner_id":    trip.OwnerID,
		"destination": trip.Destination,
		"start_date":  pgtype.Date{Time: trip.StartDate, Valid: true},
		"end_date":    pgtype.Date{Time: trip.EndDate, Valid: true},
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	const q = `
		SELECT id, owner_id, destination, start_date, end_date, creation_date
		FROM trips
		WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's trips, most recently created first.
// The id tiebreak keeps the order stable for trips created in the same instant.
func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	const q = `
		SELECT id, owner_id, destination, start_date, end_date, creation_date
		FROM trips
		WHERE owner_id = @owner_id
		ORDER BY creation_date DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	return trips, nil
}

// Delete removes the trip's activities, plans and finally the trip itself.
// The schema also cascades; deleting children explicitly keeps the guarantee
// independent of how the foreign keys were declared. Callers should run this
// inside a Transactor so the three statements commit together.
func (r *pgTripRepo) Delete(ctx context.Context, id string) error {
	const (
		deleteActivities = `
			DELETE FROM activities
			WHERE plan_id IN (SELECT id FROM plans WHERE trip_id = @id)`
		deletePlans = `DELETE FROM plans WHERE trip_id = @id`
		deleteTrip  = `DELETE FROM trips WHERE id = @id`
	)

	args := pgx.NamedArgs{"id": id}
	for _, q := range []string{deleteActivities, deletePlans} {
		if _, err := r.db.Exec(ctx, q, args); err != nil {
			return fmt.Errorf("repo.TripRepo.Delete: children: %w", err)
		}
	}

	tag, err := r.db.Exec(ctx, deleteTrip, args)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&t.ID, &t.OwnerID, &t.Destination, &startDate, &endDate, &t.CreationDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	return t, nil
}
