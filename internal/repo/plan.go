package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/voltatrips/volta/backend/internal/domain"
)

// PlanRepo defines the persistence operations for Plans and their Activities.
// Single-plan operations are scoped by tripID so a plan id from another trip
// is reported as not found.
type PlanRepo interface {
	// Create inserts a new plan and returns the persisted record.
	Create(ctx context.Context, plan domain.Plan) (domain.Plan, error)

	// AddActivity inserts one activity. position records input order and is
	// used as the tiebreak when two activities share a time of day.
	AddActivity(ctx context.Context, activity domain.Activity, position int) (domain.Activity, error)

	// ListByTrip returns the trip's plans, most recently added first.
	ListByTrip(ctx context.Context, tripID string) ([]domain.Plan, error)

	// ListActivitiesByTrip returns every activity of every plan in the trip,
	// ordered by time of day ascending, then by input position.
	ListActivitiesByTrip(ctx context.Context, tripID string) ([]domain.Activity, error)

	// Delete removes a plan and its activities, scoped to tripID.
	// Returns domain.ErrNotFound if no such plan exists under that trip.
	Delete(ctx context.Context, tripID, planID string) error
}

type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

func (r *pgPlanRepo) Create(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	const q = `
		INSERT INTO plans (id, trip_id, day_number)
		VALUES (@id, @trip_id, @day_number)
		RETURNING id, trip_id, day_number, created_at`

	args := pgx.NamedArgs{
		"id":         plan.ID,
		"trip_id":    plan.TripID,
		"day_number": plan.DayNumber,
	}

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) AddActivity(ctx context.Context, a domain.Activity, position int) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (id, plan_id, hour, minute_of_day, description, position)
		VALUES (@id, @plan_id, @hour, @minute_of_day, @description, @position)
		RETURNING id, plan_id, hour, minute_of_day, description`

	args := pgx.NamedArgs{
		"id":            a.ID,
		"plan_id":       a.PlanID,
		"hour":          a.Hour,
		"minute_of_day": a.MinuteOfDay,
		"description":   a.Description,
		"position":      position,
	}

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.PlanRepo.AddActivity: %w", err)
	}
	return result, nil
}

// ListByTrip orders by the seq identity column rather than created_at, which
// is identical for plans inserted in the same transaction.
func (r *pgPlanRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Plan, error) {
	const q = `
		SELECT id, trip_id, day_number, created_at
		FROM plans
		WHERE trip_id = @trip_id
		ORDER BY seq DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PlanRepo.ListByTrip: scan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListByTrip: rows: %w", err)
	}
	return plans, nil
}

func (r *pgPlanRepo) ListActivitiesByTrip(ctx context.Context, tripID string) ([]domain.Activity, error) {
	const q = `
		SELECT a.id, a.plan_id, a.hour, a.minute_of_day, a.description
		FROM activities a
		JOIN plans p ON p.id = a.plan_id
		WHERE p.trip_id = @trip_id
		ORDER BY a.minute_of_day, a.position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListActivitiesByTrip: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PlanRepo.ListActivitiesByTrip: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListActivitiesByTrip: rows: %w", err)
	}
	return activities, nil
}

// Delete removes the plan's activities and then the plan.
// Callers should run this inside a Transactor.
func (r *pgPlanRepo) Delete(ctx context.Context, tripID, planID string) error {
	const (
		deleteActivities = `
			DELETE FROM activities
			WHERE plan_id = (SELECT id FROM plans WHERE id = @id AND trip_id = @trip_id)`
		deletePlan = `DELETE FROM plans WHERE id = @id AND trip_id = @trip_id`
	)

	args := pgx.NamedArgs{"id": planID, "trip_id": tripID}
	if _, err := r.db.Exec(ctx, deleteActivities, args); err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: activities: %w", err)
	}

	tag, err := r.db.Exec(ctx, deletePlan, args)
	if err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanPlan(s scanner) (domain.Plan, error) {
	var p domain.Plan
	err := s.Scan(&p.ID, &p.TripID, &p.DayNumber, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}
	return p, nil
}

func scanActivity(s scanner) (domain.Activity, error) {
	var a domain.Activity
	err := s.Scan(&a.ID, &a.PlanID, &a.Hour, &a.MinuteOfDay, &a.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}
	return a, nil
}
