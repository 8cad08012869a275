package service

import (
	"context"
	"fmt"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/ident"
	"github.com/voltatrips/volta/backend/internal/repo"
)

// PlanReadPolicy decides who may read a trip's plans.
type PlanReadPolicy int

const (
	// PlanReadsOwnerOnly restricts plan reads to the trip owner.
	PlanReadsOwnerOnly PlanReadPolicy = iota
	// PlanReadsPublic lets any caller, even without a session, read any trip's plans.
	PlanReadsPublic
)

// NewActivity is one activity in an add-plan request.
type NewActivity struct {
	Time        string
	Description string
}

// NewPlan carries the raw add-plan input. DayNumber is nil when the caller
// did not send one.
type NewPlan struct {
	TripID      string
	RequesterID string
	DayNumber   *int
	Activities  []NewActivity
}

// PlanService implements business logic for Plans and their Activities.
type PlanService struct {
	tx     repo.Transactor
	ids    ident.Generator
	policy PlanReadPolicy
}

// NewPlanService constructs a PlanService.
func NewPlanService(tx repo.Transactor, ids ident.Generator, policy PlanReadPolicy) *PlanService {
	return &PlanService{tx: tx, ids: ids, policy: policy}
}

// Create adds one plan and its activities to a trip as a single unit.
// Returns domain.ErrNotFound if the trip does not exist, domain.ErrForbidden
// if the requester is not the owner, and domain.ErrValidation if day_number is
// missing or not positive or any activity lacks a parseable time. Nothing is
// written unless every activity is valid.
func (s *PlanService) Create(ctx context.Context, in NewPlan) (domain.DayPlan, error) {
	var result domain.DayPlan
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := ownedTrip(ctx, r, in.TripID, in.RequesterID); err != nil {
			return err
		}

		plan, activities, err := s.buildPlan(in)
		if err != nil {
			return err
		}

		result.Plan, err = r.Plans.Create(ctx, plan)
		if err != nil {
			return err
		}
		result.Activities = make([]domain.Activity, 0, len(activities))
		for i, a := range activities {
			saved, err := r.Plans.AddActivity(ctx, a, i)
			if err != nil {
				return err
			}
			result.Activities = append(result.Activities, saved)
		}
		sortActivities(result.Activities)
		return nil
	})
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("service.PlanService.Create: %w", err)
	}
	return result, nil
}

// List returns every plan of a trip, newest first, each with its activities in
// time-of-day order. Always non-nil.
// Under PlanReadsOwnerOnly a requester other than the owner gets
// domain.ErrForbidden.
func (s *PlanService) List(ctx context.Context, tripID, requesterID string) ([]domain.DayPlan, error) {
	var days []domain.DayPlan
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		if s.policy == PlanReadsPublic {
			_, err = r.Trips.GetByID(ctx, tripID)
		} else {
			_, err = ownedTrip(ctx, r, tripID, requesterID)
		}
		if err != nil {
			return err
		}

		plans, err := r.Plans.ListByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		activities, err := r.Plans.ListActivitiesByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		days = groupActivities(plans, activities)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.PlanService.List: %w", err)
	}
	return days, nil
}

// Delete removes a plan and its activities.
// Returns domain.ErrNotFound if the trip, or the plan within that trip, does
// not exist, and domain.ErrForbidden if the requester is not the owner.
func (s *PlanService) Delete(ctx context.Context, tripID, planID, requesterID string) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := ownedTrip(ctx, r, tripID, requesterID); err != nil {
			return err
		}
		return r.Plans.Delete(ctx, tripID, planID)
	})
	if err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	return nil
}

// buildPlan validates the whole request before anything is written.
func (s *PlanService) buildPlan(in NewPlan) (domain.Plan, []domain.Activity, error) {
	if in.DayNumber == nil {
		return domain.Plan{}, nil, fmt.Errorf("%w: day_number is required", domain.ErrValidation)
	}
	if *in.DayNumber < 1 {
		return domain.Plan{}, nil, fmt.Errorf("%w: day_number must be a positive integer", domain.ErrValidation)
	}

	plan := domain.Plan{ID: s.ids.NewID(), TripID: in.TripID, DayNumber: *in.DayNumber}

	activities := make([]domain.Activity, 0, len(in.Activities))
	for i, a := range in.Activities {
		minute, err := domain.ParseTimeOfDay(a.Time)
		if err != nil {
			return domain.Plan{}, nil, fmt.Errorf("%w (activities[%d])", err, i)
		}
		activities = append(activities, domain.Activity{
			ID:          s.ids.NewID(),
			PlanID:      plan.ID,
			Hour:        a.Time,
			MinuteOfDay: minute,
			Description: a.Description,
		})
	}
	return plan, activities, nil
}
