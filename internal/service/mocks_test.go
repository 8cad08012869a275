package service_test

import (
	"context"
	"fmt"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/ident"
	"github.com/voltatrips/volta/backend/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones your test needs. An unset field panics, which flags unexpected calls.

type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id string) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}

type mockTripRepo struct {
	create      func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id string) (domain.Trip, error)
	listByOwner func(ctx context.Context, ownerID string) ([]domain.Trip, error)
	delete      func(ctx context.Context, id string) error
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

type mockPlanRepo struct {
	create               func(ctx context.Context, p domain.Plan) (domain.Plan, error)
	addActivity          func(ctx context.Context, a domain.Activity, position int) (domain.Activity, error)
	listByTrip           func(ctx context.Context, tripID string) ([]domain.Plan, error)
	listActivitiesByTrip func(ctx context.Context, tripID string) ([]domain.Activity, error)
	delete               func(ctx context.Context, tripID, planID string) error
}

func (m *mockPlanRepo) Create(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	return m.create(ctx, p)
}
func (m *mockPlanRepo) AddActivity(ctx context.Context, a domain.Activity, position int) (domain.Activity, error) {
	return m.addActivity(ctx, a, position)
}
func (m *mockPlanRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Plan, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockPlanRepo) ListActivitiesByTrip(ctx context.Context, tripID string) ([]domain.Activity, error) {
	return m.listActivitiesByTrip(ctx, tripID)
}
func (m *mockPlanRepo) Delete(ctx context.Context, tripID, planID string) error {
	return m.delete(ctx, tripID, planID)
}

// compile-time checks: mocks must satisfy the repo interfaces.
var (
	_ repo.UserRepo = (*mockUserRepo)(nil)
	_ repo.TripRepo = (*mockTripRepo)(nil)
	_ repo.PlanRepo = (*mockPlanRepo)(nil)
)

// fakeTransactor hands the same repos to every unit of work and counts calls.
// It cannot roll back; tests that care about atomicity assert that no write
// happened before the failure instead.
type fakeTransactor struct {
	repos repo.Repos
	calls int
}

func (f *fakeTransactor) InTx(_ context.Context, fn func(repo.Repos) error) error {
	f.calls++
	return fn(f.repos)
}

var _ repo.Transactor = (*fakeTransactor)(nil)

// sequentialIDs returns id-1, id-2, ... so tests can assert on generated ids.
func sequentialIDs() ident.Generator {
	n := 0
	return ident.Func(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

// plainHasher stores passwords with a visible prefix instead of hashing.
type plainHasher struct {
	hashCalls int
}

func (h *plainHasher) Hash(password string) (string, error) {
	h.hashCalls++
	return "hashed:" + password, nil
}

func (h *plainHasher) Verify(digest, password string) bool {
	return digest == "hashed:"+password
}
