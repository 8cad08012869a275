package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/handler"
	"github.com/voltatrips/volta/backend/internal/service"
)

func dayPlans() []domain.DayPlan {
	return []domain.DayPlan{
		{
			Plan: domain.Plan{ID: "plan-2", TripID: tripID, DayNumber: 2},
			Activities: []domain.Activity{
				{ID: "act-3", PlanID: "plan-2", Hour: "9:00 AM", Description: "Breakfast"},
				{ID: "act-4", PlanID: "plan-2", Hour: "3:00 PM", Description: "Museum"},
			},
		},
		{
			Plan:       domain.Plan{ID: "plan-1", TripID: tripID, DayNumber: 1},
			Activities: []domain.Activity{},
		},
	}
}

// ---- POST /trips/{trip_id}/plans -------------------------------------------

func TestCreatePlan_201(t *testing.T) {
	var got service.NewPlan
	svc := &mockPlanServicer{
		create: func(_ context.Context, in service.NewPlan) (domain.DayPlan, error) {
			got = in
			return domain.DayPlan{}, nil
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := newJSONRequest(t, http.MethodPost, "/trips/"+tripID+"/plans", map[string]any{
		"day_number": 1,
		"activities": []map[string]string{
			{"time": "3:00 PM", "description": "Museum"},
			{"time": "9:00 AM", "description": "Breakfast"},
		},
	})
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := env.do(req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Plan created successfully"}`, rec.Body.String())
	assert.Equal(t, tripID, got.TripID)
	assert.Equal(t, ownerID, got.RequesterID)
	require.NotNil(t, got.DayNumber)
	assert.Equal(t, 1, *got.DayNumber)
	assert.Equal(t, []service.NewActivity{
		{Time: "3:00 PM", Description: "Museum"},
		{Time: "9:00 AM", Description: "Breakfast"},
	}, got.Activities)
}

func TestCreatePlan_MissingDayNumberIsNil(t *testing.T) {
	var got service.NewPlan
	svc := &mockPlanServicer{
		create: func(_ context.Context, in service.NewPlan) (domain.DayPlan, error) {
			got = in
			return domain.DayPlan{}, fmt.Errorf("%w: day_number is required", domain.ErrValidation)
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := newJSONRequest(t, http.MethodPost, "/trips/"+tripID+"/plans", map[string]any{"activities": []any{}})
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := env.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "day_number is required", decodeError(t, rec))
	assert.Nil(t, got.DayNumber)
}

func TestCreatePlan_400_ActivityTime(t *testing.T) {
	svc := &mockPlanServicer{
		create: func(_ context.Context, _ service.NewPlan) (domain.DayPlan, error) {
			err := fmt.Errorf("%w: activity time is required", domain.ErrValidation)
			return domain.DayPlan{}, fmt.Errorf("service.PlanService.Create: %w (activities[1])", err)
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := newJSONRequest(t, http.MethodPost, "/trips/"+tripID+"/plans", map[string]any{
		"day_number": 1,
		"activities": []map[string]string{{"time": "9:00 AM"}, {"description": "no time"}},
	})
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := env.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "activity time is required (activities[1])", decodeError(t, rec))
}

func TestCreatePlan_ErrorStatuses(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"trip missing": {err: domain.ErrNotFound, status: http.StatusNotFound},
		"not owner":    {err: domain.ErrForbidden, status: http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockPlanServicer{
				create: func(_ context.Context, _ service.NewPlan) (domain.DayPlan, error) {
					return domain.DayPlan{}, fmt.Errorf("service.PlanService.Create: %w", tc.err)
				},
			}
			env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

			req := newJSONRequest(t, http.MethodPost, "/trips/"+tripID+"/plans", map[string]any{"day_number": 1})
			req.AddCookie(env.cookieFor(t, strangerID))
			rec := env.do(req)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestCreatePlan_413_BodyTooLarge(t *testing.T) {
	svc := &mockPlanServicer{}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	body := `{"day_number":1,"activities":[{"description":"` + strings.Repeat("x", 64) + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/trips/"+tripID+"/plans", strings.NewReader(body))
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request body too large", decodeError(t, rec))
}

// ---- GET /trips/{trip_id}/plan ---------------------------------------------

func TestGetPlan_200(t *testing.T) {
	svc := &mockPlanServicer{
		list: func(_ context.Context, _, _ string) ([]domain.DayPlan, error) { return dayPlans(), nil },
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID+"/plan", nil)
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"plan":[
		{"id":"plan-2","day_number":2,"activities":[
			{"id":"act-3","time":"9:00 AM","description":"Breakfast"},
			{"id":"act-4","time":"3:00 PM","description":"Museum"}
		]},
		{"id":"plan-1","day_number":1,"activities":[]}
	]}`, rec.Body.String())
}

func TestGetPlan_401_OwnerOnlyMode(t *testing.T) {
	env := newTestEnv(handler.Deps{Plans: &mockPlanServicer{}}, handler.Options{PublicPlanReads: false})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/trips/"+tripID+"/plan", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetPlan_200_PublicMode(t *testing.T) {
	var gotRequester = "unset"
	svc := &mockPlanServicer{
		list: func(_ context.Context, _, requester string) ([]domain.DayPlan, error) {
			gotRequester = requester
			return []domain.DayPlan{}, nil
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{PublicPlanReads: true})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/trips/"+tripID+"/plan", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"plan":[]}`, rec.Body.String())
	assert.Empty(t, gotRequester)
}

func TestGetPlan_403_NotOwner(t *testing.T) {
	svc := &mockPlanServicer{
		list: func(_ context.Context, _, _ string) ([]domain.DayPlan, error) {
			return nil, fmt.Errorf("service.PlanService.List: %w", domain.ErrForbidden)
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID+"/plan", nil)
	req.AddCookie(env.cookieFor(t, strangerID))
	rec := env.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetPlan_404(t *testing.T) {
	svc := &mockPlanServicer{
		list: func(_ context.Context, _, _ string) ([]domain.DayPlan, error) {
			return nil, fmt.Errorf("service.PlanService.List: %w", domain.ErrNotFound)
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := httptest.NewRequest(http.MethodGet, "/trips/missing/plan", nil)
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := env.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Trip not found", decodeError(t, rec))
}

// ---- DELETE /trips/{trip_id}/plans/{plan_id} -------------------------------

func TestDeletePlan_200(t *testing.T) {
	var gotTrip, gotPlan, gotRequester string
	svc := &mockPlanServicer{
		delete: func(_ context.Context, trip, plan, requester string) error {
			gotTrip, gotPlan, gotRequester = trip, plan, requester
			return nil
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+tripID+"/plans/"+planID, nil)
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Plan deleted successfully"}`, rec.Body.String())
	assert.Equal(t, []string{tripID, planID, ownerID}, []string{gotTrip, gotPlan, gotRequester})
}

func TestDeletePlan_404(t *testing.T) {
	svc := &mockPlanServicer{
		delete: func(_ context.Context, _, _, _ string) error {
			return fmt.Errorf("service.PlanService.Delete: %w", domain.ErrNotFound)
		},
	}
	env := newTestEnv(handler.Deps{Plans: svc}, handler.Options{})

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+tripID+"/plans/missing", nil)
	req.AddCookie(env.cookieFor(t, ownerID))
	rec := env.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Plan not found", decodeError(t, rec))
}

func TestDeletePlan_401_NoSession(t *testing.T) {
	env := newTestEnv(handler.Deps{Plans: &mockPlanServicer{}}, handler.Options{})

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/trips/"+tripID+"/plans/"+planID, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
