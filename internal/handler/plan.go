package handler

import (
	"net/http"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/middleware"
	"github.com/voltatrips/volta/backend/internal/service"
)

type activityRequest struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

type createPlanRequest struct {
	// DayNumber is a pointer so an absent field is told apart from 0.
	DayNumber  *int              `json:"day_number"`
	Activities []activityRequest `json:"activities"`
}

type activityResponse struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

type dayPlanResponse struct {
	ID         string             `json:"id"`
	DayNumber  int                `json:"day_number"`
	Activities []activityResponse `json:"activities"`
}

type planListResponse struct {
	Plan []dayPlanResponse `json:"plan"`
}

func dayPlanToResponse(p domain.DayPlan) dayPlanResponse {
	acts := make([]activityResponse, len(p.Activities))
	for i, a := range p.Activities {
		acts[i] = activityResponse{ID: a.ID, Time: a.Hour, Description: a.Description}
	}
	return dayPlanResponse{ID: p.Plan.ID, DayNumber: p.Plan.DayNumber, Activities: acts}
}

// CreatePlan handles POST /trips/{trip_id}/plans.
func (s *Server) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "trip_id")
	if !ok {
		return
	}
	var req createPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := service.NewPlan{
		TripID:      ids[0],
		RequesterID: middleware.UserID(r.Context()),
		DayNumber:   req.DayNumber,
		Activities:  make([]service.NewActivity, len(req.Activities)),
	}
	for i, a := range req.Activities {
		in.Activities[i] = service.NewActivity{Time: a.Time, Description: a.Description}
	}

	if _, err := s.plans.Create(r.Context(), in); err != nil {
		writeServiceError(w, r, err, msgTripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, message{Message: "Plan created successfully"})
}

// GetPlan handles GET /trips/{trip_id}/plan. Plans come newest first, each
// with its activities in time-of-day order.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "trip_id")
	if !ok {
		return
	}

	plans, err := s.plans.List(r.Context(), ids[0], middleware.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, msgTripNotFound)
		return
	}

	out := planListResponse{Plan: make([]dayPlanResponse, len(plans))}
	for i, p := range plans {
		out.Plan[i] = dayPlanToResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// DeletePlan handles DELETE /trips/{trip_id}/plans/{plan_id}.
func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "trip_id", "plan_id")
	if !ok {
		return
	}

	if err := s.plans.Delete(r.Context(), ids[0], ids[1], middleware.UserID(r.Context())); err != nil {
		writeServiceError(w, r, err, msgPlanNotFound)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Plan deleted successfully"})
}
