package handler

import (
	"net/http"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/middleware"
	"github.com/voltatrips/volta/backend/internal/service"
)

type createTripRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// tripResponse is the serialised Trip. All dates are dd/mm/yyyy.
type tripResponse struct {
	ID           string `json:"id"`
	Destination  string `json:"destination"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CreationDate string `json:"creation_date"`
}

func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:           t.ID,
		Destination:  t.Destination,
		StartDate:    domain.FormatDate(t.StartDate),
		EndDate:      domain.FormatDate(t.EndDate),
		CreationDate: domain.FormatDate(t.CreationDate),
	}
}

// ListTrips handles GET /users/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}

	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateTrip handles POST /users/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := s.trips.Create(r.Context(), service.NewTrip{
		OwnerID:     middleware.UserID(r.Context()),
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// DeleteTrip handles DELETE /user/trips/{trip_id} and its /users alias.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "trip_id")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), ids[0], middleware.UserID(r.Context())); err != nil {
		writeServiceError(w, r, err, msgTripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Trip deleted successfully"})
}
