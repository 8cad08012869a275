// Package handler implements the HTTP handlers for the Volta API.
// All handlers are methods on Server. They are split into files by resource
// (auth.go, trip.go, plan.go, ...) but share the same dependencies.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/middleware"
	"github.com/voltatrips/volta/backend/internal/service"
)

// AuthServicer defines the account operations the auth handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without a database.
type AuthServicer interface {
	Register(ctx context.Context, email, password string) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	CurrentUser(ctx context.Context, userID string) (domain.User, error)
}

// TripServicer defines the trip operations the trip handlers depend on.
type TripServicer interface {
	List(ctx context.Context, ownerID string) ([]domain.Trip, error)
	Create(ctx context.Context, in service.NewTrip) (domain.Trip, error)
	Delete(ctx context.Context, tripID, requesterID string) error
}

// PlanServicer defines the plan operations the plan handlers depend on.
type PlanServicer interface {
	Create(ctx context.Context, in service.NewPlan) (domain.DayPlan, error)
	List(ctx context.Context, tripID, requesterID string) ([]domain.DayPlan, error)
	Delete(ctx context.Context, tripID, planID, requesterID string) error
}

// PlanGenerator proxies itinerary generation to the external API.
type PlanGenerator interface {
	Generate(ctx context.Context, days int, destination string) (json.RawMessage, error)
}

// Pinger is a dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Auth      AuthServicer
	Trips     TripServicer
	Plans     PlanServicer
	Generator PlanGenerator

	Sessions    sessions.Store
	SessionName string

	// Checks are pinged by /readyz, keyed by the name reported on failure.
	Checks map[string]Pinger
	// OpenAPI is served verbatim at /openapi.yaml.
	OpenAPI []byte
}

// Options toggle behaviour that deployments disagree on.
type Options struct {
	// RegisterStartsSession signs the user in after a successful /register.
	RegisterStartsSession bool
	// PublicPlanReads serves GET /trips/{trip_id}/plan without a session.
	PublicPlanReads bool
}

// Server holds the dependencies of every handler.
type Server struct {
	auth      AuthServicer
	trips     TripServicer
	plans     PlanServicer
	generator PlanGenerator

	sessions    sessions.Store
	sessionName string

	checks  map[string]Pinger
	openAPI []byte
	opts    Options
}

// NewServer constructs the Server.
func NewServer(d Deps, opts Options) *Server {
	return &Server{
		auth:        d.Auth,
		trips:       d.Trips,
		plans:       d.Plans,
		generator:   d.Generator,
		sessions:    d.Sessions,
		sessionName: d.SessionName,
		checks:      d.Checks,
		openAPI:     d.OpenAPI,
		opts:        opts,
	}
}

// Routes returns the API router. Global middleware (logging, recovery, CORS)
// is applied by the caller; the session guard is applied here, once per
// protected group.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	requireUser := middleware.RequireUser(s.sessions, s.sessionName)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, msgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/register", s.Register)
	r.Post("/login", s.Login)
	r.Post("/logout", s.Logout)
	r.Get("/get_plan", s.GeneratePlan)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/@current_user", s.GetCurrentUser)

		r.Get("/users/trips", s.ListTrips)
		r.Post("/users/trips", s.CreateTrip)
		r.Delete("/user/trips/{trip_id}", s.DeleteTrip)
		r.Delete("/users/trips/{trip_id}", s.DeleteTrip)

		r.Post("/trips/{trip_id}/plans", s.CreatePlan)
		r.Delete("/trips/{trip_id}/plans/{plan_id}", s.DeletePlan)
	})

	if s.opts.PublicPlanReads {
		r.Get("/trips/{trip_id}/plan", s.GetPlan)
	} else {
		r.With(requireUser).Get("/trips/{trip_id}/plan", s.GetPlan)
	}

	return r
}
