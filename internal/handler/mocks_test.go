package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/handler"
	"github.com/voltatrips/volta/backend/internal/service"
	"github.com/voltatrips/volta/backend/internal/session"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs.

type mockAuthServicer struct {
	register     func(ctx context.Context, email, password string) (domain.User, error)
	authenticate func(ctx context.Context, email, password string) (domain.User, error)
	currentUser  func(ctx context.Context, userID string) (domain.User, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, email, password string) (domain.User, error) {
	return m.register(ctx, email, password)
}
func (m *mockAuthServicer) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	return m.authenticate(ctx, email, password)
}
func (m *mockAuthServicer) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	return m.currentUser(ctx, userID)
}

type mockTripServicer struct {
	list   func(ctx context.Context, ownerID string) ([]domain.Trip, error)
	create func(ctx context.Context, in service.NewTrip) (domain.Trip, error)
	delete func(ctx context.Context, tripID, requesterID string) error
}

func (m *mockTripServicer) List(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	return m.list(ctx, ownerID)
}
func (m *mockTripServicer) Create(ctx context.Context, in service.NewTrip) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) Delete(ctx context.Context, tripID, requesterID string) error {
	return m.delete(ctx, tripID, requesterID)
}

type mockPlanServicer struct {
	create func(ctx context.Context, in service.NewPlan) (domain.DayPlan, error)
	list   func(ctx context.Context, tripID, requesterID string) ([]domain.DayPlan, error)
	delete func(ctx context.Context, tripID, planID, requesterID string) error
}

func (m *mockPlanServicer) Create(ctx context.Context, in service.NewPlan) (domain.DayPlan, error) {
	return m.create(ctx, in)
}
func (m *mockPlanServicer) List(ctx context.Context, tripID, requesterID string) ([]domain.DayPlan, error) {
	return m.list(ctx, tripID, requesterID)
}
func (m *mockPlanServicer) Delete(ctx context.Context, tripID, planID, requesterID string) error {
	return m.delete(ctx, tripID, planID, requesterID)
}

type mockGenerator struct {
	generate func(ctx context.Context, days int, destination string) (json.RawMessage, error)
}

func (m *mockGenerator) Generate(ctx context.Context, days int, destination string) (json.RawMessage, error) {
	return m.generate(ctx, days, destination)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.AuthServicer  = (*mockAuthServicer)(nil)
	_ handler.TripServicer  = (*mockTripServicer)(nil)
	_ handler.PlanServicer  = (*mockPlanServicer)(nil)
	_ handler.PlanGenerator = (*mockGenerator)(nil)
	_ handler.Pinger        = pingFunc(nil)
)

// ---- helpers ---------------------------------------------------------------

const (
	testSessionName = "volta_session"
	ownerID         = "user-owner"
	strangerID      = "user-stranger"
	tripID          = "trip-1"
	planID          = "plan-1"
)

// testEnv is a router plus the cookie store its sessions live in.
type testEnv struct {
	store   sessions.Store
	handler http.Handler
}

// newTestEnv wires a Server with deps into the real router, backed by a
// signed cookie store. This mirrors how main.go wires it in production.
func newTestEnv(deps handler.Deps, opts handler.Options) testEnv {
	store := sessions.NewCookieStore([]byte("handler-test-secret"))
	deps.Sessions = store
	deps.SessionName = testSessionName
	return testEnv{store: store, handler: handler.NewServer(deps, opts).Routes()}
}

// do sends req through the router and returns the recorder.
func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// cookieFor issues a session cookie whose session carries userID.
func (e testEnv) cookieFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s, err := e.store.Get(req, testSessionName)
	require.NoError(t, err)
	session.SetUserID(s, userID)
	require.NoError(t, s.Save(req, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

// sessionCookie returns the session cookie set on rec, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testSessionName {
			return c
		}
	}
	return nil
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func jsonDecode(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}
