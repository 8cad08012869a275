package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltatrips/volta/backend/internal/handler"
	"github.com/voltatrips/volta/backend/internal/planner"
)

func TestGeneratePlan_200_RelaysBody(t *testing.T) {
	var gotDays int
	var gotDest string
	gen := &mockGenerator{
		generate: func(_ context.Context, days int, dest string) (json.RawMessage, error) {
			gotDays, gotDest = days, dest
			return json.RawMessage(`{"itinerary":[1,2,3]}`), nil
		},
	}
	env := newTestEnv(handler.Deps{Generator: gen}, handler.Options{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/get_plan?days=3&destination=Porto", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"itinerary":[1,2,3]}`, rec.Body.String())
	assert.Equal(t, 3, gotDays)
	assert.Equal(t, "Porto", gotDest)
}

func TestGeneratePlan_400_BadParams(t *testing.T) {
	env := newTestEnv(handler.Deps{Generator: &mockGenerator{}}, handler.Options{})

	for _, q := range []string{
		"",
		"?destination=Porto",
		"?days=abc&destination=Porto",
		"?days=0&destination=Porto",
		"?days=2",
		"?days=2&destination=",
	} {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/get_plan"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

// TestGeneratePlan_500_Upstream503 runs the real planner client against an
// upstream answering 503; the caller must only see the uniform body.
func TestGeneratePlan_500_Upstream503(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"secret":"upstream internals"}`))
	}))
	t.Cleanup(upstream.Close)

	client := planner.NewClient(upstream.URL, "key", time.Second)
	env := newTestEnv(handler.Deps{Generator: client}, handler.Options{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/get_plan?days=2&destination=Porto", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to get data from API"}`, rec.Body.String())
}

func TestGeneratePlan_500_AnyError(t *testing.T) {
	gen := &mockGenerator{
		generate: func(_ context.Context, _ int, _ string) (json.RawMessage, error) {
			return nil, fmt.Errorf("dial tcp: connection refused: %w", planner.ErrUpstream)
		},
	}
	env := newTestEnv(handler.Deps{Generator: gen}, handler.Options{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/get_plan?days=2&destination=Porto", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to get data from API"}`, rec.Body.String())
}
