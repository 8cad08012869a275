package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/voltatrips/volta/backend/internal/session"
)

type ctxKey int

const userIDKey ctxKey = iota

// RequireUser rejects requests whose session carries no user id with
// 401 {"error":"Unauthorized"}. The id of an authenticated caller is placed
// in the request context; read it with UserID.
//
// The guard only checks that an id is present. Handlers that need the user
// record resolve it themselves and treat a vanished user as 401 as well.
func RequireUser(store sessions.Store, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.Get(r, name)
			if err != nil {
				// A forged or stale cookie reads as signed out.
				slog.DebugContext(r.Context(), "session decode failed", "error", err)
			}
			var id string
			if s != nil {
				id = session.UserID(s)
			}
			if id == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

// UserID returns the authenticated user id placed by RequireUser, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID returns a copy of ctx carrying id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
