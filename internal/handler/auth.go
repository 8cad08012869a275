package handler

import (
	"log/slog"
	"net/http"

	"github.com/voltatrips/volta/backend/internal/domain"
	"github.com/voltatrips/volta/backend/internal/middleware"
	"github.com/voltatrips/volta/backend/internal/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func userToResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

// Register handles POST /register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}

	if s.opts.RegisterStartsSession {
		if err := s.signIn(w, r, user.ID); err != nil {
			writeInternalError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// Login handles POST /login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}

	if err := s.signIn(w, r, user.ID); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// Logout handles POST /logout. It succeeds whether or not anyone was signed in.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		slog.DebugContext(r.Context(), "session decode failed on logout", "error", err)
	}
	if sess != nil {
		session.Clear(sess)
		if err := sess.Save(r, w); err != nil {
			writeInternalError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, message{Message: "Logged out successfully"})
}

// GetCurrentUser handles GET /@current_user.
func (s *Server) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.CurrentUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// signIn stores userID in a renewed session. Whatever the incoming cookie
// carried is discarded, and a cookie that fails to decode is replaced rather
// than treated as an error.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		slog.DebugContext(r.Context(), "replacing undecodable session", "error", err)
	}
	if sess == nil {
		return err
	}
	if err := session.Renew(r.Context(), sess); err != nil {
		return err
	}
	session.SetUserID(sess, userID)
	return sess.Save(r, w)
}
