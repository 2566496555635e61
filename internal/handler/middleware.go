package handler

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/session"
)

const (
	sessionCookieName = "studybuddy_session"
	csrfCookieName    = "csrf_token"
)

type sessionCtxKey struct{}

func contextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// sessionFromContext returns the session attached by sessionMiddleware.
func sessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*session.Session)
	return s
}

func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (h *Handler) setCSRFCookie(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	token, err := generateCSRFToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return r, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     h.cookiePath(),
		HttpOnly: false,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return r.WithContext(model.ContextWithCSRFToken(r.Context(), token)), true
}

func (h *Handler) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			r, ok := h.setCSRFCookie(w, r)
			if ok {
				next.ServeHTTP(w, r)
			}
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			slog.Warn("CSRF cookie missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		formToken := r.FormValue("csrf_token")
		if formToken == "" {
			slog.Warn("CSRF form token missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		if len(formToken) != len(cookie.Value) || subtle.ConstantTimeCompare([]byte(formToken), []byte(cookie.Value)) != 1 {
			slog.Warn("CSRF token mismatch")
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		r, ok := h.setCSRFCookie(w, r)
		if ok {
			next.ServeHTTP(w, r)
		}
	})
}

// sessionMiddleware attaches the caller's session, starting a new one when
// the cookie is missing or the session has expired.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			s, err := h.sessions.Get(cookie.Value)
			switch {
			case err == nil:
				sess = s
			case errors.Is(err, session.ErrNotFound):
				slog.Debug("session expired or unknown", "session", cookie.Value)
			default:
				slog.Error("failed to get session", "error", err)
			}
		}

		if sess == nil {
			sess = h.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sess.ID,
				Path:     h.cookiePath(),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   h.config.SecureCookies,
			})
			slog.Info("session started", "session", sess.ID)
		}

		next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), sess)))
	})
}
