package web

import (
	"net/http"

	"github.com/JonMunkholm/pisearch/internal/core"
	"github.com/JonMunkholm/pisearch/internal/logging"
)

// sessionMiddleware resolves the session cookie, starting a new session
// when the cookie is missing or expired, and stores the id on the context.
// The cookie is re-issued on every request so its lifetime slides with the
// server-side TTL.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			id = c.Value
		}

		sess, created := s.service.Sessions().GetOrCreate(id)
		http.SetCookie(w, &http.Cookie{
			Name:     s.cfg.Session.CookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(s.cfg.Session.TTL.Seconds()),
			HttpOnly: true,
			Secure:   s.cfg.Session.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := core.ContextWithSessionID(r.Context(), sess.ID)
		logger := logging.FromContext(ctx)
		ctx = core.ContextWithLogger(ctx, logger)
		if created {
			logger.Debug("session started")
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the id stored by sessionMiddleware.
func sessionID(r *http.Request) string {
	return core.SessionIDFromContext(r.Context())
}
