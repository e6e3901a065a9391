package router

import (
	"net/http"

	"github.com/authlab/authmethods/internal/pkg/session"
)

// RequireSession rejects requests without a valid session cookie.
//
// On success the session claims are stored in the request context and can be
// read with session.GetAuth.
func RequireSession(sess *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sess.Verify(r)
			if err != nil {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.SetAuth(r.Context(), claims)))
		})
	}
}
