package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/hmjoarksink/pkg/httpx"
	"github.com/ghuser/hmjoarksink/pkg/logger"
)

const (
	sessionName        = "hm_joark_sink_session"
	sessionOperatorKey = "operator"

	// APIKeyHeader carries the internal API key on login.
	APIKeyHeader = "X-Api-Key"
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the operator, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks an operator.
//
// After this middleware, handlers can safely call auth.OperatorFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			ident, ok := session.Values[sessionOperatorKey].(string)
			if !ok || ident == "" {
				log.WarnContext(r.Context(), "session missing operator")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			ctx := WithOperator(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidAPIKey reports whether r carries apiKey in the X-Api-Key header.
func ValidAPIKey(r *http.Request, apiKey string) bool {
	got := r.Header.Get(APIKeyHeader)
	if got == "" || apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) == 1
}

// StartSession stores ident in a new or existing session and writes the cookie.
func StartSession(w http.ResponseWriter, r *http.Request, store sessions.Store, ident string) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		// A stale cookie yields an error together with a fresh session.
		if session == nil {
			return err
		}
	}
	session.Values[sessionOperatorKey] = ident
	return session.Save(r, w)
}
