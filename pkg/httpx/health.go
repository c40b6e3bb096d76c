package httpx

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// HealthChecker is a dependency the readiness endpoint pings. The søknad
// store, the Redis client and the rapid event bus all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks are the dependencies a replica needs before it takes traffic.
// A nil checker is reported as "disabled" and does not affect readiness.
type HealthChecks struct {
	Soknader   HealthChecker
	TokenCache HealthChecker
	Rapid      HealthChecker
}

type readinessResponse struct {
	Status     string `json:"status"`
	Soknader   string `json:"soknader"`
	TokenCache string `json:"token_cache"`
	Rapid      string `json:"rapid"`
}

// IsAlive answers the liveness check. It checks nothing: a process that can
// serve HTTP is alive, and a failing dependency should not get it restarted.
func IsAlive(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// IsReady returns the readiness handler. It answers 503 while any configured
// dependency fails to respond within two seconds.
func IsReady(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := readinessResponse{Status: "ready"}
		for _, c := range []struct {
			checker HealthChecker
			result  *string
		}{
			{checks.Soknader, &resp.Soknader},
			{checks.TokenCache, &resp.TokenCache},
			{checks.Rapid, &resp.Rapid},
		} {
			switch {
			case c.checker == nil:
				*c.result = "disabled"
			case c.checker.Ping(ctx) != nil:
				*c.result = "unreachable"
				resp.Status = "not_ready"
			default:
				*c.result = "ok"
			}
		}

		status := http.StatusOK
		if resp.Status != "ready" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
