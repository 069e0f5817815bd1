package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/api/metrics"
	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
	"github.com/moovefit/session-gateway/internal/core/service"
)

const snapshotKey = "session_snapshot"

// Guard enforces the route-tier access policy on every request. It hydrates
// the context's session on first touch, evaluates the pure guard decision,
// and applies the side effects: a 303 redirect for denials (with the warning
// toast queued exactly once per denied attempt) and a 503 hold while a
// concurrent hydration is still in flight. Protected content is never served
// to an anonymous visitor, not even transiently.
func Guard(sessions ports.SessionManager, guard *service.Guard, notifier ports.Notifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextID := ContextID(c)
			sess := sessions.Session(contextID)

			snap := sess.Snapshot()
			if snap.IsLoading() {
				if err := sess.Hydrate(c.Request().Context()); err != nil {
					return err
				}
				snap = sess.Snapshot()
			}

			path := c.Request().URL.Path
			tier, decision := guard.Evaluate(path, snap)
			metrics.GuardDecisionsTotal.WithLabelValues(tier.String(), decision.Action.String()).Inc()

			switch decision.Action {
			case service.ActionWait:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "hydrating"})

			case service.ActionRedirect:
				if decision.Notice != "" {
					notifier.Push(contextID, decision.Severity, decision.Notice)
				}
				log.Debug().
					Str("path", path).
					Str("tier", tier.String()).
					Str("target", decision.Target).
					Msg("guard redirect")
				return c.Redirect(http.StatusSeeOther, decision.Target)

			default:
				c.Set(snapshotKey, snap)
				return next(c)
			}
		}
	}
}

// Snapshot returns the session snapshot the guard attached for an allowed
// request. The zero snapshot (hydrating) is returned when the guard did not
// run.
func Snapshot(c echo.Context) domain.SessionSnapshot {
	snap, _ := c.Get(snapshotKey).(domain.SessionSnapshot)
	return snap
}
