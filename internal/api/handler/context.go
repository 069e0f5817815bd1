package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moovefit/session-gateway/internal/api/middleware"
)

// ctxContextID extracts the browsing-context ID injected by the
// BrowsingContext middleware and fast-fails before any service call. An empty
// ID means a handler was mounted outside the middleware chain, a wiring bug,
// not a user error, so it must surface loudly rather than be swallowed.
func ctxContextID(c echo.Context) (string, error) {
	contextID := middleware.ContextID(c)
	if contextID == "" {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "missing browsing context")
	}
	return contextID, nil
}
