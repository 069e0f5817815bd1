package handler

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/moovefit/session-gateway/internal/api/middleware"
)

// AppHandler serves everything behind the guard. With an upstream configured
// it reverse-proxies the request to the real application; without one it
// answers with a small JSON shell so the gateway is usable standalone (tests,
// local development).
type AppHandler struct {
	proxy *httputil.ReverseProxy
}

// NewAppHandler builds an AppHandler. upstream may be empty.
func NewAppHandler(upstream string) (*AppHandler, error) {
	h := &AppHandler{}
	if upstream != "" {
		target, err := url.Parse(upstream)
		if err != nil {
			return nil, err
		}
		h.proxy = httputil.NewSingleHostReverseProxy(target)
	}
	return h, nil
}

type shellResponse struct {
	Path string `json:"path"`
	User string `json:"user,omitempty"`
	Role string `json:"role,omitempty"`
}

// Serve renders the protected content for an already-authorized request.
func (h *AppHandler) Serve(c echo.Context) error {
	if h.proxy != nil {
		h.proxy.ServeHTTP(c.Response(), c.Request())
		return nil
	}

	resp := shellResponse{Path: c.Request().URL.Path}
	if snap := middleware.Snapshot(c); snap.User != nil {
		resp.User = snap.User.ID
		resp.Role = snap.User.Role
	}
	return c.JSON(http.StatusOK, resp)
}
