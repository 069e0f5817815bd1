package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moovefit/session-gateway/internal/core/ports"
)

// TokenHandler is the narrow, storage-only surface for non-reactive callers
// that attach an auth header to outgoing API calls. It reads and clears only;
// writing a credential pair always goes through the session's login.
type TokenHandler struct {
	store ports.CredentialStore
}

func NewTokenHandler(store ports.CredentialStore) *TokenHandler {
	return &TokenHandler{store: store}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Stored returns the stored bearer token for this browsing context.
//
// @Summary      Read the stored bearer token
// @Tags         session
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Success      204  "no stored token"
// @Router       /session/token [get]
func (h *TokenHandler) Stored(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	rec, err := h.store.Get(c.Request().Context(), contextID)
	if err != nil || rec == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: rec.Token})
}

// Clear removes the stored credential pair for this browsing context.
//
// @Summary      Clear the stored bearer token
// @Tags         session
// @Success      204
// @Router       /session/token [delete]
func (h *TokenHandler) Clear(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	if err := h.store.Clear(c.Request().Context(), contextID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
