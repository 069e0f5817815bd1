package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

// ToastHandler serves the notification queue for one browsing context.
type ToastHandler struct {
	notifier ports.Notifier
}

func NewToastHandler(notifier ports.Notifier) *ToastHandler {
	return &ToastHandler{notifier: notifier}
}

type toastsResponse struct {
	Toasts []domain.Toast `json:"toasts"`
}

// Pending lists queued, unexpired notifications in FIFO order.
//
// @Summary      Pending notifications
// @Tags         toasts
// @Produce      json
// @Success      200  {object}  toastsResponse
// @Router       /session/toasts [get]
func (h *ToastHandler) Pending(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toastsResponse{Toasts: h.notifier.Pending(contextID)})
}

// Dismiss removes one notification ahead of its timeout. Dismissing an
// unknown id is a no-op.
//
// @Summary      Dismiss a notification
// @Tags         toasts
// @Param        id  path  string  true  "Toast id"
// @Success      204
// @Router       /session/toasts/{id}/dismiss [post]
func (h *ToastHandler) Dismiss(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}
	h.notifier.Dismiss(contextID, c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
