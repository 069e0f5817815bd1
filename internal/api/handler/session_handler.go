package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/api/metrics"
	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

// SessionHandler exposes the session operations to feature code: the current
// snapshot, login completion, login-link requests, logout, and partial user
// updates.
type SessionHandler struct {
	sessions ports.SessionManager
	profile  ports.ProfileClient
	notifier ports.Notifier
	// publicEntry is where a signed-out visitor lands after logout.
	publicEntry string
	log         zerolog.Logger
}

func NewSessionHandler(
	sessions ports.SessionManager,
	profile ports.ProfileClient,
	notifier ports.Notifier,
	publicEntry string,
	log zerolog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		profile:     profile,
		notifier:    notifier,
		publicEntry: publicEntry,
		log:         log,
	}
}

type loginRequest struct {
	Token string `json:"token" validate:"required"`
}

type loginLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type sessionResponse struct {
	User            *domain.User `json:"user,omitempty"`
	IsLoading       bool         `json:"is_loading"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsCoach         bool         `json:"is_coach"`
}

func toSessionResponse(snap domain.SessionSnapshot) sessionResponse {
	return sessionResponse{
		User:            snap.User,
		IsLoading:       snap.IsLoading(),
		IsAuthenticated: snap.IsAuthenticated(),
		IsCoach:         snap.IsCoach(),
	}
}

// Current returns the hydrated session for this browsing context.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	sess := h.sessions.Session(contextID)
	if err := sess.Hydrate(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess.Snapshot()))
}

// Login completes a login. The supplied token, wherever the caller obtained
// it, is verified against the profile API before the session
// will trust it.
//
// @Summary      Complete login with a bearer token
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Opaque bearer token"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	sess := h.sessions.Session(contextID)

	user, err := h.profile.FetchCurrentUser(ctx, req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenRejected) {
			// Rejected token means any stored pair is dead weight too.
			_ = sess.Logout(ctx)
			h.notifier.Push(contextID, domain.ToastError, "Sign in failed. Please request a new login link.")
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "token rejected")
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("profile verification failed")
		return echo.NewHTTPError(http.StatusBadGateway, "profile service unavailable")
	}

	if err := sess.Login(ctx, user, req.Token); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	// The transition is done; the greeting sequences after it.
	greeting := "Welcome back!"
	if user.FirstName != "" {
		greeting = fmt.Sprintf("Welcome back, %s!", user.FirstName)
	}
	h.notifier.Push(contextID, domain.ToastSuccess, greeting)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, toSessionResponse(sess.Snapshot()))
}

// LoginLink forwards a login-link request to the platform.
//
// @Summary      Request a login link by email
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginLinkRequest  true  "Email address"
// @Success      202   {object}  ports.LoginLinkResult
// @Failure      400   {object}  map[string]string
// @Router       /session/login-link [post]
func (h *SessionHandler) LoginLink(c echo.Context) error {
	var req loginLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.profile.RequestLoginLink(c.Request().Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("login link request failed")
		return echo.NewHTTPError(http.StatusBadGateway, "profile service unavailable")
	}
	return c.JSON(http.StatusAccepted, result)
}

// Logout signs the context out and sends it to the public entry route.
//
// @Summary      Sign out
// @Tags         session
// @Success      303
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Session(contextID).Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, h.publicEntry)
}

// UpdateUser merges a partial update into the authenticated user.
//
// @Summary      Update profile fields of the current user
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UserPatch  true  "Fields to merge"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  map[string]string
// @Router       /session/user [patch]
func (h *SessionHandler) UpdateUser(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	var patch domain.UserPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.sessions.Session(contextID).UpdateUser(c.Request().Context(), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
