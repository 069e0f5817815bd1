package ports

import (
	"context"

	"github.com/moovefit/session-gateway/internal/core/domain"
)

// LoginLinkResult is the remote API's answer to a login-link request.
type LoginLinkResult struct {
	Status string `json:"status"`
	UserID string `json:"user_id,omitempty"`
	Token  string `json:"token,omitempty"`
}

// ProfileClient talks to the remote profile API. Every token, including one
// supplied via a callback URL, is verified through FetchCurrentUser before a
// session will trust it.
type ProfileClient interface {
	FetchCurrentUser(ctx context.Context, token string) (*domain.User, error)
	RequestLoginLink(ctx context.Context, email string) (*LoginLinkResult, error)
}
