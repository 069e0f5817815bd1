package ports

import (
	"context"

	"github.com/moovefit/session-gateway/internal/core/domain"
)

// Session is the single source of truth for who is using one browsing
// context. All storage access goes through its operations; feature code never
// touches the credential store directly (single-writer rule).
type Session interface {
	// Hydrate reconstructs state from the credential store. It runs the read
	// at most once per session lifetime and is a no-op once past hydrating.
	// A hydration result that resolves after a login/logout has already
	// settled the session is discarded, never applied.
	Hydrate(ctx context.Context) error
	// Login persists the pair then transitions to authenticated. The
	// transition is synchronous so callers can sequence notifications after
	// it.
	Login(ctx context.Context, user *domain.User, token string) error
	// Logout clears stored credentials and transitions to anonymous.
	Logout(ctx context.Context) error
	// UpdateUser merges the patch into the current user and re-persists it
	// with the existing token. Returns ErrNotAuthenticated when no user is
	// active; that case is a programmer error, logged but never user-facing.
	UpdateUser(ctx context.Context, patch domain.UserPatch) (*domain.User, error)
	// Snapshot returns an immutable view of the current state.
	Snapshot() domain.SessionSnapshot
}

// SessionManager hands out the session for a browsing context, creating it in
// the hydrating state on first touch.
type SessionManager interface {
	Session(contextID string) Session
}
