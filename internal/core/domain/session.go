package domain

// SessionState is the lifecycle state of a browsing-context session.
// Exactly one state holds at any instant.
type SessionState string

const (
	// SessionHydrating is the initial state, before the credential store has
	// been read for this context.
	SessionHydrating SessionState = "hydrating"
	// SessionAnonymous means no valid token/user pair exists.
	SessionAnonymous SessionState = "anonymous"
	// SessionAuthenticated means a structurally valid user and token are
	// active for this context.
	SessionAuthenticated SessionState = "authenticated"
)

// SessionSnapshot is an immutable view of a session at one instant. The guard
// and the HTTP layer consume snapshots only; they never touch live session
// state directly.
type SessionSnapshot struct {
	State SessionState
	User  *User
	Token string
}

// IsLoading reports whether hydration has not finished yet.
func (s SessionSnapshot) IsLoading() bool {
	return s.State == SessionHydrating
}

// IsAuthenticated reports whether a user is active.
func (s SessionSnapshot) IsAuthenticated() bool {
	return s.State == SessionAuthenticated && s.User != nil
}

// IsCoach reports whether the active user holds the coach role.
func (s SessionSnapshot) IsCoach() bool {
	return s.IsAuthenticated() && s.User.IsCoach()
}
