package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/api/metrics"
	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

// sessionManager owns one session per browsing context. Sessions are created
// lazily in the hydrating state and live for the manager's lifetime.
type sessionManager struct {
	store ports.CredentialStore
	log   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionManager returns a SessionManager backed by the given store.
func NewSessionManager(store ports.CredentialStore, log zerolog.Logger) ports.SessionManager {
	return &sessionManager{
		store:    store,
		log:      log,
		sessions: make(map[string]*session),
	}
}

func (m *sessionManager) Session(contextID string) ports.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[contextID]; ok {
		return s
	}
	s := &session{
		contextID: contextID,
		store:     m.store,
		log:       m.log.With().Str("context_id", contextID).Logger(),
		state:     domain.SessionHydrating,
	}
	m.sessions[contextID] = s
	return s
}

// session holds the identity of one browsing context. All mutation goes
// through its methods; gen orders transitions so a hydration result that
// resolves after a login/logout never overwrites the newer state.
type session struct {
	contextID string
	store     ports.CredentialStore
	log       zerolog.Logger

	mu    sync.Mutex
	state domain.SessionState
	user  *domain.User
	token string
	gen   uint64
}

func (s *session) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.SessionHydrating {
		// Already settled: second and later calls are no-ops.
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	s.mu.Unlock()

	// The store read happens outside the lock; a login/logout may settle the
	// session while it is in flight.
	rec, err := s.store.Get(ctx, s.contextID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.state != domain.SessionHydrating {
		s.log.Debug().Msg("stale hydration result discarded")
		metrics.HydrationsTotal.WithLabelValues("stale").Inc()
		return nil
	}

	if err != nil {
		// Storage failure degrades to an anonymous, per-load session.
		s.log.Warn().Err(err).Msg("credential store read failed, hydrating as anonymous")
		s.state = domain.SessionAnonymous
		metrics.HydrationsTotal.WithLabelValues("error").Inc()
		return nil
	}

	if rec == nil {
		s.state = domain.SessionAnonymous
		metrics.HydrationsTotal.WithLabelValues("anonymous").Inc()
		return nil
	}

	s.user = rec.User.Clone()
	s.token = rec.Token
	s.state = domain.SessionAuthenticated
	metrics.HydrationsTotal.WithLabelValues("restored").Inc()
	s.log.Debug().Str("user_id", rec.User.ID).Str("role", rec.User.Role).Msg("session restored from store")
	return nil
}

func (s *session) Login(ctx context.Context, user *domain.User, token string) error {
	if err := domain.ValidateUser(user); err != nil {
		return err
	}
	if token == "" {
		return domain.ErrTokenRejected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A persistence failure is not fatal: the session still transitions, it
	// just will not survive the next cold start.
	if err := s.store.Put(ctx, s.contextID, token, user); err != nil {
		s.log.Warn().Err(err).Msg("credentials not persisted, session degrades to per-load")
	}

	s.user = user.Clone()
	s.token = token
	s.state = domain.SessionAuthenticated
	s.gen++
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session authenticated")
	return nil
}

func (s *session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx, s.contextID); err != nil {
		s.log.Warn().Err(err).Msg("credential store clear failed")
	}

	s.user = nil
	s.token = ""
	s.state = domain.SessionAnonymous
	s.gen++
	s.log.Info().Msg("session signed out")
	return nil
}

func (s *session) UpdateUser(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionAuthenticated || s.user == nil {
		// Wiring bug in the caller, not a user-facing failure.
		s.log.Warn().Str("state", string(s.state)).Msg("UpdateUser called without an authenticated session")
		return nil, domain.ErrNotAuthenticated
	}

	merged := patch.Apply(s.user)
	if err := domain.ValidateUser(merged); err != nil {
		return nil, err
	}

	// Re-persist with the existing token; the pair always travels together.
	if err := s.store.Put(ctx, s.contextID, s.token, merged); err != nil {
		s.log.Warn().Err(err).Msg("updated user not persisted")
	}

	s.user = merged
	return merged.Clone(), nil
}

func (s *session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionSnapshot{
		State: s.state,
		User:  s.user.Clone(),
		Token: s.token,
	}
}
