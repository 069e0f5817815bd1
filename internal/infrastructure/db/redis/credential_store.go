package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/api/metrics"
	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

// credentialTTL bounds how long an untouched credential record survives.
// Every Put refreshes it.
const credentialTTL = 30 * 24 * time.Hour

// CredentialStore persists the (token, user) pair as two keys per browsing
// context. The two physical writes are not transactional; Get treats a record
// with only one half present as absent and clears the leftover, which restores
// the atomic-pair illusion the session layer relies on.
// Key format: cred:<context_id>:token / cred:<context_id>:user
type CredentialStore struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewCredentialStore creates a CredentialStore wrapping the given Redis client.
func NewCredentialStore(client *redis.Client, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{client: client, log: log}
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func (s *CredentialStore) Put(ctx context.Context, contextID, token string, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credential put: marshal user: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(contextID), token, credentialTTL)
		pipe.Set(ctx, userKey(contextID), payload, credentialTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("credential put: %w", err)
	}
	return nil
}

func (s *CredentialStore) Get(ctx context.Context, contextID string) (*ports.CredentialRecord, error) {
	values, err := s.client.MGet(ctx, tokenKey(contextID), userKey(contextID)).Result()
	if err != nil {
		return nil, fmt.Errorf("credential get: %w", err)
	}

	token, hasToken := values[0].(string)
	payload, hasUser := values[1].(string)

	if !hasToken && !hasUser {
		return nil, nil
	}
	if !hasToken || !hasUser {
		// Half a record is no record. Clear the leftover so the next read
		// starts clean.
		s.log.Warn().Str("context_id", contextID).Msg("partial credential record cleared")
		metrics.StoreSelfHealsTotal.WithLabelValues("partial").Inc()
		_ = s.Clear(ctx, contextID)
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		s.log.Warn().Err(err).Str("context_id", contextID).Msg("corrupt stored user cleared")
		metrics.StoreSelfHealsTotal.WithLabelValues("corrupt").Inc()
		_ = s.Clear(ctx, contextID)
		return nil, nil
	}
	if err := domain.ValidateUser(&user); err != nil {
		s.log.Warn().Err(err).Str("context_id", contextID).Msg("invalid stored user cleared")
		metrics.StoreSelfHealsTotal.WithLabelValues("corrupt").Inc()
		_ = s.Clear(ctx, contextID)
		return nil, nil
	}

	return &ports.CredentialRecord{Token: token, User: &user}, nil
}

func (s *CredentialStore) Clear(ctx context.Context, contextID string) error {
	if err := s.client.Del(ctx, tokenKey(contextID), userKey(contextID)).Err(); err != nil {
		return fmt.Errorf("credential clear: %w", err)
	}
	return nil
}

func tokenKey(contextID string) string {
	return fmt.Sprintf("cred:%s:token", contextID)
}

func userKey(contextID string) string {
	return fmt.Sprintf("cred:%s:user", contextID)
}
