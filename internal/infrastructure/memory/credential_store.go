// Package memory provides the in-process credential store. It is the
// degradation target when durable storage is unavailable (sessions then live
// only as long as the process) and the store used by tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

type record struct {
	token    string
	userJSON string
}

// CredentialStore keeps credential records in a map. It applies the same
// serialize/validate/self-heal discipline as the durable adapters so swapping
// backends never changes observable behavior.
type CredentialStore struct {
	mu      sync.Mutex
	records map[string]record
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{records: make(map[string]record)}
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func (s *CredentialStore) Put(ctx context.Context, contextID, token string, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[contextID] = record{token: token, userJSON: string(payload)}
	return nil
}

func (s *CredentialStore) Get(ctx context.Context, contextID string) (*ports.CredentialRecord, error) {
	s.mu.Lock()
	rec, ok := s.records[contextID]
	s.mu.Unlock()

	if !ok {
		return nil, nil
	}
	if rec.token == "" || rec.userJSON == "" {
		_ = s.Clear(ctx, contextID)
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rec.userJSON), &user); err != nil {
		_ = s.Clear(ctx, contextID)
		return nil, nil
	}
	if err := domain.ValidateUser(&user); err != nil {
		_ = s.Clear(ctx, contextID)
		return nil, nil
	}

	return &ports.CredentialRecord{Token: rec.token, User: &user}, nil
}

func (s *CredentialStore) Clear(ctx context.Context, contextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, contextID)
	return nil
}

// Seed writes a raw record directly, bypassing serialization. Tests use it to
// plant partial or corrupt payloads.
func (s *CredentialStore) Seed(contextID, token, userJSON string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[contextID] = record{token: token, userJSON: userJSON}
}
