package ports

import (
	"context"

	"github.com/moovefit/session-gateway/internal/core/domain"
)

// CredentialRecord is the durable pair owned by the credential store: an
// opaque bearer token plus the serialized user it belongs to.
type CredentialRecord struct {
	Token string
	User  *domain.User
}

// CredentialStore persists one credential record per browsing context.
//
// Contract:
//   - Put writes token and user together; callers must treat failure of either
//     physical write as failure of both.
//   - Get returns (nil, nil) when the record is absent, half-written, or the
//     stored user fails structural validation. Partial or corrupt records are
//     eagerly cleared on read (self-healing), never surfaced as errors.
//   - Clear removes both values unconditionally and is idempotent.
//
// Implementations must tolerate the backing storage being unavailable by
// degrading, never by crashing the session layer.
type CredentialStore interface {
	Put(ctx context.Context, contextID, token string, user *domain.User) error
	Get(ctx context.Context, contextID string) (*CredentialRecord, error)
	Clear(ctx context.Context, contextID string) error
}
