package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moovefit/session-gateway/internal/api/metrics"
	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
)

const credentialCollection = "credentials"

// CredentialStore persists the (token, user) pair as a single document per
// browsing context, so the pair is atomic at the storage level. The user
// travels as serialized JSON; a payload that fails to decode or validate is
// treated as absent and the document is removed on read.
type CredentialStore struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

// NewCredentialStore creates a CredentialStore over the given database.
func NewCredentialStore(db *mongo.Database, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{coll: db.Collection(credentialCollection), log: log}
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

type credentialDoc struct {
	ContextID string `bson:"_id"`
	Token     string `bson:"token"`
	UserJSON  string `bson:"user_json"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *CredentialStore) Put(ctx context.Context, contextID, token string, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credential put: marshal user: %w", err)
	}

	doc := credentialDoc{
		ContextID: contextID,
		Token:     token,
		UserJSON:  string(payload),
		UpdatedAt: time.Now().Unix(),
	}

	_, err = s.coll.ReplaceOne(ctx,
		bson.M{"_id": contextID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("credential put: %w", err)
	}
	return nil
}

func (s *CredentialStore) Get(ctx context.Context, contextID string) (*ports.CredentialRecord, error) {
	var doc credentialDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": contextID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("credential get: %w", err)
	}

	if doc.Token == "" || doc.UserJSON == "" {
		s.log.Warn().Str("context_id", contextID).Msg("partial credential record cleared")
		metrics.StoreSelfHealsTotal.WithLabelValues("partial").Inc()
		_ = s.Clear(ctx, contextID)
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(doc.UserJSON), &user); err != nil {
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

	return &ports.CredentialRecord{Token: doc.Token, User: &user}, nil
}

func (s *CredentialStore) Clear(ctx context.Context, contextID string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": contextID}); err != nil {
		return fmt.Errorf("credential clear: %w", err)
	}
	return nil
}
