package memory

import (
	"context"
	"testing"

	"github.com/moovefit/session-gateway/internal/core/domain"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	user := &domain.User{ID: "u1", Role: domain.RoleMember, Email: "ada@example.com"}
	if err := store.Put(ctx, "ctx1", "t1", user); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, err := store.Get(ctx, "ctx1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil || rec.Token != "t1" || rec.User.ID != "u1" || rec.User.Role != domain.RoleMember {
		t.Fatalf("round trip mismatch: %+v", rec)
	}

	if err := store.Clear(ctx, "ctx1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if rec, _ := store.Get(ctx, "ctx1"); rec != nil {
		t.Fatalf("record survived clear: %+v", rec)
	}
	// Clear is idempotent.
	if err := store.Clear(ctx, "ctx1"); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestCredentialStore_GetAbsent(t *testing.T) {
	store := NewCredentialStore()

	rec, err := store.Get(context.Background(), "nope")
	if err != nil || rec != nil {
		t.Fatalf("absent get = (%+v, %v), want (nil, nil)", rec, err)
	}
}

func TestCredentialStore_SelfHealsPartialRecord(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	// Token without a user is no record at all.
	store.Seed("ctx1", "t1", "")

	if rec, _ := store.Get(ctx, "ctx1"); rec != nil {
		t.Fatalf("partial record returned: %+v", rec)
	}

	store.mu.Lock()
	_, exists := store.records["ctx1"]
	store.mu.Unlock()
	if exists {
		t.Fatalf("partial record not cleared on read")
	}
}

func TestCredentialStore_SelfHealsCorruptUser(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	store.Seed("ctx1", "t1", "{not json")

	if rec, _ := store.Get(ctx, "ctx1"); rec != nil {
		t.Fatalf("corrupt record returned: %+v", rec)
	}
	if rec, _ := store.Get(ctx, "ctx1"); rec != nil {
		t.Fatalf("corrupt record came back: %+v", rec)
	}
}

func TestCredentialStore_SelfHealsInvalidUser(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	// Valid JSON, but structurally invalid: role is missing.
	store.Seed("ctx1", "t1", `{"id":"u1"}`)

	if rec, _ := store.Get(ctx, "ctx1"); rec != nil {
		t.Fatalf("invalid user returned: %+v", rec)
	}
}
