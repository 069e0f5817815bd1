package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/core/domain"
	"github.com/moovefit/session-gateway/internal/core/ports"
	"github.com/moovefit/session-gateway/internal/infrastructure/memory"
)

func testUser(role string) *domain.User {
	return &domain.User{
		ID:        "u1",
		Email:     "ada@example.com",
		FirstName: "Ada",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestSession(t *testing.T, store ports.CredentialStore) ports.Session {
	t.Helper()
	return NewSessionManager(store, zerolog.Nop()).Session("ctx1")
}

func TestSession_StartsHydrating(t *testing.T) {
	sess := newTestSession(t, memory.NewCredentialStore())

	if snap := sess.Snapshot(); snap.State != domain.SessionHydrating {
		t.Fatalf("initial state = %s, want hydrating", snap.State)
	}
}

func TestSession_HydrateRestoresStoredPair(t *testing.T) {
	store := memory.NewCredentialStore()
	ctx := context.Background()
	if err := store.Put(ctx, "ctx1", "t1", testUser(domain.RoleCoach)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	sess := newTestSession(t, store)
	if err := sess.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	snap := sess.Snapshot()
	if !snap.IsAuthenticated() {
		t.Fatalf("state = %s, want authenticated", snap.State)
	}
	if snap.Token != "t1" || snap.User.ID != "u1" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.IsCoach() {
		t.Fatalf("expected coach snapshot")
	}
}

func TestSession_HydrateMissIsAnonymous(t *testing.T) {
	sess := newTestSession(t, memory.NewCredentialStore())

	if err := sess.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if snap := sess.Snapshot(); snap.State != domain.SessionAnonymous {
		t.Fatalf("state = %s, want anonymous", snap.State)
	}
}

func TestSession_HydrateIsIdempotent(t *testing.T) {
	store := memory.NewCredentialStore()
	ctx := context.Background()
	if err := store.Put(ctx, "ctx1", "t1", testUser(domain.RoleMember)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	sess := newTestSession(t, store)
	if err := sess.Hydrate(ctx); err != nil {
		t.Fatalf("first hydrate: %v", err)
	}
	first := sess.Snapshot()

	// The store changing between calls must not matter: the second call is a
	// no-op once the session has settled.
	if err := store.Clear(ctx, "ctx1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := sess.Hydrate(ctx); err != nil {
		t.Fatalf("second hydrate: %v", err)
	}

	second := sess.Snapshot()
	if second.State != first.State || second.Token != first.Token || second.User.ID != first.User.ID {
		t.Fatalf("second hydrate changed state: %+v vs %+v", second, first)
	}
}

func TestSession_HydrateRecoversFromCorruption(t *testing.T) {
	store := memory.NewCredentialStore()
	store.Seed("ctx1", "t1", `{"id":"u1","role":`)

	sess := newTestSession(t, store)
	ctx := context.Background()
	if err := sess.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if snap := sess.Snapshot(); snap.State != domain.SessionAnonymous {
		t.Fatalf("state = %s, want anonymous after corruption", snap.State)
	}

	// The corrupt record must have been cleared by the read.
	rec, err := store.Get(ctx, "ctx1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("corrupt record not self-healed: %+v", rec)
	}
}

func TestSession_HydrateRejectsRolelessUser(t *testing.T) {
	store := memory.NewCredentialStore()
	store.Seed("ctx1", "t1", `{"id":"u1","email":"ada@example.com"}`)

	sess := newTestSession(t, store)
	if err := sess.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if snap := sess.Snapshot(); snap.State != domain.SessionAnonymous {
		t.Fatalf("state = %s, want anonymous for roleless user", snap.State)
	}
}

func TestSession_LoginRoundTrip(t *testing.T) {
	store := memory.NewCredentialStore()
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.Login(ctx, testUser(domain.RoleMember), "t1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	rec, err := store.Get(ctx, "ctx1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil || rec.Token != "t1" || rec.User.ID != "u1" {
		t.Fatalf("stored record mismatch: %+v", rec)
	}

	if err := sess.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if snap := sess.Snapshot(); snap.State != domain.SessionAnonymous || snap.User != nil {
		t.Fatalf("post-logout snapshot %+v", snap)
	}

	rec, err = store.Get(ctx, "ctx1")
	if err != nil {
		t.Fatalf("get after logout: %v", err)
	}
	if rec != nil {
		t.Fatalf("record survived logout: %+v", rec)
	}
}

func TestSession_LoginRejectsInvalidInput(t *testing.T) {
	sess := newTestSession(t, memory.NewCredentialStore())
	ctx := context.Background()

	if err := sess.Login(ctx, &domain.User{ID: "u1"}, "t1"); err == nil {
		t.Fatalf("expected error for roleless user")
	}
	if err := sess.Login(ctx, testUser(domain.RoleMember), ""); err == nil {
		t.Fatalf("expected error for empty token")
	}
	if snap := sess.Snapshot(); snap.State != domain.SessionHydrating {
		t.Fatalf("failed login mutated state to %s", snap.State)
	}
}

func TestSession_UpdateUserMergesAndPersists(t *testing.T) {
	store := memory.NewCredentialStore()
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.Login(ctx, testUser(domain.RoleCoach), "t1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	brand := "Jane Fit"
	color := "#308FAB"
	updated, err := sess.UpdateUser(ctx, domain.UserPatch{Brand: &brand, ThemeColor: &color})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Brand != "Jane Fit" || updated.ThemeColor != "#308FAB" {
		t.Fatalf("merge failed: %+v", updated)
	}
	if updated.Role != domain.RoleCoach || updated.FirstName != "Ada" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	rec, err := store.Get(ctx, "ctx1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Token != "t1" {
		t.Fatalf("token changed on update: %q", rec.Token)
	}
	if rec.User.Brand != "Jane Fit" {
		t.Fatalf("update not persisted: %+v", rec.User)
	}
}

func TestSession_UpdateUserWhileAnonymousIsRejected(t *testing.T) {
	sess := newTestSession(t, memory.NewCredentialStore())
	ctx := context.Background()
	if err := sess.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	name := "Ada"
	if _, err := sess.UpdateUser(ctx, domain.UserPatch{FirstName: &name}); err != domain.ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

// blockingStore holds Get until released so tests can interleave a login with
// an in-flight hydration.
type blockingStore struct {
	inner   ports.CredentialStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Put(ctx context.Context, cid, token string, u *domain.User) error {
	return b.inner.Put(ctx, cid, token, u)
}

func (b *blockingStore) Get(ctx context.Context, cid string) (*ports.CredentialRecord, error) {
	close(b.entered)
	<-b.release
	return b.inner.Get(ctx, cid)
}

func (b *blockingStore) Clear(ctx context.Context, cid string) error {
	return b.inner.Clear(ctx, cid)
}

func TestSession_StaleHydrationNeverOverwritesLogin(t *testing.T) {
	inner := memory.NewCredentialStore()
	ctx := context.Background()
	if err := inner.Put(ctx, "ctx1", "old-token", &domain.User{ID: "old", Role: domain.RoleMember}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := &blockingStore{
		inner:   inner,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	sess := newTestSession(t, store)

	done := make(chan error, 1)
	go func() { done <- sess.Hydrate(ctx) }()

	<-store.entered
	if err := sess.Login(ctx, testUser(domain.RoleCoach), "new-token"); err != nil {
		t.Fatalf("login during hydration: %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	snap := sess.Snapshot()
	if snap.Token != "new-token" || snap.User.ID != "u1" {
		t.Fatalf("stale hydration overwrote login: %+v", snap)
	}
}

func TestSessionManager_ReturnsSameSessionPerContext(t *testing.T) {
	m := NewSessionManager(memory.NewCredentialStore(), zerolog.Nop())

	a := m.Session("ctx1")
	if m.Session("ctx1") != a {
		t.Fatalf("same context produced different sessions")
	}
	if m.Session("ctx2") == a {
		t.Fatalf("different contexts shared a session")
	}
}
