package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/moovefit/session-gateway/internal/core/domain"
)

func TestClient_FetchCurrentUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("path = %q, want /auth/me", r.URL.Path)
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_ = json.NewEncoder(w).Encode(domain.User{ID: "u1", Role: domain.RoleCoach, FirstName: "Jane"})
		case "Bearer roleless":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "u2"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, zerolog.Nop())
	ctx := context.Background()

	user, err := client.FetchCurrentUser(ctx, "good")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if user.ID != "u1" || user.Role != domain.RoleCoach {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := client.FetchCurrentUser(ctx, "expired"); !errors.Is(err, domain.ErrTokenRejected) {
		t.Fatalf("err = %v, want ErrTokenRejected", err)
	}

	// A 200 with a structurally broken user is not trusted either.
	if _, err := client.FetchCurrentUser(ctx, "roleless"); !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("err = %v, want ErrInvalidUser", err)
	}
}

func TestClient_FetchCurrentUserServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, zerolog.Nop())
	_, err := client.FetchCurrentUser(context.Background(), "any")
	if err == nil || errors.Is(err, domain.ErrTokenRejected) {
		t.Fatalf("err = %v, want transient failure distinct from rejection", err)
	}
}

func TestClient_RequestLoginLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/magic-link" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "jane@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "sent", "user_id": "u1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, zerolog.Nop())
	result, err := client.RequestLoginLink(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("request login link: %v", err)
	}
	if result.Status != "sent" || result.UserID != "u1" {
		t.Fatalf("unexpected result %+v", result)
	}
}
