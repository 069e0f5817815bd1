package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runBrowsingContext(t *testing.T, secret string, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got string
	mw := BrowsingContext(secret)
	handler := mw(func(c echo.Context) error {
		got = ContextID(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return got, rec
}

func TestBrowsingContext_MintsIdentityWhenMissing(t *testing.T) {
	id, rec := runBrowsingContext(t, "secret", nil)
	if id == "" {
		t.Fatalf("no context id injected")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != ContextCookie {
		t.Fatalf("context cookie not set: %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("context cookie must be http-only")
	}
}

func TestBrowsingContext_ReusesValidCookie(t *testing.T) {
	signed, err := mintContextToken("secret", "ctx-abc")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	id, rec := runBrowsingContext(t, "secret", &http.Cookie{Name: ContextCookie, Value: signed})
	if id != "ctx-abc" {
		t.Fatalf("context id = %q, want ctx-abc", id)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("valid cookie should not be reissued")
	}
}

func TestBrowsingContext_RejectsTamperedCookie(t *testing.T) {
	signed, err := mintContextToken("other-secret", "ctx-abc")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	id, rec := runBrowsingContext(t, "secret", &http.Cookie{Name: ContextCookie, Value: signed})
	if id == "" || id == "ctx-abc" {
		t.Fatalf("tampered cookie accepted or no replacement issued: %q", id)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("replacement cookie not set")
	}
}

func TestBrowsingContext_RejectsGarbageCookie(t *testing.T) {
	id, _ := runBrowsingContext(t, "secret", &http.Cookie{Name: ContextCookie, Value: "not-a-token"})
	if id == "" {
		t.Fatalf("no replacement identity for garbage cookie")
	}
}
