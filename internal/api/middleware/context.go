package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextCookie carries the signed browsing-context identifier. The cookie is
// the Go-side analogue of a browser's storage scope: credentials persisted
// under one context ID are invisible to every other context.
const ContextCookie = "moove_ctx"

const contextKey = "context_id"

// cookieMaxAge matches the credential store's 30-day retention.
const cookieMaxAge = 30 * 24 * 60 * 60

// BrowsingContext resolves the browsing-context ID for the request. A valid
// signed cookie is reused; anything missing, unsigned, or tampered with gets
// a fresh identity. The claim is HS256-signed so one context cannot be forged
// into reading another context's credentials.
func BrowsingContext(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var contextID string

			if cookie, err := c.Cookie(ContextCookie); err == nil {
				contextID = parseContextToken(secret, cookie.Value)
			}

			if contextID == "" {
				contextID = uuid.NewString()
				signed, err := mintContextToken(secret, contextID)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "context identity unavailable")
				}
				c.SetCookie(&http.Cookie{
					Name:     ContextCookie,
					Value:    signed,
					Path:     "/",
					MaxAge:   cookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(contextKey, contextID)
			return next(c)
		}
	}
}

// ContextID returns the browsing-context ID injected by BrowsingContext, or
// "" when the middleware did not run.
func ContextID(c echo.Context) string {
	id, _ := c.Get(contextKey).(string)
	return id
}

func mintContextToken(secret, contextID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"cid": contextID})
	return t.SignedString([]byte(secret))
}

// parseContextToken returns the embedded context ID, or "" when the token is
// invalid in any way.
func parseContextToken(secret, token string) string {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return ""
	}
	cid, _ := claims["cid"].(string)
	return cid
}
