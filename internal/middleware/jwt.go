// Package middleware provides reusable HTTP middleware: caller
// identity resolution from access tokens, per-address rate limiting
// and read-path response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Vaishnavi024/escrow-marketplace/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the caller identity into the request context. The
// engine never sees tokens, only the stable address stored under
// "caller_addr". This middleware wraps every market route, so by the
// time a handler runs the caller is pre-authenticated.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			addr, ok := claims["addr"].(string)
			if !ok || !utils.ValidAddress(addr) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token missing address"})
			}

			c.Set("caller_addr", addr)
			c.Set("account_id", claims["sub"])
			return next(c)
		}
	}
}

// CallerAddress extracts the authenticated caller address placed in
// the context by JWTAuth. The empty string means the request was not
// authenticated.
func CallerAddress(c echo.Context) string {
	if v := c.Get("caller_addr"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
