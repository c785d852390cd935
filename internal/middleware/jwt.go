package middleware // middleware provides reusable HTTP middleware for the API

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenDenylist reports whether an access token's ID (jti claim) has
// been revoked.  Logout revokes tokens before they expire.
type TokenDenylist interface {
	IsRevoked(ctx context.Context, jti string) bool
}

// JWTAuth returns an Echo middleware that validates a Bearer access
// token, rejects revoked tokens, and injects the token's claims into
// the request context.  Handlers read the authenticated user via
// c.Get("user_id"), c.Get("role"), c.Get("jti") and c.Get("exp").
func JWTAuth(secret string, denylist TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid claims"})
			}

			jti, _ := claims["jti"].(string)
			if denylist != nil && denylist.IsRevoked(c.Request().Context(), jti) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "token revoked"})
			}

			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			c.Set("jti", jti)
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				c.Set("exp", exp.Time)
			} else {
				c.Set("exp", time.Time{})
			}
			return next(c)
		}
	}
}
