package middleware

import (
	"net/http"
	"strings"

	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUserID is the context key for the authenticated user's id
	ContextKeyUserID = "user_id"
	// ContextKeyToken is the context key for the raw bearer token
	ContextKeyToken = "token"

	bearerPrefix = "Bearer "
)

// RequireAuth is middleware that requires a valid access token
func RequireAuth() echo.MiddlewareFunc {
	return requireToken(services.ResolveToken)
}

// RequireRefreshToken is middleware that requires a valid refresh token
func RequireRefreshToken() echo.MiddlewareFunc {
	return requireToken(services.ResolveRefreshToken)
}

// tokenResolver maps a raw bearer token to the user id it was issued for
type tokenResolver func(tokens *services.TokenIssuer, token string) (string, error)

func requireToken(resolve tokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization token is required")
			}

			if services.Tokens == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "token issuer not initialized")
			}

			userID, err := resolve(services.Tokens, token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, services.ErrInvalidToken.Error())
			}

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyToken, token)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// GetCurrentUserID retrieves the authenticated user's id from context
func GetCurrentUserID(c echo.Context) string {
	userID, ok := c.Get(ContextKeyUserID).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetBearerToken retrieves the verified bearer token from context
func GetBearerToken(c echo.Context) string {
	token, ok := c.Get(ContextKeyToken).(string)
	if !ok {
		return ""
	}
	return token
}
