package middleware

import (
	"errors"
	"net/http"
	"sharednotes/cmd/internal/utils"
	"sharednotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// ErrUnauthenticated covers a missing or malformed header and any token that fails verification.
var ErrUnauthenticated = errors.New("unauthenticated")

type TokenVerifier interface {
	Verify(token string) (*utils.TokenData, error)
}

type AuthMiddlewareConfig struct {
	Tokens TokenVerifier
}

// Authenticate resolves an Authorization header value to a user id.
// It does not check that the user still exists.
func Authenticate(tokens TokenVerifier, headerValue string) (int64, error) {
	raw, ok := utils.BearerToken(headerValue)
	if !ok {
		return 0, ErrUnauthenticated
	}

	data, err := tokens.Verify(raw)
	if err != nil {
		return 0, ErrUnauthenticated
	}
	return data.UserID, nil
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			userID, err := Authenticate(cfg.Tokens, header)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			c.Set(utils.ContextKeyUserID, userID)
			return next(c)
		}
	}
}
