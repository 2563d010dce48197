package utils

import (
	"sharednotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ContextKeyUserID is where the authentication gate stores the caller's id.
const ContextKeyUserID = "userID"

func GetUserIDFromContext(c echo.Context) (int64, apierror.ErrorResponse) {
	val := c.Get(ContextKeyUserID)
	if val == nil {
		log.Warnf("route %s attempted to read nil user from context", c.Request().URL)
		return 0, apierror.UnauthorizedError
	}

	userID, ok := val.(int64)
	if !ok {
		log.Warnf("expected int64 at '%s' context key, got %T", ContextKeyUserID, val)
		return 0, apierror.InternalServerError
	}
	return userID, nil
}
