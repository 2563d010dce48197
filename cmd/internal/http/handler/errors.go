package handler

import (
	"errors"
	"net/http"
	"sharednotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ErrorHandler renders errors that escaped a handler with the same {message} body
// the services use. Only echo's own HTTP errors keep their status; anything else is a 500
// whose details stay in the log.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apierr *apierror.APIError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		apierr = fromHTTPError(he)
	default:
		log.Errorf("unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		apierr = apierror.InternalServerError
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(apierr.Code())
	} else {
		err = c.JSON(apierr.Code(), apierr)
	}

	if err != nil {
		log.Errorf("failed to write error response: %v", err)
	}
}

func fromHTTPError(he *echo.HTTPError) *apierror.APIError {
	if he.Code >= http.StatusInternalServerError {
		log.Errorf("http error %d: %v", he.Code, he.Internal)
		return apierror.InternalServerError
	}

	switch he.Code {
	case http.StatusNotFound:
		return apierror.RouteNotFoundError
	case http.StatusTooManyRequests:
		return apierror.TooManyRequestsError
	}

	msg, ok := he.Message.(string)
	if !ok {
		msg = http.StatusText(he.Code)
	}
	return apierror.NewSimple(he.Code, msg)
}
