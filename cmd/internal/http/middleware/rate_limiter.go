package middleware

import (
	"net/http"
	"sharednotes/cmd/internal/utils/apierror"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewRateLimiter allows each client IP maxRequests per window, refilling evenly.
func NewRateLimiter(window time.Duration, maxRequests int) echo.MiddlewareFunc {
	limit := rate.Limit(float64(maxRequests) / window.Seconds())
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     maxRequests,
		ExpiresIn: window,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, apierror.NewSimple(http.StatusForbidden, "Unable to identify client"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, apierror.TooManyRequestsError)
		},
	})
}
