package handler

import (
	"net/http"
	"sharednotes/cmd/internal/http/middleware"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type ServerConfig struct {
	BodyLimit       string
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// NewServer builds the echo instance with every middleware and route registered.
func NewServer(cfg *ServerConfig, users UserService, notes NoteService, tokens middleware.TokenVerifier) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.NewRequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax))

	userRoutes := NewUserDefault(users)
	noteRoutes := NewNoteDefault(notes)
	auth := middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{Tokens: tokens})

	// Auth
	e.POST("/api/auth/signup", userRoutes.Signup)
	e.POST("/api/auth/login", userRoutes.Login)

	// Notes
	g := e.Group("/api/notes", auth)
	g.GET("", noteRoutes.GetNotes)
	g.GET("/search", noteRoutes.SearchNotes)
	g.GET("/:id", noteRoutes.GetNote)
	g.POST("", noteRoutes.CreateNote)
	g.PUT("/:id", noteRoutes.UpdateNote)
	g.DELETE("/:id", noteRoutes.DeleteNote)
	g.POST("/:id/share", noteRoutes.ShareNote)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)
	return e
}

func healthCheckRoute(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
