package main

import (
	"context"
	"sharednotes/cmd/internal/config"
	"sharednotes/cmd/internal/domain/policy"
	"sharednotes/cmd/internal/domain/sqlite"
	"sharednotes/cmd/internal/domain/sqlite/repository"
	"sharednotes/cmd/internal/http/handler"
	"sharednotes/cmd/internal/service"
	"sharednotes/cmd/internal/utils"
	"sharednotes/cmd/internal/utils/uid"
	"sharednotes/cmd/internal/utils/validators"
	"strings"

	"github.com/labstack/gommon/log"
)

func main() {
	// Loads env vars depending on environment
	if err := config.LoadEnvironment(context.Background()); err != nil {
		log.Fatalf("unable to load environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.SetLevel(parseLogLevel(cfg.LogLevel))

	uid.Init(cfg.NodeID)
	validate := validators.New()

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to open database: %v", err)
	}
	defer sqlite.Close(db)

	tokens := utils.NewTokenService([]byte(cfg.JWTSecret), utils.TokenTTL)

	// Gettings repos
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, tokens, validate)
	noteService := service.NewNoteService(noteRepo, userRepo, policy.NewNotePolicy(), validate)

	e := handler.NewServer(&handler.ServerConfig{
		BodyLimit:       cfg.BodyLimit,
		RateLimitWindow: cfg.RateLimitWindow.Duration(),
		RateLimitMax:    cfg.RateLimitMax,
	}, userService, noteService, tokens)

	log.Infof("server listening on :%s (%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func parseLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
