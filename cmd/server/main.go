// Package main is the entry point for the foodjudge server.
//
// main reads configuration, builds the dependencies (logger, reasoning
// client, server), and starts the application. All actual logic lives in
// the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nayeem/foodjudge/internal/reasoner/openai"
	"github.com/nayeem/foodjudge/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/foodjudge.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string:
	//   JWT_SECRET=$(openssl rand -hex 32)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	aiCfg := openai.DefaultConfig()
	aiCfg.APIKey = os.Getenv("OPENAI_API_KEY")
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		aiCfg.BaseURL = base
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		aiCfg.Model = model
	}
	if timeoutStr := os.Getenv("OPENAI_TIMEOUT"); timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil {
			logger.Error("invalid OPENAI_TIMEOUT value", slog.String("value", timeoutStr))
			os.Exit(1)
		}
		aiCfg.Timeout = d
	}
	// Some OpenAI-compatible providers cannot fetch remote image URLs;
	// this makes the server download and inline them itself.
	aiCfg.InlineRemoteImages = os.Getenv("INLINE_REMOTE_IMAGES") == "true"

	ai, err := openai.New(aiCfg, logger)
	if err != nil {
		logger.Error("failed to create reasoning client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
	}

	srv, err := server.New(cfg, ai, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel reads LOG_LEVEL, defaulting to info.
func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
