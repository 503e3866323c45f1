package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	app "github.com/rocketscienceinc/boardgames-backend/internal"
	"github.com/rocketscienceinc/boardgames-backend/internal/config"
)

const defaultConfigFile = "config.yml"

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()
	logger := initLogger(conf.LogLevel)

	logger.Info("starting boardgames backend",
		"http_port", conf.HTTPPort,
		"socket_port", conf.SocketPort,
		"storage", conf.StorageDriver,
	)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initConfig reads .env (if present) into the environment, then config.yml or CONFIG_PATH.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	if err = godotenv.Load(filepath.Join(baseDir, ".env")); err != nil && !os.IsNotExist(err) {
		panic(fmt.Errorf("failed to load .env: %w", err))
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = filepath.Join(baseDir, defaultConfigFile)
	}

	return config.MustLoad(path)
}

// initLogger falls back to info on an unknown level.
func initLogger(levelName string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
