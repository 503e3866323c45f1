package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/boardgames-backend/internal/challenge"
	"github.com/rocketscienceinc/boardgames-backend/internal/config"
	"github.com/rocketscienceinc/boardgames-backend/internal/gamestate"
	"github.com/rocketscienceinc/boardgames-backend/internal/matchmaking"
	"github.com/rocketscienceinc/boardgames-backend/internal/repository"
	"github.com/rocketscienceinc/boardgames-backend/internal/repository/memory"
	"github.com/rocketscienceinc/boardgames-backend/internal/repository/storage"
	"github.com/rocketscienceinc/boardgames-backend/internal/service"
	"github.com/rocketscienceinc/boardgames-backend/internal/usecase"
	"github.com/rocketscienceinc/boardgames-backend/transport/rest"
	"github.com/rocketscienceinc/boardgames-backend/transport/websocket"
)

const (
	driverRedis  = "redis"
	driverMemory = "memory"
)

var (
	ErrAddrNotFound  = errors.New("redis address string is empty")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrMissingSecret = errors.New("jwt secret key is empty")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	if conf.JWTSecretKey == "" {
		return ErrMissingSecret
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		games    repository.GameRepository
		presence repository.PresenceRepository
		checks   []rest.HealthCheck
	)

	switch conf.StorageDriver {
	case driverRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, storage.RedisOptions{
			Addr:     redisAddrString,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		games = repository.NewGameRepository(redisStorage.Connection)
		presence = repository.NewPresenceRepository(redisStorage.Connection)
		checks = append(checks, redisStorage.Ping)
	case driverMemory:
		games = memory.NewGameStore()
		presence = memory.NewPresenceStore(time.Now)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, conf.StorageDriver)
	}

	var users repository.UserRepository = memory.NewUserStore(time.Now)

	if conf.SQLiteStoragePath != "" {
		sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
		if err != nil {
			return fmt.Errorf("could not open sqlite storage: %w", err)
		}

		defer func() {
			if err = sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}()

		if err = sqliteStorage.Init(ctx); err != nil {
			return fmt.Errorf("could not init sqlite storage: %w", err)
		}

		users = repository.NewUserRepository(sqliteStorage.Connection, time.Now)
		checks = append(checks, sqliteStorage.Ping)
	}

	queue := matchmaking.NewQueue(logger, matchmaking.Options{
		LiveTimeout:  conf.Matchmaking.LiveTimeout,
		AsyncTimeout: conf.Matchmaking.AsyncTimeout,
	}, time.Now)

	challenges := challenge.NewRegistry(logger, challenge.Options{
		LiveTTL:  conf.Challenge.LiveTTL,
		AsyncTTL: conf.Challenge.AsyncTTL,
	}, time.Now)

	gameManager := usecase.NewGameManager(
		logger,
		games,
		users,
		presence,
		gamestate.NewRegistry(gamestate.Options{GhostChance: conf.Timelines.GhostChance}),
		queue,
		challenges,
		usecase.Options{RecentGamesLimit: conf.RecentGamesLimit},
	)
	userUseCase := usecase.NewUserUseCase(users)
	authService := service.NewAuthService(conf.JWTSecretKey, conf.SessionTTL, time.Now)

	restServer := rest.New(logger, gameManager, userUseCase, authService, checks...)
	wsServer := websocket.New(logger, gameManager, authService, presence, conf.PresenceTTL)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := restServer.Start(groupCtx, conf.HTTPPort); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		if err := wsServer.Start(groupCtx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}

		return nil
	})

	err := group.Wait()

	log.Info("Application context canceled, shutting down")

	return err
}
