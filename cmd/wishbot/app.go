package main

import (
	"context"
	"io"
	"time"

	"wishbot/internal/bot"
	"wishbot/internal/config"
	"wishbot/internal/database"
	"wishbot/internal/domain"
	"wishbot/internal/logging"
	"wishbot/internal/models"
	"wishbot/internal/repository"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg    *config.Config
	logger *zerolog.Logger
	db     *database.DB
	redis  *redis.Client
	closer io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closer: closer}

	db, err := database.NewDB(cfg.Database, logging.Component(logger, "database"))
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		_ = a.close()
		return nil, err
	}
	a.db = db

	if cfg.Redis.Address != "" {
		a.redis = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, a.redis); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, falling back to memory until it recovers")
		}
	}
	return a, nil
}

func (a *app) close() error {
	var result *multierror.Error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := repository.Close(a.redis); err != nil {
		result = multierror.Append(result, err)
	}
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// stateRepository keeps conversation state in Redis with an in-memory
// fallback while Redis is down.
func (a *app) stateRepository() domain.StateRepository {
	ttl := time.Duration(models.DefaultRedisTTL) * time.Second
	fallback := repository.NewMemoryStateRepository(ttl)
	if a.redis == nil {
		return fallback
	}
	return repository.NewFailoverStateRepository(repository.NewRedisStateRepository(a.redis, ttl), fallback, a.logger)
}

// counter backs the share-code attempt limiter.
func (a *app) counter() domain.Counter {
	fallback := repository.NewMemoryCounter()
	if a.redis == nil {
		return fallback
	}
	return repository.NewFailoverCounter(repository.NewRedisCounter(a.redis), fallback, a.logger)
}

// lease elects the notification leader; nil means this is the only instance.
func (a *app) lease() domain.Lease {
	if a.redis == nil {
		return nil
	}
	return repository.NewRedisLease(a.redis)
}

func (a *app) telegram() (*bot.BotWrapper, error) {
	sender, err := bot.NewBotWrapper(a.cfg.Telegram.BotToken, a.cfg.Telegram.Debug)
	if err != nil {
		a.logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return nil, err
	}
	return sender, nil
}
