package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/repository"
	"github.com/redis/go-redis/v9"
)

const settingsKey = "oneair:site_settings"

// CachedSettingsRepository is a read-through redis cache in front of the settings table.
// Redis failures are logged and the database is used instead.
type CachedSettingsRepository struct {
	realRepo repository.SettingsRepository
	redis    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

func NewCachedSettingsRepository(realRepo repository.SettingsRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedSettingsRepository {
	return &CachedSettingsRepository{
		realRepo: realRepo,
		redis:    client,
		ttl:      ttl,
		logger:   logger,
	}
}

func (c *CachedSettingsRepository) Get(ctx context.Context) (*models.StoreSettings, error) {
	data, err := c.redis.Get(ctx, settingsKey).Bytes()

	switch {
	case err == nil:
		var settings models.StoreSettings
		if err := json.Unmarshal(data, &settings); err != nil {
			c.logger.Warn("failed to unmarshal cached settings, continuing with database", slog.Any("error", err))
			break
		}
		return &settings, nil

	case errors.Is(err, redis.Nil):

	default:
		c.logger.Warn("redis error, continuing with database", slog.Any("error", err))
	}

	settings, err := c.realRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(settings)
	if err != nil {
		c.logger.Warn("failed to marshal settings", slog.Any("error", err))
		return settings, nil
	}

	if err := c.redis.Set(ctx, settingsKey, jsonData, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache settings", slog.Any("error", err))
	}

	return settings, nil
}

func (c *CachedSettingsRepository) Save(ctx context.Context, settings *models.StoreSettings) error {
	if err := c.realRepo.Save(ctx, settings); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached copy so the next Get reads the database
func (c *CachedSettingsRepository) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, settingsKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate settings cache", slog.Any("error", err))
	}
}
