package services

import (
	"context"
	"strconv"

	"forgequest/internal/datastore"
	"forgequest/internal/models"
	"forgequest/internal/pkg/caching"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceConfig struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceConfig(container *do.Injector) (*ServiceConfig, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{container, redisDB, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceConfig) GetIntConfig(ctx context.Context, key string, defaultValue int) (int, error) {
	callback := func() (int, error) {
		config, err := datastore.GetConfigByKey(ctx, service.readonlyPostgresDB, key)
		if err != nil {
			return defaultValue, err
		}

		intValue, err := strconv.Atoi(config.Value)
		if err != nil {
			return defaultValue, err
		}

		return intValue, nil
	}

	value, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyConfig(key), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return defaultValue, err
	}

	return value, nil
}

// RewardMultiplier is the admin-settable percent (0..200) applied to quest
// rewards at resolution time.
func (service *ServiceConfig) RewardMultiplier(ctx context.Context) int {
	value, err := service.GetIntConfig(ctx, CONFIG_REWARD_MULTIPLIER, DEFAULT_REWARD_MULTIPLIER)
	if err != nil || value < 0 || value > MAX_REWARD_MULTIPLIER {
		return DEFAULT_REWARD_MULTIPLIER
	}
	return value
}

func (service *ServiceConfig) SetRewardMultiplier(ctx context.Context, value int) error {
	if value < 0 || value > MAX_REWARD_MULTIPLIER {
		return ErrMultiplierRange
	}

	err := datastore.UpsertConfig(ctx, service.postgresDB, &models.Config{
		Key:   CONFIG_REWARD_MULTIPLIER,
		Value: strconv.Itoa(value),
	})
	if err != nil {
		return err
	}

	return service.cache.Delete(ctx, DBKeyConfig(CONFIG_REWARD_MULTIPLIER))
}
