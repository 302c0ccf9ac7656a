package services

import (
	"context"

	"forgequest/internal/datastore/redis_store"
	"forgequest/internal/models"
	"forgequest/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

type ServiceLeaderboard struct {
	container     *do.Injector
	redisDB       redis.UniversalClient
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache

	serviceConfig *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
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

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, redisDB, cache, readonlyCache, serviceConfig}, nil
}

// GetTopWins reads the quest-win leaderboard maintained by the cron refresh.
func (service *ServiceLeaderboard) GetTopWins(ctx context.Context) ([]*models.LeaderboardItem, error) {
	limit, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)
	if err != nil {
		limit = LEADERBOARD_DEFAULT_LIMIT
	}

	callback := func() ([]*models.LeaderboardItem, error) {
		return redis_store.GetWinsLeaderboard(ctx, service.redisDB, limit)
	}

	items, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWinsLeaderboard(limit), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return items, nil
}

func (service *ServiceLeaderboard) GetWinsRank(ctx context.Context, playerID int64) (int64, error) {
	rank, err := redis_store.GetWinsRank(ctx, service.redisDB, playerID)
	if err != nil {
		if err == redis.Nil {
			return -1, nil
		}
		return -1, errorx.Wrap(err, errorx.Service)
	}
	return rank, nil
}
