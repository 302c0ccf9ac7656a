package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"forgequest/internal/datastore"
	"forgequest/internal/models"
	"forgequest/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServicePlayer struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServicePlayer(container *do.Injector) (*ServicePlayer, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
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

	return &ServicePlayer{container, redisDB, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServicePlayer) FindOrCreatePlayer(ctx context.Context, auth *models.PlayerFromAuth) (*models.Player, error) {
	player, err := service.FindPlayerByID(ctx, auth.ID)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, sql.ErrNoRows) && err != redis.Nil {
		return nil, err
	}

	player = &models.Player{
		ID:        auth.ID,
		Username:  auth.Username,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := datastore.InsertPlayer(ctx, service.postgresDB, player); err != nil {
		return nil, err
	}

	return player, nil
}

func (service *ServicePlayer) FindPlayerByID(ctx context.Context, playerID int64) (*models.Player, error) {
	callback := func() (*models.Player, error) {
		return datastore.FindPlayerByID(ctx, service.readonlyPostgresDB, playerID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPlayer(playerID), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServicePlayer) FindPlayerByIDNoCache(ctx context.Context, playerID int64) (*models.Player, error) {
	return datastore.FindPlayerByID(ctx, service.postgresDB, playerID)
}

// ConnectWallet records the settlement address withdrawals are sent to.
func (service *ServicePlayer) ConnectWallet(ctx context.Context, player *models.Player, wallet string) error {
	if wallet == "" {
		return errorx.Wrap(ErrNoWallet, errorx.Validation)
	}

	player.Wallet = wallet
	if _, err := datastore.UpdatePlayer(ctx, service.postgresDB, player); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	return service.ClearPlayerCache(ctx, player.ID)
}

// GetRecentEvents returns the player's latest game events, newest first.
func (service *ServicePlayer) GetRecentEvents(ctx context.Context, playerID int64, limit int) ([]*models.GameEvent, error) {
	callback := func() ([]*models.GameEvent, error) {
		return datastore.GetGameEventsByPlayer(ctx, service.readonlyPostgresDB, playerID, limit)
	}

	events, err := caching.UseCache(ctx, service.cache, DBKeyPlayerEvents(playerID, limit), CACHE_TTL_15_SECONDS, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return events, nil
}

func (service *ServicePlayer) ClearPlayerCache(ctx context.Context, playerID int64) error {
	return service.cache.Delete(ctx, DBKeyPlayer(playerID))
}
