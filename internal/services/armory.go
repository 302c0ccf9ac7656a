package services

import (
	"context"
	"errors"
	"log"
	"time"

	"forgequest/internal/datastore"
	"forgequest/internal/datastore/redis_store"
	"forgequest/internal/interfaces"
	"forgequest/internal/models"
	"forgequest/internal/pkg/caching"
	"forgequest/internal/pkg/limiter"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceArmory struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	limiter         interfaces.Limiter
	outcome         *Outcome
	serviceTreasury *ServiceTreasury
}

func NewServiceArmory(container *do.Injector) (*ServiceArmory, error) {
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

	rateLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	outcome, err := do.Invoke[*Outcome](container)
	if err != nil {
		return nil, err
	}

	serviceTreasury, err := do.Invoke[*ServiceTreasury](container)
	if err != nil {
		return nil, err
	}

	return &ServiceArmory{container, redisDB, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, rateLimiter, outcome, serviceTreasury}, nil
}

// CreateCharacter claims the player's character and mints the starter weapon,
// rarity 1 with a random tradeable variation. One character per player, ever.
func (service *ServiceArmory) CreateCharacter(ctx context.Context, player *models.Player) (*models.Weapon, error) {
	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	fresh, err := datastore.FindPlayerByID(ctx, service.postgresDB, player.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if fresh.HasCharacter() {
		return nil, errorx.Wrap(ErrCharacterExists, errorx.Invalid)
	}

	now := time.Now()
	starter := &models.Weapon{
		OwnerID:   fresh.ID,
		HolderID:  fresh.ID,
		Rarity:    1,
		Variation: service.outcome.MintVariationDraw(fresh.ID),
		CreatedAt: now,
	}

	var event *models.GameEvent
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := datastore.InsertWeapon(ctx, tx, starter); err != nil {
			return err
		}
		if err := datastore.AdjustWeaponSupply(ctx, tx, 1); err != nil {
			return err
		}

		fresh.CharacterID = fresh.ID
		fresh.EquippedWeaponID = starter.ID
		if _, err := datastore.UpdatePlayer(ctx, tx, fresh); err != nil {
			return err
		}

		event = &models.GameEvent{
			ID:        uuid.NewString(),
			Type:      models.EventWeaponMinted,
			PlayerID:  fresh.ID,
			WeaponID:  starter.ID,
			Rarity:    starter.Rarity,
			Variation: starter.Variation,
			CreatedAt: now,
		}
		return datastore.InsertGameEvent(ctx, tx, event)
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.afterMutation(ctx, fresh.ID, event)
	return starter, nil
}

// BuyChests sells count chests at the fixed price, gold pulled up front.
func (service *ServiceArmory) BuyChests(ctx context.Context, player *models.Player, count int64) error {
	if count <= 0 {
		return errorx.Wrap(ErrPaymentRequired, errorx.Validation)
	}

	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	cost := count * ChestPrice
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		paid, err := datastore.DebitPlayerGold(ctx, tx, player.ID, cost)
		if err != nil {
			return err
		}
		if !paid {
			return ErrPaymentRequired
		}
		return datastore.CreditPlayerChests(ctx, tx, player.ID, count)
	})
	if err != nil {
		if errors.Is(err, ErrPaymentRequired) {
			return errorx.Wrap(err, errorx.Invalid)
		}
		return errorx.Wrap(err, errorx.Service)
	}

	if err := service.serviceTreasury.Distribute(ctx, cost); err != nil {
		log.Println("distribute chest payment:", err)
	}
	if err := service.cache.Delete(ctx, DBKeyPlayer(player.ID)); err != nil {
		log.Println(err)
	}

	return nil
}

// OpenChest consumes one chest and mints a weapon. Rarity comes from the
// ordered mint table, variation uniformly from the tradeable classes.
func (service *ServiceArmory) OpenChest(ctx context.Context, player *models.Player) (*models.Weapon, error) {
	err := service.limiter.Allow(ctx, LimitKeyChestOpen(player.ID), redis_rate.PerMinute(CHEST_OPEN_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	now := time.Now()
	minted := &models.Weapon{
		OwnerID:   player.ID,
		HolderID:  player.ID,
		Rarity:    service.outcome.MintRarityDraw(player.ID),
		Variation: service.outcome.MintVariationDraw(player.ID),
		CreatedAt: now,
	}

	var events []*models.GameEvent
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		opened, err := datastore.DebitPlayerChest(ctx, tx, player.ID)
		if err != nil {
			return err
		}
		if !opened {
			return ErrNoChests
		}

		if _, err := datastore.InsertWeapon(ctx, tx, minted); err != nil {
			return err
		}
		if err := datastore.AdjustWeaponSupply(ctx, tx, 1); err != nil {
			return err
		}

		events = []*models.GameEvent{
			{
				ID:        uuid.NewString(),
				Type:      models.EventChestOpened,
				PlayerID:  player.ID,
				CreatedAt: now,
			},
			{
				ID:        uuid.NewString(),
				Type:      models.EventWeaponMinted,
				PlayerID:  player.ID,
				WeaponID:  minted.ID,
				Rarity:    minted.Rarity,
				Variation: minted.Variation,
				CreatedAt: now,
			},
		}
		for _, event := range events {
			if err := datastore.InsertGameEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoChests) {
			return nil, errorx.Wrap(err, errorx.Invalid)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	for _, event := range events {
		service.afterMutation(ctx, player.ID, event)
	}
	return minted, nil
}

// Equip swaps the active weapon. Forbidden while a quest is running: the
// completion roll reads the equipped rarity, so the loadout freezes with the
// stake.
func (service *ServiceArmory) Equip(ctx context.Context, player *models.Player, weaponID int64) error {
	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	fresh, err := datastore.FindPlayerByID(ctx, service.postgresDB, player.ID)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if !fresh.HasCharacter() {
		return errorx.Wrap(ErrNoCharacter, errorx.Invalid)
	}
	if fresh.HasActiveQuest() {
		return errorx.Wrap(ErrQuestAlreadyActive, errorx.Invalid)
	}
	if fresh.EquippedWeaponID == weaponID {
		return errorx.Wrap(ErrAlreadyEquipped, errorx.Invalid)
	}

	weapon, err := datastore.GetWeapon(ctx, service.postgresDB, weaponID)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if weapon.OwnerID != fresh.ID || weapon.Destroyed {
		return errorx.Wrap(ErrWeaponNotOwned, errorx.Invalid)
	}
	if weapon.Broken() {
		return errorx.Wrap(models.ErrWeaponSoulbound, errorx.Invalid)
	}

	fresh.EquippedWeaponID = weapon.ID
	if _, err := datastore.UpdatePlayer(ctx, service.postgresDB, fresh); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	if err := service.cache.Delete(ctx, DBKeyPlayer(fresh.ID)); err != nil {
		log.Println(err)
	}
	return nil
}

func (service *ServiceArmory) Weapons(ctx context.Context, playerID int64) ([]*models.Weapon, error) {
	callback := func() ([]*models.Weapon, error) {
		return datastore.GetWeaponsByOwner(ctx, service.readonlyPostgresDB, playerID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPlayerWeapons(playerID), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceArmory) afterMutation(ctx context.Context, playerID int64, event *models.GameEvent) {
	if err := redis_store.PublishGameEvent(ctx, service.redisDB, event); err != nil {
		log.Println("publish game event:", err)
	}
	if err := service.cache.Delete(ctx, DBKeyPlayer(playerID)); err != nil {
		log.Println(err)
	}
	if err := service.cache.Delete(ctx, DBKeyPlayerWeapons(playerID)); err != nil {
		log.Println(err)
	}
}
