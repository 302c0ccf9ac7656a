package services

import (
	"context"
	"errors"
	"log"
	"time"

	"forgequest/internal/datastore"
	"forgequest/internal/datastore/redis_store"
	"forgequest/internal/models"
	"forgequest/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceForge struct {
	container  *do.Injector
	redisDB    redis.UniversalClient
	rs         *redsync.Redsync
	postgresDB *bun.DB
	cache      caching.Cache

	outcome         *Outcome
	serviceTreasury *ServiceTreasury
}

func NewServiceForge(container *do.Injector) (*ServiceForge, error) {
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

	cache, err := do.Invoke[caching.Cache](container)
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

	return &ServiceForge{container, redisDB, rs, postgresDB, cache, outcome, serviceTreasury}, nil
}

// upgradeSuccessor builds the weapon replacing a consumed input: rarity+1 and
// the same variation on success, the same rarity forced broken on failure.
func upgradeSuccessor(weapon *models.Weapon, success bool, now time.Time) *models.Weapon {
	successor := &models.Weapon{
		OwnerID:   weapon.OwnerID,
		HolderID:  weapon.OwnerID,
		CreatedAt: now,
	}
	if success {
		successor.Rarity = weapon.Rarity + 1
		successor.Variation = weapon.Variation
	} else {
		successor.Rarity = weapon.Rarity
		successor.Variation = models.VariationBroken
	}
	return successor
}

// upgradeSupplyDelta adjusts the counter of non-broken weapons in existence.
// Only a tradeable input coming out broken leaves circulation; a broken input
// was never counted, so a failed retry on one must not decrement again.
func upgradeSupplyDelta(weapon *models.Weapon, success bool) int64 {
	if !success && !weapon.Broken() {
		return -1
	}
	return 0
}

// Upgrade burns the weapon and mints its successor. On success the successor
// carries rarity+1 and the same variation; on failure it keeps the rarity but
// comes out broken. Either way the original is gone, so the upgrade can never
// be retried on the same piece.
func (service *ServiceForge) Upgrade(ctx context.Context, player *models.Player, weaponID int64) (*models.Weapon, error) {
	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	weaponMutex := service.rs.NewMutex(LockKeyWeapon(weaponID))
	if err := weaponMutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrWeaponLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer weaponMutex.Unlock()

	fresh, err := datastore.FindPlayerByID(ctx, service.postgresDB, player.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	weapon, err := datastore.GetWeapon(ctx, service.postgresDB, weaponID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if weapon.OwnerID != fresh.ID {
		return nil, errorx.Wrap(ErrWeaponNotOwned, errorx.Invalid)
	}
	if weapon.Rarity < 1 || weapon.Rarity > models.RarityMax-1 {
		return nil, errorx.Wrap(ErrRarityOutOfRange, errorx.Validation)
	}

	equipped := fresh.EquippedWeaponID == weapon.ID
	if err := models.CanTransferWeapon(weapon, fresh.ID, models.HolderBurn, equipped); err != nil {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}

	success, err := service.outcome.UpgradeOutcome(fresh.ID, weapon.Rarity)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	now := time.Now()
	successor := upgradeSuccessor(weapon, success, now)

	eventType := models.EventWeaponUpgraded
	if !success {
		eventType = models.EventWeaponDestroyed
	}

	var event *models.GameEvent
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		paid, err := datastore.DebitPlayerGold(ctx, tx, fresh.ID, UpgradeFee)
		if err != nil {
			return err
		}
		if !paid {
			return ErrPaymentRequired
		}

		if err := datastore.RetireWeapon(ctx, tx, weapon.ID); err != nil {
			return err
		}
		if _, err := datastore.InsertWeapon(ctx, tx, successor); err != nil {
			return err
		}
		if delta := upgradeSupplyDelta(weapon, success); delta != 0 {
			if err := datastore.AdjustWeaponSupply(ctx, tx, delta); err != nil {
				return err
			}
		}

		event = &models.GameEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			PlayerID:  fresh.ID,
			WeaponID:  successor.ID,
			Rarity:    successor.Rarity,
			Variation: successor.Variation,
			Amount:    UpgradeFee,
			CreatedAt: now,
		}
		return datastore.InsertGameEvent(ctx, tx, event)
	})
	if err != nil {
		if errors.Is(err, ErrPaymentRequired) {
			return nil, errorx.Wrap(err, errorx.Invalid)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if err := service.serviceTreasury.Distribute(ctx, UpgradeFee); err != nil {
		log.Println("distribute upgrade fee:", err)
	}

	if err := redis_store.PublishGameEvent(ctx, service.redisDB, event); err != nil {
		log.Println("publish game event:", err)
	}
	if err := service.cache.Delete(ctx, DBKeyPlayer(fresh.ID)); err != nil {
		log.Println(err)
	}
	if err := service.cache.Delete(ctx, DBKeyPlayerWeapons(fresh.ID)); err != nil {
		log.Println(err)
	}

	return successor, nil
}
