package services

import (
	"context"
	"log"
	"time"

	"forgequest/internal/datastore"
	"forgequest/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/mroth/weightedrand/v2"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceSupplyDrop struct {
	container  *do.Injector
	rs         *redsync.Redsync
	postgresDB *bun.DB

	serviceConfig *ServiceConfig
	servicePlayer *ServicePlayer
	chooser       *weightedrand.Chooser[int64, int]
}

func NewServiceSupplyDrop(container *do.Injector) (*ServiceSupplyDrop, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	servicePlayer, err := do.Invoke[*ServicePlayer](container)
	if err != nil {
		return nil, err
	}

	chooser, err := weightedrand.NewChooser(
		weightedrand.NewChoice(int64(1), 40),
		weightedrand.NewChoice(int64(2), 30),
		weightedrand.NewChoice(int64(3), 15),
		weightedrand.NewChoice(int64(5), 10),
		weightedrand.NewChoice(int64(10), 5),
	)
	if err != nil {
		return nil, err
	}

	return &ServiceSupplyDrop{container, rs, postgresDB, serviceConfig, servicePlayer, chooser}, nil
}

// Claim hands out the periodic free chest drop. The chest count is a weighted
// roll; the cooldown between claims is config-driven, 24h by default.
func (service *ServiceSupplyDrop) Claim(ctx context.Context, player *models.Player) (int64, error) {
	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return 0, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	fresh, err := datastore.FindPlayerByID(ctx, service.postgresDB, player.ID)
	if err != nil {
		return 0, errorx.Wrap(err, errorx.Service)
	}

	now := time.Now()
	if !fresh.SupplyDropReady(now) {
		return 0, errorx.Wrap(ErrDropNotReady, errorx.Invalid)
	}

	hours, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_SUPPLY_DROP_HOURS, DEFAULT_SUPPLY_DROP_HOURS)
	if err != nil {
		hours = DEFAULT_SUPPLY_DROP_HOURS
	}

	amount := service.chooser.Pick()
	next := now.Add(time.Duration(hours) * time.Hour)

	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.CreditPlayerChests(ctx, tx, fresh.ID, amount); err != nil {
			return err
		}
		fresh.SupplyDropAt = &next
		_, err := datastore.UpdatePlayer(ctx, tx, fresh)
		return err
	})
	if err != nil {
		return 0, errorx.Wrap(err, errorx.Service)
	}

	if err := service.servicePlayer.ClearPlayerCache(ctx, fresh.ID); err != nil {
		log.Println(err)
	}

	return amount, nil
}
