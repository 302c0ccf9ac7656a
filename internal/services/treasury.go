package services

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"forgequest/internal/datastore"
	"forgequest/internal/interfaces"
	"forgequest/internal/models"
	"forgequest/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceTreasury struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	valueTransfer interfaces.ValueTransfer
	servicePlayer *ServicePlayer
}

func NewServiceTreasury(container *do.Injector) (*ServiceTreasury, error) {
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

	valueTransfer, err := do.Invoke[interfaces.ValueTransfer](container)
	if err != nil {
		return nil, err
	}

	servicePlayer, err := do.Invoke[*ServicePlayer](container)
	if err != nil {
		return nil, err
	}

	return &ServiceTreasury{container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, valueTransfer, servicePlayer}, nil
}

type Payout struct {
	Recipient string
	Amount    int64
}

// SplitEquity cuts amount across the shareholder table, floor division per
// share. Remainder from flooring stays in the treasury; percentages summing
// over 100 mean the table itself is broken.
func SplitEquity(amount int64, shareholders []models.Shareholder) ([]Payout, error) {
	var total int64
	for _, s := range shareholders {
		total += s.Percent
	}
	if total > 100 {
		return nil, ErrSharesExceed
	}

	payouts := make([]Payout, 0, len(shareholders))
	for _, s := range shareholders {
		cut := amount * s.Percent / 100
		if cut == 0 {
			continue
		}
		payouts = append(payouts, Payout{Recipient: s.Recipient, Amount: cut})
	}
	return payouts, nil
}

// fanOut delivers each payout independently. One recipient failing must not
// starve the rest.
func fanOut(ctx context.Context, vt interfaces.ValueTransfer, payouts []Payout) {
	for _, p := range payouts {
		if err := vt.Send(ctx, p.Recipient, p.Amount); err != nil {
			log.Println("payout to", p.Recipient, "failed:", err)
		}
	}
}

// Distribute fans a received payment out to the shareholders. Callers invoke
// it after their own transaction commits; delivery failures are logged, never
// propagated back into the paid action.
func (service *ServiceTreasury) Distribute(ctx context.Context, amount int64) error {
	shareholders, err := service.Shareholders(ctx)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	payouts, err := SplitEquity(amount, shareholders)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	fanOut(ctx, service.valueTransfer, payouts)
	return nil
}

func (service *ServiceTreasury) Shareholders(ctx context.Context) ([]models.Shareholder, error) {
	callback := func() ([]models.Shareholder, error) {
		return datastore.GetShareholders(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyShareholders(), CACHE_TTL_1_HOUR, callback)
}

func (service *ServiceTreasury) PendingRewards(ctx context.Context, playerID int64) (*models.PendingReward, error) {
	reward, err := datastore.GetPendingReward(ctx, service.readonlyPostgresDB, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.PendingReward{PlayerID: playerID}, nil
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return reward, nil
}

// WithdrawGold empties the pending gold balance and sends it to the player's
// wallet. The balance hits zero before the transfer leaves, so concurrent
// withdrawals cannot double-pay.
func (service *ServiceTreasury) WithdrawGold(ctx context.Context, player *models.Player) (int64, error) {
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
	if fresh.Wallet == "" {
		return 0, errorx.Wrap(ErrNoWallet, errorx.Invalid)
	}

	amount, err := datastore.ZeroPendingGold(ctx, service.postgresDB, fresh.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errorx.Wrap(ErrNothingToWithdraw, errorx.Invalid)
		}
		return 0, errorx.Wrap(err, errorx.Service)
	}

	if err := service.valueTransfer.Send(ctx, fresh.Wallet, amount); err != nil {
		// The balance is already spent; the transfer is retried out of band.
		log.Println("withdrawal transfer for player", fresh.ID, "failed:", err)
	}

	return amount, nil
}

// WithdrawChests converts the pending chest balance into owned chests.
func (service *ServiceTreasury) WithdrawChests(ctx context.Context, player *models.Player) (int64, error) {
	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return 0, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	var amount int64
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		prior, err := datastore.ZeroPendingChests(ctx, tx, player.ID)
		if err != nil {
			return err
		}
		amount = prior
		return datastore.CreditPlayerChests(ctx, tx, player.ID, prior)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errorx.Wrap(ErrNothingToWithdraw, errorx.Invalid)
		}
		return 0, errorx.Wrap(err, errorx.Service)
	}

	if err := service.servicePlayer.ClearPlayerCache(ctx, player.ID); err != nil {
		log.Println(err)
	}

	return amount, nil
}
