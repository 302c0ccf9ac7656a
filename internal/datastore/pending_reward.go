package datastore

import (
	"context"

	"forgequest/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePendingReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PendingReward)(nil)).IfNotExists().Exec(ctx)
	return err
}

func GetPendingReward(ctx context.Context, db bun.IDB, playerID int64) (*models.PendingReward, error) {
	var reward models.PendingReward
	err := db.NewSelect().Model(&reward).Where("player_id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func CreditPendingGold(ctx context.Context, db bun.IDB, playerID int64, amount int64) error {
	reward := &models.PendingReward{PlayerID: playerID, Gold: amount}
	_, err := db.NewInsert().Model(reward).
		On("CONFLICT (player_id) DO UPDATE").
		Set("gold = pending_reward.gold + EXCLUDED.gold").
		Exec(ctx)
	return err
}

func CreditPendingChests(ctx context.Context, db bun.IDB, playerID int64, amount int64) error {
	reward := &models.PendingReward{PlayerID: playerID, Chests: amount}
	_, err := db.NewInsert().Model(reward).
		On("CONFLICT (player_id) DO UPDATE").
		Set("chests = pending_reward.chests + EXCLUDED.chests").
		Exec(ctx)
	return err
}

// ZeroPendingGold empties the balance and reports what was there. The prior
// amount comes from a row-locked self-join, not a RETURNING subquery, so the
// old value is read under the same lock that guards the update. The zeroing
// lands before any transfer is attempted; a withdrawal against an empty (or
// already-zeroed) balance matches no row and surfaces sql.ErrNoRows.
func ZeroPendingGold(ctx context.Context, db bun.IDB, playerID int64) (int64, error) {
	var prior int64
	err := db.NewRaw(
		`UPDATE pending_reward AS pr
		SET gold = 0
		FROM (SELECT player_id, gold FROM pending_reward WHERE player_id = ? AND gold > 0 FOR UPDATE) AS funded
		WHERE pr.player_id = funded.player_id
		RETURNING funded.gold`,
		playerID,
	).Scan(ctx, &prior)
	if err != nil {
		return 0, err
	}
	return prior, nil
}

func ZeroPendingChests(ctx context.Context, db bun.IDB, playerID int64) (int64, error) {
	var prior int64
	err := db.NewRaw(
		`UPDATE pending_reward AS pr
		SET chests = 0
		FROM (SELECT player_id, chests FROM pending_reward WHERE player_id = ? AND chests > 0 FOR UPDATE) AS funded
		WHERE pr.player_id = funded.player_id
		RETURNING funded.chests`,
		playerID,
	).Scan(ctx, &prior)
	if err != nil {
		return 0, err
	}
	return prior, nil
}
