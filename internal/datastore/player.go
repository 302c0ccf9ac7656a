package datastore

import (
	"context"
	"time"

	"forgequest/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePlayer(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Player)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Player)(nil)).Index("index_player_username").IfNotExists().Column("username").Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindPlayerByID(ctx context.Context, db bun.IDB, playerID int64) (*models.Player, error) {
	var player models.Player
	err := db.NewSelect().Model(&player).Where("id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func InsertPlayer(ctx context.Context, db bun.IDB, player *models.Player) error {
	_, err := db.NewInsert().Model(player).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func UpdatePlayer(ctx context.Context, db bun.IDB, player *models.Player) (*models.Player, error) {
	player.UpdatedAt = time.Now()
	_, err := db.NewUpdate().Model(player).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return player, nil
}

func GetTopPlayersByWins(ctx context.Context, db bun.IDB, limit int) ([]*models.Player, error) {
	var players []*models.Player
	err := db.NewSelect().Model(&players).
		Where("quest_wins > 0").
		Order("quest_wins DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return players, nil
}

// DebitPlayerGold pulls an exact payment. The balance guard is part of the
// statement so a short balance matches zero rows instead of going negative.
func DebitPlayerGold(ctx context.Context, db bun.IDB, playerID int64, amount int64) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Player)(nil)).
		Set("gold = gold - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Where("gold >= ?", amount).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func CreditPlayerGold(ctx context.Context, db bun.IDB, playerID int64, amount int64) error {
	_, err := db.NewUpdate().Model((*models.Player)(nil)).
		Set("gold = gold + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Exec(ctx)
	return err
}

func CreditPlayerChests(ctx context.Context, db bun.IDB, playerID int64, amount int64) error {
	_, err := db.NewUpdate().Model((*models.Player)(nil)).
		Set("chests = chests + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Exec(ctx)
	return err
}

// DebitPlayerChest consumes a single chest, guarded the same way as gold.
func DebitPlayerChest(ctx context.Context, db bun.IDB, playerID int64) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Player)(nil)).
		Set("chests = chests - 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Where("chests > 0").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
