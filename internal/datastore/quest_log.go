package datastore

import (
	"context"
	"time"

	"forgequest/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableQuestLog(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.QuestLog)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.QuestLog)(nil)).Index("index_quest_log_player").IfNotExists().Column("player_id").Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// UpsertQuestLog overwrites the current slot. Start reuses the row at the
// player's running counter; history rows below it are never touched.
func UpsertQuestLog(ctx context.Context, db bun.IDB, quest *models.QuestLog) error {
	quest.UpdatedAt = time.Now()
	_, err := db.NewInsert().Model(quest).
		On("CONFLICT (player_id, quest_id) DO UPDATE").
		Set("weapon_id = EXCLUDED.weapon_id").
		Set("tier = EXCLUDED.tier").
		Set("ends_at = EXCLUDED.ends_at").
		Set("status = EXCLUDED.status").
		Set("narrative = EXCLUDED.narrative").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func GetQuestLog(ctx context.Context, db bun.IDB, playerID int64, questID int64) (*models.QuestLog, error) {
	var quest models.QuestLog
	err := db.NewSelect().Model(&quest).
		Where("player_id = ?", playerID).
		Where("quest_id = ?", questID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &quest, nil
}

func UpdateQuestLog(ctx context.Context, db bun.IDB, quest *models.QuestLog) error {
	quest.UpdatedAt = time.Now()
	_, err := db.NewUpdate().Model(quest).WherePK().Exec(ctx)
	return err
}

func GetQuestLogsByPlayer(ctx context.Context, db bun.IDB, playerID int64, limit int) ([]*models.QuestLog, error) {
	var quests []*models.QuestLog
	err := db.NewSelect().Model(&quests).
		Where("player_id = ?", playerID).
		Order("quest_id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return quests, nil
}
