package datastore

import (
	"context"

	"forgequest/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableGameEvent(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.GameEvent)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.GameEvent)(nil)).Index("index_game_event_player").IfNotExists().Column("player_id").Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func InsertGameEvent(ctx context.Context, db bun.IDB, event *models.GameEvent) error {
	_, err := db.NewInsert().Model(event).Exec(ctx)
	return err
}

func GetGameEventsByPlayer(ctx context.Context, db bun.IDB, playerID int64, limit int) ([]*models.GameEvent, error) {
	var events []*models.GameEvent
	err := db.NewSelect().Model(&events).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}
