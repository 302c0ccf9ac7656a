package datastore

import (
	"context"
	"time"

	"forgequest/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableFreeQuestQuota(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.FreeQuestQuota)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	quota := &models.FreeQuestQuota{ID: 1, WindowStart: time.Now()}
	_, err = db.NewInsert().Model(quota).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return err
}

func GetFreeQuestQuota(ctx context.Context, db bun.IDB) (*models.FreeQuestQuota, error) {
	var quota models.FreeQuestQuota
	err := db.NewSelect().Model(&quota).Where("id = ?", 1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &quota, nil
}

func UpdateFreeQuestQuota(ctx context.Context, db bun.IDB, quota *models.FreeQuestQuota) error {
	_, err := db.NewUpdate().Model(quota).WherePK().Exec(ctx)
	return err
}
