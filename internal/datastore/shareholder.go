package datastore

import (
	"context"

	"forgequest/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableShareholder(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Shareholder)(nil)).IfNotExists().Exec(ctx)
	return err
}

func GetShareholders(ctx context.Context, db bun.IDB) ([]models.Shareholder, error) {
	var shareholders []models.Shareholder
	err := db.NewSelect().Model(&shareholders).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shareholders, nil
}

func InsertShareholder(ctx context.Context, db bun.IDB, shareholder *models.Shareholder) error {
	_, err := db.NewInsert().Model(shareholder).Exec(ctx)
	return err
}
