package datastore

import (
	"context"

	"forgequest/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableWeapon(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Weapon)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Weapon)(nil)).Index("index_weapon_owner").IfNotExists().Column("owner_id").Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func CreateTableWeaponSupply(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.WeaponSupply)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	supply := &models.WeaponSupply{ID: 1}
	_, err = db.NewInsert().Model(supply).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return err
}

func GetWeapon(ctx context.Context, db bun.IDB, weaponID int64) (*models.Weapon, error) {
	var weapon models.Weapon
	err := db.NewSelect().Model(&weapon).Where("id = ?", weaponID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &weapon, nil
}

func GetWeaponsByOwner(ctx context.Context, db bun.IDB, ownerID int64) ([]*models.Weapon, error) {
	var weapons []*models.Weapon
	err := db.NewSelect().Model(&weapons).
		Where("owner_id = ?", ownerID).
		Where("destroyed = ?", false).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return weapons, nil
}

func InsertWeapon(ctx context.Context, db bun.IDB, weapon *models.Weapon) (*models.Weapon, error) {
	_, err := db.NewInsert().Model(weapon).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return weapon, nil
}

func SetWeaponHolder(ctx context.Context, db bun.IDB, weaponID int64, holderID int64) error {
	_, err := db.NewUpdate().Model((*models.Weapon)(nil)).
		Set("holder_id = ?", holderID).
		Where("id = ?", weaponID).
		Exec(ctx)
	return err
}

// RetireWeapon revokes the asset: destroyed and parked on the burn sentinel.
func RetireWeapon(ctx context.Context, db bun.IDB, weaponID int64) error {
	_, err := db.NewUpdate().Model((*models.Weapon)(nil)).
		Set("destroyed = ?", true).
		Set("holder_id = ?", models.HolderBurn).
		Where("id = ?", weaponID).
		Exec(ctx)
	return err
}

func AdjustWeaponSupply(ctx context.Context, db bun.IDB, delta int64) error {
	_, err := db.NewUpdate().Model((*models.WeaponSupply)(nil)).
		Set("count = count + ?", delta).
		Where("id = ?", 1).
		Exec(ctx)
	return err
}

func GetWeaponSupply(ctx context.Context, db bun.IDB) (*models.WeaponSupply, error) {
	var supply models.WeaponSupply
	err := db.NewSelect().Model(&supply).Where("id = ?", 1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &supply, nil
}
