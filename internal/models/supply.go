package models

import (
	"github.com/uptrace/bun"
)

// WeaponSupply is a single global counter of non-broken weapons in
// existence. Broken pieces do not count toward the cap.
type WeaponSupply struct {
	bun.BaseModel `bun:"table:weapon_supply"`
	ID            int64 `bun:"id,pk" json:"id"`
	Count         int64 `bun:"count" json:"count"`
}
