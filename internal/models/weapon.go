package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Custody sentinels. A weapon is held by its owner, by the burn sentinel
// while retired, or by the quest vault while staked.
const (
	HolderBurn       int64 = 0
	HolderQuestVault int64 = -1
)

const (
	// VariationBroken marks a broken piece: soulbound, never equippable.
	VariationBroken = 0
	// VariationClasses counts the tradeable classes 1..4.
	VariationClasses = 4

	RarityMin = 0
	RarityMax = 9
)

var (
	ErrWeaponDestroyed = errors.New("weapon already destroyed")
	ErrWeaponSoulbound = errors.New("broken piece is soulbound")
	ErrWeaponEquipped  = errors.New("equipped weapon leaves only through staking")
	ErrCustodyDenied   = errors.New("custody transfer not allowed")
)

type Weapon struct {
	bun.BaseModel `bun:"table:weapon"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	OwnerID       int64     `bun:"owner_id" json:"owner_id"`
	HolderID      int64     `bun:"holder_id" json:"holder_id"`
	Rarity        int       `bun:"rarity" json:"rarity"`
	Variation     int       `bun:"variation" json:"variation"`
	Destroyed     bool      `bun:"destroyed" json:"destroyed"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

func (w *Weapon) Broken() bool {
	return w.Variation == VariationBroken
}

func (w *Weapon) Staked() bool {
	return w.HolderID == HolderQuestVault
}

// CanTransferWeapon is the custody allow-list. The only legal moves are
// owner -> quest vault (staking), quest vault -> owner (return) and
// owner -> burn sentinel (retirement). Minting is creation, not a transfer.
// equipped tells whether the owner currently has the weapon equipped.
func CanTransferWeapon(w *Weapon, from, to int64, equipped bool) error {
	if w.Destroyed {
		return ErrWeaponDestroyed
	}
	if from != w.HolderID {
		return ErrCustodyDenied
	}
	if w.Broken() && to != HolderBurn {
		return ErrWeaponSoulbound
	}
	if equipped && from == w.OwnerID && to != HolderQuestVault {
		return ErrWeaponEquipped
	}

	switch {
	case from == w.OwnerID && to == HolderQuestVault:
		return nil
	case from == HolderQuestVault && to == w.OwnerID:
		return nil
	case from == w.OwnerID && to == HolderBurn:
		return nil
	}

	return ErrCustodyDenied
}
