package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	EventQuestStarted        = "quest_started"
	EventQuestStopped        = "quest_stopped"
	EventQuestFailed         = "quest_failed"
	EventQuestSucceededGold  = "quest_succeeded_gold"
	EventQuestSucceededChest = "quest_succeeded_chests"
	EventWeaponUpgraded      = "weapon_upgraded"
	EventWeaponDestroyed     = "weapon_destroyed"
	EventWeaponMinted        = "weapon_minted"
	EventChestOpened         = "chest_opened"
)

// GameEvent is the observer surface: every economy transition emits one.
type GameEvent struct {
	bun.BaseModel `bun:"table:game_event"`
	ID            string    `bun:"id,pk" json:"id"`
	Type          string    `bun:"type" json:"type"`
	PlayerID      int64     `bun:"player_id" json:"player_id"`
	QuestID       int64     `bun:"quest_id" json:"quest_id"`
	WeaponID      int64     `bun:"weapon_id" json:"weapon_id"`
	Tier          int       `bun:"tier" json:"tier"`
	Rarity        int       `bun:"rarity" json:"rarity"`
	Variation     int       `bun:"variation" json:"variation"`
	Amount        int64     `bun:"amount" json:"amount"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
