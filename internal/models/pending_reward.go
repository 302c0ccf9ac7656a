package models

import (
	"github.com/uptrace/bun"
)

// PendingReward accrues quest winnings until the player withdraws them.
type PendingReward struct {
	bun.BaseModel `bun:"table:pending_reward"`
	PlayerID      int64 `bun:"player_id,pk" json:"player_id"`
	Gold          int64 `bun:"gold" json:"gold"`
	Chests        int64 `bun:"chests" json:"chests"`
}
