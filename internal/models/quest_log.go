package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	QuestStatusActive  = "active"
	QuestStatusSuccess = "success"
	QuestStatusFailure = "failure"
)

// QuestLog is one record per (player, sequential quest id). The row at
// last_quest_id is the current slot and gets overwritten by start; rows
// below it are immutable history.
type QuestLog struct {
	bun.BaseModel `bun:"table:quest_log"`
	PlayerID      int64     `bun:"player_id,pk" json:"player_id"`
	QuestID       int64     `bun:"quest_id,pk" json:"quest_id"`
	WeaponID      int64     `bun:"weapon_id" json:"weapon_id"`
	Tier          int       `bun:"tier" json:"tier"`
	EndsAt        int64     `bun:"ends_at" json:"ends_at"`
	Status        string    `bun:"status" json:"status"`
	Narrative     int       `bun:"narrative" json:"narrative"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

func (q *QuestLog) Active() bool {
	return q.Status == QuestStatusActive
}

func (q *QuestLog) Finished(now time.Time) bool {
	return now.Unix() >= q.EndsAt
}
