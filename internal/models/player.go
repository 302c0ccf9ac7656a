package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Player struct {
	bun.BaseModel    `bun:"table:player"`
	ID               int64      `bun:"id,pk" json:"id"`
	Username         string     `bun:"username" json:"username"`
	CharacterID      int64      `bun:"character_id" json:"character_id"`
	Gold             int64      `bun:"gold" json:"gold"`
	Chests           int64      `bun:"chests" json:"chests"`
	EquippedWeaponID int64      `bun:"equipped_weapon_id" json:"equipped_weapon_id"`
	QuestEndsAt      int64      `bun:"quest_ends_at" json:"quest_ends_at"`
	LastQuestID      int64      `bun:"last_quest_id" json:"last_quest_id"`
	QuestWins        int64      `bun:"quest_wins" json:"quest_wins"`
	QuestLosses      int64      `bun:"quest_losses" json:"quest_losses"`
	Wallet           string     `bun:"wallet" json:"wallet"`
	SupplyDropAt     *time.Time `bun:"supply_drop_at" json:"supply_drop_at"`
	CreatedAt        time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at" json:"updated_at"`
}

func (p *Player) HasCharacter() bool {
	return p.CharacterID != 0
}

func (p *Player) HasEquippedWeapon() bool {
	return p.EquippedWeaponID != 0
}

func (p *Player) HasActiveQuest() bool {
	return p.QuestEndsAt != 0
}

// QuestReady reports whether the active quest reached its end timestamp.
// The end is a polling condition, nothing is scheduled on it.
func (p *Player) QuestReady(now time.Time) bool {
	return p.QuestEndsAt != 0 && now.Unix() >= p.QuestEndsAt
}

func (p *Player) SupplyDropReady(now time.Time) bool {
	return p.SupplyDropAt == nil || !p.SupplyDropAt.After(now)
}

// PlayerFromAuth only use in middleware
type PlayerFromAuth struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
