package services

import (
	"time"

	"forgequest/internal/models"
)

// Static economy tables. Quest tiers are indexed 0..7; upgrades by rarity.
// All probabilities are percent unless suffixed otherwise.

const (
	QuestTierCount = 8
	FreeQuestTier  = 0

	FreeQuestCap    = 20
	FreeQuestWindow = 7 * 24 * time.Hour

	// NarrativeVariants counts the flavor texts per outcome, success and
	// failure alike.
	NarrativeVariants = 24

	UpgradeFee int64 = 10
	ChestPrice int64 = 2

	// RarityPerTierBonus is added to the tier's base success percent for
	// each rarity point of the equipped weapon.
	RarityPerTierBonus = 5
)

var questCosts = [QuestTierCount]int64{0, 2, 5, 12, 30, 75, 150, 300}

// questDurationDays: a quest "day" is a wall-clock day; the end timestamp is
// a polling condition, nothing sleeps on it.
var questDurationDays = [QuestTierCount]int64{1, 2, 4, 6, 8, 12, 16, 24}

var questSuccessPercents = [QuestTierCount]int{55, 50, 45, 40, 35, 30, 25, 20}

// Tiers 0 pays no gold (chests only); tiers 6..7 pay no chests (gold only).
// The reward-type draw only breaks ties where both entries are nonzero.
var questGoldRewards = [QuestTierCount]int64{0, 6, 15, 40, 100, 250, 550, 1200}
var questChestRewards = [QuestTierCount]int64{2, 2, 3, 5, 8, 12, 0, 0}

// mintRarityChances is scaled by 1000 (tenths of a percent over a 100000
// draw space), indexed by rarity. The draw scans rarities 1..9 in order and
// keeps the first hit; tiers 7..9 are deliberately scarce.
var mintRarityChances = [models.RarityMax + 1]int64{
	0,     // rarity 0 is never minted directly
	35000, // 1
	22000, // 2
	14000, // 3
	9000,  // 4
	5500,  // 5
	3000,  // 6
	900,   // 7
	400,   // 8
	100,   // 9
}

func validTier(tier int) bool {
	return tier >= 0 && tier < QuestTierCount
}

func QuestCost(tier int) (int64, error) {
	if !validTier(tier) {
		return 0, ErrTierOutOfRange
	}
	return questCosts[tier], nil
}

func QuestDuration(tier int) (time.Duration, error) {
	if !validTier(tier) {
		return 0, ErrTierOutOfRange
	}
	return time.Duration(questDurationDays[tier]) * 24 * time.Hour, nil
}

func QuestSuccessPercent(tier int) (int, error) {
	if !validTier(tier) {
		return 0, ErrTierOutOfRange
	}
	return questSuccessPercents[tier], nil
}

func QuestGoldReward(tier int) (int64, error) {
	if !validTier(tier) {
		return 0, ErrTierOutOfRange
	}
	return questGoldRewards[tier], nil
}

func QuestChestReward(tier int) (int64, error) {
	if !validTier(tier) {
		return 0, ErrTierOutOfRange
	}
	return questChestRewards[tier], nil
}

// UpgradeSuccessPercent follows 60 - (rarity-1)*4. Within the allowed range
// 1..8 the result stays in (0,100); widening the range needs a clamp.
func UpgradeSuccessPercent(rarity int) int {
	return 60 - (rarity-1)*4
}
