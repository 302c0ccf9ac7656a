package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPlayerLock = errors.New("player locked")
	ErrWeaponLock = errors.New("weapon locked")
	ErrQuotaLock  = errors.New("free quota locked")

	ErrNoCharacter        = errors.New("player has no character")
	ErrCharacterExists    = errors.New("player already has a character")
	ErrNoWeaponEquipped   = errors.New("no weapon equipped")
	ErrAlreadyEquipped    = errors.New("weapon already equipped")
	ErrPaymentRequired    = errors.New("payment does not cover the cost")
	ErrNoChests           = errors.New("no chests to open")
	ErrQuestAlreadyActive = errors.New("quest already active")
	ErrQuestNotActive     = errors.New("no active quest")
	ErrQuestNotFinished   = errors.New("quest has not finished yet")
	ErrQuestFinished      = errors.New("quest already finished")
	ErrTierOutOfRange     = errors.New("quest tier out of range")
	ErrRarityOutOfRange   = errors.New("rarity out of range")
	ErrWeaponNotOwned     = errors.New("weapon not owned by caller")
	ErrNothingToWithdraw  = errors.New("nothing to withdraw")
	ErrNoWallet           = errors.New("no settlement wallet connected")
	ErrSharesExceed       = errors.New("shareholder percentages exceed 100")
	ErrMultiplierRange    = errors.New("reward multiplier out of range")
	ErrDropNotReady       = errors.New("supply drop not available yet")
)

const (
	CONFIG_REWARD_MULTIPLIER = "REWARD_MULTIPLIER"
	CONFIG_SUPPLY_DROP_HOURS = "SUPPLY_DROP_HOURS"
	CONFIG_LEADERBOARD_LIMIT = "LEADERBOARD_LIMIT"

	DEFAULT_REWARD_MULTIPLIER = 100
	MAX_REWARD_MULTIPLIER     = 200
	DEFAULT_SUPPLY_DROP_HOURS = 24
	LEADERBOARD_DEFAULT_LIMIT = 20

	QUEST_START_RATE_LIMIT_PER_MINUTE = 30
	CHEST_OPEN_RATE_LIMIT_PER_MINUTE  = 30

	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
)

func LockKeyPlayer(playerID int64) string {
	return fmt.Sprintf("lock:player:%d", playerID)
}

func LockKeyWeapon(weaponID int64) string {
	return fmt.Sprintf("lock:weapon:%d", weaponID)
}

// LockKeyFreeQuota guards the one counter shared across all players.
func LockKeyFreeQuota() string {
	return "lock:free-quota"
}

// db
func DBKeyPlayer(playerID int64) string {
	return fmt.Sprintf("player:%d", playerID)
}

func DBKeyPlayerWeapons(playerID int64) string {
	return fmt.Sprintf("player:%d:weapons", playerID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyShareholders() string {
	return "shareholders"
}

func DBKeyQuestLog(playerID int64, questID int64) string {
	return fmt.Sprintf("quest_log:%d:%d", playerID, questID)
}

func DBKeyPlayerEvents(playerID int64, limit int) string {
	return fmt.Sprintf("player:%d:events:%d", playerID, limit)
}

func DBKeyWinsLeaderboard(limit int) string {
	return fmt.Sprintf("leaderboard:quest_wins:%d", limit)
}

func LimitKeyQuestStart(playerID int64) string {
	return fmt.Sprintf("limit:quest-start:%d", playerID)
}

func LimitKeyChestOpen(playerID int64) string {
	return fmt.Sprintf("limit:chest-open:%d", playerID)
}
