package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"forgequest/internal/datastore"
	"forgequest/internal/datastore/redis_store"
	"forgequest/internal/interfaces"
	"forgequest/internal/models"
	"forgequest/internal/pkg/caching"
	"forgequest/internal/pkg/limiter"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceQuest struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	limiter         interfaces.Limiter
	outcome         *Outcome
	servicePlayer   *ServicePlayer
	serviceConfig   *ServiceConfig
	serviceTreasury *ServiceTreasury
}

func NewServiceQuest(container *do.Injector) (*ServiceQuest, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	rateLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	outcome, err := do.Invoke[*Outcome](container)
	if err != nil {
		return nil, err
	}

	servicePlayer, err := do.Invoke[*ServicePlayer](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceTreasury, err := do.Invoke[*ServiceTreasury](container)
	if err != nil {
		return nil, err
	}

	return &ServiceQuest{container, redisDB, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, rateLimiter, outcome, servicePlayer, serviceConfig, serviceTreasury}, nil
}

type rewardKind int

const (
	rewardGold rewardKind = iota
	rewardChests
)

// completionRollRarity picks the rarity feeding the success roll: the weapon
// equipped when the quest completes, not the one staked at start. Re-equipping
// between start and complete changes the roll.
func completionRollRarity(equipped *models.Weapon, staked *models.Weapon) int {
	return equipped.Rarity
}

// resolveRewardKind applies the tie-break between the reward-type flag and
// the tier tables: a tier with a zero gold entry always pays chests, a tier
// with a zero chest entry always pays gold; the flag only decides when both
// entries are nonzero. flagChests is the engine's independent 50% draw.
func resolveRewardKind(flagChests bool, goldReward int64, chestReward int64) rewardKind {
	if (flagChests && chestReward == 0) || (!flagChests && goldReward != 0) {
		return rewardGold
	}
	return rewardChests
}

type TierInfo struct {
	Tier           int   `json:"tier"`
	Cost           int64 `json:"cost"`
	DurationDays   int64 `json:"duration_days"`
	SuccessPercent int   `json:"success_percent"`
	GoldReward     int64 `json:"gold_reward"`
	ChestReward    int64 `json:"chest_reward"`
}

func Tiers() []TierInfo {
	tiers := make([]TierInfo, QuestTierCount)
	for t := range tiers {
		tiers[t] = TierInfo{
			Tier:           t,
			Cost:           questCosts[t],
			DurationDays:   questDurationDays[t],
			SuccessPercent: questSuccessPercents[t],
			GoldReward:     questGoldRewards[t],
			ChestReward:    questChestRewards[t],
		}
	}
	return tiers
}

// StartQuest stakes the equipped weapon into a new quest at the given tier,
// pulling the tier's exact cost from the player's gold. The current quest
// slot (last_quest_id) is overwritten; the counter advances on completion
// or cancellation, never here.
func (service *ServiceQuest) StartQuest(ctx context.Context, player *models.Player, tier int) (*models.QuestLog, error) {
	cost, err := QuestCost(tier)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}
	duration, err := QuestDuration(tier)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	err = service.limiter.Allow(ctx, LimitKeyQuestStart(player.ID), redis_rate.PerMinute(QUEST_START_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	fresh, err := datastore.FindPlayerByID(ctx, service.postgresDB, player.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if !fresh.HasCharacter() {
		return nil, errorx.Wrap(ErrNoCharacter, errorx.Invalid)
	}
	if !fresh.HasEquippedWeapon() {
		return nil, errorx.Wrap(ErrNoWeaponEquipped, errorx.Invalid)
	}
	if fresh.HasActiveQuest() {
		return nil, errorx.Wrap(ErrQuestAlreadyActive, errorx.Invalid)
	}

	weapon, err := datastore.GetWeapon(ctx, service.postgresDB, fresh.EquippedWeaponID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if err := models.CanTransferWeapon(weapon, fresh.ID, models.HolderQuestVault, true); err != nil {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}

	if tier == FreeQuestTier {
		quotaMutex := service.rs.NewMutex(LockKeyFreeQuota())
		if err := quotaMutex.Lock(); err != nil {
			return nil, errorx.Wrap(ErrQuotaLock, errorx.Invalid)
		}
		//nolint:errcheck
		defer quotaMutex.Unlock()
	}

	now := time.Now()
	quest := &models.QuestLog{
		PlayerID:  fresh.ID,
		QuestID:   fresh.LastQuestID,
		WeaponID:  weapon.ID,
		Tier:      tier,
		EndsAt:    now.Add(duration).Unix(),
		Status:    models.QuestStatusActive,
		CreatedAt: now,
	}
	event := &models.GameEvent{
		ID:        uuid.NewString(),
		Type:      models.EventQuestStarted,
		PlayerID:  fresh.ID,
		QuestID:   quest.QuestID,
		WeaponID:  weapon.ID,
		Tier:      tier,
		Rarity:    weapon.Rarity,
		Variation: weapon.Variation,
		Amount:    cost,
		CreatedAt: now,
	}

	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if tier == FreeQuestTier {
			quota, err := datastore.GetFreeQuestQuota(ctx, tx)
			if err != nil {
				return err
			}
			if err := quota.Advance(now, FreeQuestCap, FreeQuestWindow); err != nil {
				return err
			}
			if err := datastore.UpdateFreeQuestQuota(ctx, tx, quota); err != nil {
				return err
			}
		}

		if cost > 0 {
			paid, err := datastore.DebitPlayerGold(ctx, tx, fresh.ID, cost)
			if err != nil {
				return err
			}
			if !paid {
				return ErrPaymentRequired
			}
		}

		if err := datastore.UpsertQuestLog(ctx, tx, quest); err != nil {
			return err
		}
		if err := datastore.SetWeaponHolder(ctx, tx, weapon.ID, models.HolderQuestVault); err != nil {
			return err
		}

		fresh.QuestEndsAt = quest.EndsAt
		if _, err := datastore.UpdatePlayer(ctx, tx, fresh); err != nil {
			return err
		}

		return datastore.InsertGameEvent(ctx, tx, event)
	})
	if err != nil {
		if errors.Is(err, models.ErrQuotaExhausted) || errors.Is(err, ErrPaymentRequired) {
			return nil, errorx.Wrap(err, errorx.Invalid)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	// The payment is already pulled; a recipient that cannot be paid must
	// not unwind the quest.
	if cost > 0 {
		if err := service.serviceTreasury.Distribute(ctx, cost); err != nil {
			log.Println("distribute quest payment:", err)
		}
	}

	service.afterTransition(ctx, fresh.ID, quest.QuestID, event)
	return quest, nil
}

// CompleteQuest resolves the active quest once its end timestamp passed.
// The success roll is keyed by the tier and the rarity of the weapon
// equipped right now, not the one staked at start.
func (service *ServiceQuest) CompleteQuest(ctx context.Context, player *models.Player) (*models.QuestLog, error) {
	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	fresh, err := datastore.FindPlayerByID(ctx, service.postgresDB, player.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !fresh.HasActiveQuest() {
		return nil, errorx.Wrap(ErrQuestNotActive, errorx.Invalid)
	}

	quest, err := datastore.GetQuestLog(ctx, service.postgresDB, fresh.ID, fresh.LastQuestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(ErrQuestNotActive, errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !quest.Active() {
		return nil, errorx.Wrap(ErrQuestNotActive, errorx.Invalid)
	}

	now := time.Now()
	if !quest.Finished(now) {
		return nil, errorx.Wrap(ErrQuestNotFinished, errorx.Invalid)
	}

	equipped, err := datastore.GetWeapon(ctx, service.postgresDB, fresh.EquippedWeaponID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	staked, err := datastore.GetWeapon(ctx, service.postgresDB, quest.WeaponID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	success, err := service.outcome.QuestOutcome(fresh.ID, quest.Tier, completionRollRarity(equipped, staked))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	quest.Narrative = service.outcome.NarrativeIndexDraw(fresh.ID)

	eventType := models.EventQuestFailed
	var rewardAmount int64
	payChests := false
	if success {
		quest.Status = models.QuestStatusSuccess

		goldReward, _ := QuestGoldReward(quest.Tier)
		chestReward, _ := QuestChestReward(quest.Tier)
		multiplier := int64(service.serviceConfig.RewardMultiplier(ctx))

		// The tie-break looks at the raw table entries; the multiplier
		// scales whichever side won.
		if resolveRewardKind(service.outcome.RewardTypeDraw(fresh.ID), goldReward, chestReward) == rewardChests {
			payChests = true
			rewardAmount = chestReward * multiplier / 100
			eventType = models.EventQuestSucceededChest
		} else {
			rewardAmount = goldReward * multiplier / 100
			eventType = models.EventQuestSucceededGold
		}
	} else {
		quest.Status = models.QuestStatusFailure
	}

	event := &models.GameEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		PlayerID:  fresh.ID,
		QuestID:   quest.QuestID,
		WeaponID:  staked.ID,
		Tier:      quest.Tier,
		Rarity:    staked.Rarity,
		Variation: staked.Variation,
		Amount:    rewardAmount,
		CreatedAt: now,
	}

	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.UpdateQuestLog(ctx, tx, quest); err != nil {
			return err
		}

		if err := models.CanTransferWeapon(staked, models.HolderQuestVault, staked.OwnerID, false); err != nil {
			return err
		}
		if err := datastore.SetWeaponHolder(ctx, tx, staked.ID, staked.OwnerID); err != nil {
			return err
		}

		fresh.QuestEndsAt = 0
		fresh.LastQuestID++
		if success {
			fresh.QuestWins++
		} else {
			fresh.QuestLosses++
		}
		if _, err := datastore.UpdatePlayer(ctx, tx, fresh); err != nil {
			return err
		}

		if success {
			if payChests {
				if err := datastore.CreditPendingChests(ctx, tx, fresh.ID, rewardAmount); err != nil {
					return err
				}
			} else {
				if err := datastore.CreditPendingGold(ctx, tx, fresh.ID, rewardAmount); err != nil {
					return err
				}
			}
		}

		return datastore.InsertGameEvent(ctx, tx, event)
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.afterTransition(ctx, fresh.ID, quest.QuestID, event)
	return quest, nil
}

// CancelQuest abandons the active quest before its natural completion.
// No roll, no reward; the record is frozen as a failure.
func (service *ServiceQuest) CancelQuest(ctx context.Context, player *models.Player) (*models.QuestLog, error) {
	mutex := service.rs.NewMutex(LockKeyPlayer(player.ID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrPlayerLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	fresh, err := datastore.FindPlayerByID(ctx, service.postgresDB, player.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !fresh.HasActiveQuest() {
		return nil, errorx.Wrap(ErrQuestNotActive, errorx.Invalid)
	}

	quest, err := datastore.GetQuestLog(ctx, service.postgresDB, fresh.ID, fresh.LastQuestID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !quest.Active() {
		return nil, errorx.Wrap(ErrQuestNotActive, errorx.Invalid)
	}

	now := time.Now()
	if quest.Finished(now) {
		return nil, errorx.Wrap(ErrQuestFinished, errorx.Invalid)
	}

	staked, err := datastore.GetWeapon(ctx, service.postgresDB, quest.WeaponID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	quest.Status = models.QuestStatusFailure
	quest.EndsAt = 0

	event := &models.GameEvent{
		ID:        uuid.NewString(),
		Type:      models.EventQuestStopped,
		PlayerID:  fresh.ID,
		QuestID:   quest.QuestID,
		WeaponID:  staked.ID,
		Tier:      quest.Tier,
		Rarity:    staked.Rarity,
		Variation: staked.Variation,
		CreatedAt: now,
	}

	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.UpdateQuestLog(ctx, tx, quest); err != nil {
			return err
		}

		if err := models.CanTransferWeapon(staked, models.HolderQuestVault, staked.OwnerID, false); err != nil {
			return err
		}
		if err := datastore.SetWeaponHolder(ctx, tx, staked.ID, staked.OwnerID); err != nil {
			return err
		}

		fresh.QuestEndsAt = 0
		fresh.LastQuestID++
		if _, err := datastore.UpdatePlayer(ctx, tx, fresh); err != nil {
			return err
		}

		return datastore.InsertGameEvent(ctx, tx, event)
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.afterTransition(ctx, fresh.ID, quest.QuestID, event)
	return quest, nil
}

func (service *ServiceQuest) GetQuestLog(ctx context.Context, playerID int64, questID int64) (*models.QuestLog, error) {
	callback := func() (*models.QuestLog, error) {
		return datastore.GetQuestLog(ctx, service.readonlyPostgresDB, playerID, questID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyQuestLog(playerID, questID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceQuest) GetQuestHistory(ctx context.Context, playerID int64, limit int) ([]*models.QuestLog, error) {
	return datastore.GetQuestLogsByPlayer(ctx, service.readonlyPostgresDB, playerID, limit)
}

// RemainingFreeQuests reports the free-tier starts left in the current
// 7-day window without consuming one.
func (service *ServiceQuest) RemainingFreeQuests(ctx context.Context) (int, error) {
	quota, err := datastore.GetFreeQuestQuota(ctx, service.readonlyPostgresDB)
	if err != nil {
		return 0, errorx.Wrap(err, errorx.Service)
	}
	return quota.Remaining(time.Now(), FreeQuestCap, FreeQuestWindow), nil
}

func (service *ServiceQuest) afterTransition(ctx context.Context, playerID int64, questID int64, event *models.GameEvent) {
	if err := redis_store.PublishGameEvent(ctx, service.redisDB, event); err != nil {
		log.Println("publish game event:", err)
	}
	if err := service.cache.Delete(ctx, DBKeyPlayer(playerID)); err != nil {
		log.Println(err)
	}
	if err := service.cache.Delete(ctx, DBKeyQuestLog(playerID, questID)); err != nil {
		log.Println(err)
	}
}
