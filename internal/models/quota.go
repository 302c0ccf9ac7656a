package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

var ErrQuotaExhausted = errors.New("weekly free quest quota exhausted")

// FreeQuestQuota is a single global row shared by every player, not
// per-player state.
type FreeQuestQuota struct {
	bun.BaseModel `bun:"table:free_quest_quota"`
	ID            int64     `bun:"id,pk" json:"id"`
	Used          int       `bun:"used" json:"used"`
	WindowStart   time.Time `bun:"window_start" json:"window_start"`
}

// Advance consumes one free quest. A start after the window elapsed resets
// the counter to 1, not 0: the triggering start occupies the first slot.
func (q *FreeQuestQuota) Advance(now time.Time, cap int, window time.Duration) error {
	if now.Sub(q.WindowStart) >= window {
		q.Used = 1
		q.WindowStart = now
		return nil
	}
	if q.Used >= cap {
		return ErrQuotaExhausted
	}
	q.Used++
	return nil
}

// Remaining reports the free quests left in the window without consuming one.
func (q *FreeQuestQuota) Remaining(now time.Time, cap int, window time.Duration) int {
	if now.Sub(q.WindowStart) >= window {
		return cap
	}
	if q.Used >= cap {
		return 0
	}
	return cap - q.Used
}
