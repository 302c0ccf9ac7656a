package services

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"sync/atomic"
	"time"

	"forgequest/internal/models"
)

// drawScale is the draw space for all probability checks: probabilities are
// expressed in tenths of a percent, i.e. percent scaled by 1000.
const drawScale = 100000

// Seeder supplies opaque, unpredictable 256-bit seed material for one draw.
// The engine's contract is "same seed sequence => same outcome sequence";
// anything stronger is the supplier's concern.
type Seeder interface {
	Seed(callerID int64, now time.Time, nonce uint64) [32]byte
}

type entropySeeder struct{}

func (entropySeeder) Seed(callerID int64, now time.Time, nonce uint64) [32]byte {
	var ambient [32]byte
	//nolint:errcheck
	crand.Read(ambient[:])

	h := sha256.New()
	h.Write(ambient[:])

	var ctx [24]byte
	binary.BigEndian.PutUint64(ctx[0:], uint64(callerID))
	binary.BigEndian.PutUint64(ctx[8:], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(ctx[16:], nonce)
	h.Write(ctx[:])

	var seed [32]byte
	copy(seed[:], h.Sum(nil))
	return seed
}

// Outcome derives every random decision in the economy from seeded draws.
// The nonce is the only state: it diversifies successive draws made within
// the same evaluation context.
type Outcome struct {
	seeder Seeder
	nonce  atomic.Uint64
}

func NewOutcome(seeder Seeder) *Outcome {
	if seeder == nil {
		seeder = entropySeeder{}
	}
	return &Outcome{seeder: seeder}
}

// DrawUniform returns an integer in [0, max), derived from the next seed.
func (o *Outcome) DrawUniform(callerID int64, max int64) int64 {
	nonce := o.nonce.Add(1)
	seed := o.seeder.Seed(callerID, time.Now(), nonce)

	n := new(big.Int).SetBytes(seed[:])
	return n.Mod(n, big.NewInt(max)).Int64()
}

// QuestOutcome rolls a quest. Success percent is table[tier] + rarity*5;
// success iff the draw over [0,100000) is <= the percent scaled by 1000.
func (o *Outcome) QuestOutcome(callerID int64, tier int, rarity int) (bool, error) {
	percent, err := QuestSuccessPercent(tier)
	if err != nil {
		return false, err
	}

	scaled := int64(percent+rarity*RarityPerTierBonus) * 1000
	return o.DrawUniform(callerID, drawScale) <= scaled, nil
}

// RewardTypeDraw flags a quest as chest-paying. Independent 50% draw; the
// tier tables break ties when one entry is zero.
func (o *Outcome) RewardTypeDraw(callerID int64) bool {
	return o.DrawUniform(callerID, drawScale) < drawScale/2
}

func (o *Outcome) NarrativeIndexDraw(callerID int64) int {
	return int(o.DrawUniform(callerID, NarrativeVariants))
}

// UpgradeOutcome rolls a weapon upgrade for rarity 1..8.
func (o *Outcome) UpgradeOutcome(callerID int64, rarity int) (bool, error) {
	if rarity < 1 || rarity > models.RarityMax-1 {
		return false, ErrRarityOutOfRange
	}

	scaled := int64(UpgradeSuccessPercent(rarity)) * 1000
	return o.DrawUniform(callerID, drawScale) <= scaled, nil
}

// MintRarityDraw scans candidate rarities 1..9 in order and keeps the first
// draw that qualifies. The ordered scan is deliberate: chances need not sum
// to 100% and the policy stays auditable row by row.
func (o *Outcome) MintRarityDraw(callerID int64) int {
	for rarity := 1; rarity <= models.RarityMax; rarity++ {
		if o.DrawUniform(callerID, drawScale) <= mintRarityChances[rarity] {
			return rarity
		}
	}
	return 1
}

// MintVariationDraw picks uniformly among the tradeable classes 1..4.
func (o *Outcome) MintVariationDraw(callerID int64) int {
	return int(o.DrawUniform(callerID, models.VariationClasses)) + 1
}
