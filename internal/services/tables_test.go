package services

import (
	"testing"
	"time"
)

func TestQuestTables(t *testing.T) {
	cost, err := QuestCost(2)
	if err != nil {
		t.Fatal(err)
	}
	if cost != 5 {
		t.Fatalf("tier 2 cost = %d, want 5", cost)
	}

	if cost, _ := QuestCost(FreeQuestTier); cost != 0 {
		t.Fatalf("free tier cost = %d, want 0", cost)
	}

	duration, err := QuestDuration(2)
	if err != nil {
		t.Fatal(err)
	}
	if duration != 4*24*time.Hour {
		t.Fatalf("tier 2 duration = %v, want 96h", duration)
	}

	for tier := 0; tier < QuestTierCount-1; tier++ {
		a, _ := QuestSuccessPercent(tier)
		b, _ := QuestSuccessPercent(tier + 1)
		if b >= a {
			t.Fatalf("success percent not decreasing at tier %d: %d -> %d", tier, a, b)
		}

		ca, _ := QuestCost(tier)
		cb, _ := QuestCost(tier + 1)
		if cb <= ca {
			t.Fatalf("cost not increasing at tier %d: %d -> %d", tier, ca, cb)
		}
	}

	// free tier pays chests only, top tiers gold only
	if gold, _ := QuestGoldReward(0); gold != 0 {
		t.Fatalf("tier 0 gold = %d, want 0", gold)
	}
	if chests, _ := QuestChestReward(0); chests == 0 {
		t.Fatal("tier 0 must pay chests")
	}
	for _, tier := range []int{6, 7} {
		if chests, _ := QuestChestReward(tier); chests != 0 {
			t.Fatalf("tier %d chests = %d, want 0", tier, chests)
		}
		if gold, _ := QuestGoldReward(tier); gold == 0 {
			t.Fatalf("tier %d must pay gold", tier)
		}
	}
}

func TestQuestTablesRange(t *testing.T) {
	for _, tier := range []int{-1, QuestTierCount} {
		if _, err := QuestCost(tier); err != ErrTierOutOfRange {
			t.Fatalf("cost(%d): err = %v, want ErrTierOutOfRange", tier, err)
		}
		if _, err := QuestDuration(tier); err != ErrTierOutOfRange {
			t.Fatalf("duration(%d): err = %v, want ErrTierOutOfRange", tier, err)
		}
		if _, err := QuestSuccessPercent(tier); err != ErrTierOutOfRange {
			t.Fatalf("percent(%d): err = %v, want ErrTierOutOfRange", tier, err)
		}
		if _, err := QuestGoldReward(tier); err != ErrTierOutOfRange {
			t.Fatalf("gold(%d): err = %v, want ErrTierOutOfRange", tier, err)
		}
		if _, err := QuestChestReward(tier); err != ErrTierOutOfRange {
			t.Fatalf("chests(%d): err = %v, want ErrTierOutOfRange", tier, err)
		}
	}
}

func TestUpgradeSuccessPercent(t *testing.T) {
	tests := []struct {
		rarity int
		want   int
	}{
		{1, 60},
		{2, 56},
		{3, 52},
		{4, 48},
		{5, 44},
		{6, 40},
		{7, 36},
		{8, 32},
	}

	for _, tt := range tests {
		if got := UpgradeSuccessPercent(tt.rarity); got != tt.want {
			t.Fatalf("UpgradeSuccessPercent(%d) = %d, want %d", tt.rarity, got, tt.want)
		}
	}
}

func TestTiers(t *testing.T) {
	tiers := Tiers()
	if len(tiers) != QuestTierCount {
		t.Fatalf("len(Tiers()) = %d, want %d", len(tiers), QuestTierCount)
	}
	if tiers[2].Cost != 5 || tiers[2].DurationDays != 4 {
		t.Fatalf("tier 2 info = %+v", tiers[2])
	}
}
