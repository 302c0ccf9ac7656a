package services

import (
	"testing"
	"time"

	"forgequest/internal/models"
)

func TestUpgradeSuccessor(t *testing.T) {
	now := time.Now()
	input := &models.Weapon{ID: 12, OwnerID: 5, HolderID: 5, Rarity: 3, Variation: 2}

	won := upgradeSuccessor(input, true, now)
	if won.Rarity != 4 || won.Variation != 2 {
		t.Fatalf("success successor = rarity %d variation %d, want 4/2", won.Rarity, won.Variation)
	}
	if won.OwnerID != input.OwnerID || won.HolderID != input.OwnerID {
		t.Fatalf("successor must stay with the owner, got owner %d holder %d", won.OwnerID, won.HolderID)
	}

	lost := upgradeSuccessor(input, false, now)
	if lost.Rarity != 3 || lost.Variation != models.VariationBroken {
		t.Fatalf("failure successor = rarity %d variation %d, want 3/broken", lost.Rarity, lost.Variation)
	}
}

func TestUpgradeSupplyDelta(t *testing.T) {
	tradeable := &models.Weapon{Rarity: 3, Variation: 2}
	broken := &models.Weapon{Rarity: 3, Variation: models.VariationBroken}

	tests := []struct {
		name    string
		weapon  *models.Weapon
		success bool
		want    int64
	}{
		{"tradeable input succeeds", tradeable, true, 0},
		{"tradeable input breaks", tradeable, false, -1},
		{"broken input succeeds", broken, true, 0},
		{"broken input fails again", broken, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := upgradeSupplyDelta(tt.weapon, tt.success); got != tt.want {
				t.Fatalf("delta = %d, want %d", got, tt.want)
			}
		})
	}
}
