package models

import "testing"

func TestCanTransferWeapon(t *testing.T) {
	const owner int64 = 42
	const stranger int64 = 7

	tests := []struct {
		name     string
		weapon   *Weapon
		from     int64
		to       int64
		equipped bool
		want     error
	}{
		{
			name:   "owner stakes into vault",
			weapon: &Weapon{OwnerID: owner, HolderID: owner, Rarity: 3, Variation: 2},
			from:   owner, to: HolderQuestVault,
		},
		{
			name:     "equipped weapon can still be staked",
			weapon:   &Weapon{OwnerID: owner, HolderID: owner, Rarity: 3, Variation: 2},
			from:     owner, to: HolderQuestVault, equipped: true,
		},
		{
			name:   "vault returns to owner",
			weapon: &Weapon{OwnerID: owner, HolderID: HolderQuestVault, Rarity: 3, Variation: 2},
			from:   HolderQuestVault, to: owner,
		},
		{
			name:   "owner retires to burn",
			weapon: &Weapon{OwnerID: owner, HolderID: owner, Rarity: 3, Variation: 2},
			from:   owner, to: HolderBurn,
		},
		{
			name:     "equipped weapon cannot be burned",
			weapon:   &Weapon{OwnerID: owner, HolderID: owner, Rarity: 3, Variation: 2},
			from:     owner, to: HolderBurn, equipped: true,
			want: ErrWeaponEquipped,
		},
		{
			name:   "destroyed weapon never moves",
			weapon: &Weapon{OwnerID: owner, HolderID: HolderBurn, Rarity: 3, Variation: 2, Destroyed: true},
			from:   HolderBurn, to: owner,
			want: ErrWeaponDestroyed,
		},
		{
			name:   "sender must be the holder",
			weapon: &Weapon{OwnerID: owner, HolderID: HolderQuestVault, Rarity: 3, Variation: 2},
			from:   owner, to: HolderBurn,
			want: ErrCustodyDenied,
		},
		{
			name:   "broken piece only moves to burn",
			weapon: &Weapon{OwnerID: owner, HolderID: owner, Rarity: 3, Variation: VariationBroken},
			from:   owner, to: HolderQuestVault,
			want: ErrWeaponSoulbound,
		},
		{
			name:   "broken piece can be burned",
			weapon: &Weapon{OwnerID: owner, HolderID: owner, Rarity: 3, Variation: VariationBroken},
			from:   owner, to: HolderBurn,
		},
		{
			name:   "no transfer to another player",
			weapon: &Weapon{OwnerID: owner, HolderID: owner, Rarity: 3, Variation: 2},
			from:   owner, to: stranger,
			want: ErrCustodyDenied,
		},
		{
			name:   "vault cannot burn",
			weapon: &Weapon{OwnerID: owner, HolderID: HolderQuestVault, Rarity: 3, Variation: 2},
			from:   HolderQuestVault, to: HolderBurn,
			want: ErrCustodyDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransferWeapon(tt.weapon, tt.from, tt.to, tt.equipped)
			if got != tt.want {
				t.Fatalf("CanTransferWeapon = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeaponPredicates(t *testing.T) {
	broken := &Weapon{Variation: VariationBroken}
	if !broken.Broken() {
		t.Fatal("variation 0 should read as broken")
	}
	if (&Weapon{Variation: 1}).Broken() {
		t.Fatal("variation 1 should not read as broken")
	}
	if !(&Weapon{HolderID: HolderQuestVault}).Staked() {
		t.Fatal("vault holder should read as staked")
	}
}
