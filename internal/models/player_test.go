package models

import (
	"testing"
	"time"
)

func TestPlayerQuestReady(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p := &Player{}
	if p.QuestReady(now) {
		t.Fatal("no active quest should never be ready")
	}

	p.QuestEndsAt = now.Add(time.Hour).Unix()
	if p.QuestReady(now) {
		t.Fatal("quest ending in the future should not be ready")
	}
	if !p.QuestReady(now.Add(time.Hour)) {
		t.Fatal("quest is ready exactly at its end timestamp")
	}
}

func TestPlayerSupplyDropReady(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p := &Player{}
	if !p.SupplyDropReady(now) {
		t.Fatal("a player who never claimed should be ready")
	}

	next := now.Add(time.Hour)
	p.SupplyDropAt = &next
	if p.SupplyDropReady(now) {
		t.Fatal("cooldown in the future should block the claim")
	}
	if !p.SupplyDropReady(next) {
		t.Fatal("claim unlocks exactly at the cooldown timestamp")
	}
}
