package models

import (
	"github.com/uptrace/bun"
)

// Shareholder is one row of the fixed equity table. Percent shares across
// all rows must sum to at most 100.
type Shareholder struct {
	bun.BaseModel `bun:"table:shareholder"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name" json:"name"`
	Recipient     string `bun:"recipient" json:"recipient"`
	Percent       int64  `bun:"percent" json:"percent"`
}
