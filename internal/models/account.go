package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	IBAN      string          `json:"iban"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanCover reports whether debiting total leaves a non-negative balance.
func (a Account) CanCover(total decimal.Decimal) bool {
	return !a.Balance.Sub(total).IsNegative()
}
