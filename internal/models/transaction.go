package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places stored for amounts, fees and
// balances.
const MoneyScale int32 = 4

type Transaction struct {
	Reference   string          `json:"reference"`
	AccountIBAN string          `json:"account_iban"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"-"`
}

// Total is what admission debits from the account.
func (t Transaction) Total() decimal.Decimal { return t.Amount.Add(t.Fee) }

// Net is the amount shown to customer-facing channels.
func (t Transaction) Net() decimal.Decimal { return t.Amount.Sub(t.Fee) }

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

var ErrInvalidSortDirection = errors.New("sort direction must be ASC or DESC")

// ParseSortDirection defaults to ascending when s is empty.
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToUpper(strings.TrimSpace(s))) {
	case "", SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", ErrInvalidSortDirection
}
