package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]Channel{"CLIENT": ChannelClient, "atm": ChannelATM, " Internal ": ChannelInternal} {
		got, err := ParseChannel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "BRANCH", "CLIENTS"} {
		_, err := ParseChannel(in)
		assert.ErrorIs(t, err, ErrInvalidChannel, in)
	}
	assert.True(t, ChannelATM.CustomerFacing())
	assert.False(t, ChannelInternal.CustomerFacing())
}

func TestParseSortDirection(t *testing.T) {
	for in, want := range map[string]SortDirection{"": SortAsc, "asc": SortAsc, "DESC": SortDesc, " desc ": SortDesc} {
		got, err := ParseSortDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortDirection("UP")
	assert.ErrorIs(t, err, ErrInvalidSortDirection)
}

func TestTransactionTotals(t *testing.T) {
	txn := Transaction{Amount: decimal.RequireFromString("193.38"), Fee: decimal.RequireFromString("3.18")}
	assert.Equal(t, "196.56", txn.Total().String())
	assert.Equal(t, "190.2", txn.Net().String())
}

func TestAccountCanCover(t *testing.T) {
	a := Account{Balance: decimal.RequireFromString("105")}
	assert.True(t, a.CanCover(decimal.RequireFromString("105")))
	assert.True(t, a.CanCover(decimal.Zero))
	assert.False(t, a.CanCover(decimal.RequireFromString("105.01")))
}
