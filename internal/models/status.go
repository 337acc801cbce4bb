package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type Channel string

const (
	ChannelClient   Channel = "CLIENT"
	ChannelATM      Channel = "ATM"
	ChannelInternal Channel = "INTERNAL"
)

var ErrInvalidChannel = errors.New("channel must be one of CLIENT, ATM, INTERNAL")

func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidChannel
	}
	return c, nil
}

func (c Channel) Valid() bool {
	switch c {
	case ChannelClient, ChannelATM, ChannelInternal:
		return true
	}
	return false
}

// CustomerFacing channels see the fee netted out of the amount.
func (c Channel) CustomerFacing() bool { return c == ChannelClient || c == ChannelATM }

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSettled Status = "SETTLED"
	StatusFuture  Status = "FUTURE"
	StatusInvalid Status = "INVALID"
)

type StatusView struct {
	Reference string           `json:"reference"`
	Status    Status           `json:"status"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Fee       *decimal.Decimal `json:"fee,omitempty"`
}
