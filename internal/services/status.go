package services

import (
	"fmt"
	"time"

	"github.com/baharkarakas/bank-transactions/internal/models"
)

// Band places a transaction date relative to the moment of the query.
type Band int

const (
	BandPast    Band = iota + 1 // before today's midnight
	BandPresent                 // today, up to and including now
	BandFuture                  // after now
)

func (b Band) String() string {
	switch b {
	case BandPast:
		return "past"
	case BandPresent:
		return "present"
	case BandFuture:
		return "future"
	}
	return fmt.Sprintf("band(%d)", int(b))
}

// ClassifyBand uses the calendar day of now, in now's location.
func ClassifyBand(date, now time.Time) Band {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case date.Before(startOfDay):
		return BandPast
	case !date.After(now):
		return BandPresent
	default:
		return BandFuture
	}
}

type statusKey struct {
	band    Band
	channel models.Channel
}

// ATM never reports a future transaction as FUTURE.
var statusTable = map[statusKey]models.Status{
	{BandPast, models.ChannelClient}:   models.StatusSettled,
	{BandPast, models.ChannelATM}:      models.StatusSettled,
	{BandPast, models.ChannelInternal}: models.StatusSettled,

	{BandPresent, models.ChannelClient}:   models.StatusPending,
	{BandPresent, models.ChannelATM}:      models.StatusPending,
	{BandPresent, models.ChannelInternal}: models.StatusPending,

	{BandFuture, models.ChannelClient}:   models.StatusFuture,
	{BandFuture, models.ChannelATM}:      models.StatusPending,
	{BandFuture, models.ChannelInternal}: models.StatusFuture,
}

// ResolveStatus derives what channel sees for txn at instant now. A nil
// txn resolves to INVALID with no amounts.
func ResolveStatus(reference string, txn *models.Transaction, channel models.Channel, now time.Time) (models.StatusView, error) {
	if !channel.Valid() {
		return models.StatusView{}, fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
	}
	if txn == nil {
		return models.StatusView{Reference: reference, Status: models.StatusInvalid}, nil
	}

	band := ClassifyBand(txn.Date, now)
	status, ok := statusTable[statusKey{band, channel}]
	if !ok {
		return models.StatusView{}, fmt.Errorf("%w: band=%s channel=%s", ErrStatusUnresolved, band, channel)
	}

	view := models.StatusView{Reference: txn.Reference, Status: status}
	if channel.CustomerFacing() {
		net := txn.Net()
		view.Amount = &net
	} else {
		amount, fee := txn.Amount, txn.Fee
		view.Amount, view.Fee = &amount, &fee
	}
	return view, nil
}
