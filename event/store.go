package event

import (
	"context"
	"time"

	"github.com/AnushkaKohli/nftmarketplace/account"
)

type Store interface {
	ListEvents(ctx context.Context, opts ListOpts) ([]*Event, error)
}

// ListOpts filters the event log. Results are ascending by timestamp.
type ListOpts struct {
	ItemID    int64
	Actor     account.Address
	Operation Operation
	Since     time.Time
	Limit     int
	Offset    int
}

// Matches reports whether e satisfies every filter in o.
func (o ListOpts) Matches(e *Event) bool {
	if o.ItemID != 0 && e.ItemID != o.ItemID {
		return false
	}
	if o.Actor != "" && e.Actor != o.Actor {
		return false
	}
	if o.Operation != "" && e.Operation != o.Operation {
		return false
	}
	if !o.Since.IsZero() && e.Timestamp.Before(o.Since) {
		return false
	}
	return true
}
