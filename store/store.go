package store

import (
	"context"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Store is the unified storage interface for all marketplace records.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Item methods
	GetItem(ctx context.Context, itemID int64) (*item.Item, error)
	ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error)
	CountItems(ctx context.Context) (item.Counts, error)
	LastItemID(ctx context.Context) (int64, error)

	// Event methods
	ListEvents(ctx context.Context, opts event.ListOpts) ([]*event.Event, error)

	// Payment methods
	ListTransfers(ctx context.Context, opts payment.ListOpts) ([]*payment.Transfer, error)
	Balance(ctx context.Context, acct account.Address, currency string) (types.Money, error)

	// Settings methods
	SaveListingFee(ctx context.Context, fee types.Money, e *event.Event) error
	LoadListingFee(ctx context.Context) (types.Money, bool, error)

	// Apply persists one marketplace mutation.
	Apply(ctx context.Context, b *Batch) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Batch groups every record written by a single mutation. Stores apply a
// batch in full or not at all.
type Batch struct {
	Item      *item.Item
	Created   bool
	Event     *event.Event
	Transfers []*payment.Transfer
}
