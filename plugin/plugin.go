// Package plugin provides an extensible plugin system for the marketplace.
// Plugins can hook into item and fee lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the marketplace starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, m any) error
}

// OnShutdown is called when the marketplace stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Item lifecycle hooks
// ──────────────────────────────────────────────────

// OnItemListed is called after a new item is created and listed.
type OnItemListed interface {
	Plugin
	OnItemListed(ctx context.Context, it *item.Item, evt *event.Event) error
}

// OnItemSold is called after an item is bought.
type OnItemSold interface {
	Plugin
	OnItemSold(ctx context.Context, it *item.Item, evt *event.Event) error
}

// OnItemRelisted is called after a holder puts an item back on the market.
type OnItemRelisted interface {
	Plugin
	OnItemRelisted(ctx context.Context, it *item.Item, evt *event.Event) error
}

// OnListingCanceled is called after a seller withdraws a listing.
type OnListingCanceled interface {
	Plugin
	OnListingCanceled(ctx context.Context, it *item.Item, evt *event.Event) error
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnListingFeeUpdated is called after the administrator changes the fee.
type OnListingFeeUpdated interface {
	Plugin
	OnListingFeeUpdated(ctx context.Context, oldFee, newFee types.Money, evt *event.Event) error
}

// OnOperationRejected is called when a mutation is refused. itemID is 0 when
// the operation does not target an existing item.
type OnOperationRejected interface {
	Plugin
	OnOperationRejected(ctx context.Context, op event.Operation, itemID int64, actor account.Address, reason error) error
}
