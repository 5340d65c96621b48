// Package query provides read-only views over marketplace items.
//
// Every call reads the store afresh; nothing is cached between calls.
// Results are always in ascending item id order.
package query

import (
	"context"
	"fmt"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/item"
)

// Engine answers listing and ownership queries.
type Engine struct {
	items item.Store
}

// New creates an Engine reading from s.
func New(s item.Store) *Engine {
	return &Engine{items: s}
}

// FetchListed returns every item currently available for purchase.
func (e *Engine) FetchListed(ctx context.Context) ([]*item.Item, error) {
	listed := false
	return e.list(ctx, item.ListOpts{Sold: &listed})
}

// FetchOwnedBy returns every item currently held by acct.
func (e *Engine) FetchOwnedBy(ctx context.Context, acct account.Address) ([]*item.Item, error) {
	if acct == "" {
		return []*item.Item{}, nil
	}
	return e.list(ctx, item.ListOpts{Holder: acct})
}

// FetchListedBy returns every item whose most recent listing was made by
// acct, whether or not it has since sold.
func (e *Engine) FetchListedBy(ctx context.Context, acct account.Address) ([]*item.Item, error) {
	if acct == "" {
		return []*item.Item{}, nil
	}
	return e.list(ctx, item.ListOpts{Seller: acct})
}

// Get returns a single item.
func (e *Engine) Get(ctx context.Context, itemID int64) (*item.Item, error) {
	if itemID <= 0 {
		return nil, item.ErrInvalidID
	}
	it, err := e.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Counts returns item totals split by sale state.
func (e *Engine) Counts(ctx context.Context) (item.Counts, error) {
	c, err := e.items.CountItems(ctx)
	if err != nil {
		return item.Counts{}, fmt.Errorf("count items: %w", err)
	}
	return c, nil
}

func (e *Engine) list(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	items, err := e.items.ListItems(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}
