package item

import (
	"context"
	"errors"

	"github.com/AnushkaKohli/nftmarketplace/account"
)

var (
	ErrNotFound  = errors.New("marketplace: item not found")
	ErrInvalidID = errors.New("marketplace: invalid item id")
)

type Store interface {
	GetItem(ctx context.Context, itemID int64) (*Item, error)
	ListItems(ctx context.Context, opts ListOpts) ([]*Item, error)
	CountItems(ctx context.Context) (Counts, error)
	LastItemID(ctx context.Context) (int64, error)
}

// ListOpts filters a listing. Zero values match everything; results are
// always in ascending id order.
type ListOpts struct {
	Sold   *bool
	Holder account.Address
	Seller account.Address
	Limit  int
	Offset int
}

// Matches reports whether it satisfies every filter in o.
func (o ListOpts) Matches(it *Item) bool {
	if o.Sold != nil && it.Sold != *o.Sold {
		return false
	}
	if o.Holder != "" && it.Holder != o.Holder {
		return false
	}
	if o.Seller != "" && it.Seller != o.Seller {
		return false
	}
	return true
}

type Counts struct {
	Items  int64 `json:"items"`
	Sold   int64 `json:"sold"`
	Listed int64 `json:"listed"`
}
