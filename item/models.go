package item

import (
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Item is a uniquely numbered digital asset tracked by the marketplace.
// Sold is true exactly when Holder is not account.Market.
type Item struct {
	types.Entity
	ID       int64           `json:"id"`
	AssetURI string          `json:"asset_uri"`
	Price    types.Money     `json:"price"`
	Seller   account.Address `json:"seller"`
	Holder   account.Address `json:"holder"`
	Sold     bool            `json:"sold"`
}

// Listed reports whether the item is currently available for purchase.
func (i *Item) Listed() bool {
	return !i.Sold
}

// Clone returns a copy that callers may modify freely.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
