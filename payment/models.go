package payment

import (
	"time"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/id"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Transfer records value moving between two accounts as part of a
// marketplace operation.
type Transfer struct {
	ID        id.TransferID   `json:"id"`
	EventID   id.EventID      `json:"event_id"`
	ItemID    int64           `json:"item_id"`
	Kind      Kind            `json:"kind"`
	From      account.Address `json:"from"`
	To        account.Address `json:"to"`
	Amount    types.Money     `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type Kind string

const (
	KindListingFee Kind = "listing_fee"
	KindSale       Kind = "sale"
)
