package event

import (
	"time"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/id"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Event is one entry of the append-only marketplace log. Amount is the
// listing price for listing operations, the sale price for sales, and the
// new fee for fee updates. ItemID is 0 for fee updates.
type Event struct {
	ID        id.EventID      `json:"id"`
	Operation Operation       `json:"operation"`
	ItemID    int64           `json:"item_id,omitempty"`
	Actor     account.Address `json:"actor"`
	Amount    types.Money     `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type Operation string

const (
	OpListed     Operation = "listed"
	OpSold       Operation = "sold"
	OpRelisted   Operation = "relisted"
	OpCanceled   Operation = "canceled"
	OpFeeUpdated Operation = "fee_updated"
)

func (o Operation) String() string { return string(o) }
