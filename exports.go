package marketplace

import (
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Re-export common types for convenience so users don't have to import the
// leaf packages.

// Money is re-exported from types package.
type Money = types.Money

// Address is re-exported from account package.
type Address = account.Address

// Item is re-exported from item package.
type Item = item.Item

// Event is re-exported from event package.
type Event = event.Event

// Transfer is re-exported from payment package.
type Transfer = payment.Transfer

// Re-export Money constructors
var (
	ETH  = types.ETH
	USD  = types.USD
	Zero = types.Zero
)
