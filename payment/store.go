package payment

import (
	"context"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

type Store interface {
	ListTransfers(ctx context.Context, opts ListOpts) ([]*Transfer, error)
	// Balance is incoming minus outgoing transfers for acct in currency.
	Balance(ctx context.Context, acct account.Address, currency string) (types.Money, error)
}

type ListOpts struct {
	Account account.Address // matches From or To
	ItemID  int64
	Kind    Kind
	Limit   int
	Offset  int
}

// Matches reports whether t satisfies every filter in o.
func (o ListOpts) Matches(t *Transfer) bool {
	if o.Account != "" && t.From != o.Account && t.To != o.Account {
		return false
	}
	if o.ItemID != 0 && t.ItemID != o.ItemID {
		return false
	}
	if o.Kind != "" && t.Kind != o.Kind {
		return false
	}
	return true
}

// Net returns the balance contribution of transfers for acct.
func Net(acct account.Address, currency string, transfers []*Transfer) types.Money {
	total := types.Zero(currency)
	for _, t := range transfers {
		if t.Amount.Currency != total.Currency {
			continue
		}
		if t.To == acct {
			total = total.Add(t.Amount)
		}
		if t.From == acct {
			total = total.Subtract(t.Amount)
		}
	}
	return total
}
