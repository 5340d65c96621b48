// Package fee holds the marketplace listing fee and the single account
// allowed to change it.
package fee

import (
	"errors"
	"sync"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

var (
	ErrFeeMismatch  = errors.New("marketplace: listing fee mismatch")
	ErrUnauthorized = errors.New("marketplace: unauthorized")
	ErrInvalidFee   = errors.New("marketplace: invalid listing fee")
)

// Policy is safe for concurrent use. The administrator is fixed at
// construction.
type Policy struct {
	mu    sync.RWMutex
	admin account.Address
	fee   types.Money
}

// NewPolicy creates a policy owned by admin with the given initial fee.
func NewPolicy(admin account.Address, initial types.Money) (*Policy, error) {
	if err := admin.Validate(); err != nil {
		return nil, err
	}
	if !initial.IsPositive() {
		return nil, ErrInvalidFee
	}
	return &Policy{admin: admin, fee: initial}, nil
}

// Fee returns the current listing fee.
func (p *Policy) Fee() types.Money {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fee
}

// Admin returns the administrator account.
func (p *Policy) Admin() account.Address {
	return p.admin
}

// Currency returns the currency every fee and price must be quoted in.
func (p *Policy) Currency() string {
	return p.Fee().Currency
}

// Validate succeeds only when paid equals the current fee exactly.
func (p *Policy) Validate(paid types.Money) error {
	if !paid.Equal(p.Fee()) {
		return ErrFeeMismatch
	}
	return nil
}

// Update replaces the fee. Only the administrator may call it, and the new
// fee must stay positive and in the policy's currency.
func (p *Policy) Update(newFee types.Money, caller account.Address) error {
	if caller != p.admin {
		return ErrUnauthorized
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !newFee.IsPositive() || !newFee.SameCurrency(p.fee) {
		return ErrInvalidFee
	}
	p.fee = newFee
	return nil
}

// Restore replaces the fee without an authorization check. It is used when
// loading a persisted fee at startup.
func (p *Policy) Restore(saved types.Money) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !saved.IsPositive() || !saved.SameCurrency(p.fee) {
		return ErrInvalidFee
	}
	p.fee = saved
	return nil
}
