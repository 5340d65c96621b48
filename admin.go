package marketplace

import (
	"context"
	"fmt"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// UpdateListingFee replaces the listing fee. Only the administrator may call
// it. The new fee applies to every listing made after it returns.
func (m *Marketplace) UpdateListingFee(ctx context.Context, caller account.Address, newFee types.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}

	oldFee := m.policy.Fee()
	if err := m.policy.Update(newFee, caller); err != nil {
		return m.reject(ctx, event.OpFeeUpdated, 0, caller, err)
	}

	evt := newEvent(event.OpFeeUpdated, 0, caller, newFee, m.now())
	if err := m.store.SaveListingFee(ctx, newFee, evt); err != nil {
		if rerr := m.policy.Restore(oldFee); rerr != nil {
			m.logger.Error("failed to restore listing fee",
				"fee", oldFee.String(),
				"error", rerr,
			)
		}
		return fmt.Errorf("save listing fee: %w", err)
	}

	m.logger.Info("listing fee updated",
		"actor", caller,
		"old_fee", oldFee.String(),
		"new_fee", newFee.String(),
	)
	m.notify(&notification{op: event.OpFeeUpdated, event: evt, oldFee: oldFee, newFee: newFee})

	return nil
}
