package marketplace

import (
	"context"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// notification is a committed change or a rejection waiting to be
// delivered to plugins.
type notification struct {
	op    event.Operation
	item  *item.Item
	event *event.Event

	// fee updates
	oldFee types.Money
	newFee types.Money

	// rejections
	rejected bool
	itemID   int64
	actor    account.Address
	reason   error
}

// notify queues n without blocking the writer. A full queue drops n.
func (m *Marketplace) notify(n *notification) {
	if m.plugins.Count() == 0 {
		return
	}

	select {
	case m.notifyBuffer <- n:
	default:
		m.logger.Warn("plugin notification dropped",
			"operation", n.op,
			"buffer_size", cap(m.notifyBuffer),
		)
	}
}

// notifyWorker delivers queued notifications until Stop, then drains the
// queue.
func (m *Marketplace) notifyWorker(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-m.stopChan:
			// Final drain
			for {
				select {
				case n := <-m.notifyBuffer:
					m.dispatch(ctx, n)
				default:
					return
				}
			}

		case n := <-m.notifyBuffer:
			m.dispatch(ctx, n)
		}
	}
}

func (m *Marketplace) dispatch(ctx context.Context, n *notification) {
	if n.rejected {
		m.plugins.EmitOperationRejected(ctx, n.op, n.itemID, n.actor, n.reason)
		return
	}

	switch n.op {
	case event.OpListed:
		m.plugins.EmitItemListed(ctx, n.item, n.event)
	case event.OpSold:
		m.plugins.EmitItemSold(ctx, n.item, n.event)
	case event.OpRelisted:
		m.plugins.EmitItemRelisted(ctx, n.item, n.event)
	case event.OpCanceled:
		m.plugins.EmitListingCanceled(ctx, n.item, n.event)
	case event.OpFeeUpdated:
		m.plugins.EmitListingFeeUpdated(ctx, n.oldFee, n.newFee, n.event)
	default:
		m.logger.Warn("unknown notification", "operation", n.op)
	}
}
