// Package observability provides a metrics extension for the marketplace that
// records item and fee lifecycle counts through a pluggable MetricFactory.
package observability

import (
	"context"
	"errors"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/plugin"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnItemListed        = (*MetricsExtension)(nil)
	_ plugin.OnItemSold          = (*MetricsExtension)(nil)
	_ plugin.OnItemRelisted      = (*MetricsExtension)(nil)
	_ plugin.OnListingCanceled   = (*MetricsExtension)(nil)
	_ plugin.OnListingFeeUpdated = (*MetricsExtension)(nil)
	_ plugin.OnOperationRejected = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records marketplace lifecycle metrics.
// Register it with marketplace.WithPlugin to track trading activity.
type MetricsExtension struct {
	factory MetricFactory

	// Item metrics
	ItemsListed     Counter
	ItemsSold       Counter
	ItemsRelisted   Counter
	ListingCanceled Counter
	ListingPrice    Histogram
	SalePrice       Histogram

	// Fee metrics
	ListingFeesCollected Counter
	ListingFeeUpdated    Counter
	ListingFeeAmount     Histogram

	// Rejection metrics
	Rejected           Counter
	RejectedPayment    Counter
	RejectedState      Counter
	RejectedPermission Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		ItemsListed:     factory.Counter("marketplace.item.listed"),
		ItemsSold:       factory.Counter("marketplace.item.sold"),
		ItemsRelisted:   factory.Counter("marketplace.item.relisted"),
		ListingCanceled: factory.Counter("marketplace.item.canceled"),
		ListingPrice:    factory.Histogram("marketplace.item.listing_price"),
		SalePrice:       factory.Histogram("marketplace.item.sale_price"),

		ListingFeesCollected: factory.Counter("marketplace.fee.collected"),
		ListingFeeUpdated:    factory.Counter("marketplace.fee.updated"),
		ListingFeeAmount:     factory.Histogram("marketplace.fee.amount"),

		Rejected:           factory.Counter("marketplace.rejected"),
		RejectedPayment:    factory.Counter("marketplace.rejected.payment"),
		RejectedState:      factory.Counter("marketplace.rejected.state"),
		RejectedPermission: factory.Counter("marketplace.rejected.permission"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	return nil
}

// ──────────────────────────────────────────────────
// Item lifecycle hooks
// ──────────────────────────────────────────────────

// OnItemListed implements plugin.OnItemListed.
func (m *MetricsExtension) OnItemListed(_ context.Context, it *item.Item, _ *event.Event) error {
	m.ItemsListed.Inc()
	m.ListingFeesCollected.Inc()
	m.ListingPrice.Observe(float64(it.Price.Amount))
	return nil
}

// OnItemSold implements plugin.OnItemSold.
func (m *MetricsExtension) OnItemSold(_ context.Context, it *item.Item, _ *event.Event) error {
	m.ItemsSold.Inc()
	m.SalePrice.Observe(float64(it.Price.Amount))
	return nil
}

// OnItemRelisted implements plugin.OnItemRelisted.
func (m *MetricsExtension) OnItemRelisted(_ context.Context, it *item.Item, _ *event.Event) error {
	m.ItemsRelisted.Inc()
	m.ListingFeesCollected.Inc()
	m.ListingPrice.Observe(float64(it.Price.Amount))
	return nil
}

// OnListingCanceled implements plugin.OnListingCanceled.
func (m *MetricsExtension) OnListingCanceled(_ context.Context, _ *item.Item, _ *event.Event) error {
	m.ListingCanceled.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnListingFeeUpdated implements plugin.OnListingFeeUpdated.
func (m *MetricsExtension) OnListingFeeUpdated(_ context.Context, _, newFee types.Money, _ *event.Event) error {
	m.ListingFeeUpdated.Inc()
	m.ListingFeeAmount.Observe(float64(newFee.Amount))
	return nil
}

// OnOperationRejected implements plugin.OnOperationRejected.
func (m *MetricsExtension) OnOperationRejected(_ context.Context, _ event.Operation, _ int64, _ account.Address, reason error) error {
	m.Rejected.Inc()
	switch {
	case isPaymentRejection(reason):
		m.RejectedPayment.Inc()
	case isPermissionRejection(reason):
		m.RejectedPermission.Inc()
	default:
		m.RejectedState.Inc()
	}
	return nil
}

func isPaymentRejection(err error) bool {
	return errors.Is(err, marketplace.ErrFeeMismatch) ||
		errors.Is(err, marketplace.ErrPriceMismatch) ||
		errors.Is(err, marketplace.ErrPriceInvalid) ||
		errors.Is(err, marketplace.ErrInvalidFee)
}

func isPermissionRejection(err error) bool {
	return errors.Is(err, marketplace.ErrNotHolder) ||
		errors.Is(err, marketplace.ErrNotSeller) ||
		errors.Is(err, marketplace.ErrUnauthorized)
}
