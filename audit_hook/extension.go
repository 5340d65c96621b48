// Package audithook bridges marketplace lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on a
// specific audit store. Callers inject a RecorderFunc adapter at wiring time.
package audithook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/plugin"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnInit              = (*Extension)(nil)
	_ plugin.OnShutdown          = (*Extension)(nil)
	_ plugin.OnItemListed        = (*Extension)(nil)
	_ plugin.OnItemSold          = (*Extension)(nil)
	_ plugin.OnItemRelisted      = (*Extension)(nil)
	_ plugin.OnListingCanceled   = (*Extension)(nil)
	_ plugin.OnListingFeeUpdated = (*Extension)(nil)
	_ plugin.OnOperationRejected = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges marketplace lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit implements plugin.OnInit.
func (e *Extension) OnInit(ctx context.Context, _ any) error {
	return e.record(ctx, ActionMarketplaceStarted, SeverityInfo, OutcomeSuccess,
		ResourceMarketplace, "", "", CategorySystem, nil,
	)
}

// OnShutdown implements plugin.OnShutdown.
func (e *Extension) OnShutdown(ctx context.Context) error {
	return e.record(ctx, ActionMarketplaceStopped, SeverityInfo, OutcomeSuccess,
		ResourceMarketplace, "", "", CategorySystem, nil,
	)
}

// ──────────────────────────────────────────────────
// Item lifecycle hooks
// ──────────────────────────────────────────────────

// OnItemListed implements plugin.OnItemListed.
func (e *Extension) OnItemListed(ctx context.Context, it *item.Item, evt *event.Event) error {
	return e.record(ctx, ActionItemListed, SeverityInfo, OutcomeSuccess,
		ResourceItem, itemID(it.ID), evt.Actor, CategoryTrading, nil,
		"event_id", evt.ID.String(),
		"asset_uri", it.AssetURI,
		"price", it.Price.String(),
	)
}

// OnItemSold implements plugin.OnItemSold.
func (e *Extension) OnItemSold(ctx context.Context, it *item.Item, evt *event.Event) error {
	return e.record(ctx, ActionItemSold, SeverityInfo, OutcomeSuccess,
		ResourceItem, itemID(it.ID), evt.Actor, CategoryPayment, nil,
		"event_id", evt.ID.String(),
		"seller", string(it.Seller),
		"price", evt.Amount.String(),
	)
}

// OnItemRelisted implements plugin.OnItemRelisted.
func (e *Extension) OnItemRelisted(ctx context.Context, it *item.Item, evt *event.Event) error {
	return e.record(ctx, ActionItemRelisted, SeverityInfo, OutcomeSuccess,
		ResourceItem, itemID(it.ID), evt.Actor, CategoryTrading, nil,
		"event_id", evt.ID.String(),
		"price", it.Price.String(),
	)
}

// OnListingCanceled implements plugin.OnListingCanceled.
func (e *Extension) OnListingCanceled(ctx context.Context, it *item.Item, evt *event.Event) error {
	return e.record(ctx, ActionListingCanceled, SeverityInfo, OutcomeSuccess,
		ResourceItem, itemID(it.ID), evt.Actor, CategoryTrading, nil,
		"event_id", evt.ID.String(),
	)
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnListingFeeUpdated implements plugin.OnListingFeeUpdated.
func (e *Extension) OnListingFeeUpdated(ctx context.Context, oldFee, newFee types.Money, evt *event.Event) error {
	return e.record(ctx, ActionListingFeeUpdated, SeverityWarning, OutcomeSuccess,
		ResourceListingFee, "", evt.Actor, CategoryAdmin, nil,
		"event_id", evt.ID.String(),
		"old_fee", oldFee.String(),
		"new_fee", newFee.String(),
	)
}

// OnOperationRejected implements plugin.OnOperationRejected.
func (e *Extension) OnOperationRejected(ctx context.Context, op event.Operation, id int64, actor account.Address, reason error) error {
	resource, resourceID := ResourceItem, itemID(id)
	if op == event.OpFeeUpdated {
		resource, resourceID = ResourceListingFee, ""
	}

	severity, category := SeverityInfo, CategoryTrading
	if errors.Is(reason, marketplace.ErrUnauthorized) {
		severity, category = SeverityWarning, CategoryAccess
	}

	return e.record(ctx, ActionOperationRejected, severity, OutcomeFailure,
		resource, resourceID, actor, category, reason,
		"operation", string(op),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID string,
	actor account.Address,
	category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Actor:      string(actor),
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

func itemID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
