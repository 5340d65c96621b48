package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onItemListed        []OnItemListed
	onItemSold          []OnItemSold
	onItemRelisted      []OnItemRelisted
	onListingCanceled   []OnListingCanceled
	onListingFeeUpdated []OnListingFeeUpdated
	onOperationRejected []OnOperationRejected
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnItemListed); ok {
		r.onItemListed = append(r.onItemListed, v)
	}
	if v, ok := p.(OnItemSold); ok {
		r.onItemSold = append(r.onItemSold, v)
	}
	if v, ok := p.(OnItemRelisted); ok {
		r.onItemRelisted = append(r.onItemRelisted, v)
	}
	if v, ok := p.(OnListingCanceled); ok {
		r.onListingCanceled = append(r.onListingCanceled, v)
	}
	if v, ok := p.(OnListingFeeUpdated); ok {
		r.onListingFeeUpdated = append(r.onListingFeeUpdated, v)
	}
	if v, ok := p.(OnOperationRejected); ok {
		r.onOperationRejected = append(r.onOperationRejected, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name  string
	iface reflect.Type
}{
	{"OnInit", reflect.TypeFor[OnInit]()},
	{"OnShutdown", reflect.TypeFor[OnShutdown]()},
	{"OnItemListed", reflect.TypeFor[OnItemListed]()},
	{"OnItemSold", reflect.TypeFor[OnItemSold]()},
	{"OnItemRelisted", reflect.TypeFor[OnItemRelisted]()},
	{"OnListingCanceled", reflect.TypeFor[OnListingCanceled]()},
	{"OnListingFeeUpdated", reflect.TypeFor[OnListingFeeUpdated]()},
	{"OnOperationRejected", reflect.TypeFor[OnOperationRejected]()},
}

// implementedInterfaces returns the hook names implemented by the plugin.
func implementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.iface) {
			interfaces = append(interfaces, h.name)
		}
	}
	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, m any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	emit(r, ctx, "OnInit", plugins, func(p OnInit) error {
		return p.OnInit(ctx, m)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	emit(r, ctx, "OnShutdown", plugins, func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitItemListed emits an item listed event.
func (r *Registry) EmitItemListed(ctx context.Context, it *item.Item, evt *event.Event) {
	r.mu.RLock()
	plugins := r.onItemListed
	r.mu.RUnlock()

	emit(r, ctx, "OnItemListed", plugins, func(p OnItemListed) error {
		return p.OnItemListed(ctx, it, evt)
	})
}

// EmitItemSold emits an item sold event.
func (r *Registry) EmitItemSold(ctx context.Context, it *item.Item, evt *event.Event) {
	r.mu.RLock()
	plugins := r.onItemSold
	r.mu.RUnlock()

	emit(r, ctx, "OnItemSold", plugins, func(p OnItemSold) error {
		return p.OnItemSold(ctx, it, evt)
	})
}

// EmitItemRelisted emits an item relisted event.
func (r *Registry) EmitItemRelisted(ctx context.Context, it *item.Item, evt *event.Event) {
	r.mu.RLock()
	plugins := r.onItemRelisted
	r.mu.RUnlock()

	emit(r, ctx, "OnItemRelisted", plugins, func(p OnItemRelisted) error {
		return p.OnItemRelisted(ctx, it, evt)
	})
}

// EmitListingCanceled emits a listing canceled event.
func (r *Registry) EmitListingCanceled(ctx context.Context, it *item.Item, evt *event.Event) {
	r.mu.RLock()
	plugins := r.onListingCanceled
	r.mu.RUnlock()

	emit(r, ctx, "OnListingCanceled", plugins, func(p OnListingCanceled) error {
		return p.OnListingCanceled(ctx, it, evt)
	})
}

// EmitListingFeeUpdated emits a listing fee updated event.
func (r *Registry) EmitListingFeeUpdated(ctx context.Context, oldFee, newFee types.Money, evt *event.Event) {
	r.mu.RLock()
	plugins := r.onListingFeeUpdated
	r.mu.RUnlock()

	emit(r, ctx, "OnListingFeeUpdated", plugins, func(p OnListingFeeUpdated) error {
		return p.OnListingFeeUpdated(ctx, oldFee, newFee, evt)
	})
}

// EmitOperationRejected emits an operation rejected event.
func (r *Registry) EmitOperationRejected(ctx context.Context, op event.Operation, itemID int64, actor account.Address, reason error) {
	r.mu.RLock()
	plugins := r.onOperationRejected
	r.mu.RUnlock()

	emit(r, ctx, "OnOperationRejected", plugins, func(p OnOperationRejected) error {
		return p.OnOperationRejected(ctx, op, itemID, actor, reason)
	})
}

func emit[T Plugin](r *Registry, ctx context.Context, hook string, plugins []T, call func(T) error) {
	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return call(p)
		}); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the marketplace pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
