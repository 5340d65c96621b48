package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/fee"
	"github.com/AnushkaKohli/nftmarketplace/id"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	"github.com/AnushkaKohli/nftmarketplace/plugin"
	"github.com/AnushkaKohli/nftmarketplace/query"
	"github.com/AnushkaKohli/nftmarketplace/store"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// DefaultListingFee is 0.025 ETH.
var DefaultListingFee = types.ETH(25_000_000)

// DefaultNotifyBuffer is the capacity of the plugin notification queue.
const DefaultNotifyBuffer = 1024

// Marketplace is the item ledger. Every mutation is serialized through a
// single writer lock; reads go straight to the store.
type Marketplace struct {
	store   store.Store
	engine  *query.Engine
	policy  *fee.Policy
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   func() time.Time

	// Single writer
	mu      sync.Mutex
	lastID  int64
	started bool
	stopped bool

	// Background workers
	notifyBuffer chan *notification
	stopChan     chan struct{}
	wg           sync.WaitGroup

	// Configuration
	admin       account.Address
	listingFee  types.Money
	bufferSize  int
	skipMigrate bool
}

// New creates a new Marketplace. An administrator must be supplied with
// WithAdmin; the listing fee defaults to DefaultListingFee.
func New(s store.Store, opts ...Option) (*Marketplace, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidInput)
	}

	m := &Marketplace{
		store:      s,
		engine:     query.New(s),
		plugins:    plugin.NewRegistry(),
		logger:     slog.Default(),
		clock:      time.Now,
		stopChan:   make(chan struct{}),
		listingFee: DefaultListingFee,
		bufferSize: DefaultNotifyBuffer,
	}

	for _, opt := range opts {
		opt(m)
	}

	policy, err := fee.NewPolicy(m.admin, m.listingFee)
	if err != nil {
		return nil, fmt.Errorf("marketplace: fee policy: %w", err)
	}
	m.policy = policy
	m.notifyBuffer = make(chan *notification, m.bufferSize)

	return m, nil
}

// Option configures a Marketplace instance.
type Option func(*Marketplace)

// WithAdmin sets the account allowed to change the listing fee.
func WithAdmin(admin account.Address) Option {
	return func(m *Marketplace) {
		m.admin = admin
	}
}

// WithListingFee sets the initial listing fee. Its currency becomes the
// currency of every price and payment.
func WithListingFee(f types.Money) Option {
	return func(m *Marketplace) {
		m.listingFee = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Marketplace) {
		m.logger = logger
		m.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(m *Marketplace) {
		_ = m.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithNotifyBuffer sets the plugin notification queue capacity.
func WithNotifyBuffer(size int) Option {
	return func(m *Marketplace) {
		if size > 0 {
			m.bufferSize = size
		}
	}
}

// WithoutMigrate makes Start skip store migrations. Use it when the schema
// is managed outside the process.
func WithoutMigrate() Option {
	return func(m *Marketplace) {
		m.skipMigrate = true
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Marketplace) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// Start migrates the store, restores the id counter and persisted fee, and
// begins the notification worker. A Marketplace that has been stopped returns
// ErrStopped; build a new one over a fresh store instead.
func (m *Marketplace) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if m.started {
		m.mu.Unlock()
		return nil
	}

	if !m.skipMigrate {
		if err := m.store.Migrate(ctx); err != nil {
			m.mu.Unlock()
			return err
		}
	}

	if err := m.loadState(ctx); err != nil {
		m.mu.Unlock()
		return err
	}

	// Start notification worker
	m.wg.Add(1)
	go m.notifyWorker(context.WithoutCancel(ctx))

	m.started = true
	last := m.lastID
	m.mu.Unlock()

	// Initialize plugins
	m.plugins.EmitInit(ctx, m)

	m.logger.Info("marketplace started",
		"admin", m.policy.Admin(),
		"listing_fee", m.policy.Fee().String(),
		"last_item_id", last,
		"notify_buffer", m.bufferSize,
	)

	return nil
}

// Stop drains pending notifications and closes the store. It is final.
func (m *Marketplace) Stop() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if !m.started {
		m.mu.Unlock()
		return ErrNotStarted
	}
	m.started = false
	m.stopped = true
	m.mu.Unlock()

	close(m.stopChan)
	m.wg.Wait()

	ctx := context.Background()
	m.plugins.EmitShutdown(ctx)

	return m.store.Close()
}

func (m *Marketplace) loadState(ctx context.Context) error {
	if err := m.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreNotReady, err)
	}

	last, err := m.store.LastItemID(ctx)
	if err != nil {
		return fmt.Errorf("load last item id: %w", err)
	}
	m.lastID = last

	saved, ok, err := m.store.LoadListingFee(ctx)
	if err != nil {
		return fmt.Errorf("load listing fee: %w", err)
	}
	if !ok {
		return m.store.SaveListingFee(ctx, m.policy.Fee(), nil)
	}
	if err := m.policy.Restore(saved); err != nil {
		m.logger.Warn("ignoring persisted listing fee",
			"fee", saved.String(),
			"error", err,
		)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Listing and trading
// ──────────────────────────────────────────────────

// CreateAndList registers a new item and lists it for sale at price. The
// caller pays the listing fee, which goes to the marketplace treasury.
func (m *Marketplace) CreateAndList(ctx context.Context, caller account.Address, assetURI string, price, paidFee types.Money) (*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil, ErrNotStarted
	}

	if err := caller.Validate(); err != nil {
		return nil, m.reject(ctx, event.OpListed, 0, caller, err)
	}
	if assetURI == "" {
		return nil, m.reject(ctx, event.OpListed, 0, caller, ValidationError{
			Field:   "asset_uri",
			Message: "must not be empty",
			Err:     ErrInvalidInput,
		})
	}
	if err := m.validatePrice(price); err != nil {
		return nil, m.reject(ctx, event.OpListed, 0, caller, err)
	}
	if err := m.policy.Validate(paidFee); err != nil {
		return nil, m.reject(ctx, event.OpListed, 0, caller, err)
	}

	now := m.now()
	it := &item.Item{
		Entity:   types.NewEntity(now),
		ID:       m.lastID + 1,
		AssetURI: assetURI,
		Price:    price,
		Seller:   caller,
		Holder:   account.Market,
		Sold:     false,
	}
	evt := newEvent(event.OpListed, it.ID, caller, price, now)

	batch := &store.Batch{
		Item:      it,
		Created:   true,
		Event:     evt,
		Transfers: []*payment.Transfer{newTransfer(evt, payment.KindListingFee, caller, account.Treasury, paidFee)},
	}
	if err := m.store.Apply(ctx, batch); err != nil {
		return nil, fmt.Errorf("create item %d: %w", it.ID, err)
	}
	m.lastID = it.ID

	m.logger.Info("item listed",
		"item_id", it.ID,
		"actor", caller,
		"price", price.String(),
	)
	m.notify(&notification{op: event.OpListed, item: it.Clone(), event: evt})

	return it, nil
}

// Buy transfers a listed item to caller. paid must equal the asking price
// exactly; it is forwarded to the seller.
func (m *Marketplace) Buy(ctx context.Context, caller account.Address, itemID int64, paid types.Money) (*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil, ErrNotStarted
	}

	if err := caller.Validate(); err != nil {
		return nil, m.reject(ctx, event.OpSold, itemID, caller, err)
	}
	it, err := m.load(ctx, itemID)
	if err != nil {
		return nil, m.reject(ctx, event.OpSold, itemID, caller, err)
	}
	if it.Sold {
		return nil, m.reject(ctx, event.OpSold, itemID, caller, ErrAlreadySold)
	}
	if !paid.Equal(it.Price) {
		return nil, m.reject(ctx, event.OpSold, itemID, caller, ErrPriceMismatch)
	}

	now := m.now()
	seller := it.Seller
	it.Holder = caller
	it.Sold = true
	it.Touch(now)

	evt := newEvent(event.OpSold, it.ID, caller, paid, now)
	batch := &store.Batch{
		Item:      it,
		Event:     evt,
		Transfers: []*payment.Transfer{newTransfer(evt, payment.KindSale, caller, seller, paid)},
	}
	if err := m.store.Apply(ctx, batch); err != nil {
		return nil, fmt.Errorf("sell item %d: %w", it.ID, err)
	}

	m.logger.Info("item sold",
		"item_id", it.ID,
		"actor", caller,
		"seller", seller,
		"price", paid.String(),
	)
	m.notify(&notification{op: event.OpSold, item: it.Clone(), event: evt})

	return it, nil
}

// Resell puts an item the caller holds back on the market at newPrice. The
// caller becomes the seller and pays the listing fee again.
func (m *Marketplace) Resell(ctx context.Context, caller account.Address, itemID int64, newPrice, paidFee types.Money) (*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil, ErrNotStarted
	}

	if err := caller.Validate(); err != nil {
		return nil, m.reject(ctx, event.OpRelisted, itemID, caller, err)
	}
	it, err := m.load(ctx, itemID)
	if err != nil {
		return nil, m.reject(ctx, event.OpRelisted, itemID, caller, err)
	}
	if it.Holder != caller {
		return nil, m.reject(ctx, event.OpRelisted, itemID, caller, ErrNotHolder)
	}
	if err := m.validatePrice(newPrice); err != nil {
		return nil, m.reject(ctx, event.OpRelisted, itemID, caller, err)
	}
	if err := m.policy.Validate(paidFee); err != nil {
		return nil, m.reject(ctx, event.OpRelisted, itemID, caller, err)
	}

	now := m.now()
	it.Price = newPrice
	it.Seller = caller
	it.Holder = account.Market
	it.Sold = false
	it.Touch(now)

	evt := newEvent(event.OpRelisted, it.ID, caller, newPrice, now)
	batch := &store.Batch{
		Item:      it,
		Event:     evt,
		Transfers: []*payment.Transfer{newTransfer(evt, payment.KindListingFee, caller, account.Treasury, paidFee)},
	}
	if err := m.store.Apply(ctx, batch); err != nil {
		return nil, fmt.Errorf("relist item %d: %w", it.ID, err)
	}

	m.logger.Info("item relisted",
		"item_id", it.ID,
		"actor", caller,
		"price", newPrice.String(),
	)
	m.notify(&notification{op: event.OpRelisted, item: it.Clone(), event: evt})

	return it, nil
}

// CancelListing withdraws a listed item. The seller becomes its holder and
// may resell it later; the listing fee is not refunded.
func (m *Marketplace) CancelListing(ctx context.Context, caller account.Address, itemID int64) (*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil, ErrNotStarted
	}

	if err := caller.Validate(); err != nil {
		return nil, m.reject(ctx, event.OpCanceled, itemID, caller, err)
	}
	it, err := m.load(ctx, itemID)
	if err != nil {
		return nil, m.reject(ctx, event.OpCanceled, itemID, caller, err)
	}
	if it.Sold {
		return nil, m.reject(ctx, event.OpCanceled, itemID, caller, ErrNotListed)
	}
	if it.Seller != caller {
		return nil, m.reject(ctx, event.OpCanceled, itemID, caller, ErrNotSeller)
	}

	now := m.now()
	it.Holder = it.Seller
	it.Sold = true
	it.Touch(now)

	evt := newEvent(event.OpCanceled, it.ID, caller, it.Price, now)
	if err := m.store.Apply(ctx, &store.Batch{Item: it, Event: evt}); err != nil {
		return nil, fmt.Errorf("cancel listing %d: %w", it.ID, err)
	}

	m.logger.Info("listing canceled",
		"item_id", it.ID,
		"actor", caller,
	)
	m.notify(&notification{op: event.OpCanceled, item: it.Clone(), event: evt})

	return it, nil
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// GetItem returns a single item by id.
func (m *Marketplace) GetItem(ctx context.Context, itemID int64) (*item.Item, error) {
	return m.engine.Get(ctx, itemID)
}

// FetchListed returns every item currently for sale, in id order.
func (m *Marketplace) FetchListed(ctx context.Context) ([]*item.Item, error) {
	return m.engine.FetchListed(ctx)
}

// FetchOwnedBy returns every item held by acct, in id order.
func (m *Marketplace) FetchOwnedBy(ctx context.Context, acct account.Address) ([]*item.Item, error) {
	return m.engine.FetchOwnedBy(ctx, acct)
}

// FetchListedBy returns every item whose most recent listing was made by
// acct, in id order.
func (m *Marketplace) FetchListedBy(ctx context.Context, acct account.Address) ([]*item.Item, error) {
	return m.engine.FetchListedBy(ctx, acct)
}

// Query returns the read-only query engine.
func (m *Marketplace) Query() *query.Engine {
	return m.engine
}

// Stats returns item totals. Sold counts every item not currently listed.
func (m *Marketplace) Stats(ctx context.Context) (item.Counts, error) {
	return m.engine.Counts(ctx)
}

// Events returns the append-only event log.
func (m *Marketplace) Events(ctx context.Context, opts event.ListOpts) ([]*event.Event, error) {
	return m.store.ListEvents(ctx, opts)
}

// Transfers returns recorded value transfers.
func (m *Marketplace) Transfers(ctx context.Context, opts payment.ListOpts) ([]*payment.Transfer, error) {
	return m.store.ListTransfers(ctx, opts)
}

// Balance returns the net amount acct has received through the marketplace.
func (m *Marketplace) Balance(ctx context.Context, acct account.Address) (types.Money, error) {
	return m.store.Balance(ctx, acct, m.policy.Currency())
}

// TreasuryBalance returns the listing fees collected so far.
func (m *Marketplace) TreasuryBalance(ctx context.Context) (types.Money, error) {
	return m.Balance(ctx, account.Treasury)
}

// ListingFee returns the fee currently charged per listing.
func (m *Marketplace) ListingFee() types.Money {
	return m.policy.Fee()
}

// Admin returns the administrator account.
func (m *Marketplace) Admin() account.Address {
	return m.policy.Admin()
}

// Currency returns the currency all prices and fees are quoted in.
func (m *Marketplace) Currency() string {
	return m.policy.Currency()
}

// Health checks store connectivity.
func (m *Marketplace) Health(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func (m *Marketplace) now() time.Time {
	return m.clock().UTC()
}

func (m *Marketplace) validatePrice(price types.Money) error {
	if !price.IsPositive() || price.Currency != m.policy.Currency() {
		return ErrPriceInvalid
	}
	return nil
}

func (m *Marketplace) load(ctx context.Context, itemID int64) (*item.Item, error) {
	if itemID <= 0 {
		return nil, ErrItemNotFound
	}
	it, err := m.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("load item %d: %w", itemID, err)
	}
	return it, nil
}

// reject reports a refused call to plugins and returns err unchanged.
// Store failures are returned without notification.
func (m *Marketplace) reject(ctx context.Context, op event.Operation, itemID int64, actor account.Address, err error) error {
	if !IsRejection(err) {
		return err
	}

	m.logger.Debug("operation rejected",
		"operation", op,
		"item_id", itemID,
		"actor", actor,
		"error", err,
	)
	m.notify(&notification{op: op, itemID: itemID, actor: actor, reason: err, rejected: true})

	return err
}

func newEvent(op event.Operation, itemID int64, actor account.Address, amount types.Money, at time.Time) *event.Event {
	return &event.Event{
		ID:        id.NewEventID(),
		Operation: op,
		ItemID:    itemID,
		Actor:     actor,
		Amount:    amount,
		Timestamp: at,
	}
}

func newTransfer(evt *event.Event, kind payment.Kind, from, to account.Address, amount types.Money) *payment.Transfer {
	return &payment.Transfer{
		ID:        id.NewTransferID(),
		EventID:   evt.ID,
		ItemID:    evt.ItemID,
		Kind:      kind,
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedAt: evt.Timestamp,
	}
}
