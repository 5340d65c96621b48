package memory

import (
	"context"
	"sort"
	"sync"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	mstore "github.com/AnushkaKohli/nftmarketplace/store"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// compile-time interface check
var _ mstore.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	closed bool

	// Item storage, keyed by item id
	items map[int64]*item.Item
	maxID int64

	// Append-only journals
	events    []*event.Event
	transfers []*payment.Transfer

	// Settings
	listingFee    types.Money
	hasListingFee bool
}

func New() *Store {
	return &Store{
		items:     make(map[int64]*item.Item),
		events:    make([]*event.Event, 0),
		transfers: make([]*payment.Transfer, 0),
	}
}

// Item Store implementation
func (s *Store) GetItem(_ context.Context, itemID int64) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, marketplace.ErrStoreClosed
	}
	if it, ok := s.items[itemID]; ok {
		return it.Clone(), nil
	}
	return nil, marketplace.ErrItemNotFound
}

func (s *Store) ListItems(_ context.Context, opts item.ListOpts) ([]*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, marketplace.ErrStoreClosed
	}

	result := make([]*item.Item, 0)
	for _, it := range s.items {
		if opts.Matches(it) {
			result = append(result, it.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) CountItems(_ context.Context) (item.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return item.Counts{}, marketplace.ErrStoreClosed
	}

	var c item.Counts
	for _, it := range s.items {
		c.Items++
		if it.Sold {
			c.Sold++
		} else {
			c.Listed++
		}
	}
	return c, nil
}

func (s *Store) LastItemID(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, marketplace.ErrStoreClosed
	}
	return s.maxID, nil
}

// Event Store implementation
func (s *Store) ListEvents(_ context.Context, opts event.ListOpts) ([]*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, marketplace.ErrStoreClosed
	}

	result := make([]*event.Event, 0)
	for _, e := range s.events {
		if opts.Matches(e) {
			c := *e
			result = append(result, &c)
		}
	}
	return paginate(result, opts.Offset, opts.Limit), nil
}

// Payment Store implementation
func (s *Store) ListTransfers(_ context.Context, opts payment.ListOpts) ([]*payment.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, marketplace.ErrStoreClosed
	}

	result := make([]*payment.Transfer, 0)
	for _, t := range s.transfers {
		if opts.Matches(t) {
			c := *t
			result = append(result, &c)
		}
	}
	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) Balance(_ context.Context, acct account.Address, currency string) (types.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Money{}, marketplace.ErrStoreClosed
	}
	return payment.Net(acct, currency, s.transfers), nil
}

// Settings Store implementation
func (s *Store) SaveListingFee(_ context.Context, fee types.Money, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return marketplace.ErrStoreClosed
	}
	s.listingFee = fee
	s.hasListingFee = true
	if e != nil {
		c := *e
		s.events = append(s.events, &c)
	}
	return nil
}

func (s *Store) LoadListingFee(_ context.Context) (types.Money, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Money{}, false, marketplace.ErrStoreClosed
	}
	return s.listingFee, s.hasListingFee, nil
}

// Apply writes the batch under a single lock, so readers observe either all
// of it or none of it.
func (s *Store) Apply(_ context.Context, b *mstore.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return marketplace.ErrStoreClosed
	}
	if b == nil || b.Item == nil {
		return marketplace.ErrInvalidInput
	}

	_, exists := s.items[b.Item.ID]
	switch {
	case b.Created && exists:
		return marketplace.ErrAlreadyExists
	case !b.Created && !exists:
		return marketplace.ErrItemNotFound
	}

	s.items[b.Item.ID] = b.Item.Clone()
	if b.Item.ID > s.maxID {
		s.maxID = b.Item.ID
	}
	if b.Event != nil {
		c := *b.Event
		s.events = append(s.events, &c)
	}
	for _, t := range b.Transfers {
		c := *t
		s.transfers = append(s.transfers, &c)
	}
	return nil
}

// Core methods
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return marketplace.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func paginate[T any](result []T, offset, limit int) []T {
	start := max(offset, 0)
	if start > len(result) {
		start = len(result)
	}
	end := start + limit
	if limit <= 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end]
}
