package marketplace_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/event"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/payment"
	"github.com/AnushkaKohli/nftmarketplace/store/memory"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

const (
	admin account.Address = "0xadmin"
	alice account.Address = "0xalice"
	bob   account.Address = "0xbob"
	carol account.Address = "0xcarol"
)

var listingFee = types.ETH(1)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMarket(t *testing.T, opts ...marketplace.Option) *marketplace.Marketplace {
	t.Helper()

	base := []marketplace.Option{
		marketplace.WithAdmin(admin),
		marketplace.WithListingFee(listingFee),
		marketplace.WithLogger(quietLogger()),
	}
	m, err := marketplace.New(memory.New(), append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m.Stop() })
	return m
}

func list(t *testing.T, m *marketplace.Marketplace, seller account.Address, price int64) *item.Item {
	t.Helper()
	it, err := m.CreateAndList(context.Background(), seller, "ipfs://asset", types.ETH(price), listingFee)
	if err != nil {
		t.Fatalf("CreateAndList: %v", err)
	}
	return it
}

func ids(items []*item.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []marketplace.Option
		wantErr error
	}{
		{"missing admin", nil, marketplace.ErrInvalidAccount},
		{"reserved admin", []marketplace.Option{marketplace.WithAdmin(account.Market)}, marketplace.ErrInvalidAccount},
		{"zero fee", []marketplace.Option{marketplace.WithAdmin(admin), marketplace.WithListingFee(types.ETH(0))}, marketplace.ErrInvalidFee},
		{"defaults", []marketplace.Option{marketplace.WithAdmin(admin)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := marketplace.New(memory.New(), tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !m.ListingFee().Equal(marketplace.DefaultListingFee) {
				t.Errorf("default fee = %v", m.ListingFee())
			}
		})
	}

	if _, err := marketplace.New(nil, marketplace.WithAdmin(admin)); !errors.Is(err, marketplace.ErrInvalidInput) {
		t.Errorf("nil store: %v", err)
	}
}

func TestMutationsRequireStart(t *testing.T) {
	m, err := marketplace.New(memory.New(), marketplace.WithAdmin(admin), marketplace.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := m.CreateAndList(ctx, alice, "ipfs://x", types.ETH(5), m.ListingFee()); !errors.Is(err, marketplace.ErrNotStarted) {
		t.Errorf("CreateAndList before Start = %v", err)
	}
	if err := m.UpdateListingFee(ctx, admin, types.ETH(5)); !errors.Is(err, marketplace.ErrNotStarted) {
		t.Errorf("UpdateListingFee before Start = %v", err)
	}
	if err := m.Stop(); !errors.Is(err, marketplace.ErrNotStarted) {
		t.Errorf("Stop before Start = %v", err)
	}
}

func TestStopIsFinal(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := m.Start(ctx); !errors.Is(err, marketplace.ErrStopped) {
		t.Errorf("Start after Stop = %v, want ErrStopped", err)
	}
	if err := m.Stop(); !errors.Is(err, marketplace.ErrStopped) {
		t.Errorf("second Stop = %v, want ErrStopped", err)
	}
	if _, err := m.CreateAndList(ctx, alice, "ipfs://x", types.ETH(5), listingFee); !errors.Is(err, marketplace.ErrNotStarted) {
		t.Errorf("CreateAndList after Stop = %v", err)
	}
}

func TestCreateAndListIDsStrictlyIncrease(t *testing.T) {
	m := newMarket(t)

	var last int64
	for i := range 10 {
		it := list(t, m, alice, int64(i+1))
		if it.ID != last+1 {
			t.Fatalf("id %d after %d", it.ID, last)
		}
		if it.Sold || it.Holder != account.Market || it.Seller != alice {
			t.Errorf("unexpected new item state: %+v", it)
		}
		last = it.ID
	}
}

func TestCreateAndListRejections(t *testing.T) {
	tests := []struct {
		name    string
		caller  account.Address
		uri     string
		price   types.Money
		fee     types.Money
		wantErr error
	}{
		{"empty caller", "", "ipfs://a", types.ETH(10), listingFee, marketplace.ErrInvalidAccount},
		{"reserved caller", account.Treasury, "ipfs://a", types.ETH(10), listingFee, marketplace.ErrInvalidAccount},
		{"empty uri", alice, "", types.ETH(10), listingFee, marketplace.ErrInvalidInput},
		{"zero price", alice, "ipfs://a", types.ETH(0), listingFee, marketplace.ErrPriceInvalid},
		{"negative price", alice, "ipfs://a", types.ETH(-5), listingFee, marketplace.ErrPriceInvalid},
		{"foreign currency price", alice, "ipfs://a", types.USD(10), listingFee, marketplace.ErrPriceInvalid},
		{"price checked before fee", alice, "ipfs://a", types.ETH(0), types.ETH(7), marketplace.ErrPriceInvalid},
		{"fee too low", alice, "ipfs://a", types.ETH(10), types.ETH(0), marketplace.ErrFeeMismatch},
		{"fee too high", alice, "ipfs://a", types.ETH(10), types.ETH(2), marketplace.ErrFeeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMarket(t)
			ctx := context.Background()

			_, err := m.CreateAndList(ctx, tt.caller, tt.uri, tt.price, tt.fee)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateAndList() error = %v, want %v", err, tt.wantErr)
			}
			if !marketplace.IsRejection(err) {
				t.Errorf("IsRejection(%v) = false", err)
			}

			stats, _ := m.Stats(ctx)
			if stats.Items != 0 {
				t.Errorf("rejected call created %d items", stats.Items)
			}
			events, _ := m.Events(ctx, event.ListOpts{})
			if len(events) != 0 {
				t.Errorf("rejected call logged %d events", len(events))
			}
		})
	}
}

func TestZeroPriceDoesNotAdvanceCounter(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()

	first := list(t, m, alice, 10)
	if _, err := m.CreateAndList(ctx, alice, "ipfs://b", types.ETH(0), listingFee); !errors.Is(err, marketplace.ErrPriceInvalid) {
		t.Fatalf("expected ErrPriceInvalid, got %v", err)
	}
	second := list(t, m, alice, 10)

	if second.ID != first.ID+1 {
		t.Errorf("counter advanced on rejection: %d then %d", first.ID, second.ID)
	}
}

func TestBuy(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)

	bought, err := m.Buy(ctx, bob, it.ID, types.ETH(100))
	if err != nil {
		t.Fatal(err)
	}
	if !bought.Sold || bought.Holder != bob || bought.Seller != alice {
		t.Errorf("after buy: %+v", bought)
	}

	if _, err := m.Buy(ctx, carol, it.ID, types.ETH(100)); !errors.Is(err, marketplace.ErrAlreadySold) {
		t.Errorf("second buy = %v, want ErrAlreadySold", err)
	}

	sellerBal, _ := m.Balance(ctx, alice)
	if !sellerBal.Equal(types.ETH(99)) {
		t.Errorf("seller balance = %v, want 100 received minus 1 fee", sellerBal)
	}
	buyerBal, _ := m.Balance(ctx, bob)
	if !buyerBal.Equal(types.ETH(-100)) {
		t.Errorf("buyer balance = %v", buyerBal)
	}
}

func TestBuyRejections(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)

	tests := []struct {
		name    string
		caller  account.Address
		itemID  int64
		paid    types.Money
		wantErr error
	}{
		{"unknown id", bob, 99, types.ETH(100), marketplace.ErrItemNotFound},
		{"zero id", bob, 0, types.ETH(100), marketplace.ErrItemNotFound},
		{"underpaid", bob, it.ID, types.ETH(99), marketplace.ErrPriceMismatch},
		{"overpaid", bob, it.ID, types.ETH(101), marketplace.ErrPriceMismatch},
		{"wrong currency", bob, it.ID, types.USD(100), marketplace.ErrPriceMismatch},
		{"invalid caller", "", it.ID, types.ETH(100), marketplace.ErrInvalidAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Buy(ctx, tt.caller, tt.itemID, tt.paid); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Buy() error = %v, want %v", err, tt.wantErr)
			}

			after, err := m.GetItem(ctx, it.ID)
			if err != nil {
				t.Fatal(err)
			}
			if after.Sold || after.Holder != account.Market || !after.Price.Equal(types.ETH(100)) {
				t.Errorf("rejected buy changed state: %+v", after)
			}
		})
	}
}

func TestResellByNonHolderLeavesStateUnchanged(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)
	if _, err := m.Buy(ctx, bob, it.ID, types.ETH(100)); err != nil {
		t.Fatal(err)
	}

	for _, caller := range []account.Address{alice, carol} {
		if _, err := m.Resell(ctx, caller, it.ID, types.ETH(50), listingFee); !errors.Is(err, marketplace.ErrNotHolder) {
			t.Errorf("Resell by %s = %v, want ErrNotHolder", caller, err)
		}
	}

	after, _ := m.GetItem(ctx, it.ID)
	if !after.Sold || after.Holder != bob || after.Seller != alice || !after.Price.Equal(types.ETH(100)) {
		t.Errorf("state changed: %+v", after)
	}
}

func TestResellRejectionOrder(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)

	// Listed items are held by the market, so even the seller is not the holder.
	if _, err := m.Resell(ctx, alice, it.ID, types.ETH(0), types.ETH(0)); !errors.Is(err, marketplace.ErrNotHolder) {
		t.Errorf("resell of listed item = %v", err)
	}
	if _, err := m.Resell(ctx, alice, 42, types.ETH(0), types.ETH(0)); !errors.Is(err, marketplace.ErrItemNotFound) {
		t.Errorf("resell of unknown item = %v", err)
	}

	if _, err := m.Buy(ctx, bob, it.ID, types.ETH(100)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Resell(ctx, bob, it.ID, types.ETH(0), types.ETH(0)); !errors.Is(err, marketplace.ErrPriceInvalid) {
		t.Errorf("zero price resell = %v", err)
	}
	if _, err := m.Resell(ctx, bob, it.ID, types.ETH(10), types.ETH(3)); !errors.Is(err, marketplace.ErrFeeMismatch) {
		t.Errorf("bad fee resell = %v", err)
	}
}

func TestFetchListedAfterCreatesAndBuys(t *testing.T) {
	const n, k = 7, 3

	m := newMarket(t)
	ctx := context.Background()

	created := make([]*item.Item, n)
	for i := range n {
		created[i] = list(t, m, alice, int64(10+i))
	}
	for i := range k {
		if _, err := m.Buy(ctx, bob, created[i*2].ID, created[i*2].Price); err != nil {
			t.Fatal(err)
		}
	}

	listed, err := m.FetchListed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != n-k {
		t.Errorf("FetchListed returned %d items, want %d", len(listed), n-k)
	}
	for i := 1; i < len(listed); i++ {
		if listed[i-1].ID >= listed[i].ID {
			t.Errorf("not ascending: %v", ids(listed))
		}
	}

	stats, _ := m.Stats(ctx)
	if stats.Items != n || stats.Sold != k || stats.Listed != n-k {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRoundTrip(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()

	it := list(t, m, alice, 100)
	if _, err := m.Buy(ctx, bob, it.ID, types.ETH(100)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Resell(ctx, bob, it.ID, types.ETH(150), listingFee); err != nil {
		t.Fatal(err)
	}
	final, err := m.Buy(ctx, carol, it.ID, types.ETH(150))
	if err != nil {
		t.Fatal(err)
	}

	if !final.Sold || final.Holder != carol || final.Seller != bob {
		t.Errorf("after round trip: %+v", final)
	}

	events, _ := m.Events(ctx, event.ListOpts{ItemID: it.ID})
	want := []event.Operation{event.OpListed, event.OpSold, event.OpRelisted, event.OpSold}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Operation != want[i] {
			t.Errorf("event %d = %s, want %s", i, e.Operation, want[i])
		}
	}

	treasury, _ := m.TreasuryBalance(ctx)
	if !treasury.Equal(types.ETH(2)) {
		t.Errorf("treasury = %v, want two listing fees", treasury)
	}
	bobBal, _ := m.Balance(ctx, bob)
	if !bobBal.Equal(types.ETH(-100 - 1 + 150)) {
		t.Errorf("bob balance = %v", bobBal)
	}
}

func TestListingScenario(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()

	a := list(t, m, alice, 100)

	listed, _ := m.FetchListed(ctx)
	if !equalIDs(ids(listed), []int64{a.ID}) {
		t.Fatalf("FetchListed = %v", ids(listed))
	}

	if _, err := m.Buy(ctx, bob, a.ID, types.ETH(100)); err != nil {
		t.Fatal(err)
	}
	listed, _ = m.FetchListed(ctx)
	if len(listed) != 0 {
		t.Errorf("FetchListed after buy = %v", ids(listed))
	}
	owned, _ := m.FetchOwnedBy(ctx, bob)
	if !equalIDs(ids(owned), []int64{a.ID}) {
		t.Errorf("FetchOwnedBy(bob) = %v", ids(owned))
	}

	if _, err := m.Resell(ctx, bob, a.ID, types.ETH(50), listingFee); err != nil {
		t.Fatal(err)
	}
	listed, _ = m.FetchListed(ctx)
	if len(listed) != 1 || !listed[0].Price.Equal(types.ETH(50)) || listed[0].Seller != bob {
		t.Errorf("relisted item = %+v", listed)
	}

	if _, err := m.Resell(ctx, carol, a.ID, types.ETH(60), listingFee); !errors.Is(err, marketplace.ErrNotHolder) {
		t.Errorf("non-holder resale = %v", err)
	}
}

func TestFetchListedByMostRecentSeller(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()

	a := list(t, m, alice, 100)
	b := list(t, m, alice, 200)
	if _, err := m.Buy(ctx, bob, a.ID, types.ETH(100)); err != nil {
		t.Fatal(err)
	}

	byAlice, _ := m.FetchListedBy(ctx, alice)
	if !equalIDs(ids(byAlice), []int64{a.ID, b.ID}) {
		t.Errorf("FetchListedBy(alice) before resale = %v", ids(byAlice))
	}

	if _, err := m.Resell(ctx, bob, a.ID, types.ETH(120), listingFee); err != nil {
		t.Fatal(err)
	}

	byAlice, _ = m.FetchListedBy(ctx, alice)
	if !equalIDs(ids(byAlice), []int64{b.ID}) {
		t.Errorf("FetchListedBy(alice) after resale = %v", ids(byAlice))
	}
	byBob, _ := m.FetchListedBy(ctx, bob)
	if !equalIDs(ids(byBob), []int64{a.ID}) {
		t.Errorf("FetchListedBy(bob) = %v", ids(byBob))
	}
}

func TestCancelListing(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)

	if _, err := m.CancelListing(ctx, bob, it.ID); !errors.Is(err, marketplace.ErrNotSeller) {
		t.Errorf("cancel by stranger = %v", err)
	}
	if _, err := m.CancelListing(ctx, alice, 77); !errors.Is(err, marketplace.ErrItemNotFound) {
		t.Errorf("cancel unknown = %v", err)
	}

	canceled, err := m.CancelListing(ctx, alice, it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !canceled.Sold || canceled.Holder != alice {
		t.Errorf("after cancel: %+v", canceled)
	}

	if _, err := m.CancelListing(ctx, alice, it.ID); !errors.Is(err, marketplace.ErrNotListed) {
		t.Errorf("second cancel = %v", err)
	}
	if _, err := m.Buy(ctx, bob, it.ID, types.ETH(100)); !errors.Is(err, marketplace.ErrAlreadySold) {
		t.Errorf("buy after cancel = %v", err)
	}

	// The seller holds the item again and may relist it.
	if _, err := m.Resell(ctx, alice, it.ID, types.ETH(80), listingFee); err != nil {
		t.Errorf("relist after cancel: %v", err)
	}

	treasury, _ := m.TreasuryBalance(ctx)
	if !treasury.Equal(types.ETH(2)) {
		t.Errorf("treasury = %v, fee should not be refunded", treasury)
	}
}

func TestUpdateListingFee(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	newFee := types.ETH(5)

	if _, err := m.CreateAndList(ctx, alice, "ipfs://a", types.ETH(10), newFee); !errors.Is(err, marketplace.ErrFeeMismatch) {
		t.Fatalf("expected ErrFeeMismatch, got %v", err)
	}

	if err := m.UpdateListingFee(ctx, alice, newFee); !errors.Is(err, marketplace.ErrUnauthorized) {
		t.Errorf("non-admin update = %v", err)
	}
	if !m.ListingFee().Equal(listingFee) {
		t.Errorf("fee changed by non-admin: %v", m.ListingFee())
	}

	if err := m.UpdateListingFee(ctx, admin, types.ETH(0)); !errors.Is(err, marketplace.ErrInvalidFee) {
		t.Errorf("zero fee update = %v", err)
	}

	if err := m.UpdateListingFee(ctx, admin, newFee); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateAndList(ctx, alice, "ipfs://a", types.ETH(10), newFee); err != nil {
		t.Errorf("previously rejected fee now fails: %v", err)
	}
	if _, err := m.CreateAndList(ctx, alice, "ipfs://b", types.ETH(10), listingFee); !errors.Is(err, marketplace.ErrFeeMismatch) {
		t.Errorf("old fee still accepted: %v", err)
	}

	events, _ := m.Events(ctx, event.ListOpts{Operation: event.OpFeeUpdated})
	if len(events) != 1 || events[0].Actor != admin || !events[0].Amount.Equal(newFee) {
		t.Errorf("fee events = %+v", events)
	}
}

func TestListingFeePersistsAcrossRestart(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	m1, err := marketplace.New(s, marketplace.WithAdmin(admin), marketplace.WithListingFee(listingFee), marketplace.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if err := m1.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m1.UpdateListingFee(ctx, admin, types.ETH(9)); err != nil {
		t.Fatal(err)
	}
	if _, err := m1.CreateAndList(ctx, alice, "ipfs://a", types.ETH(3), types.ETH(9)); err != nil {
		t.Fatal(err)
	}

	// A second instance over the same store resumes the fee and id counter.
	m2, err := marketplace.New(s, marketplace.WithAdmin(admin), marketplace.WithListingFee(listingFee), marketplace.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if err := m2.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m2.Stop() })

	if !m2.ListingFee().Equal(types.ETH(9)) {
		t.Errorf("restored fee = %v", m2.ListingFee())
	}
	it, err := m2.CreateAndList(ctx, bob, "ipfs://b", types.ETH(3), types.ETH(9))
	if err != nil {
		t.Fatal(err)
	}
	if it.ID != 2 {
		t.Errorf("id after restart = %d, want 2", it.ID)
	}
}

func TestTransfersJournal(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)
	if _, err := m.Buy(ctx, bob, it.ID, types.ETH(100)); err != nil {
		t.Fatal(err)
	}

	transfers, err := m.Transfers(ctx, payment.ListOpts{ItemID: it.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(transfers) != 2 {
		t.Fatalf("got %d transfers", len(transfers))
	}
	if transfers[0].Kind != payment.KindListingFee || transfers[0].To != account.Treasury {
		t.Errorf("first transfer = %+v", transfers[0])
	}
	if transfers[1].Kind != payment.KindSale || transfers[1].From != bob || transfers[1].To != alice {
		t.Errorf("second transfer = %+v", transfers[1])
	}
	if transfers[1].EventID.IsNil() {
		t.Error("transfer not linked to its event")
	}
}

func TestConcurrentBuysSellOnce(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		soldErrs  atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Buy(ctx, bob, it.ID, types.ETH(100))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, marketplace.ErrAlreadySold):
				soldErrs.Add(1)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != 1 || soldErrs.Load() != 19 {
		t.Errorf("successes=%d alreadySold=%d", successes.Load(), soldErrs.Load())
	}
}

func TestConcurrentCreatesAssignDistinctIDs(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	seen := make(chan int64, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			it, err := m.CreateAndList(ctx, alice, "ipfs://c", types.ETH(1), listingFee)
			if err == nil {
				seen <- it.ID
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for id := range seen {
		if unique[id] {
			t.Errorf("duplicate id %d", id)
		}
		unique[id] = true
	}
	for id := int64(1); id <= n; id++ {
		if !unique[id] {
			t.Errorf("missing id %d", id)
		}
	}
}

func TestGetItem(t *testing.T) {
	m := newMarket(t)
	ctx := context.Background()
	it := list(t, m, alice, 100)

	got, err := m.GetItem(ctx, it.ID)
	if err != nil || got.AssetURI != "ipfs://asset" {
		t.Errorf("GetItem = %+v, %v", got, err)
	}
	if _, err := m.GetItem(ctx, 999); !marketplace.IsNotFound(err) {
		t.Errorf("GetItem(999) = %v", err)
	}
	if _, err := m.GetItem(ctx, -1); !errors.Is(err, marketplace.ErrInvalidItemID) {
		t.Errorf("GetItem(-1) = %v", err)
	}
}
