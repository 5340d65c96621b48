package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/item"
	"github.com/AnushkaKohli/nftmarketplace/query"
	mstore "github.com/AnushkaKohli/nftmarketplace/store"
	"github.com/AnushkaKohli/nftmarketplace/store/memory"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

func seed(t *testing.T, items ...*item.Item) *memory.Store {
	t.Helper()
	s := memory.New()
	for _, it := range items {
		if err := s.Apply(context.Background(), &mstore.Batch{Item: it, Created: true}); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func ids(items []*item.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestQueries(t *testing.T) {
	s := seed(t,
		&item.Item{ID: 3, Price: types.ETH(1), Seller: "0xa", Holder: account.Market},
		&item.Item{ID: 1, Price: types.ETH(1), Seller: "0xa", Holder: "0xb", Sold: true},
		&item.Item{ID: 2, Price: types.ETH(1), Seller: "0xb", Holder: account.Market},
		&item.Item{ID: 4, Price: types.ETH(1), Seller: "0xa", Holder: "0xa", Sold: true},
	)
	e := query.New(s)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() ([]*item.Item, error)
		want []int64
	}{
		{"listed", func() ([]*item.Item, error) { return e.FetchListed(ctx) }, []int64{2, 3}},
		{"owned by b", func() ([]*item.Item, error) { return e.FetchOwnedBy(ctx, "0xb") }, []int64{1}},
		{"owned by a", func() ([]*item.Item, error) { return e.FetchOwnedBy(ctx, "0xa") }, []int64{4}},
		{"owned by nobody", func() ([]*item.Item, error) { return e.FetchOwnedBy(ctx, "0xz") }, []int64{}},
		{"owned by empty", func() ([]*item.Item, error) { return e.FetchOwnedBy(ctx, "") }, []int64{}},
		{"listed by a", func() ([]*item.Item, error) { return e.FetchListedBy(ctx, "0xa") }, []int64{1, 3, 4}},
		{"listed by b", func() ([]*item.Item, error) { return e.FetchListedBy(ctx, "0xb") }, []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if err != nil {
				t.Fatal(err)
			}
			g := ids(got)
			if len(g) != len(tt.want) {
				t.Fatalf("got %v, want %v", g, tt.want)
			}
			for i := range g {
				if g[i] != tt.want[i] {
					t.Errorf("got %v, want %v", g, tt.want)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	s := seed(t, &item.Item{ID: 1, AssetURI: "ipfs://x", Holder: account.Market})
	e := query.New(s)
	ctx := context.Background()

	it, err := e.Get(ctx, 1)
	if err != nil || it.AssetURI != "ipfs://x" {
		t.Errorf("Get(1) = %+v, %v", it, err)
	}
	if _, err := e.Get(ctx, 2); !errors.Is(err, item.ErrNotFound) {
		t.Errorf("Get(2) = %v", err)
	}
	if _, err := e.Get(ctx, 0); !errors.Is(err, item.ErrInvalidID) {
		t.Errorf("Get(0) = %v", err)
	}
}

func TestCounts(t *testing.T) {
	s := seed(t,
		&item.Item{ID: 1, Holder: account.Market},
		&item.Item{ID: 2, Holder: "0xa", Sold: true},
	)
	c, err := query.New(s).Counts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Items != 2 || c.Sold != 1 || c.Listed != 1 {
		t.Errorf("counts = %+v", c)
	}
}

func TestClosedStoreErrorsAreWrapped(t *testing.T) {
	s := memory.New()
	_ = s.Close()
	if _, err := query.New(s).FetchListed(context.Background()); err == nil {
		t.Error("expected error from closed store")
	}
}
