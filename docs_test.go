package marketplace_test

import (
	"context"
	"log/slog"
	"testing"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/store/memory"
)

// TestDocumentationExamples verifies that the package documentation examples work.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		m, err := marketplace.New(store,
			marketplace.WithAdmin("0xadmin"),
			marketplace.WithListingFee(marketplace.ETH(25_000_000)),
			marketplace.WithLogger(slog.New(slog.DiscardHandler)),
		)
		if err != nil {
			t.Fatal(err)
		}

		ctx := context.Background()
		if err := m.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer m.Stop()

		it, err := m.CreateAndList(ctx, "0xalice", "ipfs://meta.json",
			marketplace.ETH(1_000_000_000), m.ListingFee())
		if err != nil {
			t.Fatal(err)
		}

		if _, err := m.Buy(ctx, "0xbob", it.ID, it.Price); err != nil {
			t.Fatal(err)
		}

		owned, err := m.FetchOwnedBy(ctx, "0xbob")
		if err != nil {
			t.Fatal(err)
		}
		if len(owned) != 1 || owned[0].ID != it.ID {
			t.Errorf("FetchOwnedBy = %+v", owned)
		}
	})
}
