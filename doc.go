// Package marketplace provides a ledger for a marketplace of uniquely
// identified digital items.
//
// The ledger records who listed each item, who holds it, and whether it is
// for sale. It enforces a fixed listing fee set by a single administrator and
// records every value movement in a payment journal. Signing, asset storage,
// presentation and transport stay outside: every call receives an already
// authenticated caller and the amount attached to the call.
//
// # Quick Start
//
//	import (
//	    marketplace "github.com/AnushkaKohli/nftmarketplace"
//	    "github.com/AnushkaKohli/nftmarketplace/store/memory"
//	)
//
//	m, err := marketplace.New(memory.New(),
//	    marketplace.WithAdmin("0xadmin"),
//	    marketplace.WithListingFee(marketplace.ETH(25_000_000)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Stop()
//
//	it, err := m.CreateAndList(ctx, "0xalice", "ipfs://meta.json",
//	    marketplace.ETH(1_000_000_000), m.ListingFee())
//
// # Item lifecycle
//
// A new item is listed: the marketplace holds it and anyone may buy it by
// paying exactly the asking price, which goes to the seller. The buyer can
// resell it at a new price by paying the listing fee again. A seller may
// cancel a listing, taking the item back without a refund.
//
// Item ids start at 1 and increase by one per created item. A rejected call
// changes nothing, including the id counter.
//
// # Money
//
// All amounts are integers in the smallest currency unit (gwei for ETH,
// cents for USD). Prices and fees must use the currency of the listing fee.
//
// # Storage
//
// Stores live under store/: an in-memory store for tests and grove-backed
// PostgreSQL, SQLite and MongoDB stores. The forge extension under
// extension/ wires a Marketplace into a forge application.
package marketplace
