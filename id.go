package marketplace

import "github.com/AnushkaKohli/nftmarketplace/id"

// ID is the identifier type for events and transfers.
type ID = id.ID

// Prefix identifies the record type encoded in a TypeID.
type Prefix = id.Prefix
