package extension

import (
	"github.com/xraph/grove"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/plugin"
	"github.com/AnushkaKohli/nftmarketplace/store"
	"github.com/AnushkaKohli/nftmarketplace/types"
)

// Option configures the marketplace Forge extension.
type Option func(*Extension)

// WithStore sets the store directly. It takes precedence over WithGroveDB.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB sets the grove database the store is built on. driver names
// the backend ("postgres", "sqlite" or "mongo").
func WithGroveDB(db *grove.DB, driver string) Option {
	return func(e *Extension) {
		e.groveDB = db
		e.config.StoreDriver = driver
	}
}

// WithMarketplaceOption passes a marketplace.Option through to the engine.
func WithMarketplaceOption(opt marketplace.Option) Option {
	return func(e *Extension) {
		e.marketOpts = append(e.marketOpts, opt)
	}
}

// WithPlugin registers a marketplace plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.marketOpts = append(e.marketOpts, marketplace.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithAdmin sets the administrator account.
func WithAdmin(admin account.Address) Option {
	return func(e *Extension) { e.config.AdminAccount = string(admin) }
}

// WithListingFee sets the initial listing fee.
func WithListingFee(fee types.Money) Option {
	return func(e *Extension) {
		e.config.ListingFeeAmount = fee.Amount
		e.config.ListingFeeCurrency = fee.Currency
	}
}

// WithNotifyBuffer sets the plugin notification queue capacity.
func WithNotifyBuffer(size int) Option {
	return func(e *Extension) { e.config.NotifyBuffer = size }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
