// Package extension provides the Forge extension adapter for the marketplace.
//
// It implements the forge.Extension interface to integrate the marketplace
// into a Forge application with store selection, DI registration, and
// lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.marketplace" or
// "marketplace" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	marketplace "github.com/AnushkaKohli/nftmarketplace"
	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/store"
	"github.com/AnushkaKohli/nftmarketplace/store/memory"
	"github.com/AnushkaKohli/nftmarketplace/store/mongo"
	"github.com/AnushkaKohli/nftmarketplace/store/postgres"
	"github.com/AnushkaKohli/nftmarketplace/store/sqlite"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "marketplace"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Digital asset marketplace ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the marketplace as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *marketplace.Marketplace
	store      store.Store
	groveDB    *grove.DB
	marketOpts []marketplace.Option
}

// New creates a new marketplace Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Marketplace.
// This is nil until Register is called.
func (e *Extension) Engine() *marketplace.Marketplace { return e.engine }

// Register implements [forge.Extension]. It loads configuration, builds the
// store and the marketplace, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if e.store == nil {
		s, err := buildStore(e.config.StoreDriver, e.groveDB)
		if err != nil {
			return err
		}
		e.store = s
	}

	eng, err := marketplace.New(e.store, e.buildMarketplaceOpts()...)
	if err != nil {
		return fmt.Errorf("marketplace: build engine: %w", err)
	}
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*marketplace.Marketplace, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("marketplace: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("marketplace: extension not initialized")
	}
	return e.engine.Health(ctx)
}

// buildMarketplaceOpts constructs marketplace.Option values from the resolved config.
func (e *Extension) buildMarketplaceOpts() []marketplace.Option {
	opts := make([]marketplace.Option, 0, len(e.marketOpts)+4)

	opts = append(opts,
		marketplace.WithAdmin(account.Address(e.config.AdminAccount)),
		marketplace.WithListingFee(e.config.ListingFee()),
		marketplace.WithNotifyBuffer(e.config.NotifyBuffer),
	)
	if e.config.DisableMigrate {
		opts = append(opts, marketplace.WithoutMigrate())
	}

	// Pass-through options go last so they can override config values.
	opts = append(opts, e.marketOpts...)

	return opts
}

// buildStore picks the backend named by driver.
func buildStore(driver string, db *grove.DB) (store.Store, error) {
	if db == nil {
		if driver != "" && driver != DriverMemory {
			return nil, fmt.Errorf("marketplace: store driver %q requires a grove database", driver)
		}
		return memory.New(), nil
	}

	switch driver {
	case DriverPostgres:
		return postgres.New(db), nil
	case DriverSQLite:
		return sqlite.New(db), nil
	case DriverMongo:
		return mongo.New(db), nil
	default:
		return nil, fmt.Errorf("marketplace: unsupported store driver %q", driver)
	}
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("marketplace: configuration is required but not found in config files; " +
				"ensure 'extensions.marketplace' or 'marketplace' key exists in your config")
		}
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("marketplace: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("admin_account", e.config.AdminAccount),
		forge.F("listing_fee", e.config.ListingFee().String()),
		forge.F("notify_buffer", e.config.NotifyBuffer),
		forge.F("store_driver", e.config.StoreDriver),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.marketplace", "marketplace"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("marketplace: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		e.Logger().Warn("marketplace: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}
