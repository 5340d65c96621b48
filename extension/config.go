package extension

import "github.com/AnushkaKohli/nftmarketplace/types"

// Store driver names accepted in Config.StoreDriver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds the marketplace extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.marketplace" or "marketplace" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// AdminAccount is the only account allowed to change the listing fee.
	AdminAccount string `json:"admin_account" mapstructure:"admin_account" yaml:"admin_account"`

	// ListingFeeAmount is the initial listing fee in minor units
	// (default: 25000000 gwei).
	ListingFeeAmount int64 `json:"listing_fee_amount" mapstructure:"listing_fee_amount" yaml:"listing_fee_amount"`

	// ListingFeeCurrency is the marketplace currency (default: "ETH").
	ListingFeeCurrency string `json:"listing_fee_currency" mapstructure:"listing_fee_currency" yaml:"listing_fee_currency"`

	// NotifyBuffer is the capacity of the plugin notification queue
	// (default: 1024).
	NotifyBuffer int `json:"notify_buffer" mapstructure:"notify_buffer" yaml:"notify_buffer"`

	// StoreDriver selects the backend built around the grove.DB passed with
	// WithGroveDB: "postgres", "sqlite" or "mongo". Without a grove.DB the
	// in-memory store is used.
	StoreDriver string `json:"store_driver" mapstructure:"store_driver" yaml:"store_driver"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	fee := types.ETH(25_000_000)
	return Config{
		ListingFeeAmount:   fee.Amount,
		ListingFeeCurrency: fee.Currency,
		NotifyBuffer:       1024,
		StoreDriver:        DriverMemory,
	}
}

// ListingFee returns the configured fee as Money.
func (c Config) ListingFee() types.Money {
	return types.New(c.ListingFeeAmount, c.ListingFeeCurrency)
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.ListingFeeAmount == 0 {
		cfg.ListingFeeAmount = defaults.ListingFeeAmount
	}
	if cfg.ListingFeeCurrency == "" {
		cfg.ListingFeeCurrency = defaults.ListingFeeCurrency
	}
	if cfg.NotifyBuffer == 0 {
		cfg.NotifyBuffer = defaults.NotifyBuffer
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = defaults.StoreDriver
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	if yamlConfig.AdminAccount == "" {
		yamlConfig.AdminAccount = programmaticConfig.AdminAccount
	}
	if yamlConfig.ListingFeeAmount == 0 {
		yamlConfig.ListingFeeAmount = programmaticConfig.ListingFeeAmount
	}
	if yamlConfig.ListingFeeCurrency == "" {
		yamlConfig.ListingFeeCurrency = programmaticConfig.ListingFeeCurrency
	}
	if yamlConfig.NotifyBuffer == 0 {
		yamlConfig.NotifyBuffer = programmaticConfig.NotifyBuffer
	}
	if yamlConfig.StoreDriver == "" {
		yamlConfig.StoreDriver = programmaticConfig.StoreDriver
	}

	return mergeWithDefaults(yamlConfig)
}
