package audithook

// Action constants for audit events.
const (
	// Item actions
	ActionItemListed      = "item.listed"
	ActionItemSold        = "item.sold"
	ActionItemRelisted    = "item.relisted"
	ActionListingCanceled = "item.canceled"

	// Fee actions
	ActionListingFeeUpdated = "fee.updated"

	// Rejections
	ActionOperationRejected = "operation.rejected"

	// Lifecycle
	ActionMarketplaceStarted = "marketplace.started"
	ActionMarketplaceStopped = "marketplace.stopped"
)

// Resource constants for audit events.
const (
	ResourceItem        = "item"
	ResourceListingFee  = "listing_fee"
	ResourceMarketplace = "marketplace"
)

// Category constants for audit events.
const (
	CategoryTrading = "trading"
	CategoryPayment = "payment"
	CategoryAdmin   = "admin"
	CategoryAccess  = "access"
	CategorySystem  = "system"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
