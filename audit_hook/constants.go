package audithook

// Action constants for audit events.
const (
	// Ledger actions
	ActionAllowListCreated   = "allowlist.created"
	ActionCollectionCreated  = "collection.created"
	ActionEntitlementCreated = "entitlement.created"

	// Allow-list actions
	ActionAdmitted = "allowlist.admitted"

	// Collection actions
	ActionPresaleStarted = "collection.presale_started"
	ActionItemMinted     = "collection.item_minted"
	ActionPaused         = "collection.paused"
	ActionUnpaused       = "collection.unpaused"

	// Entitlement actions
	ActionTokensMinted = "entitlement.tokens_minted"
	ActionClaimed      = "entitlement.claimed"

	// Custody actions
	ActionWithdrawn = "custody.withdrawn"

	// Rejected operations
	ActionRejected = "operation.rejected"
)

// Resource constants for audit events.
const (
	ResourceAllowList   = "allowlist"
	ResourceCollection  = "collection"
	ResourceEntitlement = "entitlement"
)

// Category constants for audit events.
const (
	CategoryAdministration = "administration"
	CategoryAccess         = "access"
	CategoryMinting        = "minting"
	CategoryRewards        = "rewards"
	CategoryPayment        = "payment"
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
