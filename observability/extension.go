// Package observability provides a metrics extension for mintledger that
// records transition counts and latencies through a MetricFactory.
package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/plugin"
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin           = (*MetricsExtension)(nil)
	_ plugin.OnInit           = (*MetricsExtension)(nil)
	_ plugin.OnCommitted      = (*MetricsExtension)(nil)
	_ plugin.OnLedgerCreated  = (*MetricsExtension)(nil)
	_ plugin.OnAdmitted       = (*MetricsExtension)(nil)
	_ plugin.OnPresaleStarted = (*MetricsExtension)(nil)
	_ plugin.OnItemMinted     = (*MetricsExtension)(nil)
	_ plugin.OnPauseChanged   = (*MetricsExtension)(nil)
	_ plugin.OnTokensMinted   = (*MetricsExtension)(nil)
	_ plugin.OnClaimed        = (*MetricsExtension)(nil)
	_ plugin.OnWithdrawn      = (*MetricsExtension)(nil)
	_ plugin.OnRejected       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide ledger metrics.
// Register it as a mintledger plugin to track mints, claims and custody.
type MetricsExtension struct {
	factory MetricFactory

	// Journal metrics
	Transitions   Counter
	CommitLatency Histogram

	// Ledger metrics
	AllowListsCreated   Counter
	CollectionsCreated  Counter
	EntitlementsCreated Counter

	// Allow-list metrics
	Admissions Counter

	// Collection metrics
	PresalesStarted Counter
	ItemsMinted     Counter
	PresaleMints    Counter
	PauseChanges    Counter

	// Entitlement metrics
	TokenSales   Counter
	TokensSold   Histogram
	Claims       Counter
	ItemsClaimed Counter

	// Custody metrics
	Withdrawals     Counter
	WithdrawnAmount Histogram

	// Rejection metrics
	Rejections         Counter
	RejectedByCategory map[reason.Category]Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	m := &MetricsExtension{
		factory: factory,

		// Journal metrics
		Transitions:   factory.Counter("mintledger.journal.transitions"),
		CommitLatency: factory.Histogram("mintledger.journal.commit.latency_ms"),

		// Ledger metrics
		AllowListsCreated:   factory.Counter("mintledger.allowlist.created"),
		CollectionsCreated:  factory.Counter("mintledger.collection.created"),
		EntitlementsCreated: factory.Counter("mintledger.entitlement.created"),

		// Allow-list metrics
		Admissions: factory.Counter("mintledger.allowlist.admitted"),

		// Collection metrics
		PresalesStarted: factory.Counter("mintledger.collection.presale.started"),
		ItemsMinted:     factory.Counter("mintledger.collection.items.minted"),
		PresaleMints:    factory.Counter("mintledger.collection.items.presale_minted"),
		PauseChanges:    factory.Counter("mintledger.collection.pause.changed"),

		// Entitlement metrics
		TokenSales:   factory.Counter("mintledger.entitlement.sales"),
		TokensSold:   factory.Histogram("mintledger.entitlement.sales.tokens"),
		Claims:       factory.Counter("mintledger.entitlement.claims"),
		ItemsClaimed: factory.Counter("mintledger.entitlement.items.claimed"),

		// Custody metrics
		Withdrawals:     factory.Counter("mintledger.custody.withdrawals"),
		WithdrawnAmount: factory.Histogram("mintledger.custody.withdrawn.ether"),

		// Rejection metrics
		Rejections:         factory.Counter("mintledger.rejected"),
		RejectedByCategory: make(map[reason.Category]Counter),
	}

	for _, c := range []reason.Category{
		reason.CategoryAuthorization,
		reason.CategoryState,
		reason.CategoryCapacity,
		reason.CategoryPayment,
		reason.CategoryNotFound,
	} {
		m.RejectedByCategory[c] = factory.Counter("mintledger.rejected." + string(c))
	}

	return m
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	return nil
}

// OnCommitted implements plugin.OnCommitted.
func (m *MetricsExtension) OnCommitted(_ context.Context, _ *journal.Transition, elapsed time.Duration) error {
	m.Transitions.Inc()
	m.CommitLatency.Observe(float64(elapsed.Microseconds()) / 1000)
	return nil
}

// OnLedgerCreated implements plugin.OnLedgerCreated.
func (m *MetricsExtension) OnLedgerCreated(_ context.Context, ledgerID id.ID, _ types.Identity) error {
	switch ledgerID.Prefix() {
	case id.PrefixAllowList:
		m.AllowListsCreated.Inc()
	case id.PrefixCollection:
		m.CollectionsCreated.Inc()
	case id.PrefixEntitlement:
		m.EntitlementsCreated.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Allow-list hooks
// ──────────────────────────────────────────────────

// OnAdmitted implements plugin.OnAdmitted.
func (m *MetricsExtension) OnAdmitted(_ context.Context, _ id.AllowListID, _ types.Identity) error {
	m.Admissions.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Collection hooks
// ──────────────────────────────────────────────────

// OnPresaleStarted implements plugin.OnPresaleStarted.
func (m *MetricsExtension) OnPresaleStarted(_ context.Context, _ id.CollectionID, _ time.Time) error {
	m.PresalesStarted.Inc()
	return nil
}

// OnItemMinted implements plugin.OnItemMinted.
func (m *MetricsExtension) OnItemMinted(_ context.Context, _ id.CollectionID, _ item.TokenID, _ types.Identity, presale bool) error {
	m.ItemsMinted.Inc()
	if presale {
		m.PresaleMints.Inc()
	}
	return nil
}

// OnPauseChanged implements plugin.OnPauseChanged.
func (m *MetricsExtension) OnPauseChanged(_ context.Context, _ id.CollectionID, _ bool) error {
	m.PauseChanges.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Entitlement hooks
// ──────────────────────────────────────────────────

// OnTokensMinted implements plugin.OnTokensMinted. Token amounts are
// observed in whole tokens assuming 18 decimals.
func (m *MetricsExtension) OnTokensMinted(_ context.Context, _ id.EntitlementID, _ types.Identity, units types.Amount) error {
	m.TokenSales.Inc()
	m.TokensSold.Observe(approx(units))
	return nil
}

// OnClaimed implements plugin.OnClaimed.
func (m *MetricsExtension) OnClaimed(_ context.Context, _ id.EntitlementID, _ types.Identity, items []item.TokenID, _ types.Amount) error {
	m.Claims.Inc()
	m.ItemsClaimed.Add(float64(len(items)))
	return nil
}

// ──────────────────────────────────────────────────
// Custody hooks
// ──────────────────────────────────────────────────

// OnWithdrawn implements plugin.OnWithdrawn.
func (m *MetricsExtension) OnWithdrawn(_ context.Context, _ id.ID, _ types.Identity, amount types.Amount) error {
	m.Withdrawals.Inc()
	m.WithdrawnAmount.Observe(approx(amount))
	return nil
}

// OnRejected implements plugin.OnRejected.
func (m *MetricsExtension) OnRejected(_ context.Context, _ string, _ id.ID, _ types.Identity, err error) error {
	m.Rejections.Inc()
	if c, ok := m.RejectedByCategory[reason.CategoryOf(err)]; ok {
		c.Inc()
	}
	return nil
}

// approx converts an 18-decimal amount to a float for histograms.
func approx(a types.Amount) float64 {
	f, err := strconv.ParseFloat(a.FormatEther(), 64)
	if err != nil {
		return 0
	}
	return f
}
