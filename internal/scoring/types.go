// Package scoring implements the deterministic scoring engine: weighted rule
// evaluation mapping entity signals to a composite score and a categorical
// label. All functions here are pure and total; no I/O, no shared state.
package scoring

// Label is the categorical outcome of a scoring pass.
type Label string

// Churn risk labels, ordered from least to most urgent.
const (
	ChurnLow      Label = "low"
	ChurnMedium   Label = "medium"
	ChurnHigh     Label = "high"
	ChurnCritical Label = "critical"
)

// RFM segment labels.
const (
	SegmentChampion       Label = "champion"
	SegmentLoyal          Label = "loyal"
	SegmentAtRisk         Label = "at_risk"
	SegmentNeedsAttention Label = "needs_attention"
	SegmentHibernating    Label = "hibernating"
	SegmentLost           Label = "lost"
)

// Lead qualification tiers.
const (
	TierHot         Label = "hot"
	TierWarm        Label = "warm"
	TierCold        Label = "cold"
	TierUnqualified Label = "unqualified"
)

// Result is an immutable scoring outcome. Components carries the per-signal
// contribution breakdown for diagnostics; Composite is the clamped sum (or
// weighted average for RFM) and is independent of signal order.
type Result struct {
	Components map[string]float64 `json:"components"`
	Composite  float64            `json:"composite"`
	Label      Label              `json:"label"`
}

// CustomerSignals are the numeric signals used for churn and RFM scoring.
// Absent fields degrade toward conservative (higher-risk) scores: a missing
// recency is treated as DefaultWorstRecencyDays, a missing engagement rate as
// zero. Missing counters (orders, tickets) default to zero.
type CustomerSignals struct {
	EntityID              string
	DaysSinceLastPurchase *int
	TotalOrders           *int
	TotalSpentCents       *int64
	EmailOpenRate         *float64 // 0..1, most recent period
	BaselineOpenRate      *float64 // 0..1, historical baseline
	SupportTickets        *int
}

// LeadSignals are the signals used for voice-lead qualification scoring.
type LeadSignals struct {
	SessionID     string
	BudgetCents   *int64
	Timeline      string // "immediate", "this_quarter", "exploring"
	MessageCount  int
	HasEmail      bool
	HasPhone      bool
	DecisionMaker bool
}

// DefaultWorstRecencyDays is the recency assumed when a customer has no
// recorded purchase date: the maximum staleness the engine distinguishes.
const DefaultWorstRecencyDays = 365

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func int64Or(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
