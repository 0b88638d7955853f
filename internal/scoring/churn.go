package scoring

// Churn risk is an additive model: each signal contributes a fixed weight when
// it crosses its threshold bucket. Weights sum to the composite, clamped to
// [0,1]; there is no cross-signal interaction beyond the buckets below.
const (
	weightRecencyCritical   = 0.35 // no purchase in >180 days
	weightRecencyHigh       = 0.25 // 90-180 days
	weightRecencyModerate   = 0.15 // 60-90 days
	weightOneTimeBuyer      = 0.20 // single order and inactive >=60 days
	weightEngagementLow     = 0.15 // open rate below floor
	weightEngagementDecline = 0.15 // open rate at or below half of baseline
	weightSupportTickets    = 0.10 // three or more open tickets
)

const (
	recencyCriticalDays = 180
	recencyHighDays     = 90
	recencyModerateDays = 60
	engagementFloor     = 0.15
	ticketThreshold     = 3
)

// Churn label thresholds, checked highest-first so a composite crossing two
// thresholds always takes the more urgent label.
const (
	churnCriticalThreshold = 0.70
	churnHighThreshold     = 0.55
	churnMediumThreshold   = 0.35
)

// ChurnScore computes the churn risk for a customer. Pure and total: any
// CustomerSignals value produces a Result, with absent fields defaulting to
// their documented worst case.
//
// The engagement_low and engagement_decline components intentionally stack:
// a customer whose open rate is both absolutely low and sharply down from
// baseline accrues both weights. The decline signal is an independent check
// on top of the absolute level, not a refinement of it.
func ChurnScore(sig CustomerSignals) Result {
	components := make(map[string]float64)

	recency := intOr(sig.DaysSinceLastPurchase, DefaultWorstRecencyDays)
	switch {
	case recency > recencyCriticalDays:
		components["recency"] = weightRecencyCritical
	case recency >= recencyHighDays:
		components["recency"] = weightRecencyHigh
	case recency >= recencyModerateDays:
		components["recency"] = weightRecencyModerate
	default:
		components["recency"] = 0
	}

	orders := intOr(sig.TotalOrders, 0)
	if orders <= 1 && recency >= recencyModerateDays {
		components["one_time_buyer"] = weightOneTimeBuyer
	} else {
		components["one_time_buyer"] = 0
	}

	openRate := floatOr(sig.EmailOpenRate, 0)
	if openRate < engagementFloor {
		components["engagement_low"] = weightEngagementLow
	} else {
		components["engagement_low"] = 0
	}

	baseline := floatOr(sig.BaselineOpenRate, 0)
	if baseline > 0 && openRate <= baseline*0.5 {
		components["engagement_decline"] = weightEngagementDecline
	} else {
		components["engagement_decline"] = 0
	}

	if intOr(sig.SupportTickets, 0) >= ticketThreshold {
		components["support_tickets"] = weightSupportTickets
	} else {
		components["support_tickets"] = 0
	}

	composite := 0.0
	for _, contribution := range components {
		composite += contribution
	}
	composite = clampFloat(composite, 0, 1)

	return Result{
		Components: components,
		Composite:  composite,
		Label:      churnLabel(composite),
	}
}

func churnLabel(composite float64) Label {
	switch {
	case composite >= churnCriticalThreshold:
		return ChurnCritical
	case composite >= churnHighThreshold:
		return ChurnHigh
	case composite >= churnMediumThreshold:
		return ChurnMedium
	default:
		return ChurnLow
	}
}

// NeedsAttention reports whether a churn label warrants an AI-enhanced
// explanation and a proposed win-back action.
func NeedsAttention(label Label) bool {
	return label == ChurnHigh || label == ChurnCritical
}
