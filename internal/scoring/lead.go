package scoring

// Lead qualification is a 0-100 point model. Points are additive across
// independent signal groups; the tier is read off ordered thresholds.
const (
	leadBudgetHigh   = 30 // >= $10,000
	leadBudgetMid    = 20 // >= $5,000
	leadBudgetLow    = 10 // >= $1,000
	leadTimelineNow  = 25
	leadTimelineSoon = 15
	leadTimelineSome = 5
	leadEngagedDeep  = 15 // five or more messages
	leadEngagedSome  = 10
	leadEngagedFirst = 5
	leadContactEmail = 8
	leadContactPhone = 7
	leadDecisionMkr  = 15
)

const (
	tierHotThreshold  = 70
	tierWarmThreshold = 45
	tierColdThreshold = 20
)

// LeadScore computes a qualification tier for a conversational lead.
// Pure and total; an empty LeadSignals yields tier unqualified.
func LeadScore(sig LeadSignals) Result {
	components := make(map[string]float64)

	budget := int64Or(sig.BudgetCents, 0)
	switch {
	case budget >= 1000000:
		components["budget"] = leadBudgetHigh
	case budget >= 500000:
		components["budget"] = leadBudgetMid
	case budget >= 100000:
		components["budget"] = leadBudgetLow
	default:
		components["budget"] = 0
	}

	switch sig.Timeline {
	case "immediate":
		components["timeline"] = leadTimelineNow
	case "this_quarter":
		components["timeline"] = leadTimelineSoon
	case "exploring":
		components["timeline"] = leadTimelineSome
	default:
		components["timeline"] = 0
	}

	switch {
	case sig.MessageCount >= 5:
		components["engagement"] = leadEngagedDeep
	case sig.MessageCount >= 2:
		components["engagement"] = leadEngagedSome
	case sig.MessageCount >= 1:
		components["engagement"] = leadEngagedFirst
	default:
		components["engagement"] = 0
	}

	contact := 0.0
	if sig.HasEmail {
		contact += leadContactEmail
	}
	if sig.HasPhone {
		contact += leadContactPhone
	}
	components["contact"] = contact

	if sig.DecisionMaker {
		components["decision_maker"] = leadDecisionMkr
	} else {
		components["decision_maker"] = 0
	}

	composite := 0.0
	for _, contribution := range components {
		composite += contribution
	}
	composite = clampFloat(composite, 0, 100)

	return Result{
		Components: components,
		Composite:  composite,
		Label:      leadTier(composite),
	}
}

func leadTier(composite float64) Label {
	switch {
	case composite >= tierHotThreshold:
		return TierHot
	case composite >= tierWarmThreshold:
		return TierWarm
	case composite >= tierColdThreshold:
		return TierCold
	default:
		return TierUnqualified
	}
}
