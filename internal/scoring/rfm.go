package scoring

// RFM sub-score weights. Unlike churn, the RFM composite is a weighted
// average of three 1-5 sub-scores, not a sum.
const (
	rfmRecencyWeight   = 0.35
	rfmFrequencyWeight = 0.35
	rfmMonetaryWeight  = 0.30
)

// RFMScore maps recency/frequency/monetary signals onto 1-5 sub-scores and a
// weighted-average composite in [1,5]. Pure and total.
func RFMScore(sig CustomerSignals) Result {
	recencyScore := scoreRecency(intOr(sig.DaysSinceLastPurchase, DefaultWorstRecencyDays))
	frequencyScore := scoreFrequency(intOr(sig.TotalOrders, 0))
	monetaryScore := scoreMonetary(int64Or(sig.TotalSpentCents, 0))

	composite := recencyScore*rfmRecencyWeight +
		frequencyScore*rfmFrequencyWeight +
		monetaryScore*rfmMonetaryWeight
	composite = clampFloat(composite, 1, 5)

	return Result{
		Components: map[string]float64{
			"recency":   recencyScore,
			"frequency": frequencyScore,
			"monetary":  monetaryScore,
		},
		Composite: composite,
		Label:     rfmSegment(composite, recencyScore, frequencyScore),
	}
}

func scoreRecency(days int) float64 {
	switch {
	case days <= 30:
		return 5
	case days <= 60:
		return 4
	case days <= 90:
		return 3
	case days <= 180:
		return 2
	default:
		return 1
	}
}

func scoreFrequency(orders int) float64 {
	switch {
	case orders >= 20:
		return 5
	case orders >= 10:
		return 4
	case orders >= 5:
		return 3
	case orders >= 2:
		return 2
	default:
		return 1
	}
}

func scoreMonetary(spentCents int64) float64 {
	switch {
	case spentCents >= 500000:
		return 5
	case spentCents >= 200000:
		return 4
	case spentCents >= 100000:
		return 3
	case spentCents >= 50000:
		return 2
	default:
		return 1
	}
}

// rfmSegment derives the segment label. The at_risk check runs before the
// composite buckets: a historically frequent buyer gone quiet is at_risk even
// when the averaged composite would place them in a calmer segment.
func rfmSegment(composite, recency, frequency float64) Label {
	if recency <= 2 && frequency >= 3 {
		return SegmentAtRisk
	}
	switch {
	case composite >= 4.5:
		return SegmentChampion
	case composite >= 3.5:
		return SegmentLoyal
	case composite >= 2.5:
		return SegmentNeedsAttention
	case composite >= 1.5:
		return SegmentHibernating
	default:
		return SegmentLost
	}
}
