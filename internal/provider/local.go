package provider

import (
	"fmt"
	"sort"
	"strings"

	"retainly_backend/internal/scoring"
)

// localAdvice synthesizes Advice purely from the score result. It is the
// guaranteed last resort: deterministic, no I/O, cannot fail.
func localAdvice(req Request) Advice {
	label := string(req.ScoreResult.Label)
	urgency := localUrgency(req.ScoreResult.Label)

	points := make([]string, 0, 3)
	for _, name := range topComponents(req.ScoreResult.Components, 3) {
		points = append(points, fmt.Sprintf("%s signal contributed %.2f to the score",
			strings.ReplaceAll(name, "_", " "), req.ScoreResult.Components[name]))
	}

	return Advice{
		Summary: fmt.Sprintf("%s scored %.2f (%s) in the %s workflow.",
			req.EntityID, req.ScoreResult.Composite, label, req.Workflow),
		Recommendation: localRecommendation(req.ScoreResult.Label),
		Urgency:        urgency,
		TalkingPoints:  points,
	}
}

func localUrgency(label scoring.Label) string {
	switch label {
	case scoring.ChurnCritical, scoring.TierHot:
		return "immediate"
	case scoring.ChurnHigh, scoring.SegmentAtRisk, scoring.TierWarm:
		return "soon"
	default:
		return "routine"
	}
}

func localRecommendation(label scoring.Label) string {
	switch label {
	case scoring.ChurnCritical:
		return "Reach out today with a personal retention offer."
	case scoring.ChurnHigh:
		return "Schedule a win-back touchpoint this week."
	case scoring.ChurnMedium:
		return "Add to the re-engagement email sequence."
	case scoring.SegmentAtRisk:
		return "Send a loyalty check-in before the relationship lapses."
	case scoring.TierHot:
		return "Route to a sales representative for immediate follow-up."
	case scoring.TierWarm:
		return "Nurture with a tailored follow-up within two business days."
	default:
		return "No action required; keep on the standard cadence."
	}
}

// topComponents returns the names of the n largest contributions, largest
// first, names breaking ties so output is stable.
func topComponents(components map[string]float64, n int) []string {
	names := make([]string, 0, len(components))
	for name, contribution := range components {
		if contribution > 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if components[names[i]] != components[names[j]] {
			return components[names[i]] > components[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
