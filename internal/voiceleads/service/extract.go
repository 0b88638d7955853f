package service

import (
	"regexp"
	"strconv"
	"strings"

	"retainly_backend/internal/scoring"
)

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern  = regexp.MustCompile(`\+?[0-9][0-9()\-\s.]{6,}[0-9]`)
	budgetPattern = regexp.MustCompile(`[$€£]\s?([0-9][0-9,.]*[0-9k]|[0-9])`)
)

// updateSignals folds one message into the accumulated lead signals. The
// extraction is deliberately rule-based: provider output drives the reply,
// never the score.
func updateSignals(sig *scoring.LeadSignals, message string) {
	sig.MessageCount++
	lower := strings.ToLower(message)

	if !sig.HasEmail && emailPattern.MatchString(message) {
		sig.HasEmail = true
	}
	if !sig.HasPhone && phonePattern.MatchString(message) {
		sig.HasPhone = true
	}

	if cents, ok := extractBudgetCents(message); ok {
		if sig.BudgetCents == nil || cents > *sig.BudgetCents {
			sig.BudgetCents = &cents
		}
	}

	if timeline := extractTimeline(lower); timeline != "" {
		sig.Timeline = timeline
	}

	if !sig.DecisionMaker && mentionsDecisionMaker(lower) {
		sig.DecisionMaker = true
	}
}

// extractBudgetCents finds the largest currency amount in the message.
// "5k" style suffixes multiply by a thousand.
func extractBudgetCents(message string) (int64, bool) {
	matches := budgetPattern.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return 0, false
	}

	var best int64
	found := false
	for _, match := range matches {
		raw := strings.ToLower(match[1])
		multiplier := int64(1)
		if strings.HasSuffix(raw, "k") {
			multiplier = 1000
			raw = strings.TrimSuffix(raw, "k")
		}
		raw = strings.ReplaceAll(raw, ",", "")

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		cents := int64(value*100) * multiplier
		if cents > best {
			best = cents
			found = true
		}
	}
	return best, found
}

func extractTimeline(lower string) string {
	switch {
	case strings.Contains(lower, "asap") ||
		strings.Contains(lower, "right away") ||
		strings.Contains(lower, "immediately") ||
		strings.Contains(lower, "this week"):
		return "immediate"
	case strings.Contains(lower, "this quarter") ||
		strings.Contains(lower, "next month") ||
		strings.Contains(lower, "this month") ||
		strings.Contains(lower, "few weeks"):
		return "this_quarter"
	case strings.Contains(lower, "exploring") ||
		strings.Contains(lower, "looking around") ||
		strings.Contains(lower, "just researching") ||
		strings.Contains(lower, "someday"):
		return "exploring"
	}
	return ""
}

func mentionsDecisionMaker(lower string) bool {
	for _, phrase := range []string{
		"i'm the owner", "i am the owner", "i own", "my company",
		"i decide", "i'm the ceo", "i am the ceo", "my decision",
		"i'm the founder", "i am the founder",
	} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
