package service

import (
	"testing"

	"retainly_backend/internal/scoring"
)

func TestUpdateSignalsBudget(t *testing.T) {
	cases := []struct {
		name      string
		message   string
		wantCents int64
	}{
		{"plain dollars", "our budget is $5000 for this", 500000},
		{"with commas", "we set aside $12,500", 1250000},
		{"k suffix", "around $10k to spend", 1000000},
		{"euro", "budget of €2000", 200000},
		{"keeps the larger figure", "between $500 and $1500", 150000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var sig scoring.LeadSignals
			updateSignals(&sig, tc.message)
			if sig.BudgetCents == nil {
				t.Fatal("budget not extracted")
			}
			if *sig.BudgetCents != tc.wantCents {
				t.Errorf("budget = %d cents, want %d", *sig.BudgetCents, tc.wantCents)
			}
		})
	}
}

func TestUpdateSignalsBudgetNeverDowngrades(t *testing.T) {
	var sig scoring.LeadSignals
	updateSignals(&sig, "we have $10k")
	updateSignals(&sig, "well, maybe $2000 to start")

	if *sig.BudgetCents != 1000000 {
		t.Errorf("budget = %d, want the earlier larger figure", *sig.BudgetCents)
	}
}

func TestUpdateSignalsTimeline(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"we need this ASAP", "immediate"},
		{"hoping to start this week", "immediate"},
		{"sometime next month works", "this_quarter"},
		{"we're just exploring options", "exploring"},
		{"hello there", ""},
	}

	for _, tc := range cases {
		var sig scoring.LeadSignals
		updateSignals(&sig, tc.message)
		if sig.Timeline != tc.want {
			t.Errorf("timeline(%q) = %q, want %q", tc.message, sig.Timeline, tc.want)
		}
	}
}

func TestUpdateSignalsContactAndRole(t *testing.T) {
	var sig scoring.LeadSignals

	updateSignals(&sig, "you can reach me at jo@example.com")
	if !sig.HasEmail {
		t.Error("email not detected")
	}

	updateSignals(&sig, "or call +1 415 555 0123")
	if !sig.HasPhone {
		t.Error("phone not detected")
	}

	updateSignals(&sig, "I'm the owner of the shop")
	if !sig.DecisionMaker {
		t.Error("decision maker not detected")
	}

	if sig.MessageCount != 3 {
		t.Errorf("message count = %d, want 3", sig.MessageCount)
	}
}
