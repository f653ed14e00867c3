package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContributionLedgerRecord(t *testing.T) {
	ledger := NewContributionLedger(nil)

	ledger.Record("alice", "alice@ncsu.edu", "2024-02-01")
	ledger.Record("alice", "alice@ncsu.edu", "2024-02-01")
	ledger.Record("alice", "alice@ncsu.edu", "2024-02-02")
	ledger.Record("bob", "bob@ncsu.edu", "2024-02-02")

	assert.Equal(t, map[string]int{"alice": 3, "bob": 1}, ledger.Totals())
	assert.Equal(t, map[string]int{"2024-02-01": 2, "2024-02-02": 1}, ledger.DailyCounts()["alice"])
	assert.Equal(t, []string{"2024-02-01", "2024-02-02"}, ledger.Days())
}

func TestContributionLedgerExclusion(t *testing.T) {
	testCases := []struct {
		name        string
		excluded    []string
		authorName  string
		authorEmail string
		recorded    bool
	}{
		{
			name:        "Excluded by name",
			excluded:    []string{"staff"},
			authorName:  "staff",
			authorEmail: "someone@ncsu.edu",
			recorded:    false,
		},
		{
			name:        "Excluded by email",
			excluded:    []string{"bot@ci.example.com"},
			authorName:  "ci-bot",
			authorEmail: "bot@ci.example.com",
			recorded:    false,
		},
		{
			name:        "Not excluded",
			excluded:    []string{"staff"},
			authorName:  "alice",
			authorEmail: "alice@ncsu.edu",
			recorded:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewContributionLedger(tc.excluded)
			ledger.Record(tc.authorName, tc.authorEmail, "2024-02-01")

			if tc.recorded {
				assert.Equal(t, 1, ledger.Totals()[tc.authorName])
			} else {
				assert.Empty(t, ledger.Totals())
				assert.Empty(t, ledger.Days())
			}
		})
	}
}

func TestContributionLedgerFirstEmailWins(t *testing.T) {
	ledger := NewContributionLedger(nil)

	ledger.Record("alice", "alice@ncsu.edu", "2024-02-01")
	ledger.Record("alice", "alice@gmail.com", "2024-02-02")

	assert.Equal(t, "alice@ncsu.edu", ledger.Email("alice"))
	assert.Equal(t, 2, ledger.Totals()["alice"])
}

func TestContributionLedgerDaysSortedAndDeduplicated(t *testing.T) {
	ledger := NewContributionLedger(nil)

	ledger.Record("alice", "alice@ncsu.edu", "2024-03-02")
	ledger.Record("bob", "bob@ncsu.edu", "2024-01-10")
	ledger.Record("carol", "carol@ncsu.edu", "2024-03-02")

	assert.Equal(t, []string{"2024-01-10", "2024-03-02"}, ledger.Days())
}

func TestContributionLedgerOrderIndependent(t *testing.T) {
	forward := NewContributionLedger(nil)
	forward.Record("alice", "alice@ncsu.edu", "2024-02-01")
	forward.Record("bob", "bob@ncsu.edu", "2024-02-02")
	forward.Record("alice", "alice@ncsu.edu", "2024-02-02")

	reversed := NewContributionLedger(nil)
	reversed.Record("alice", "alice@ncsu.edu", "2024-02-02")
	reversed.Record("bob", "bob@ncsu.edu", "2024-02-02")
	reversed.Record("alice", "alice@ncsu.edu", "2024-02-01")

	assert.Equal(t, forward.Totals(), reversed.Totals())
	assert.Equal(t, forward.DailyCounts(), reversed.DailyCounts())
	assert.Equal(t, forward.Days(), reversed.Days())
}

func TestContributionLedgerDailyCountsIsACopy(t *testing.T) {
	ledger := NewContributionLedger(nil)
	ledger.Record("alice", "alice@ncsu.edu", "2024-02-01")

	counts := ledger.DailyCounts()
	counts["alice"]["2024-02-01"] = 99

	assert.Equal(t, 1, ledger.DailyCounts()["alice"]["2024-02-01"])
}

func TestContributionLedgerUnrecordedEmail(t *testing.T) {
	ledger := NewContributionLedger(nil)

	assert.Equal(t, "", ledger.Email("nobody"))
}
