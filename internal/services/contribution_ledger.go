package services

import "sort"

// ContributionLedger accumulates commit counts per author per day for one
// team aggregation run. It is the single sink shared by all of the team's
// links; each run owns its own ledger, so no synchronization is needed.
//
// Authors whose name or email appears in the exclusion set are never
// recorded. Accumulation is commutative: totals and the day list do not
// depend on the order commits arrive in.
type ContributionLedger struct {
	excluded map[string]struct{}
	emails   map[string]string
	counts   map[string]map[string]int
	days     map[string]struct{}
}

// NewContributionLedger creates a ledger with the given exclusion identities
func NewContributionLedger(excluded []string) *ContributionLedger {
	set := make(map[string]struct{}, len(excluded))
	for _, identity := range excluded {
		set[identity] = struct{}{}
	}
	return &ContributionLedger{
		excluded: set,
		emails:   make(map[string]string),
		counts:   make(map[string]map[string]int),
		days:     make(map[string]struct{}),
	}
}

// Record counts one commit for the author on the given day. Excluded
// identities are discarded silently. The first email seen for an author
// name wins; later emails for the same name are ignored.
func (l *ContributionLedger) Record(authorName, authorEmail, day string) {
	if l.isExcluded(authorName) || l.isExcluded(authorEmail) {
		return
	}

	if _, seen := l.emails[authorName]; !seen {
		l.emails[authorName] = authorEmail
	}
	if l.counts[authorName] == nil {
		l.counts[authorName] = make(map[string]int)
	}
	l.counts[authorName][day]++
	l.days[day] = struct{}{}
}

// Email returns the first-seen email for the author, or empty if unrecorded
func (l *ContributionLedger) Email(authorName string) string {
	return l.emails[authorName]
}

// Totals returns each author's commit count summed across all days
func (l *ContributionLedger) Totals() map[string]int {
	totals := make(map[string]int, len(l.counts))
	for author, byDay := range l.counts {
		sum := 0
		for _, count := range byDay {
			sum += count
		}
		totals[author] = sum
	}
	return totals
}

// DailyCounts returns a copy of the per-author per-day commit counts
func (l *ContributionLedger) DailyCounts() map[string]map[string]int {
	counts := make(map[string]map[string]int, len(l.counts))
	for author, byDay := range l.counts {
		copied := make(map[string]int, len(byDay))
		for day, count := range byDay {
			copied[day] = count
		}
		counts[author] = copied
	}
	return counts
}

// Days returns the distinct days with commits, ascending and deduplicated
func (l *ContributionLedger) Days() []string {
	days := make([]string, 0, len(l.days))
	for day := range l.days {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func (l *ContributionLedger) isExcluded(identity string) bool {
	_, ok := l.excluded[identity]
	return ok
}
