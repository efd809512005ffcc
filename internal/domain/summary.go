package domain

import (
	"sort"
	"time"
)

// RunSummary aggregates the state of every account after a fleet run.
// It is overwritten by each run; no history is kept.
type RunSummary struct {
	TotalAccounts  int       `json:"total_phone_numbers"`
	CompletedCount int       `json:"completed_number_count"`
	SuccessCount   int       `json:"success_number_count"`
	FailCount      int       `json:"fail_number_count"`
	FailNumbers    []string  `json:"fail_numbers"`
	Duration       string    `json:"duration"`
	Date           string    `json:"date"`
	StartedAt      time.Time `json:"-"`
	FinishedAt     time.Time `json:"-"`
}

// Summarize computes a RunSummary from the accounts as stored after a run.
// Duration is rendered as "<start> to <end>" and Date is the day the run
// finished on. Fail numbers are sorted so the stored summary does not depend on
// processing order.
func Summarize(accounts []Account, startedAt, finishedAt time.Time) RunSummary {
	s := RunSummary{
		TotalAccounts: len(accounts),
		FailNumbers:   make([]string, 0),
		Duration:      FormatTimestamp(startedAt) + " to " + FormatTimestamp(finishedAt),
		Date:          finishedAt.Format(DateLayout),
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
	}
	for _, a := range accounts {
		if a.HasFinished() {
			s.CompletedCount++
		}
		if IsClaimed(a.QuestOutcome) {
			s.SuccessCount++
			continue
		}
		s.FailNumbers = append(s.FailNumbers, a.PhoneNumber)
	}
	s.FailCount = s.TotalAccounts - s.SuccessCount
	sort.Strings(s.FailNumbers)
	return s
}
