package domain

import (
	"fmt"
	"sort"
)

// DailyStatus reports how many accounts finished on a given date and how
// many of them currently hold a successful network test.
type DailyStatus struct {
	Date             string   `json:"date"`
	TotalNumbers     int      `json:"total_numbers"`
	CompletedNumbers int      `json:"completed_numbers"`
	SuccessCount     int      `json:"success_count"`
	FailCount        int      `json:"fail_count"`
	FailNumbers      []string `json:"fail_numbers"`
}

// StatusForDate builds the DailyStatus of accounts for date (YYYY-MM-DD).
func StatusForDate(accounts []Account, date string) DailyStatus {
	s := DailyStatus{
		Date:         date,
		TotalNumbers: len(accounts),
		FailNumbers:  make([]string, 0),
	}
	for _, a := range accounts {
		if a.CompletedOn(date) {
			s.CompletedNumbers++
		}
		if a.NetworkTestOutcome == NetworkTestSuccess {
			s.SuccessCount++
			continue
		}
		s.FailCount++
		s.FailNumbers = append(s.FailNumbers, a.PhoneNumber)
	}
	sort.Strings(s.FailNumbers)
	return s
}

// ServiceStatus is the per-carrier status listing keyed by the Status node's
// keys. Every value is a string.
type ServiceStatus map[string]map[string]string

// EnrichServiceStatus stringifies each entry of status and adds the api and
// name fields of the matching apis entry, or "N/A" when absent. Entries that
// are not objects are skipped.
func EnrichServiceStatus(status, apis map[string]any) ServiceStatus {
	out := make(ServiceStatus, len(status))
	for key, raw := range status {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		entry := make(map[string]string, len(fields)+2)
		for k, v := range fields {
			entry[k] = fmt.Sprint(v)
		}
		info, _ := apis[key].(map[string]any)
		entry["api"] = stringOr(info, "api", "N/A")
		entry["name"] = stringOr(info, "name", "N/A")
		out[key] = entry
	}
	return out
}

func stringOr(m map[string]any, key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	return fmt.Sprint(v)
}
