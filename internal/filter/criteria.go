// internal/filter/criteria.go
package filter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"pharmopera/internal/model"
)

// All is the wildcard sentinel accepted by every criterion.
const All = "all"

// Adherence tiers.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Criteria describes one tenant's desired record subset. Absent fields
// select everything; the zero value is the identity filter once normalized.
type Criteria struct {
	DateRange     string   // number of days as a string, or "all"
	Statuses      []string // normalized; empty = no constraint
	Medication    string
	PatientSearch string
	CheckIn       string // "yes", "no" or "all"
	TimeOfDay     string // canonical bucket name or "all"
	Frequency     string
	Adherence     string // "high", "medium", "low" or "all"
}

// criteriaWire is the flat request encoding. "status" accepts either a
// single string or a list of strings.
type criteriaWire struct {
	DateRange     string          `json:"dateRange"`
	Status        json.RawMessage `json:"status"`
	Medication    string          `json:"medication"`
	PatientSearch string          `json:"patientSearch"`
	CheckIn       string          `json:"checkin"`
	TimeOfDay     string          `json:"timeOfDay"`
	Frequency     string          `json:"frequency"`
	Adherence     string          `json:"adherence"`
}

func (c *Criteria) UnmarshalJSON(data []byte) error {
	var w criteriaWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var statuses []string
	if len(w.Status) > 0 && string(w.Status) != "null" {
		if err := json.Unmarshal(w.Status, &statuses); err != nil {
			var single string
			if err := json.Unmarshal(w.Status, &single); err != nil {
				return fmt.Errorf("status must be a string or a list of strings")
			}
			statuses = []string{single}
		}
	}

	*c = Normalize(Criteria{
		DateRange:     w.DateRange,
		Statuses:      statuses,
		Medication:    w.Medication,
		PatientSearch: w.PatientSearch,
		CheckIn:       w.CheckIn,
		TimeOfDay:     w.TimeOfDay,
		Frequency:     w.Frequency,
		Adherence:     w.Adherence,
	})
	return nil
}

// Normalize folds the sentinel conventions ("all", blank, mixed case) into
// one canonical form so the pipeline never needs to case-fold again.
// Normalizing twice is a no-op.
func Normalize(c Criteria) Criteria {
	out := Criteria{
		DateRange:     sentinel(c.DateRange),
		Medication:    sentinelExact(c.Medication),
		PatientSearch: strings.TrimSpace(c.PatientSearch),
		CheckIn:       sentinel(c.CheckIn),
		TimeOfDay:     canonicalBucket(c.TimeOfDay),
		Frequency:     sentinelExact(c.Frequency),
		Adherence:     sentinel(c.Adherence),
	}

	for _, s := range c.Statuses {
		n := model.NormalizeStatus(s)
		if n == "" {
			continue
		}
		if n == All {
			out.Statuses = nil
			break
		}
		out.Statuses = append(out.Statuses, n)
	}
	return out
}

// sentinel lowercases a wildcard-bearing value; blank means "all".
func sentinel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All
	}
	return s
}

// sentinelExact keeps the value's case (exact-match criteria) but maps
// blank and any casing of "all" to the wildcard.
func sentinelExact(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return All
	}
	return s
}

// canonicalBucket maps a case-insensitive bucket name onto the fixed label
// set. Unrecognized names pass through lowered and simply match nothing.
func canonicalBucket(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == All {
		return All
	}
	for _, label := range model.BucketLabels {
		if strings.EqualFold(s, label) {
			return label
		}
	}
	return s
}

// dateRangeDays reports the active date-range bound in days, if any.
func (c Criteria) dateRangeDays() (int, bool) {
	if c.DateRange == All || c.DateRange == "" {
		return 0, false
	}
	days, err := strconv.Atoi(c.DateRange)
	if err != nil || days <= 0 {
		return 0, false
	}
	return days, true
}

// statusSet returns the accepted-status set, nil when unconstrained.
func (c Criteria) statusSet() map[string]struct{} {
	if len(c.Statuses) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(c.Statuses))
	for _, s := range c.Statuses {
		set[s] = struct{}{}
	}
	return set
}
