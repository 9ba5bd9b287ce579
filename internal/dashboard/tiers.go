// internal/dashboard/tiers.go
package dashboard

import (
	"time"

	"pharmopera/internal/filter"
	"pharmopera/internal/model"
)

// TierFilter keeps only records belonging to patients whose individual
// adherence rate falls in the requested tier. The wildcard (or blank) tier
// is the identity.
func TierFilter(records []model.Record, tier string, now time.Time) []model.Record {
	if tier == "" || tier == filter.All {
		return records
	}

	rates := patientRates(records, now)
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if tierOf(rates[r.PatientID]) == tier {
			out = append(out, r)
		}
	}
	return out
}

// patientRates computes the completed/(completed+missed) percentage per
// patient. Patients with no due reminders score 0.
func patientRates(records []model.Record, now time.Time) map[string]float64 {
	type tally struct{ completed, missed int }
	byPatient := make(map[string]*tally)

	for _, r := range records {
		t := byPatient[r.PatientID]
		if t == nil {
			t = &tally{}
			byPatient[r.PatientID] = t
		}
		if r.Status == model.StatusCompleted {
			t.completed++
		} else if isMissed(r, now) {
			t.missed++
		}
	}

	rates := make(map[string]float64, len(byPatient))
	for id, t := range byPatient {
		relevant := t.completed + t.missed
		if relevant > 0 {
			rates[id] = float64(t.completed) / float64(relevant) * 100
		} else {
			rates[id] = 0
		}
	}
	return rates
}

// tierOf bands a rate: high >80, medium 60-80 inclusive, low <60.
func tierOf(rate float64) string {
	switch {
	case rate > 80:
		return filter.TierHigh
	case rate >= 60:
		return filter.TierMedium
	default:
		return filter.TierLow
	}
}
