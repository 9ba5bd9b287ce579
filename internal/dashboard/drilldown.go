// internal/dashboard/drilldown.go
package dashboard

import (
	"strconv"
	"strings"
	"time"

	"pharmopera/internal/model"
)

// DetailRow is one flat drill-down row. Field sets vary per metric; the
// client renders headers from the first row's keys.
type DetailRow = map[string]string

// Details returns the rows behind a named metric for an already-filtered
// tenant slice. Unknown metric keys yield an empty sequence, not an error.
func Details(records []model.Record, metric string, now time.Time) []DetailRow {
	rows := []DetailRow{}

	switch {
	case metric == "pending_reminders":
		for _, r := range records {
			if r.Status == model.StatusPending || r.Status == model.StatusUpcoming {
				rows = append(rows, reminderRow(r))
			}
		}

	case metric == "total_patients":
		rows = patientRows(records)

	case metric == "adherence_rate" || metric == "reminders_sent":
		for _, r := range records {
			done := r.Status == model.StatusCompleted
			if !done && !isMissed(r, now) {
				continue
			}
			row := reminderRow(r)
			if done {
				row["outcome"] = "completed"
			} else {
				row["outcome"] = "missed"
			}
			rows = append(rows, row)
		}

	case strings.HasPrefix(metric, "medication_"):
		name := strings.TrimPrefix(metric, "medication_")
		for _, r := range records {
			if r.Medication == name {
				rows = append(rows, reminderRow(r))
			}
		}

	case strings.HasPrefix(metric, "status_"):
		status := model.NormalizeStatus(strings.TrimPrefix(metric, "status_"))
		for _, r := range records {
			if r.Status == status {
				rows = append(rows, reminderRow(r))
			}
		}

	case strings.HasPrefix(metric, "time_"):
		bucket := strings.TrimPrefix(metric, "time_")
		for _, r := range records {
			if strings.EqualFold(r.Bucket(), bucket) {
				rows = append(rows, reminderRow(r))
			}
		}

	case metric == "completion_upcoming":
		for _, r := range records {
			if r.Status == model.StatusPending || r.Status == model.StatusUpcoming {
				rows = append(rows, reminderRow(r))
			}
		}

	case metric == "completion_completed":
		for _, r := range records {
			if r.Status == model.StatusCompleted {
				rows = append(rows, reminderRow(r))
			}
		}
	}

	return rows
}

func reminderRow(r model.Record) DetailRow {
	return DetailRow{
		"patient_identifier": r.PatientID,
		"medication_name":    r.Medication,
		"dosage":             r.Dosage,
		"status":             r.Status,
		"next_due":           formatInstant(r.NextDue),
	}
}

// patientRows emits one row per distinct patient, first-seen order, with the
// contact reference from the patient's first record.
func patientRows(records []model.Record) []DetailRow {
	type patient struct {
		phone string
		count int
	}
	byID := make(map[string]*patient)
	var order []string

	for _, r := range records {
		p := byID[r.PatientID]
		if p == nil {
			p = &patient{phone: r.PatientPhone}
			byID[r.PatientID] = p
			order = append(order, r.PatientID)
		}
		p.count++
	}

	rows := make([]DetailRow, 0, len(order))
	for _, id := range order {
		p := byID[id]
		rows = append(rows, DetailRow{
			"patient_identifier": id,
			"patient_phone":      p.phone,
			"reminders":          strconv.Itoa(p.count),
		})
	}
	return rows
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
