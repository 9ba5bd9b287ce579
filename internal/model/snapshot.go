// internal/model/snapshot.go
package model

// Series is a pair of parallel label/value sequences feeding one chart.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// KPICards holds the headline numbers. AdherenceRate is rendered to one
// decimal place as a string; everything else is a plain number.
type KPICards struct {
	TotalPatients    int    `json:"total_patients"`
	AdherenceRate    string `json:"adherence_rate"`
	RemindersSent    int    `json:"reminders_sent"`
	PendingReminders int    `json:"pending_reminders"`
}

// CheckInRow is one row of the check-in worklist table.
type CheckInRow struct {
	PatientID      string `json:"patient_identifier"`
	PatientPhone   string `json:"patient_phone"`
	Medication     string `json:"medication_name"`
	Status         string `json:"status"`
	CheckInMessage string `json:"check_in_message"`
}

// DashboardSnapshot is the complete derived dashboard output for one tenant
// under one set of filter criteria. Recomputed fresh on every request,
// never mutated in place.
type DashboardSnapshot struct {
	KPICards            KPICards     `json:"kpi_cards"`
	AdherenceTrend      Series       `json:"adherence_trend"`
	ReminderStatus      Series       `json:"reminder_status"`
	TopMedications      Series       `json:"top_medications"`
	DosageDistribution  Series       `json:"dosage_distribution"`
	RemindersByTime     Series       `json:"reminders_by_time"`
	UpcomingVsCompleted Series       `json:"upcoming_vs_completed"`
	CheckInTable        []CheckInRow `json:"check_in_table"`
}

func emptySeries() Series {
	return Series{Labels: []string{}, Data: []float64{}}
}

// EmptySnapshot is the well-formed zero-value snapshot: all counts zero, all
// series empty, except the time-of-day breakdown which always carries its
// four fixed labels.
func EmptySnapshot() DashboardSnapshot {
	return DashboardSnapshot{
		KPICards: KPICards{
			AdherenceRate: "0.0",
		},
		AdherenceTrend:     emptySeries(),
		ReminderStatus:     emptySeries(),
		TopMedications:     emptySeries(),
		DosageDistribution: emptySeries(),
		RemindersByTime: Series{
			Labels: append([]string{}, BucketLabels...),
			Data:   []float64{0, 0, 0, 0},
		},
		UpcomingVsCompleted: emptySeries(),
		CheckInTable:        []CheckInRow{},
	}
}
