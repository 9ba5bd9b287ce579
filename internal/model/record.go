// internal/model/record.go
package model

import (
	"strings"
	"time"
)

// Normalized status values. Anything else passes through as-is.
const (
	StatusPending   = "pending"
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
)

// Time-of-day buckets, in the fixed chart order.
const (
	BucketMorning   = "Morning"
	BucketAfternoon = "Afternoon"
	BucketEvening   = "Evening"
	BucketUnknown   = "Unknown"
)

// BucketLabels is the fixed label order of the time-of-day breakdown.
var BucketLabels = []string{BucketMorning, BucketAfternoon, BucketEvening, BucketUnknown}

// RawRow is one untyped row from the data source, keyed by column name.
type RawRow map[string]string

// Record is one parsed reminder row belonging to a pharmacy and a patient.
// Optional fields are nil when missing or unparseable.
type Record struct {
	PharmacyID     string
	PatientID      string
	PatientPhone   string
	Medication     string
	Dosage         string
	Frequency      string
	Status         string     // trimmed + lowercased
	ReminderTime   *time.Time // wall-clock HH:MM, date part is meaningless
	CreatedAt      *time.Time
	NextDue        *time.Time
	ShouldCheckIn  bool
	CheckInMessage string
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseRecord builds a Record from a raw row. Unparseable optional fields
// come back absent, never an error.
func ParseRecord(row RawRow) Record {
	return Record{
		PharmacyID:     strings.TrimSpace(row["pharmacy_id"]),
		PatientID:      row["patient_identifier"],
		PatientPhone:   row["patient_phone"],
		Medication:     row["medication_name"],
		Dosage:         row["dosage"],
		Frequency:      row["frequency"],
		Status:         NormalizeStatus(row["status"]),
		ReminderTime:   parseClock(row["reminderTime"]),
		CreatedAt:      parseTimestamp(row["time_stamp"]),
		NextDue:        parseTimestamp(row["next_reminder_time"]),
		ShouldCheckIn:  strings.EqualFold(strings.TrimSpace(row["should_check_in"]), "yes"),
		CheckInMessage: row["check_in_message"],
	}
}

// ParseRecords parses a full raw batch in order.
func ParseRecords(rows []RawRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, ParseRecord(row))
	}
	return records
}

// NormalizeStatus trims and lowercases a raw status value.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseClock(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// TimeBucket classifies a wall-clock time into a fixed bucket.
// Boundaries are half-open: hour 12 is Afternoon, hour 17 is Evening.
func TimeBucket(t *time.Time) string {
	if t == nil {
		return BucketUnknown
	}
	switch h := t.Hour(); {
	case h < 12:
		return BucketMorning
	case h < 17:
		return BucketAfternoon
	default:
		return BucketEvening
	}
}

// Bucket returns the record's time-of-day bucket derived from ReminderTime.
func (r Record) Bucket() string {
	return TimeBucket(r.ReminderTime)
}

// BelongsTo reports whether the record belongs to the given tenant.
// Tenant identity is always compared trimmed.
func (r Record) BelongsTo(tenant string) bool {
	return r.PharmacyID == strings.TrimSpace(tenant)
}
