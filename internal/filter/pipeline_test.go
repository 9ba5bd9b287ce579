package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pharmopera/internal/model"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func tp(t time.Time) *time.Time { return &t }

func clock(hour, minute int) *time.Time {
	tm := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
	return &tm
}

// fixtureRecords builds 10 records for tenant "555":
// 6 completed, 2 pending due in the future, 2 pending overdue, plus two
// rows belonging to another pharmacy.
func fixtureRecords() []model.Record {
	recs := []model.Record{}
	for i := 0; i < 6; i++ {
		recs = append(recs, model.Record{
			PharmacyID: "555",
			PatientID:  "P1",
			Medication: "Metformin",
			Frequency:  "daily",
			Status:     model.StatusCompleted,
			CreatedAt:  tp(testNow.Add(-48 * time.Hour)),
			NextDue:    tp(testNow.Add(-24 * time.Hour)),
		})
	}
	for i := 0; i < 2; i++ {
		recs = append(recs, model.Record{
			PharmacyID:   "555",
			PatientID:    "P2",
			Medication:   "Lisinopril",
			Frequency:    "weekly",
			Status:       model.StatusPending,
			ReminderTime: clock(9, 0),
			CreatedAt:    tp(testNow.Add(-24 * time.Hour)),
			NextDue:      tp(testNow.Add(24 * time.Hour)),
		})
	}
	for i := 0; i < 2; i++ {
		recs = append(recs, model.Record{
			PharmacyID:    "555",
			PatientID:     "P3",
			Medication:    "Aspirin",
			Frequency:     "daily",
			Status:        model.StatusPending,
			ReminderTime:  clock(18, 30),
			CreatedAt:     tp(testNow.Add(-240 * time.Hour)),
			NextDue:       tp(testNow.Add(-2 * time.Hour)),
			ShouldCheckIn: true,
		})
	}
	recs = append(recs,
		model.Record{PharmacyID: "777", PatientID: "X1", Status: model.StatusCompleted},
		model.Record{PharmacyID: "777", PatientID: "X2", Status: model.StatusPending},
	)
	return recs
}

func TestEmptyCriteriaIsTenantScopedIdentity(t *testing.T) {
	recs := fixtureRecords()

	got := Apply(recs, "555", Criteria{}, testNow)
	require.Len(t, got, 10)
	for _, r := range got {
		require.Equal(t, "555", r.PharmacyID)
	}
	// Order preserved
	require.Equal(t, recs[:10], got)
}

func TestTenantIdentityComparedTrimmed(t *testing.T) {
	got := Apply(fixtureRecords(), "  555  ", Criteria{}, testNow)
	require.Len(t, got, 10)

	require.Empty(t, Apply(fixtureRecords(), "000", Criteria{}, testNow))
}

func TestApplyIsIdempotent(t *testing.T) {
	criteria := Criteria{
		Statuses:  []string{"Pending"},
		Frequency: "daily",
	}

	once := Apply(fixtureRecords(), "555", criteria, testNow)
	twice := Apply(once, "555", criteria, testNow)
	require.Equal(t, once, twice)
}

func TestStatusFilter(t *testing.T) {
	got := Apply(fixtureRecords(), "555", Criteria{Statuses: []string{"completed"}}, testNow)
	require.Len(t, got, 6)
	for _, r := range got {
		require.Equal(t, model.StatusCompleted, r.Status)
	}
}

func TestStatusWildcardClearsConstraint(t *testing.T) {
	got := Apply(fixtureRecords(), "555", Criteria{Statuses: []string{"ALL"}}, testNow)
	require.Len(t, got, 10)
}

func TestDateRangeDropsUnparseableTimestamps(t *testing.T) {
	recs := []model.Record{
		{PharmacyID: "555", PatientID: "A", CreatedAt: tp(testNow.Add(-24 * time.Hour))},
		{PharmacyID: "555", PatientID: "B", CreatedAt: nil},
		{PharmacyID: "555", PatientID: "C", CreatedAt: tp(testNow.Add(-30 * 24 * time.Hour))},
	}

	got := Apply(recs, "555", Criteria{DateRange: "7"}, testNow)
	require.Len(t, got, 1)
	require.Equal(t, "A", got[0].PatientID)

	// Inactive bound keeps the record with the absent timestamp.
	got = Apply(recs, "555", Criteria{DateRange: "all"}, testNow)
	require.Len(t, got, 3)
}

func TestMedicationAndFrequencyExactMatch(t *testing.T) {
	got := Apply(fixtureRecords(), "555", Criteria{Medication: "Aspirin"}, testNow)
	require.Len(t, got, 2)

	got = Apply(fixtureRecords(), "555", Criteria{Frequency: "weekly"}, testNow)
	require.Len(t, got, 2)

	got = Apply(fixtureRecords(), "555", Criteria{Medication: "All"}, testNow)
	require.Len(t, got, 10)
}

func TestPatientSearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(fixtureRecords(), "555", Criteria{PatientSearch: "p2"}, testNow)
	require.Len(t, got, 2)
	for _, r := range got {
		require.Equal(t, "P2", r.PatientID)
	}

	require.Empty(t, Apply(fixtureRecords(), "555", Criteria{PatientSearch: "zzz"}, testNow))
}

func TestCheckInFilter(t *testing.T) {
	got := Apply(fixtureRecords(), "555", Criteria{CheckIn: "yes"}, testNow)
	require.Len(t, got, 2)

	got = Apply(fixtureRecords(), "555", Criteria{CheckIn: "no"}, testNow)
	require.Len(t, got, 8)
}

func TestTimeOfDayFilter(t *testing.T) {
	got := Apply(fixtureRecords(), "555", Criteria{TimeOfDay: "evening"}, testNow)
	require.Len(t, got, 2)
	for _, r := range got {
		require.Equal(t, model.BucketEvening, r.Bucket())
	}

	// Records without a reminder time land in Unknown.
	got = Apply(fixtureRecords(), "555", Criteria{TimeOfDay: "Unknown"}, testNow)
	require.Len(t, got, 6)
}
