package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailsUnknownMetricIsEmpty(t *testing.T) {
	rows := Details(scenarioRecords(), "no_such_metric", testNow)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestDetailsPendingReminders(t *testing.T) {
	rows := Details(scenarioRecords(), "pending_reminders", testNow)
	require.Len(t, rows, 4)
	for _, row := range rows {
		require.Equal(t, "pending", row["status"])
		require.Contains(t, row, "next_due")
	}
}

func TestDetailsTotalPatientsAreDistinct(t *testing.T) {
	rows := Details(scenarioRecords(), "total_patients", testNow)
	require.Len(t, rows, 3)
	require.Equal(t, "P1", rows[0]["patient_identifier"])
	require.Equal(t, "6", rows[0]["reminders"])
	require.Equal(t, "+15550103", rows[2]["patient_phone"])
}

func TestDetailsAdherenceRateMarksOutcome(t *testing.T) {
	rows := Details(scenarioRecords(), "adherence_rate", testNow)
	require.Len(t, rows, 8)

	outcomes := map[string]int{}
	for _, row := range rows {
		outcomes[row["outcome"]]++
	}
	require.Equal(t, 6, outcomes["completed"])
	require.Equal(t, 2, outcomes["missed"])

	require.Equal(t, rows, Details(scenarioRecords(), "reminders_sent", testNow))
}

func TestDetailsPrefixedMetrics(t *testing.T) {
	recs := scenarioRecords()

	rows := Details(recs, "medication_Aspirin", testNow)
	require.Len(t, rows, 2)

	rows = Details(recs, "status_completed", testNow)
	require.Len(t, rows, 6)

	rows = Details(recs, "time_Morning", testNow)
	require.Len(t, rows, 6)

	rows = Details(recs, "time_unknown", testNow)
	require.Len(t, rows, 2)

	rows = Details(recs, "completion_upcoming", testNow)
	require.Len(t, rows, 4)

	rows = Details(recs, "completion_completed", testNow)
	require.Len(t, rows, 6)

	require.Empty(t, Details(recs, "medication_Nothing", testNow))
}
