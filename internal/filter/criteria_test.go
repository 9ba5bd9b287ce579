package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSentinels(t *testing.T) {
	c := Normalize(Criteria{
		DateRange:     "  ALL ",
		Statuses:      []string{" Completed ", "", "Pending"},
		Medication:    "  ",
		PatientSearch: "  Pat ",
		CheckIn:       "YES",
		TimeOfDay:     "afternoon",
		Frequency:     "All",
		Adherence:     "High",
	})

	require.Equal(t, All, c.DateRange)
	require.Equal(t, []string{"completed", "pending"}, c.Statuses)
	require.Equal(t, All, c.Medication)
	require.Equal(t, "Pat", c.PatientSearch)
	require.Equal(t, "yes", c.CheckIn)
	require.Equal(t, "Afternoon", c.TimeOfDay)
	require.Equal(t, All, c.Frequency)
	require.Equal(t, TierHigh, c.Adherence)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	c := Normalize(Criteria{Statuses: []string{"Upcoming"}, TimeOfDay: "MORNING"})
	require.Equal(t, c, Normalize(c))
}

func TestStatusWildcardDropsWholeSet(t *testing.T) {
	c := Normalize(Criteria{Statuses: []string{"completed", "All"}})
	require.Nil(t, c.Statuses)
}

func TestUnmarshalStatusAsString(t *testing.T) {
	var c Criteria
	err := json.Unmarshal([]byte(`{"status":"Completed","dateRange":"30"}`), &c)
	require.NoError(t, err)
	require.Equal(t, []string{"completed"}, c.Statuses)
	require.Equal(t, "30", c.DateRange)
}

func TestUnmarshalStatusAsList(t *testing.T) {
	var c Criteria
	err := json.Unmarshal([]byte(`{"status":["pending","upcoming"]}`), &c)
	require.NoError(t, err)
	require.Equal(t, []string{"pending", "upcoming"}, c.Statuses)
}

func TestUnmarshalEmptyObjectSelectsAll(t *testing.T) {
	var c Criteria
	err := json.Unmarshal([]byte(`{}`), &c)
	require.NoError(t, err)
	require.Equal(t, All, c.DateRange)
	require.Nil(t, c.Statuses)
	require.Equal(t, All, c.Medication)
	require.Equal(t, All, c.CheckIn)
	require.Equal(t, All, c.TimeOfDay)
	require.Equal(t, All, c.Frequency)
	require.Equal(t, All, c.Adherence)
}

func TestUnmarshalRejectsMalformedStatus(t *testing.T) {
	var c Criteria
	err := json.Unmarshal([]byte(`{"status":42}`), &c)
	require.Error(t, err)
}

func TestDateRangeDays(t *testing.T) {
	_, ok := Normalize(Criteria{DateRange: "all"}).dateRangeDays()
	require.False(t, ok)

	_, ok = Normalize(Criteria{DateRange: "soon"}).dateRangeDays()
	require.False(t, ok)

	days, ok := Normalize(Criteria{DateRange: "30"}).dateRangeDays()
	require.True(t, ok)
	require.Equal(t, 30, days)
}
