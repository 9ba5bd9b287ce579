// internal/dashboard/aggregate.go
package dashboard

import (
	"fmt"
	"sort"
	"time"

	"pharmopera/internal/filter"
	"pharmopera/internal/model"
)

const dateLayout = "2006-01-02"

// Aggregate derives a full dashboard snapshot from a record set that is
// already scoped to one tenant and already filtered. An empty input yields
// the zero-value snapshot, not an error.
func Aggregate(records []model.Record, now time.Time) model.DashboardSnapshot {
	if len(records) == 0 {
		return model.EmptySnapshot()
	}

	snap := model.EmptySnapshot()

	var completed, missed int
	patients := make(map[string]struct{})
	statuses := newCounter()
	medications := newCounter()
	dosages := newCounter()
	buckets := newCounter()

	for _, r := range records {
		patients[r.PatientID] = struct{}{}
		statuses.add(r.Status)
		medications.add(r.Medication)
		dosages.add(r.Dosage)
		buckets.add(r.Bucket())

		if r.Status == model.StatusCompleted {
			completed++
		} else if isMissed(r, now) {
			missed++
		}

		if r.ShouldCheckIn {
			snap.CheckInTable = append(snap.CheckInTable, model.CheckInRow{
				PatientID:      r.PatientID,
				PatientPhone:   r.PatientPhone,
				Medication:     r.Medication,
				Status:         r.Status,
				CheckInMessage: r.CheckInMessage,
			})
		}
	}

	relevant := completed + missed
	rate := 0.0
	if relevant > 0 {
		rate = float64(completed) / float64(relevant) * 100
	}

	pending := statuses.get(model.StatusPending) + statuses.get(model.StatusUpcoming)

	snap.KPICards = model.KPICards{
		TotalPatients:    len(patients),
		AdherenceRate:    fmt.Sprintf("%.1f", rate),
		RemindersSent:    relevant,
		PendingReminders: pending,
	}

	snap.AdherenceTrend = adherenceTrend(records, now)
	snap.ReminderStatus = statuses.series(0)
	snap.TopMedications = medications.series(5)
	snap.DosageDistribution = dosages.series(5)

	for i, label := range model.BucketLabels {
		snap.RemindersByTime.Data[i] = float64(buckets.get(label))
	}

	snap.UpcomingVsCompleted = model.Series{
		Labels: []string{"Upcoming", "Completed"},
		Data:   []float64{float64(pending), float64(completed)},
	}

	return snap
}

// Build runs the full request path for one tenant: filter pipeline, optional
// adherence-tier narrowing, then aggregation.
func Build(records []model.Record, tenant string, c filter.Criteria, now time.Time) model.DashboardSnapshot {
	c = filter.Normalize(c)
	scoped := filter.Apply(records, tenant, c, now)
	scoped = TierFilter(scoped, c.Adherence, now)
	return Aggregate(scoped, now)
}

// isMissed reports whether a reminder counts as missed: not completed and
// due strictly before the evaluation instant. Records without a parseable
// next-due instant are never missed.
func isMissed(r model.Record, now time.Time) bool {
	return r.Status != model.StatusCompleted && r.NextDue != nil && r.NextDue.Before(now)
}

// adherenceTrend groups the completed-or-missed records by the calendar date
// of their next-due instant and emits the per-day completion percentage,
// ordered by date ascending. Rows without a next-due instant cannot be
// bucketed and are skipped.
func adherenceTrend(records []model.Record, now time.Time) model.Series {
	type group struct{ completed, total int }
	byDate := make(map[string]*group)

	for _, r := range records {
		done := r.Status == model.StatusCompleted
		if !done && !isMissed(r, now) {
			continue
		}
		if r.NextDue == nil {
			continue
		}
		key := r.NextDue.Format(dateLayout)
		g := byDate[key]
		if g == nil {
			g = &group{}
			byDate[key] = g
		}
		g.total++
		if done {
			g.completed++
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	data := make([]float64, 0, len(dates))
	for _, d := range dates {
		g := byDate[d]
		data = append(data, float64(g.completed)/float64(g.total)*100)
	}
	return model.Series{Labels: dates, Data: data}
}

// counter counts string values and remembers first-seen order so that ties
// sort deterministically within one computation.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) get(key string) int {
	return c.counts[key]
}

// series orders labels by descending count (first-seen order breaks ties)
// and truncates to limit when limit > 0. Never padded.
func (c *counter) series(limit int) model.Series {
	labels := append([]string{}, c.order...)
	sort.SliceStable(labels, func(i, j int) bool {
		return c.counts[labels[i]] > c.counts[labels[j]]
	})
	if limit > 0 && len(labels) > limit {
		labels = labels[:limit]
	}

	data := make([]float64, len(labels))
	for i, label := range labels {
		data[i] = float64(c.counts[label])
	}
	return model.Series{Labels: labels, Data: data}
}
