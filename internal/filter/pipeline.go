// internal/filter/pipeline.go
package filter

import (
	"strings"
	"time"

	"pharmopera/internal/model"
)

// Apply narrows a record batch to the tenant's slice and then applies each
// active criterion in a fixed order. Tenant scoping always runs first; every
// later step is skipped entirely when its criterion is absent. Empty
// criteria therefore return the tenant slice unchanged, order preserved,
// and re-applying the same criteria is idempotent.
func Apply(records []model.Record, tenant string, c Criteria, now time.Time) []model.Record {
	c = Normalize(c)

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.BelongsTo(tenant) {
			out = append(out, r)
		}
	}

	if days, ok := c.dateRangeDays(); ok {
		cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
		// Records without a parseable creation timestamp cannot satisfy
		// the bound and are dropped while this filter is active.
		out = narrow(out, func(r model.Record) bool {
			return r.CreatedAt != nil && !r.CreatedAt.Before(cutoff)
		})
	}

	if set := c.statusSet(); set != nil {
		out = narrow(out, func(r model.Record) bool {
			_, ok := set[r.Status]
			return ok
		})
	}

	if c.Medication != All {
		out = narrow(out, func(r model.Record) bool {
			return r.Medication == c.Medication
		})
	}

	if c.PatientSearch != "" {
		term := strings.ToLower(c.PatientSearch)
		out = narrow(out, func(r model.Record) bool {
			return strings.Contains(strings.ToLower(r.PatientID), term)
		})
	}

	if c.CheckIn != All {
		want := c.CheckIn == "yes"
		out = narrow(out, func(r model.Record) bool {
			return r.ShouldCheckIn == want
		})
	}

	if c.TimeOfDay != All {
		out = narrow(out, func(r model.Record) bool {
			return r.Bucket() == c.TimeOfDay
		})
	}

	if c.Frequency != All {
		out = narrow(out, func(r model.Record) bool {
			return r.Frequency == c.Frequency
		})
	}

	return out
}

// narrow filters in place; records must be owned by the pipeline.
func narrow(records []model.Record, keep func(model.Record) bool) []model.Record {
	out := records[:0]
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
