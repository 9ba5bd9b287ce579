// internal/source/source.go
package source

import (
	"context"

	"pharmopera/internal/model"
)

// Fetcher retrieves the full raw batch from one named tab of the upstream
// record store. Callers treat a failure as "no data this cycle".
type Fetcher interface {
	Fetch(ctx context.Context, tab string) ([]model.RawRow, error)
}
