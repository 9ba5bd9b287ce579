// internal/source/postgres.go
package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"pharmopera/internal/model"
)

// Postgres serves record tabs out of identically-named tables.
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// Fetch reads every row of the tab's table in insertion order, stringifying
// each column so the batch stays a flat string-keyed mapping.
func (p *Postgres) Fetch(ctx context.Context, tab string) ([]model.RawRow, error) {
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY id`, pq.QuoteIdentifier(tab))

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch tab %s: %w", tab, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("fetch tab %s: %w", tab, err)
	}

	var batch []model.RawRow
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan tab %s: %w", tab, err)
		}

		row := make(model.RawRow, len(cols))
		for i, col := range cols {
			row[col] = vals[i].String
		}
		batch = append(batch, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch tab %s: %w", tab, err)
	}
	return batch, nil
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}
