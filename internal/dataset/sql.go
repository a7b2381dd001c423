package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/miradorstack/spacex-dash/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // register the pure-Go sqlite driver
)

const (
	sqliteDriver   = "sqlite"
	postgresDriver = "pgx"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the sql.Open function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

// queryTable reads every row of table, resolving columns by name the same way
// CSV headers are resolved.
func queryTable(ctx context.Context, driver, dsn, table string) ([]models.LaunchRecord, error) {
	openMu.Lock()
	db, err := sqlOpen(driver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	defer db.Close()

	// table is validated against tablePattern by ParseSource.
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cols, err := resolveColumns(names)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}

	cells := make([]sql.NullString, len(names))
	dest := make([]any, len(names))
	for i := range cells {
		dest[i] = &cells[i]
	}
	row := make([]string, len(names))

	var records []models.LaunchRecord
	for n := 1; rows.Next(); n++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", table, n, err)
		}
		for i, c := range cells {
			row[i] = c.String
		}
		rec, err := cols.record(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table, n, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
