package warehouse

import (
	"context"
	"database/sql"
	"fmt"
)

// TableCheck reports the schema validation outcome for one table.
type TableCheck struct {
	Table   string
	Missing []string
	Err     error
}

// ExpectedColumns returns the column set the loader expects per table,
// derived from the same definitions the builders use.
func ExpectedColumns() map[string][]string {
	expected := make(map[string][]string, 4)
	for table, cols := range map[string][]Column{
		"users":    usersColumns,
		"brands":   brandsColumns,
		"receipts": receiptsColumns,
		"items":    itemsColumns,
	} {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Name
		}
		expected[table] = names
	}
	return expected
}

// ValidateSchema compares the live column set of each table against the
// expected set and reports missing columns. Read-only.
func ValidateSchema(ctx context.Context, db *sql.DB) []TableCheck {
	tables := []string{"users", "brands", "receipts", "items"}
	expected := ExpectedColumns()

	checks := make([]TableCheck, 0, len(tables))
	for _, table := range tables {
		check := TableCheck{Table: table}
		actual, err := liveColumns(ctx, db, table)
		if err != nil {
			check.Err = err
			checks = append(checks, check)
			continue
		}
		for _, col := range expected[table] {
			if _, ok := actual[col]; !ok {
				check.Missing = append(check.Missing, col)
			}
		}
		checks = append(checks, check)
	}
	return checks
}

func liveColumns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("columns for %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column for %s: %w", table, err)
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}
