package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// Loader performs batched inserts of normalized tables.
type Loader struct {
	db *sql.DB
}

func NewLoader(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// LoadResult is the outcome of one table load.
type LoadResult struct {
	Table    string
	Rows     int
	Inserted int
	Err      error
}

// Load inserts all rows of a table in one multi-row parameterized INSERT.
// Null coercion per column kind happens here: numeric NULLs become 0,
// boolean NULLs become false, everything else stays SQL NULL. An insert
// failure is logged with a sample row and returned in the result, never
// raised; the pipeline moves on to the next table.
func (l *Loader) Load(ctx context.Context, t Table) LoadResult {
	res := LoadResult{Table: t.Name, Rows: len(t.Rows)}

	if len(t.Rows) == 0 {
		log.Printf("[warehouse] no data to insert for table %s", t.Name)
		return res
	}

	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Name
	}

	var placeholders strings.Builder
	args := make([]any, 0, len(t.Rows)*len(t.Columns))
	n := 1
	for i, row := range t.Rows {
		if i > 0 {
			placeholders.WriteString(", ")
		}
		placeholders.WriteByte('(')
		for j, col := range t.Columns {
			if j > 0 {
				placeholders.WriteString(", ")
			}
			fmt.Fprintf(&placeholders, "$%d", n)
			n++
			args = append(args, coerce(row[j], col.Kind))
		}
		placeholders.WriteByte(')')
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		t.Name, strings.Join(cols, ", "), placeholders.String())

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		log.Printf("[warehouse] insert into %s failed: %v (sample row: %v)", t.Name, err, t.Rows[0])
		res.Err = err
		return res
	}

	res.Inserted = len(t.Rows)
	log.Printf("[warehouse] inserted %d rows into %s", res.Inserted, t.Name)
	return res
}

func coerce(v any, kind ColumnKind) any {
	if v != nil {
		return v
	}
	switch kind {
	case KindNumeric:
		return 0
	case KindBool:
		return false
	default:
		return nil
	}
}
