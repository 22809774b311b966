package warehouse

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func columnRows(cols []string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, c := range cols {
		rows.AddRow(c)
	}
	return rows
}

func TestValidateSchemaAllPresent(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	expected := ExpectedColumns()
	for _, table := range []string{"users", "brands", "receipts", "items"} {
		mock.ExpectQuery("information_schema.columns").
			WithArgs(table).
			WillReturnRows(columnRows(expected[table]))
	}

	checks := ValidateSchema(context.Background(), db)

	if len(checks) != 4 {
		t.Fatalf("got %d checks, want 4", len(checks))
	}
	for _, c := range checks {
		if c.Err != nil {
			t.Errorf("table %s: %v", c.Table, c.Err)
		}
		if len(c.Missing) != 0 {
			t.Errorf("table %s missing %v, want none", c.Table, c.Missing)
		}
	}
}

func TestValidateSchemaReportsMissingColumns(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	expected := ExpectedColumns()
	mock.ExpectQuery("information_schema.columns").
		WithArgs("users").
		WillReturnRows(columnRows(expected["users"]))
	mock.ExpectQuery("information_schema.columns").
		WithArgs("brands").
		WillReturnRows(columnRows(expected["brands"]))
	// receipts live schema lost status and total_spent
	trimmed := expected["receipts"][:len(expected["receipts"])-2]
	mock.ExpectQuery("information_schema.columns").
		WithArgs("receipts").
		WillReturnRows(columnRows(trimmed))
	mock.ExpectQuery("information_schema.columns").
		WithArgs("items").
		WillReturnRows(columnRows(expected["items"]))

	checks := ValidateSchema(context.Background(), db)

	var receipts *TableCheck
	for i := range checks {
		if checks[i].Table == "receipts" {
			receipts = &checks[i]
		}
	}
	if receipts == nil {
		t.Fatal("no check for receipts")
	}
	if len(receipts.Missing) != 2 {
		t.Fatalf("Missing = %v, want status and total_spent", receipts.Missing)
	}
	if receipts.Missing[0] != "status" || receipts.Missing[1] != "total_spent" {
		t.Errorf("Missing = %v", receipts.Missing)
	}
}

func TestExpectedColumnsMatchSchema(t *testing.T) {
	expected := ExpectedColumns()

	want := map[string]int{"users": 6, "brands": 8, "receipts": 14, "items": 7}
	for table, n := range want {
		if len(expected[table]) != n {
			t.Errorf("%s has %d expected columns, want %d", table, len(expected[table]), n)
		}
	}
	if expected["users"][0] != "user_id" || expected["items"][0] != "item_id" {
		t.Errorf("primary keys not first: %v / %v", expected["users"][0], expected["items"][0])
	}
}
