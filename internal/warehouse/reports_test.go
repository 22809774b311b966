package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectReportQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("LIMIT 5").
		WillReturnRows(sqlmock.NewRows([]string{"name", "receipt_count"}).
			AddRow("Knorr", 42).
			AddRow("Doritos", 30))
	mock.ExpectQuery("ranked_brands").
		WillReturnRows(sqlmock.NewRows([]string{"brand_name", "month", "receipt_count", "brand_rank"}).
			AddRow("Knorr", "2021-01", 42, 1))
	mock.ExpectQuery(`AVG\(total_spent\)`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "avg"}).
			AddRow("ACCEPTED", 80.85).
			AddRow("REJECTED", 23.33))
	mock.ExpectQuery(`SUM\(i.quantity_purchased\)`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "items"}).
			AddRow("ACCEPTED", 8184))
	mock.ExpectQuery("total_spend").
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_spend"}).
			AddRow("Knorr", 1234.56))
	mock.ExpectQuery("txn_count").
		WillReturnRows(sqlmock.NewRows([]string{"name", "txn_count"}).
			AddRow("Knorr", 99))
}

func TestRunAll(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	expectReportQueries(mock)

	results := NewRunner(db).RunAll(context.Background())

	if len(results) != 6 {
		t.Fatalf("got %d results, want 6", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("query %q failed: %v", r.Name, r.Err)
		}
	}
	if results[0].Rows != 2 {
		t.Errorf("top brands rows = %d, want 2", results[0].Rows)
	}
	if results[4].Rows != 1 || results[5].Rows != 1 {
		t.Errorf("single-row queries returned %d and %d rows", results[4].Rows, results[5].Rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRunAllQueryFailuresAreIndependent(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("LIMIT 5").
		WillReturnError(errors.New(`relation "brands" does not exist`))
	mock.ExpectQuery("ranked_brands").
		WillReturnRows(sqlmock.NewRows([]string{"brand_name", "month", "receipt_count", "brand_rank"}))
	mock.ExpectQuery(`AVG\(total_spent\)`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "avg"}))
	mock.ExpectQuery(`SUM\(i.quantity_purchased\)`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "items"}))
	mock.ExpectQuery("total_spend").
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_spend"}))
	mock.ExpectQuery("txn_count").
		WillReturnRows(sqlmock.NewRows([]string{"name", "txn_count"}))

	results := NewRunner(db).RunAll(context.Background())

	if len(results) != 6 {
		t.Fatalf("got %d results, want 6 (one failure must not stop the rest)", len(results))
	}
	if results[0].Err == nil {
		t.Error("first query should have failed")
	}
	for _, r := range results[1:] {
		if r.Err != nil {
			t.Errorf("query %q failed: %v", r.Name, r.Err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSingleRowQueriesTolerateEmptyWarehouse(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("total_spend").
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_spend"}))

	rows, err := NewRunner(db).topBrandBySpend(context.Background())
	if err != nil {
		t.Fatalf("no rows should not be an error, got %v", err)
	}
	if rows != 0 {
		t.Errorf("rows = %d, want 0", rows)
	}
}
