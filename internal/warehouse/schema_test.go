package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRecreateSchemaOrder(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	// Children dropped first, parents created first.
	for _, table := range []string{"items", "receipts", "brands", "users"} {
		mock.ExpectExec("DROP TABLE IF EXISTS " + table).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for _, table := range []string{"users", "brands", "receipts", "items"} {
		mock.ExpectExec("CREATE TABLE " + table).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := RecreateSchema(context.Background(), db); err != nil {
		t.Fatalf("RecreateSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecreateSchemaIdempotent(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	for run := 0; run < 2; run++ {
		for _, table := range []string{"items", "receipts", "brands", "users"} {
			mock.ExpectExec("DROP TABLE IF EXISTS " + table).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
		for _, table := range []string{"users", "brands", "receipts", "items"} {
			mock.ExpectExec("CREATE TABLE " + table).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
	}

	for run := 0; run < 2; run++ {
		if err := RecreateSchema(context.Background(), db); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecreateSchemaStopsOnFailure(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("DROP TABLE IF EXISTS items").
		WillReturnError(errors.New("permission denied"))

	err := RecreateSchema(context.Background(), db)
	if err == nil {
		t.Fatal("expected error from failed drop")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("statements after the failure: %v", err)
	}
}
