package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/receipt-warehouse/internal/warehouse"
)

type checkResult struct {
	Name   string
	Passed bool
	Detail string
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "FATAL: DATABASE_URL is required")
		os.Exit(1)
	}

	fmt.Println("=========================================================")
	fmt.Println(" Receipt Warehouse Schema Validation")
	fmt.Println("=========================================================")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Database connection established")
	fmt.Println()

	var results []checkResult

	for _, check := range warehouse.ValidateSchema(ctx, db) {
		results = append(results, schemaResult(check))
	}

	fmt.Println("Re-running stakeholder queries as a smoke test...")
	fmt.Println()
	for _, q := range warehouse.NewRunner(db).RunAll(ctx) {
		r := checkResult{Name: fmt.Sprintf("query: %s", q.Name), Passed: q.Err == nil}
		if q.Err != nil {
			r.Detail = fmt.Sprintf("failed: %v", q.Err)
		} else {
			r.Detail = fmt.Sprintf("%d row(s)", q.Rows)
		}
		results = append(results, r)
	}

	fmt.Println()
	fmt.Println("=========================================================")
	fmt.Println(" VALIDATION REPORT")
	fmt.Println("=========================================================")

	allPassed := true
	for i, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("  [%d] %-45s %s\n", i+1, r.Name, status)
		if r.Detail != "" {
			fmt.Printf("      %s\n", r.Detail)
		}
	}

	fmt.Println("=========================================================")
	if allPassed {
		fmt.Println("  OVERALL: PASS — schema and queries validated")
		os.Exit(0)
	}
	fmt.Println("  OVERALL: FAIL — one or more validations failed")
	os.Exit(1)
}

func schemaResult(check warehouse.TableCheck) checkResult {
	name := fmt.Sprintf("table %s has required columns", check.Table)
	if check.Err != nil {
		return checkResult{Name: name, Detail: fmt.Sprintf("query error: %v", check.Err)}
	}
	if len(check.Missing) > 0 {
		return checkResult{Name: name, Detail: "missing: " + strings.Join(check.Missing, ", ")}
	}
	return checkResult{Name: name, Passed: true}
}
