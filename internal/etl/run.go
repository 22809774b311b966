package etl

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/ignite/receipt-warehouse/internal/normalize"
	"github.com/ignite/receipt-warehouse/internal/warehouse"
)

// Opener resolves an input URI to a readable stream. internal/source
// implements it for local files and S3.
type Opener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Inputs are the three export locations, one per record kind.
type Inputs struct {
	Users    string
	Brands   string
	Receipts string
}

// RunReport aggregates the outcome of every pipeline stage so callers can
// assert on results instead of parsing logs. Per-table and per-query
// failures are recorded here, not raised; only the fatal tier (unreadable
// input, schema recreation) aborts the run.
type RunReport struct {
	Users    normalize.Result
	Brands   normalize.Result
	Receipts normalize.Result
	Loads    []warehouse.LoadResult
	Quality  []warehouse.QualityIssue
	Queries  []warehouse.QueryResult
}

// Run executes the full pipeline: normalize the three exports, recreate the
// schema, load the four tables parent-first, run the quality check, then the
// stakeholder queries.
func Run(ctx context.Context, db *sql.DB, open Opener, in Inputs) (*RunReport, error) {
	rep := &RunReport{}

	log.Printf("[etl] normalizing users from %s", in.Users)
	var users []normalize.UserRow
	if err := withInput(ctx, open, in.Users, func(r io.Reader) {
		users, rep.Users = normalize.Users(r)
	}); err != nil {
		return nil, err
	}

	log.Printf("[etl] normalizing brands from %s", in.Brands)
	var brands []normalize.BrandRow
	if err := withInput(ctx, open, in.Brands, func(r io.Reader) {
		brands, rep.Brands = normalize.Brands(r)
	}); err != nil {
		return nil, err
	}

	log.Printf("[etl] normalizing receipts from %s", in.Receipts)
	var receipts []normalize.ReceiptRow
	var items []normalize.ItemRow
	if err := withInput(ctx, open, in.Receipts, func(r io.Reader) {
		receipts, items, rep.Receipts = normalize.Receipts(r)
	}); err != nil {
		return nil, err
	}

	if err := warehouse.RecreateSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("recreate schema: %w", err)
	}

	loader := warehouse.NewLoader(db)
	rep.Loads = append(rep.Loads, loader.Load(ctx, warehouse.UsersTable(users)))
	rep.Loads = append(rep.Loads, loader.Load(ctx, warehouse.BrandsTable(brands)))
	rep.Loads = append(rep.Loads, loader.Load(ctx, warehouse.ReceiptsTable(receipts)))
	rep.Loads = append(rep.Loads, loader.Load(ctx, warehouse.ItemsTable(items)))

	issues, err := warehouse.QualityCheck(ctx, db)
	if err != nil {
		log.Printf("[etl] data quality check failed: %v", err)
	} else if len(issues) == 0 {
		log.Printf("[etl] no data quality issues found")
	} else {
		log.Printf("[etl] data quality issues detected:")
		for _, iss := range issues {
			log.Printf("[etl] receipt %s has %d bad item(s)", iss.ReceiptID, iss.BadItems)
		}
	}
	rep.Quality = issues

	rep.Queries = warehouse.NewRunner(db).RunAll(ctx)

	return rep, nil
}

func withInput(ctx context.Context, open Opener, uri string, fn func(io.Reader)) error {
	rc, err := open.Open(ctx, uri)
	if err != nil {
		return err
	}
	defer rc.Close()
	fn(rc)
	return nil
}
