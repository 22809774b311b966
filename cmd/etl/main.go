package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"

	"github.com/ignite/receipt-warehouse/internal/config"
	"github.com/ignite/receipt-warehouse/internal/etl"
	"github.com/ignite/receipt-warehouse/internal/source"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	log.Println("Connected to database")

	rep, err := etl.Run(ctx, db, source.New(cfg.AWS.Region, cfg.AWS.Profile), etl.Inputs{
		Users:    cfg.Inputs.Users,
		Brands:   cfg.Inputs.Brands,
		Receipts: cfg.Inputs.Receipts,
	})
	if err != nil {
		log.Fatalf("ETL run failed: %v", err)
	}

	for _, res := range []struct{ kind string; rows, skipped, dupes int }{
		{"users", rep.Users.Rows, rep.Users.Skipped, rep.Users.Duplicates},
		{"brands", rep.Brands.Rows, rep.Brands.Skipped, rep.Brands.Duplicates},
		{"receipts", rep.Receipts.Rows, rep.Receipts.Skipped, rep.Receipts.Duplicates},
	} {
		log.Printf("%s: %d rows, %d skipped, %d duplicates", res.kind, res.rows, res.skipped, res.dupes)
	}
	for _, l := range rep.Loads {
		if l.Err != nil {
			log.Printf("load %s: FAILED (%v)", l.Table, l.Err)
			continue
		}
		log.Printf("load %s: %d/%d rows", l.Table, l.Inserted, l.Rows)
	}
	failed := 0
	for _, q := range rep.Queries {
		if q.Err != nil {
			failed++
		}
	}
	log.Printf("stakeholder queries: %d/%d succeeded", len(rep.Queries)-failed, len(rep.Queries))
	log.Println("ETL process completed")
}
