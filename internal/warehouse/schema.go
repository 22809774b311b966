package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Drop children before parents, create parents before children. The sequence
// is destructive and non-transactional: a mid-sequence failure leaves a
// partial schema and the caller retries the whole thing.

var dropStatements = []string{
	`DROP TABLE IF EXISTS items`,
	`DROP TABLE IF EXISTS receipts`,
	`DROP TABLE IF EXISTS brands`,
	`DROP TABLE IF EXISTS users`,
}

var createStatements = []string{
	`CREATE TABLE users (
		user_id VARCHAR(50) PRIMARY KEY,
		state VARCHAR(10),
		created_date DATE,
		last_login DATE,
		role VARCHAR(20),
		active BOOLEAN
	)`,
	`CREATE TABLE brands (
		brand_id VARCHAR(50) PRIMARY KEY,
		barcode VARCHAR(100),
		brand_code VARCHAR(100),
		category VARCHAR(100),
		category_code VARCHAR(100),
		cpg_id VARCHAR(50),
		top_brand BOOLEAN,
		name VARCHAR(255)
	)`,
	`CREATE TABLE receipts (
		receipt_id VARCHAR(50) PRIMARY KEY,
		user_id VARCHAR(50),
		bonus_points_earned INT,
		bonus_reason TEXT,
		create_date DATE,
		scanned_date DATE,
		finished_date DATE,
		modify_date DATE,
		points_awarded_date DATE,
		points_earned DOUBLE PRECISION,
		purchase_date DATE,
		item_count INT,
		status VARCHAR(50),
		total_spent DOUBLE PRECISION
	)`,
	`CREATE TABLE items (
		item_id VARCHAR(50) PRIMARY KEY,
		receipt_id VARCHAR(50),
		barcode VARCHAR(100),
		description TEXT,
		item_price DOUBLE PRECISION,
		final_price DOUBLE PRECISION,
		quantity_purchased INT
	)`,
}

// RecreateSchema drops and recreates the four warehouse tables.
func RecreateSchema(ctx context.Context, db *sql.DB) error {
	log.Printf("[warehouse] recreating schema")
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	for _, stmt := range createStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
