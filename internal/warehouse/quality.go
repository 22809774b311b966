package warehouse

import (
	"context"
	"database/sql"
	"fmt"
)

// QualityIssue counts structurally incomplete items under one receipt.
type QualityIssue struct {
	ReceiptID string
	BadItems  int
}

const qualityQuery = `
	SELECT receipt_id, COUNT(*) AS issue_count
	FROM items
	WHERE barcode IS NULL OR barcode = ''
	   OR final_price IS NULL
	   OR quantity_purchased IS NULL
	GROUP BY receipt_id`

// QualityCheck scans loaded items for missing barcodes, final prices, or
// quantities, grouped by owning receipt. Read-only; never mutates data.
func QualityCheck(ctx context.Context, db *sql.DB) ([]QualityIssue, error) {
	rows, err := db.QueryContext(ctx, qualityQuery)
	if err != nil {
		return nil, fmt.Errorf("quality check: %w", err)
	}
	defer rows.Close()

	var issues []QualityIssue
	for rows.Next() {
		var iss QualityIssue
		if err := rows.Scan(&iss.ReceiptID, &iss.BadItems); err != nil {
			return nil, fmt.Errorf("quality check scan: %w", err)
		}
		issues = append(issues, iss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quality check rows: %w", err)
	}
	return issues, nil
}
