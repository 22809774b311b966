package normalize

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Rows are flat, typed, and ready for the warehouse loader. Pointer fields
// are nullable and load as SQL NULL; value fields carry their defaults.

type UserRow struct {
	UserID      *string
	State       *string
	CreatedDate *string
	LastLogin   *string
	Role        string
	Active      bool
}

type BrandRow struct {
	BrandID      *string
	Barcode      *string
	BrandCode    *string
	Category     *string
	CategoryCode *string
	CpgID        *string
	TopBrand     bool
	Name         *string
}

type ReceiptRow struct {
	ReceiptID         string
	UserID            *string
	BonusPointsEarned *int64
	BonusReason       *string
	CreateDate        *string
	ScannedDate       *string
	FinishedDate      *string
	ModifyDate        *string
	PointsAwardedDate *string
	PointsEarned      float64
	PurchaseDate      *string
	ItemCount         int64
	Status            *string
	TotalSpent        float64
}

type ItemRow struct {
	ItemID            string
	ReceiptID         string
	Barcode           *string
	Description       string
	ItemPrice         float64
	FinalPrice        float64
	QuantityPurchased int64
}

// Result summarizes one normalization batch. Records = Rows + Skipped +
// Duplicates always holds, so callers can assert on outcomes instead of
// parsing logs.
type Result struct {
	Kind       string
	Records    int // input records seen
	Rows       int // rows emitted
	Skipped    int // malformed records dropped with a warning
	Duplicates int // records collapsed by primary-key dedup
	Err        error
}

var errMissingReceiptID = errors.New("missing _id.$oid")

// Receipt exports can carry large embedded item lists on a single line.
const maxLineBytes = 4 * 1024 * 1024

// Users flattens a users export. Duplicate user ids collapse to one row,
// first occurrence wins.
func Users(r io.Reader) ([]UserRow, Result) {
	res := Result{Kind: "users"}
	var rows []UserRow
	seen := make(map[string]struct{})

	forEachRecord(r, &res, func(line []byte) error {
		var doc userDoc
		if err := json.Unmarshal(line, &doc); err != nil {
			return err
		}

		row := UserRow{
			UserID:      doc.ID.value(),
			State:       doc.State,
			CreatedDate: dateFromEpoch(doc.CreatedDate),
			LastLogin:   dateFromEpoch(doc.LastLogin),
		}
		if doc.Role != nil {
			row.Role = strings.ToUpper(*doc.Role)
		}
		if doc.Active != nil {
			row.Active = *doc.Active
		}

		key := dedupKey(row.UserID)
		if _, dup := seen[key]; dup {
			res.Duplicates++
			return nil
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
		return nil
	})

	res.Rows = len(rows)
	return rows, res
}

// Brands flattens a brands export. Deduplicated by brand id, first wins.
func Brands(r io.Reader) ([]BrandRow, Result) {
	res := Result{Kind: "brands"}
	var rows []BrandRow
	seen := make(map[string]struct{})

	forEachRecord(r, &res, func(line []byte) error {
		var doc brandDoc
		if err := json.Unmarshal(line, &doc); err != nil {
			return err
		}

		row := BrandRow{
			BrandID:      doc.ID.value(),
			Barcode:      doc.Barcode,
			BrandCode:    doc.BrandCode,
			Category:     doc.Category,
			CategoryCode: doc.CategoryCode,
			CpgID:        doc.CPG.value(),
			Name:         doc.Name,
		}
		if doc.TopBrand != nil {
			row.TopBrand = *doc.TopBrand
		}

		key := dedupKey(row.BrandID)
		if _, dup := seen[key]; dup {
			res.Duplicates++
			return nil
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
		return nil
	})

	res.Rows = len(rows)
	return rows, res
}

// Receipts flattens a receipts export into receipt rows plus one item row
// per embedded line item. A receipt without an id is rejected along with its
// items. Item ids are generated fresh on every pass; the source has no
// stable item identity.
func Receipts(r io.Reader) ([]ReceiptRow, []ItemRow, Result) {
	res := Result{Kind: "receipts"}
	var receipts []ReceiptRow
	var items []ItemRow

	forEachRecord(r, &res, func(line []byte) error {
		var doc receiptDoc
		if err := json.Unmarshal(line, &doc); err != nil {
			return err
		}

		id := doc.ID.value()
		if id == nil {
			return errMissingReceiptID
		}

		receipts = append(receipts, ReceiptRow{
			ReceiptID:         *id,
			UserID:            doc.UserID,
			BonusPointsEarned: intPtr(doc.BonusPointsEarned),
			BonusReason:       doc.BonusReason,
			CreateDate:        dateFromEpoch(doc.CreateDate),
			ScannedDate:       dateFromEpoch(doc.DateScanned),
			FinishedDate:      dateFromEpoch(doc.FinishedDate),
			ModifyDate:        dateFromEpoch(doc.ModifyDate),
			PointsAwardedDate: dateFromEpoch(doc.PointsAwardedDate),
			PointsEarned:      floatValue(doc.PointsEarned),
			PurchaseDate:      dateFromEpoch(doc.PurchaseDate),
			ItemCount:         intValue(doc.ItemCount, 0),
			Status:            doc.Status,
			TotalSpent:        floatValue(doc.TotalSpent),
		})

		for _, it := range doc.Items {
			row := ItemRow{
				ItemID:            uuid.NewString(),
				ReceiptID:         *id,
				Barcode:           it.Barcode,
				ItemPrice:         floatValue(it.ItemPrice),
				FinalPrice:        floatValue(it.FinalPrice),
				QuantityPurchased: intValue(it.QuantityPurchased, 1),
			}
			if it.Description != nil {
				row.Description = *it.Description
			}
			items = append(items, row)
		}
		return nil
	})

	res.Rows = len(receipts)
	return receipts, items, res
}

// forEachRecord walks a line-delimited JSON stream. One malformed record is
// skipped with a warning and never drops the rest of the file.
func forEachRecord(r io.Reader, res *Result, fn func(line []byte) error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Records++
		if err := fn(line); err != nil {
			res.Skipped++
			log.Printf("[normalize] skipping %s record: %v", res.Kind, err)
		}
	}
	if err := sc.Err(); err != nil {
		res.Err = err
		log.Printf("[normalize] read %s input: %v", res.Kind, err)
	}
}

// dedupKey maps a nullable id to a map key. Records with a missing id all
// share one key, matching the single NULL-id survivor the original reports
// produced.
func dedupKey(id *string) string {
	if id == nil {
		return "\x00"
	}
	return *id
}
