package warehouse

import (
	"github.com/ignite/receipt-warehouse/internal/normalize"
)

// ColumnKind drives null coercion in the loader: numeric NULLs load as 0,
// boolean NULLs as false, everything else passes through as SQL NULL.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindDate
	KindNumeric
	KindBool
)

type Column struct {
	Name string
	Kind ColumnKind
}

// Table is a normalized table ready for loading. Row values line up with
// Columns; nil marks a missing value.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

var usersColumns = []Column{
	{"user_id", KindText},
	{"state", KindText},
	{"created_date", KindDate},
	{"last_login", KindDate},
	{"role", KindText},
	{"active", KindBool},
}

var brandsColumns = []Column{
	{"brand_id", KindText},
	{"barcode", KindText},
	{"brand_code", KindText},
	{"category", KindText},
	{"category_code", KindText},
	{"cpg_id", KindText},
	{"top_brand", KindBool},
	{"name", KindText},
}

var receiptsColumns = []Column{
	{"receipt_id", KindText},
	{"user_id", KindText},
	{"bonus_points_earned", KindNumeric},
	{"bonus_reason", KindText},
	{"create_date", KindDate},
	{"scanned_date", KindDate},
	{"finished_date", KindDate},
	{"modify_date", KindDate},
	{"points_awarded_date", KindDate},
	{"points_earned", KindNumeric},
	{"purchase_date", KindDate},
	{"item_count", KindNumeric},
	{"status", KindText},
	{"total_spent", KindNumeric},
}

var itemsColumns = []Column{
	{"item_id", KindText},
	{"receipt_id", KindText},
	{"barcode", KindText},
	{"description", KindText},
	{"item_price", KindNumeric},
	{"final_price", KindNumeric},
	{"quantity_purchased", KindNumeric},
}

func UsersTable(rows []normalize.UserRow) Table {
	t := Table{Name: "users", Columns: usersColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			nullable(r.UserID), nullable(r.State), nullable(r.CreatedDate),
			nullable(r.LastLogin), r.Role, r.Active,
		})
	}
	return t
}

func BrandsTable(rows []normalize.BrandRow) Table {
	t := Table{Name: "brands", Columns: brandsColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			nullable(r.BrandID), nullable(r.Barcode), nullable(r.BrandCode),
			nullable(r.Category), nullable(r.CategoryCode), nullable(r.CpgID),
			r.TopBrand, nullable(r.Name),
		})
	}
	return t
}

func ReceiptsTable(rows []normalize.ReceiptRow) Table {
	t := Table{Name: "receipts", Columns: receiptsColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.ReceiptID, nullable(r.UserID), nullable(r.BonusPointsEarned),
			nullable(r.BonusReason), nullable(r.CreateDate), nullable(r.ScannedDate),
			nullable(r.FinishedDate), nullable(r.ModifyDate), nullable(r.PointsAwardedDate),
			r.PointsEarned, nullable(r.PurchaseDate), r.ItemCount,
			nullable(r.Status), r.TotalSpent,
		})
	}
	return t
}

func ItemsTable(rows []normalize.ItemRow) Table {
	t := Table{Name: "items", Columns: itemsColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.ItemID, r.ReceiptID, nullable(r.Barcode), r.Description,
			r.ItemPrice, r.FinalPrice, r.QuantityPurchased,
		})
	}
	return t
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
