package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// Raw export documents. The exporter wraps object ids in {"$oid": ...} and
// timestamps in {"$date": <epoch-ms>} single-key objects. Every wrapper and
// nested container decodes to a pointer so an absent container yields a nil
// field instead of a decode failure.

type objectID struct {
	OID *string `json:"$oid"`
}

func (o *objectID) value() *string {
	if o == nil {
		return nil
	}
	return o.OID
}

type epochDate struct {
	Millis int64 `json:"$date"`
}

// dbRef is the exporter's DBRef shape: {"$ref": "...", "$id": {"$oid": ...}}.
type dbRef struct {
	ID *objectID `json:"$id"`
}

func (r *dbRef) value() *string {
	if r == nil {
		return nil
	}
	return r.ID.value()
}

type userDoc struct {
	ID          *objectID  `json:"_id"`
	State       *string    `json:"state"`
	Role        *string    `json:"role"`
	Active      *bool      `json:"active"`
	CreatedDate *epochDate `json:"createdDate"`
	LastLogin   *epochDate `json:"lastLogin"`
}

type brandDoc struct {
	ID           *objectID `json:"_id"`
	Barcode      *string   `json:"barcode"`
	BrandCode    *string   `json:"brandCode"`
	Category     *string   `json:"category"`
	CategoryCode *string   `json:"categoryCode"`
	CPG          *dbRef    `json:"cpg"`
	TopBrand     *bool     `json:"topBrand"`
	Name         *string   `json:"name"`
}

type receiptDoc struct {
	ID                *objectID   `json:"_id"`
	UserID            *string     `json:"userId"`
	BonusPointsEarned *looseInt   `json:"bonusPointsEarned"`
	BonusReason       *string     `json:"bonusPointsEarnedReason"`
	CreateDate        *epochDate  `json:"createDate"`
	DateScanned       *epochDate  `json:"dateScanned"`
	FinishedDate      *epochDate  `json:"finishedDate"`
	ModifyDate        *epochDate  `json:"modifyDate"`
	PointsAwardedDate *epochDate  `json:"pointsAwardedDate"`
	PointsEarned      *looseFloat `json:"pointsEarned"`
	PurchaseDate      *epochDate  `json:"purchaseDate"`
	ItemCount         *looseInt   `json:"purchasedItemCount"`
	Status            *string     `json:"rewardsReceiptStatus"`
	TotalSpent        *looseFloat `json:"totalSpent"`
	Items             []itemDoc   `json:"rewardsReceiptItemList"`
}

type itemDoc struct {
	Barcode           *string     `json:"barcode"`
	Description       *string     `json:"description"`
	ItemPrice         *looseFloat `json:"itemPrice"`
	FinalPrice        *looseFloat `json:"finalPrice"`
	QuantityPurchased *looseInt   `json:"quantityPurchased"`
}

// looseFloat accepts both JSON numbers and numeric strings. The exporter
// writes money fields as strings ("26.00"), older exports as numbers.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("numeric field %q: %w", s, err)
	}
	*f = looseFloat(v)
	return nil
}

// looseInt accepts JSON numbers, numeric strings, and float-typed values
// ("2", 2, 2.0 all decode to 2).
type looseInt int64

func (i *looseInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("integer field %q: %w", s, err)
	}
	*i = looseInt(v)
	return nil
}

func floatValue(f *looseFloat) float64 {
	if f == nil {
		return 0.0
	}
	return float64(*f)
}

func intValue(i *looseInt, def int64) int64 {
	if i == nil {
		return def
	}
	return int64(*i)
}

func intPtr(i *looseInt) *int64 {
	if i == nil {
		return nil
	}
	v := int64(*i)
	return &v
}
