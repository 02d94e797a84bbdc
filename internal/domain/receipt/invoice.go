package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocStatus is the posting status of the invoice
type DocStatus string

const (
	DocStatusDraft DocStatus = "draft"
	DocStatusFinal DocStatus = "final"
)

// IsValid checks if the DocStatus is a valid value
func (s DocStatus) IsValid() bool {
	return s == DocStatusDraft || s == DocStatusFinal
}

// String returns the string representation of DocStatus
func (s DocStatus) String() string {
	return string(s)
}

// LineItem is one sold item
type LineItem struct {
	Name     string
	Code     string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// TaxLine is one tax row of the invoice
type TaxLine struct {
	Description string
	Amount      decimal.Decimal
}

// Address is the company's primary address, resolved by the caller
type Address struct {
	Line1 string
	City  string
	Phone string
}

// IsZero returns true if no address field is set
func (a Address) IsZero() bool {
	return a.Line1 == "" && a.City == "" && a.Phone == ""
}

// InvoiceSnapshot is a fully materialised, read-only view of a POS invoice
type InvoiceSnapshot struct {
	ID           string
	Company      string
	CompanyPhone string
	Address      *Address
	PostedAt     time.Time
	Status       DocStatus
	Items        []LineItem
	Taxes        []TaxLine
	GrandTotal   decimal.NullDecimal
	PaidAmount   decimal.Decimal
	ChangeAmount decimal.Decimal
	Cashier      string
}

// Validate checks the fields the composer cannot render without
func (inv *InvoiceSnapshot) Validate() error {
	if inv == nil {
		return missingField("invoice")
	}
	if !inv.GrandTotal.Valid {
		return missingField("grand_total")
	}
	if inv.Status == "" {
		return missingField("status")
	}
	if !inv.Status.IsValid() {
		return invalidConfiguration("Unknown document status %q", string(inv.Status))
	}
	return nil
}
