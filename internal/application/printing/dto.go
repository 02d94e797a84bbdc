package printing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/nextpos/printing/internal/domain/receipt"
	"github.com/nextpos/printing/internal/domain/shared"
)

// =============================================================================
// Request DTOs
// =============================================================================

// Number keeps the raw JSON text of a numeric field. It accepts numbers and
// numeric strings; a malformed value is reported when the receipt is
// rendered rather than when the request is bound.
type Number struct {
	raw string
}

// NewNumber creates a Number from its text form
func NewNumber(s string) Number {
	return Number{raw: strings.TrimSpace(s)}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "null" {
		*n = Number{}
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*n = NewNumber(s)
	return nil
}

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	if n.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}

// IsSet reports whether a value was supplied
func (n Number) IsSet() bool {
	return n.raw != ""
}

// Decimal parses the value; an absent value is zero
func (n Number) Decimal(field string) (decimal.Decimal, error) {
	if !n.IsSet() {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		return decimal.Zero, shared.WrapDomainError(receipt.ErrCodeInvalidConfiguration,
			fmt.Sprintf("Field %q is not a number: %q", field, n.raw), err)
	}
	return d, nil
}

// AddressDTO is the company address printed under the shop name
type AddressDTO struct {
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
}

// LineItemDTO is one invoice item
type LineItemDTO struct {
	ItemName string `json:"item_name" binding:"required"`
	ItemCode string `json:"item_code"`
	Qty      Number `json:"qty"`
	Rate     Number `json:"rate"`
	Amount   Number `json:"amount"`
}

// TaxDTO is one tax row
type TaxDTO struct {
	Description string `json:"description"`
	TaxAmount   Number `json:"tax_amount"`
}

// InvoiceDTO is the already-loaded POS invoice to print. Status accepts
// "draft" or "final"; docstatus 0 or 1 is accepted in its place.
type InvoiceDTO struct {
	Name         string        `json:"name"`
	Company      string        `json:"company"`
	CompanyPhone string        `json:"company_phone"`
	Address      *AddressDTO   `json:"address"`
	PostingDate  *time.Time    `json:"posting_date"`
	Status       string        `json:"status"`
	DocStatus    *int          `json:"docstatus"`
	Items        []LineItemDTO `json:"items" binding:"dive"`
	Taxes        []TaxDTO      `json:"taxes"`
	GrandTotal   Number        `json:"grand_total"`
	PaidAmount   Number        `json:"paid_amount"`
	ChangeAmount Number        `json:"change_amount"`
	Cashier      string        `json:"cashier"`
}

// RenderReceiptRequest asks for one receipt payload
type RenderReceiptRequest struct {
	Invoice    InvoiceDTO `json:"invoice"`
	POSProfile string     `json:"pos_profile"`
	PaperWidth int        `json:"paper_width" binding:"omitempty,gte=1,lte=200"`
}

// TestPrintRequest asks for the sample receipt
type TestPrintRequest struct {
	POSProfile string `json:"pos_profile"`
	PaperWidth int    `json:"paper_width" binding:"omitempty,gte=1,lte=200"`
}

// DrawerKickRequest asks for a cash drawer pulse. Pin defaults to the
// configured drawer pin.
type DrawerKickRequest struct {
	POSProfile string `json:"pos_profile"`
	Pin        int    `json:"pin" binding:"omitempty,oneof=2 5"`
}

// nfc composes combining sequences so that layout counts one column per
// printed character.
func nfc(s string) string {
	return norm.NFC.String(s)
}

// ToSnapshot converts the DTO to the renderer's invoice snapshot. Text fields
// are normalized to NFC.
func (d *InvoiceDTO) ToSnapshot() (*receipt.InvoiceSnapshot, error) {
	inv := &receipt.InvoiceSnapshot{
		ID:           d.Name,
		Company:      nfc(d.Company),
		CompanyPhone: nfc(d.CompanyPhone),
		Cashier:      nfc(d.Cashier),
		Status:       receipt.DocStatus(strings.ToLower(strings.TrimSpace(d.Status))),
	}
	if inv.Status == "" && d.DocStatus != nil {
		switch *d.DocStatus {
		case 0:
			inv.Status = receipt.DocStatusDraft
		case 1:
			inv.Status = receipt.DocStatusFinal
		default:
			return nil, shared.NewDomainError(receipt.ErrCodeInvalidConfiguration,
				fmt.Sprintf("Unsupported docstatus %d", *d.DocStatus))
		}
	}
	if d.PostingDate != nil {
		inv.PostedAt = *d.PostingDate
	}
	if d.Address != nil {
		inv.Address = &receipt.Address{
			Line1: nfc(d.Address.AddressLine1),
			City:  nfc(d.Address.City),
			Phone: nfc(d.Address.Phone),
		}
	}

	var err error
	for i, it := range d.Items {
		item := receipt.LineItem{Name: nfc(it.ItemName), Code: nfc(it.ItemCode)}
		if item.Quantity, err = it.Qty.Decimal(fmt.Sprintf("items[%d].qty", i)); err != nil {
			return nil, err
		}
		if item.Rate, err = it.Rate.Decimal(fmt.Sprintf("items[%d].rate", i)); err != nil {
			return nil, err
		}
		if item.Amount, err = it.Amount.Decimal(fmt.Sprintf("items[%d].amount", i)); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	for i, tx := range d.Taxes {
		amount, err := tx.TaxAmount.Decimal(fmt.Sprintf("taxes[%d].tax_amount", i))
		if err != nil {
			return nil, err
		}
		inv.Taxes = append(inv.Taxes, receipt.TaxLine{Description: nfc(tx.Description), Amount: amount})
	}

	if d.GrandTotal.IsSet() {
		total, err := d.GrandTotal.Decimal("grand_total")
		if err != nil {
			return nil, err
		}
		inv.GrandTotal = decimal.NewNullDecimal(total)
	}
	if inv.PaidAmount, err = d.PaidAmount.Decimal("paid_amount"); err != nil {
		return nil, err
	}
	if inv.ChangeAmount, err = d.ChangeAmount.Decimal("change_amount"); err != nil {
		return nil, err
	}
	return inv, nil
}

// =============================================================================
// Response DTOs
// =============================================================================

// PrintJobResponse is a payload ready for the print bridge together with
// where and how often to print it. The bridge submits the payload Copies
// times.
type PrintJobResponse struct {
	Printer    string                 `json:"printer"`
	Copies     int                    `json:"copies"`
	AutoPrint  bool                   `json:"auto_print"`
	CommandSet string                 `json:"command_set"`
	CodePage   string                 `json:"code_page"`
	Payload    receipt.ReceiptPayload `json:"payload"`
	Preview    []string               `json:"preview,omitempty"`
	Warnings   []string               `json:"warnings,omitempty"`
}
