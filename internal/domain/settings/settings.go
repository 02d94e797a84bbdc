// Package settings holds the store-wide receipt printing settings: layout
// switches, the default printer, cutting and drawer behaviour, and the
// printer assigned to each POS profile.
package settings

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nextpos/printing/internal/domain/receipt"
	"github.com/nextpos/printing/internal/domain/shared"
)

// CutMode is the cut mode label shown to store staff
type CutMode string

const (
	CutModeFull    CutMode = "Full Cut"
	CutModePartial CutMode = "Partial Cut"
	CutModeNone    CutMode = "No Cut"
)

// Defaults applied by the setup wizard and by printer lookup
const (
	DefaultPrinterName   = "Default Printer"
	DefaultFeedBeforeCut = receipt.DefaultFeedBeforeCut
	DefaultPrintCopies   = 1
	DefaultDrawerPin     = 2
	MaxPrintCopies       = 10
)

// ToReceipt converts the label to the renderer's cut mode. Unknown labels
// fall back to a full cut.
func (m CutMode) ToReceipt() receipt.CutMode {
	switch m {
	case CutModePartial:
		return receipt.CutModePartial
	case CutModeNone:
		return receipt.CutModeNone
	default:
		return receipt.CutModeFull
	}
}

// PrinterMapping assigns a printer to a POS profile
type PrinterMapping struct {
	POSProfile string `json:"pos_profile" validate:"required,max=140"`
	Printer    string `json:"printer" validate:"required,max=140"`
}

// PrintSettings is the singleton printing configuration of a store
type PrintSettings struct {
	EnablePrinting  bool             `json:"enable_printing"`
	EnableAutoPrint bool             `json:"enable_auto_print"`
	ShowAddress     bool             `json:"show_address"`
	ShowItemCode    bool             `json:"show_item_code"`
	ShowTax         bool             `json:"show_tax"`
	ShowCashier     bool             `json:"show_cashier"`
	WrapLongNames   bool             `json:"wrap_long_names"`
	PaperWidth      int              `json:"paper_width" validate:"gte=0,lte=200"`
	CustomHeader    string           `json:"custom_header"`
	CustomFooter    string           `json:"custom_footer"`
	DefaultPrinter  string           `json:"default_printer" validate:"max=140"`
	CutMode         CutMode          `json:"cut_mode" validate:"omitempty,oneof='Full Cut' 'Partial Cut' 'No Cut'"`
	FeedBeforeCut   int              `json:"feed_before_cut" validate:"gte=0,lte=255"`
	PrintCopies     int              `json:"print_copies" validate:"gte=0,lte=10"`
	OpenCashDrawer  bool             `json:"open_cash_drawer"`
	DrawerPin       int              `json:"drawer_pin" validate:"omitempty,oneof=2 5"`
	PrinterMappings []PrinterMapping `json:"printer_mappings" validate:"dive"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Default returns the settings of a store that has never been configured
func Default() *PrintSettings {
	return &PrintSettings{
		EnablePrinting: true,
		ShowTax:        true,
		ShowCashier:    true,
		WrapLongNames:  true,
		CutMode:        CutModeFull,
		FeedBeforeCut:  DefaultFeedBeforeCut,
		PrintCopies:    DefaultPrintCopies,
		DrawerPin:      DefaultDrawerPin,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and rejects a POS profile mapped twice
func (s *PrintSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return shared.WrapDomainError("INVALID_INPUT", "Invalid print settings", err)
	}
	seen := make(map[string]struct{}, len(s.PrinterMappings))
	for _, m := range s.PrinterMappings {
		key := strings.ToLower(strings.TrimSpace(m.POSProfile))
		if _, dup := seen[key]; dup {
			return shared.NewDomainError("INVALID_INPUT", "POS profile "+m.POSProfile+" is mapped more than once")
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ApplyWizardDefaults fills unset printer, cut, feed and copies values and
// turns on auto print. Values the store already chose are kept.
func (s *PrintSettings) ApplyWizardDefaults() {
	if strings.TrimSpace(s.DefaultPrinter) == "" {
		s.DefaultPrinter = DefaultPrinterName
	}
	if s.CutMode == "" {
		s.CutMode = CutModeFull
	}
	if s.FeedBeforeCut == 0 {
		s.FeedBeforeCut = DefaultFeedBeforeCut
	}
	if s.PrintCopies == 0 {
		s.PrintCopies = DefaultPrintCopies
	}
	s.EnableAutoPrint = true
}

// PrinterAssignment is the printer and hardware behaviour for one profile
type PrinterAssignment struct {
	Printer        string  `json:"printer"`
	CutMode        CutMode `json:"cut_mode"`
	FeedBeforeCut  int     `json:"feed_before_cut"`
	PrintCopies    int     `json:"print_copies"`
	OpenCashDrawer bool    `json:"open_cash_drawer"`
	DrawerPin      int     `json:"drawer_pin"`
}

// PrinterForProfile returns the printer mapped to profile, or the default
// printer when the profile is empty or unmapped. Profile names compare
// case-insensitively.
func (s *PrintSettings) PrinterForProfile(profile string) PrinterAssignment {
	a := PrinterAssignment{
		Printer:        s.DefaultPrinter,
		CutMode:        s.CutMode,
		FeedBeforeCut:  s.FeedBeforeCut,
		PrintCopies:    s.PrintCopies,
		OpenCashDrawer: s.OpenCashDrawer,
		DrawerPin:      s.DrawerPin,
	}
	if a.CutMode == "" {
		a.CutMode = CutModeFull
	}
	if a.FeedBeforeCut <= 0 {
		a.FeedBeforeCut = DefaultFeedBeforeCut
	}
	if a.PrintCopies < 1 {
		a.PrintCopies = DefaultPrintCopies
	}
	if a.DrawerPin == 0 {
		a.DrawerPin = DefaultDrawerPin
	}

	key := strings.ToLower(strings.TrimSpace(profile))
	if key == "" {
		return a
	}
	for _, m := range s.PrinterMappings {
		if strings.ToLower(strings.TrimSpace(m.POSProfile)) == key {
			a.Printer = m.Printer
			break
		}
	}
	return a
}

// ToRenderConfig resolves the renderer configuration. A zero paper width
// takes fallbackWidth and a zero feed before cut takes the default feed.
func (s *PrintSettings) ToRenderConfig(fallbackWidth, trailingBlankLines int) receipt.RenderConfig {
	width := s.PaperWidth
	if width == 0 {
		width = fallbackWidth
	}
	drawerPin := s.DrawerPin
	if drawerPin == 0 {
		drawerPin = DefaultDrawerPin
	}
	feed := s.FeedBeforeCut
	if feed <= 0 {
		feed = DefaultFeedBeforeCut
	}
	return receipt.RenderConfig{
		PaperWidth:         width,
		ShowAddress:        s.ShowAddress,
		ShowItemCode:       s.ShowItemCode,
		ShowTax:            s.ShowTax,
		ShowCashier:        s.ShowCashier,
		WrapLongNames:      s.WrapLongNames,
		CustomHeader:       s.CustomHeader,
		CustomFooter:       s.CustomFooter,
		CutMode:            s.CutMode.ToReceipt(),
		FeedBeforeCut:      feed,
		TrailingBlankLines: trailingBlankLines,
		PrintCopies:        s.PrintCopies,
		OpenCashDrawer:     s.OpenCashDrawer,
		DrawerPin:          drawerPin,
	}
}

// Repository persists the singleton settings
type Repository interface {
	// Get returns the stored settings, or shared.ErrNotFound when none exist
	Get(ctx context.Context) (*PrintSettings, error)
	// Save replaces the stored settings and mappings
	Save(ctx context.Context, s *PrintSettings) error
}
