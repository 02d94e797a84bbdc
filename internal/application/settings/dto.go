package settings

import (
	domain "github.com/nextpos/printing/internal/domain/settings"
)

// PrinterMappingDTO assigns a printer to a POS profile
type PrinterMappingDTO struct {
	POSProfile string `json:"pos_profile" binding:"required,max=140"`
	Printer    string `json:"printer" binding:"required,max=140"`
}

// UpdateSettingsRequest changes the fields that are present. A present
// printer_mappings list replaces all mappings.
type UpdateSettingsRequest struct {
	EnablePrinting  *bool                `json:"enable_printing"`
	EnableAutoPrint *bool                `json:"enable_auto_print"`
	ShowAddress     *bool                `json:"show_address"`
	ShowItemCode    *bool                `json:"show_item_code"`
	ShowTax         *bool                `json:"show_tax"`
	ShowCashier     *bool                `json:"show_cashier"`
	WrapLongNames   *bool                `json:"wrap_long_names"`
	PaperWidth      *int                 `json:"paper_width" binding:"omitempty,gte=0,lte=200"`
	CustomHeader    *string              `json:"custom_header"`
	CustomFooter    *string              `json:"custom_footer"`
	DefaultPrinter  *string              `json:"default_printer" binding:"omitempty,max=140"`
	CutMode         *string              `json:"cut_mode" binding:"omitempty,oneof='Full Cut' 'Partial Cut' 'No Cut'"`
	FeedBeforeCut   *int                 `json:"feed_before_cut" binding:"omitempty,gte=0,lte=255"`
	PrintCopies     *int                 `json:"print_copies" binding:"omitempty,gte=0,lte=10"`
	OpenCashDrawer  *bool                `json:"open_cash_drawer"`
	DrawerPin       *int                 `json:"drawer_pin" binding:"omitempty,oneof=2 5"`
	PrinterMappings *[]PrinterMappingDTO `json:"printer_mappings" binding:"omitempty,dive"`
}

// Apply copies the present fields onto s
func (r *UpdateSettingsRequest) Apply(s *domain.PrintSettings) {
	setIf(&s.EnablePrinting, r.EnablePrinting)
	setIf(&s.EnableAutoPrint, r.EnableAutoPrint)
	setIf(&s.ShowAddress, r.ShowAddress)
	setIf(&s.ShowItemCode, r.ShowItemCode)
	setIf(&s.ShowTax, r.ShowTax)
	setIf(&s.ShowCashier, r.ShowCashier)
	setIf(&s.WrapLongNames, r.WrapLongNames)
	setIf(&s.PaperWidth, r.PaperWidth)
	setIf(&s.CustomHeader, r.CustomHeader)
	setIf(&s.CustomFooter, r.CustomFooter)
	setIf(&s.DefaultPrinter, r.DefaultPrinter)
	setIf(&s.FeedBeforeCut, r.FeedBeforeCut)
	setIf(&s.PrintCopies, r.PrintCopies)
	setIf(&s.OpenCashDrawer, r.OpenCashDrawer)
	setIf(&s.DrawerPin, r.DrawerPin)
	if r.CutMode != nil {
		s.CutMode = domain.CutMode(*r.CutMode)
	}
	if r.PrinterMappings != nil {
		s.PrinterMappings = make([]domain.PrinterMapping, 0, len(*r.PrinterMappings))
		for _, m := range *r.PrinterMappings {
			s.PrinterMappings = append(s.PrinterMappings, domain.PrinterMapping{
				POSProfile: m.POSProfile,
				Printer:    m.Printer,
			})
		}
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// SettingsResponse is the settings document returned to clients.
// Configured is false while the store runs on defaults.
type SettingsResponse struct {
	*domain.PrintSettings
	Configured bool `json:"configured"`
}

// PrinterResponse is the printer lookup result for a POS profile
type PrinterResponse struct {
	POSProfile string `json:"pos_profile"`
	domain.PrinterAssignment
}
