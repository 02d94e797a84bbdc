package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appsettings "github.com/nextpos/printing/internal/application/settings"
	"github.com/nextpos/printing/internal/domain/settings"
	"github.com/nextpos/printing/internal/domain/shared"
)

func TestSettingsHandler_GetSettings(t *testing.T) {
	mgr := new(MockSettingsManager)
	mgr.On("Get", mock.Anything).Return(&appsettings.SettingsResponse{PrintSettings: settings.Default()}, nil)

	w := serve(http.MethodGet, "/print/settings", nil, NewSettingsHandler(mgr).GetSettings)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, false, data["configured"])
	assert.Equal(t, "Full Cut", data["cut_mode"])
	assert.Equal(t, float64(5), data["feed_before_cut"])
}

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		mgr := new(MockSettingsManager)
		mgr.On("Update", mock.Anything, mock.MatchedBy(func(req appsettings.UpdateSettingsRequest) bool {
			return req.PaperWidth != nil && *req.PaperWidth == 32 &&
				req.ShowTax != nil && !*req.ShowTax &&
				req.CustomFooter == nil && req.PrinterMappings == nil
		})).Return(&appsettings.SettingsResponse{PrintSettings: settings.Default(), Configured: true}, nil)

		w := serve(http.MethodPut, "/print/settings", `{"paper_width":32,"show_tax":false}`, NewSettingsHandler(mgr).UpdateSettings)

		assert.Equal(t, http.StatusOK, w.Code)
		mgr.AssertExpectations(t)
	})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown cut mode", `{"cut_mode":"Half Cut"}`, "cut_mode"},
		{"too many copies", `{"print_copies":11}`, "print_copies"},
		{"mapping without printer", `{"printer_mappings":[{"pos_profile":"Bar"}]}`, "printer_mappings[0].printer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := new(MockSettingsManager)

			w := serve(http.MethodPut, "/print/settings", tt.body, NewSettingsHandler(mgr).UpdateSettings)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.Equal(t, tt.field, resp.Error.Details[0].Field)
			mgr.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate profile rejected by the domain", func(t *testing.T) {
		mgr := new(MockSettingsManager)
		mgr.On("Update", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_INPUT", "POS profile bar is mapped more than once"))

		w := serve(http.MethodPut, "/print/settings",
			`{"printer_mappings":[{"pos_profile":"Bar","printer":"A"},{"pos_profile":"bar","printer":"B"}]}`,
			NewSettingsHandler(mgr).UpdateSettings)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decode(t, w).Error.Code)
	})
}

func TestSettingsHandler_RunSetupWizard(t *testing.T) {
	ps := settings.Default()
	ps.ApplyWizardDefaults()
	mgr := new(MockSettingsManager)
	mgr.On("RunSetupWizard", mock.Anything).Return(&appsettings.SettingsResponse{PrintSettings: ps, Configured: true}, nil)

	w := serve(http.MethodPost, "/print/settings/setup-wizard", nil, NewSettingsHandler(mgr).RunSetupWizard)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, true, data["enable_auto_print"])
	assert.Equal(t, settings.DefaultPrinterName, data["default_printer"])
}

func TestSettingsHandler_GetPrinter(t *testing.T) {
	mgr := new(MockSettingsManager)
	mgr.On("PrinterForProfile", mock.Anything, "Bar").Return(&appsettings.PrinterResponse{
		POSProfile:        "Bar",
		PrinterAssignment: settings.PrinterAssignment{Printer: "Bar Printer", CutMode: settings.CutModeFull, PrintCopies: 1, DrawerPin: 2},
	}, nil)

	w := serve(http.MethodGet, "/print/printers?pos_profile=Bar", nil, NewSettingsHandler(mgr).GetPrinter)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "Bar", data["pos_profile"])
	assert.Equal(t, "Bar Printer", data["printer"])
	mgr.AssertExpectations(t)
}
