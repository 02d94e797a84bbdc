// Package printing renders POS invoices into print bridge payloads using
// the store's print settings.
package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/domain/receipt"
	"github.com/nextpos/printing/internal/domain/settings"
	"github.com/nextpos/printing/internal/domain/shared"
	"github.com/nextpos/printing/internal/infrastructure/logger"
	"github.com/nextpos/printing/internal/infrastructure/telemetry"
)

// ErrPrintingDisabled is returned while printing is switched off in settings
var ErrPrintingDisabled = shared.NewDomainError("INVALID_STATE", "Receipt printing is disabled in print settings")

// Encoder converts receipt text to the printer's code page and provides the
// directives that select it
type Encoder interface {
	receipt.TextEncoder
	Prelude() []receipt.Directive
	Name() string
}

// Options holds deployment-wide rendering defaults
type Options struct {
	// DefaultPaperWidth applies when settings leave the width unset
	DefaultPaperWidth int
	// TrailingBlankLines are printed before the feed and cut
	TrailingBlankLines int
}

// ReceiptService renders receipts, test prints and drawer kicks
type ReceiptService struct {
	settingsRepo settings.Repository
	commands     receipt.CommandSet
	encoder      Encoder
	opts         Options
	logger       *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	settingsRepo settings.Repository,
	commands receipt.CommandSet,
	encoder Encoder,
	opts Options,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultPaperWidth == 0 {
		opts.DefaultPaperWidth = receipt.DefaultPaperWidth
	}
	return &ReceiptService{
		settingsRepo: settingsRepo,
		commands:     commands,
		encoder:      encoder,
		opts:         opts,
		logger:       logger,
	}
}

// RenderReceipt renders one copy of the invoice for the printer mapped to
// the request's POS profile
func (s *ReceiptService) RenderReceipt(ctx context.Context, req RenderReceiptRequest) (*PrintJobResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "render",
		telemetry.AttrPOSProfile, req.POSProfile,
		telemetry.AttrItemCount, len(req.Invoice.Items),
	)
	defer span.End()

	resp, err := s.render(ctx, &req.Invoice, req.POSProfile, req.PaperWidth)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.AttrPrinter, resp.Printer,
		telemetry.AttrCopies, resp.Copies,
		telemetry.AttrLineCount, len(resp.Preview),
	)
	return resp, nil
}

// TestPrint renders a fixed sample receipt through the same pipeline
func (s *ReceiptService) TestPrint(ctx context.Context, req TestPrintRequest) (*PrintJobResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "test_print",
		telemetry.AttrPOSProfile, req.POSProfile)
	defer span.End()

	resp, err := s.render(ctx, SampleInvoice(time.Now()), req.POSProfile, req.PaperWidth)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

// DrawerKick builds a payload that only pulses the cash drawer
func (s *ReceiptService) DrawerKick(ctx context.Context, req DrawerKickRequest) (*PrintJobResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "drawer_kick",
		telemetry.AttrPOSProfile, req.POSProfile)
	defer span.End()

	ps, err := s.loadSettings(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	assignment := ps.PrinterForProfile(req.POSProfile)
	pin := req.Pin
	if pin == 0 {
		pin = assignment.DrawerPin
	}
	if pin != 2 && pin != 5 {
		err := shared.NewDomainError(receipt.ErrCodeInvalidConfiguration, fmt.Sprintf("Drawer pin must be 2 or 5, got %d", pin))
		telemetry.RecordError(span, err)
		return nil, err
	}

	payload, err := receipt.PackageDirectives(s.commands, receipt.DrawerKick(pin))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logger.Enrich(ctx, s.logger).Info("Drawer kick payload built",
		zap.String("printer", assignment.Printer),
		zap.Int("pin", pin))

	return &PrintJobResponse{
		Printer:    assignment.Printer,
		Copies:     1,
		CommandSet: s.commands.Name(),
		CodePage:   s.encoder.Name(),
		Payload:    payload,
	}, nil
}

func (s *ReceiptService) render(ctx context.Context, inv *InvoiceDTO, profile string, widthOverride int) (*PrintJobResponse, error) {
	log := logger.Enrich(ctx, s.logger)

	ps, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !ps.EnablePrinting {
		return nil, ErrPrintingDisabled
	}

	snapshot, err := inv.ToSnapshot()
	if err != nil {
		return nil, err
	}

	cfg := ps.ToRenderConfig(s.opts.DefaultPaperWidth, s.opts.TrailingBlankLines)
	if widthOverride > 0 {
		cfg.PaperWidth = widthOverride
	}

	var warnings []string
	lines, err := receipt.Compose(snapshot, cfg, receipt.WithMarkupWarnings(func(w *shared.DomainError) {
		warnings = append(warnings, w.Message)
	}))
	if err != nil {
		return nil, err
	}

	payload, err := receipt.Package(lines, s.commands, receipt.PackageOptions{
		Encoder: s.encoder,
		Prelude: s.encoder.Prelude(),
	})
	if err != nil {
		return nil, err
	}

	assignment := ps.PrinterForProfile(profile)
	resp := &PrintJobResponse{
		Printer:    assignment.Printer,
		Copies:     cfg.Copies(),
		AutoPrint:  ps.EnableAutoPrint,
		CommandSet: s.commands.Name(),
		CodePage:   s.encoder.Name(),
		Payload:    payload,
		Preview:    preview(lines),
		Warnings:   warnings,
	}

	if len(warnings) > 0 {
		log.Warn("Receipt markup stripped", zap.Strings("warnings", warnings))
	}
	log.Info("Receipt rendered",
		zap.String("invoice", snapshot.ID),
		zap.String("status", snapshot.Status.String()),
		zap.Int("paper_width", cfg.PaperWidth),
		zap.Int("lines", len(resp.Preview)),
		zap.String("printer", resp.Printer),
		zap.Int("copies", resp.Copies))
	return resp, nil
}

// loadSettings returns the stored settings, or the defaults of an
// unconfigured store
func (s *ReceiptService) loadSettings(ctx context.Context) (*settings.PrintSettings, error) {
	ps, err := s.settingsRepo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load print settings: %w", err)
	}
	return ps, nil
}

// preview joins partial rows into the text the printer will show, one
// string per printed row
func preview(lines []receipt.RenderedLine) []string {
	var out []string
	var row []byte
	pending := false
	for _, l := range lines {
		if l.IsDirective() {
			continue
		}
		row = append(row, l.Text...)
		pending = true
		if !l.Partial {
			out = append(out, string(row))
			row = row[:0]
			pending = false
		}
	}
	if pending {
		out = append(out, string(row))
	}
	return out
}

// SampleInvoice is the invoice printed by a test print
func SampleInvoice(now time.Time) *InvoiceDTO {
	return &InvoiceDTO{
		Name:        "TEST-PRINT",
		Company:     "Test Print",
		PostingDate: &now,
		Status:      string(receipt.DocStatusFinal),
		Items: []LineItemDTO{
			{ItemName: "Sample Item", ItemCode: "SAMPLE-001", Qty: NewNumber("2"), Rate: NewNumber("3.50"), Amount: NewNumber("7.00")},
			{ItemName: "Another Item With A Longer Name", ItemCode: "SAMPLE-002", Qty: NewNumber("1"), Rate: NewNumber("12.25"), Amount: NewNumber("12.25")},
		},
		GrandTotal:   NewNumber("19.25"),
		PaidAmount:   NewNumber("20.00"),
		ChangeAmount: NewNumber("0.75"),
		Cashier:      "Test",
	}
}
