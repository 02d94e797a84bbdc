// Package settings manages the store's print settings and printer lookup
package settings

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/nextpos/printing/internal/domain/settings"
	"github.com/nextpos/printing/internal/domain/shared"
	"github.com/nextpos/printing/internal/infrastructure/logger"
)

// SettingsService reads and updates print settings
type SettingsService struct {
	repo   domain.Repository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo domain.Repository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the stored settings, or the defaults when none are stored
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	ps, configured, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsResponse{PrintSettings: ps, Configured: configured}, nil
}

// Update applies the present fields, validates the result and saves it
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	ps, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	req.Apply(ps)
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ps); err != nil {
		return nil, fmt.Errorf("failed to save print settings: %w", err)
	}

	logger.Enrich(ctx, s.logger).Info("Print settings updated",
		zap.String("default_printer", ps.DefaultPrinter),
		zap.Int("paper_width", ps.PaperWidth),
		zap.Int("printer_mappings", len(ps.PrinterMappings)))
	return &SettingsResponse{PrintSettings: ps, Configured: true}, nil
}

// RunSetupWizard fills printer, cut, feed and copies defaults that are
// still unset and turns on auto print
func (s *SettingsService) RunSetupWizard(ctx context.Context) (*SettingsResponse, error) {
	ps, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	ps.ApplyWizardDefaults()
	if err := s.repo.Save(ctx, ps); err != nil {
		return nil, fmt.Errorf("failed to save print settings: %w", err)
	}

	logger.Enrich(ctx, s.logger).Info("Print setup wizard completed",
		zap.String("default_printer", ps.DefaultPrinter),
		zap.String("cut_mode", string(ps.CutMode)))
	return &SettingsResponse{PrintSettings: ps, Configured: true}, nil
}

// PrinterForProfile returns the printer and hardware behaviour for a POS
// profile, falling back to the default printer
func (s *SettingsService) PrinterForProfile(ctx context.Context, profile string) (*PrinterResponse, error) {
	ps, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &PrinterResponse{
		POSProfile:        profile,
		PrinterAssignment: ps.PrinterForProfile(profile),
	}, nil
}

func (s *SettingsService) load(ctx context.Context) (*domain.PrintSettings, bool, error) {
	ps, err := s.repo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return domain.Default(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load print settings: %w", err)
	}
	return ps, true, nil
}
