package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nextpos/printing/internal/domain/settings"
	"github.com/nextpos/printing/internal/domain/shared"
	"github.com/nextpos/printing/internal/infrastructure/persistence/models"
)

// settingsColumns are overwritten on every save; created_at is kept
var settingsColumns = []string{
	"enable_printing", "enable_auto_print", "show_address", "show_item_code",
	"show_tax", "show_cashier", "wrap_long_names", "paper_width",
	"custom_header", "custom_footer", "default_printer", "cut_mode",
	"feed_before_cut", "print_copies", "open_cash_drawer", "drawer_pin",
	"updated_at",
}

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

var _ settings.Repository = (*GormSettingsRepository)(nil)

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get loads the settings row with its printer mappings in saved order
func (r *GormSettingsRepository) Get(ctx context.Context) (*settings.PrintSettings, error) {
	var model models.PrintSettingsModel
	err := r.db.WithContext(ctx).
		Preload("Mappings", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&model, "id = ?", models.SettingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the settings row and replaces its mappings in one transaction
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.PrintSettings) error {
	model := models.PrintSettingsModelFromDomain(s)
	mappings := model.Mappings
	model.Mappings = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(settingsColumns),
		}).Create(model).Error; err != nil {
			return err
		}
		if err := tx.Where("settings_id = ?", models.SettingsRowID).
			Delete(&models.PrinterMappingModel{}).Error; err != nil {
			return err
		}
		if len(mappings) == 0 {
			return nil
		}
		return tx.Create(&mappings).Error
	})
	if err != nil {
		return err
	}
	s.UpdatedAt = model.UpdatedAt
	return nil
}
