package models

import (
	"time"

	"github.com/nextpos/printing/internal/domain/settings"
)

// SettingsRowID is the primary key of the single print_settings row
const SettingsRowID = 1

// PrintSettingsModel is the GORM model for the print_settings table
type PrintSettingsModel struct {
	ID              uint   `gorm:"primaryKey;autoIncrement:false"`
	EnablePrinting  bool   `gorm:"not null"`
	EnableAutoPrint bool   `gorm:"not null"`
	ShowAddress     bool   `gorm:"not null"`
	ShowItemCode    bool   `gorm:"not null"`
	ShowTax         bool   `gorm:"not null"`
	ShowCashier     bool   `gorm:"not null"`
	WrapLongNames   bool   `gorm:"not null"`
	PaperWidth      int    `gorm:"not null"`
	CustomHeader    string `gorm:"type:text"`
	CustomFooter    string `gorm:"type:text"`
	DefaultPrinter  string `gorm:"type:varchar(140)"`
	CutMode         string `gorm:"type:varchar(20)"`
	FeedBeforeCut   int    `gorm:"not null"`
	PrintCopies     int    `gorm:"not null"`
	OpenCashDrawer  bool   `gorm:"not null"`
	DrawerPin       int    `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Mappings []PrinterMappingModel `gorm:"foreignKey:SettingsID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for PrintSettingsModel
func (PrintSettingsModel) TableName() string {
	return "print_settings"
}

// PrinterMappingModel is one row of the POS profile to printer table
type PrinterMappingModel struct {
	ID         uint   `gorm:"primaryKey"`
	SettingsID uint   `gorm:"not null;index"`
	Position   int    `gorm:"not null"`
	POSProfile string `gorm:"column:pos_profile;type:varchar(140);not null"`
	Printer    string `gorm:"type:varchar(140);not null"`
}

// TableName returns the table name for PrinterMappingModel
func (PrinterMappingModel) TableName() string {
	return "print_printer_mappings"
}

// ToDomain converts the model and its mappings to domain settings
func (m *PrintSettingsModel) ToDomain() *settings.PrintSettings {
	s := &settings.PrintSettings{
		EnablePrinting:  m.EnablePrinting,
		EnableAutoPrint: m.EnableAutoPrint,
		ShowAddress:     m.ShowAddress,
		ShowItemCode:    m.ShowItemCode,
		ShowTax:         m.ShowTax,
		ShowCashier:     m.ShowCashier,
		WrapLongNames:   m.WrapLongNames,
		PaperWidth:      m.PaperWidth,
		CustomHeader:    m.CustomHeader,
		CustomFooter:    m.CustomFooter,
		DefaultPrinter:  m.DefaultPrinter,
		CutMode:         settings.CutMode(m.CutMode),
		FeedBeforeCut:   m.FeedBeforeCut,
		PrintCopies:     m.PrintCopies,
		OpenCashDrawer:  m.OpenCashDrawer,
		DrawerPin:       m.DrawerPin,
		UpdatedAt:       m.UpdatedAt,
	}
	if len(m.Mappings) > 0 {
		s.PrinterMappings = make([]settings.PrinterMapping, len(m.Mappings))
		for i, mm := range m.Mappings {
			s.PrinterMappings[i] = settings.PrinterMapping{POSProfile: mm.POSProfile, Printer: mm.Printer}
		}
	}
	return s
}

// PrintSettingsModelFromDomain builds the model for the singleton row
func PrintSettingsModelFromDomain(s *settings.PrintSettings) *PrintSettingsModel {
	m := &PrintSettingsModel{
		ID:              SettingsRowID,
		EnablePrinting:  s.EnablePrinting,
		EnableAutoPrint: s.EnableAutoPrint,
		ShowAddress:     s.ShowAddress,
		ShowItemCode:    s.ShowItemCode,
		ShowTax:         s.ShowTax,
		ShowCashier:     s.ShowCashier,
		WrapLongNames:   s.WrapLongNames,
		PaperWidth:      s.PaperWidth,
		CustomHeader:    s.CustomHeader,
		CustomFooter:    s.CustomFooter,
		DefaultPrinter:  s.DefaultPrinter,
		CutMode:         string(s.CutMode),
		FeedBeforeCut:   s.FeedBeforeCut,
		PrintCopies:     s.PrintCopies,
		OpenCashDrawer:  s.OpenCashDrawer,
		DrawerPin:       s.DrawerPin,
	}
	for i, mm := range s.PrinterMappings {
		m.Mappings = append(m.Mappings, PrinterMappingModel{
			SettingsID: SettingsRowID,
			Position:   i,
			POSProfile: mm.POSProfile,
			Printer:    mm.Printer,
		})
	}
	return m
}

// All returns every model managed by AutoMigrate
func All() []any {
	return []any{&PrintSettingsModel{}, &PrinterMappingModel{}}
}
