package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsettings "github.com/nextpos/printing/internal/application/settings"
	"github.com/nextpos/printing/internal/infrastructure/logger"
	"github.com/nextpos/printing/internal/interfaces/http/middleware"
)

// SettingsManager reads and changes print settings
type SettingsManager interface {
	Get(ctx context.Context) (*appsettings.SettingsResponse, error)
	Update(ctx context.Context, req appsettings.UpdateSettingsRequest) (*appsettings.SettingsResponse, error)
	RunSetupWizard(ctx context.Context) (*appsettings.SettingsResponse, error)
	PrinterForProfile(ctx context.Context, profile string) (*appsettings.PrinterResponse, error)
}

// SettingsHandler handles print settings endpoints
type SettingsHandler struct {
	BaseHandler
	settings SettingsManager
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings handles GET /print/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	resp, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSettings handles PUT /print/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req appsettings.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.FromGin(c).Info("Print settings changed", zap.String("user", middleware.GetJWTUsername(c)))
	h.Success(c, resp)
}

// RunSetupWizard handles POST /print/settings/setup-wizard
func (h *SettingsHandler) RunSetupWizard(c *gin.Context) {
	resp, err := h.settings.RunSetupWizard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPrinter handles GET /print/printers?pos_profile=
func (h *SettingsHandler) GetPrinter(c *gin.Context) {
	resp, err := h.settings.PrinterForProfile(c.Request.Context(), c.Query("pos_profile"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
