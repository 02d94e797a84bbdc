package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nextpos/printing/internal/infrastructure/auth"
	"github.com/nextpos/printing/internal/interfaces/http/middleware"
	"github.com/nextpos/printing/internal/interfaces/http/router"
)

// PrintRoutes creates the route group for receipt rendering and settings.
// Writes to settings need a token with the settings permission.
func PrintRoutes(receipts *PrintHandler, settings *SettingsHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("print", "/print")

	group.POST("/receipts/render", receipts.RenderReceipt)
	group.POST("/test", receipts.TestPrint)
	group.POST("/drawer", receipts.DrawerKick)

	group.GET("/settings", settings.GetSettings)
	group.PUT("/settings", authMiddleware, middleware.RequirePermission(auth.PermissionSettingsWrite), settings.UpdateSettings)
	group.POST("/settings/setup-wizard", authMiddleware, middleware.RequirePermission(auth.PermissionSettingsWrite), settings.RunSetupWizard)
	group.GET("/printers", settings.GetPrinter)

	return group
}

// BridgeRoutes creates the route group for print bridge credentials.
// signLimit, when not nil, guards the public signing endpoint.
func BridgeRoutes(h *BridgeHandler, authMiddleware, signLimit gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("bridge", "/bridge")

	group.GET("/certificate", h.GetCertificate)
	group.GET("/certificate/download", h.DownloadCertificate)
	if signLimit != nil {
		group.POST("/sign", signLimit, h.Sign)
	} else {
		group.POST("/sign", h.Sign)
	}
	group.POST("/keys", authMiddleware, middleware.RequirePermission(auth.PermissionBridgeKeys), h.EnsureKeys)

	return group
}

// SystemRoutes creates the route group for system information
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo)
}
