package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextpos/printing/internal/application/printing"
	"github.com/nextpos/printing/internal/infrastructure/logger"
)

// ReceiptRenderer renders print jobs
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, req printing.RenderReceiptRequest) (*printing.PrintJobResponse, error)
	TestPrint(ctx context.Context, req printing.TestPrintRequest) (*printing.PrintJobResponse, error)
	DrawerKick(ctx context.Context, req printing.DrawerKickRequest) (*printing.PrintJobResponse, error)
}

// PrintHandler handles receipt rendering endpoints
type PrintHandler struct {
	BaseHandler
	renderer ReceiptRenderer
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(renderer ReceiptRenderer) *PrintHandler {
	return &PrintHandler{renderer: renderer}
}

// RenderReceipt handles POST /print/receipts/render.
// With ?format=raw the printer bytes are returned as an octet stream.
func (h *PrintHandler) RenderReceipt(c *gin.Context) {
	var req printing.RenderReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	ctx := logger.WithPOSProfile(c.Request.Context(), req.POSProfile)
	job, err := h.renderer.RenderReceipt(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondJob(c, job)
}

// TestPrint handles POST /print/test
func (h *PrintHandler) TestPrint(c *gin.Context) {
	var req printing.TestPrintRequest
	if !h.bindOptional(c, &req) {
		return
	}

	ctx := logger.WithPOSProfile(c.Request.Context(), req.POSProfile)
	job, err := h.renderer.TestPrint(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondJob(c, job)
}

// DrawerKick handles POST /print/drawer
func (h *PrintHandler) DrawerKick(c *gin.Context) {
	var req printing.DrawerKickRequest
	if !h.bindOptional(c, &req) {
		return
	}

	ctx := logger.WithPOSProfile(c.Request.Context(), req.POSProfile)
	job, err := h.renderer.DrawerKick(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondJob(c, job)
}

// bindOptional binds a JSON body when one was sent; an empty body keeps
// the zero request
func (h *PrintHandler) bindOptional(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		h.BindingError(c, err)
		return false
	}
	return true
}

func (h *PrintHandler) respondJob(c *gin.Context, job *printing.PrintJobResponse) {
	if c.Query("format") != "raw" {
		h.Success(c, job)
		return
	}

	raw, err := job.Payload.Bytes()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("X-Printer", job.Printer)
	c.Header("X-Print-Copies", strconv.Itoa(job.Copies))
	c.Data(http.StatusOK, "application/octet-stream", raw)
}
