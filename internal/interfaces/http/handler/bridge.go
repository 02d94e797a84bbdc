package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/application/bridge"
	"github.com/nextpos/printing/internal/infrastructure/logger"
	"github.com/nextpos/printing/internal/interfaces/http/middleware"
)

// CertificateFileName is the download name of the publisher certificate
const CertificateFileName = "nextpos-print-bridge.crt"

// CredentialIssuer serves the print bridge certificate and signatures
type CredentialIssuer interface {
	GetCertificate(ctx context.Context) (string, error)
	Sign(ctx context.Context, payload string) (string, error)
	EnsureKeys(ctx context.Context) (*bridge.EnsureKeysResult, error)
}

// BridgeHandler handles print bridge credential endpoints
type BridgeHandler struct {
	BaseHandler
	credentials CredentialIssuer
}

// NewBridgeHandler creates a new BridgeHandler
func NewBridgeHandler(credentials CredentialIssuer) *BridgeHandler {
	return &BridgeHandler{credentials: credentials}
}

// CertificateResponse carries the PEM publisher certificate
type CertificateResponse struct {
	Certificate string `json:"certificate"`
}

// GetCertificate handles GET /bridge/certificate
func (h *BridgeHandler) GetCertificate(c *gin.Context) {
	pem, err := h.credentials.GetCertificate(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CertificateResponse{Certificate: pem})
}

// DownloadCertificate handles GET /bridge/certificate/download. The PEM
// file is what store staff import into the bridge's trusted certificates.
func (h *BridgeHandler) DownloadCertificate(c *gin.Context) {
	pem, err := h.credentials.GetCertificate(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+CertificateFileName+`"`)
	c.Data(http.StatusOK, "application/x-pem-file", []byte(pem))
}

// Sign handles POST /bridge/sign. toSign is read from a JSON or form body,
// or from the query string.
func (h *BridgeHandler) Sign(c *gin.Context) {
	var req bridge.SignRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}
	if req.ToSign == "" {
		req.ToSign = c.Query("toSign")
	}

	signature, err := h.credentials.Sign(c.Request.Context(), req.ToSign)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bridge.SignResponse{Signature: signature})
}

// EnsureKeys handles POST /bridge/keys
func (h *BridgeHandler) EnsureKeys(c *gin.Context) {
	result, err := h.credentials.EnsureKeys(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Generated {
		logger.FromGin(c).Info("Print bridge keys generated",
			zap.String("user", middleware.GetJWTUsername(c)),
			zap.String("key_store", result.KeyStore))
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}
