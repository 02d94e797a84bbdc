package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nextpos/printing/internal/application/bridge"
	"github.com/nextpos/printing/internal/application/printing"
	appsettings "github.com/nextpos/printing/internal/application/settings"
	"github.com/nextpos/printing/internal/interfaces/http/dto"
	"github.com/nextpos/printing/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type MockReceiptRenderer struct {
	mock.Mock
}

func (m *MockReceiptRenderer) RenderReceipt(ctx context.Context, req printing.RenderReceiptRequest) (*printing.PrintJobResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintJobResponse), args.Error(1)
}

func (m *MockReceiptRenderer) TestPrint(ctx context.Context, req printing.TestPrintRequest) (*printing.PrintJobResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintJobResponse), args.Error(1)
}

func (m *MockReceiptRenderer) DrawerKick(ctx context.Context, req printing.DrawerKickRequest) (*printing.PrintJobResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintJobResponse), args.Error(1)
}

type MockSettingsManager struct {
	mock.Mock
}

func (m *MockSettingsManager) Get(ctx context.Context) (*appsettings.SettingsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsettings.SettingsResponse), args.Error(1)
}

func (m *MockSettingsManager) Update(ctx context.Context, req appsettings.UpdateSettingsRequest) (*appsettings.SettingsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsettings.SettingsResponse), args.Error(1)
}

func (m *MockSettingsManager) RunSetupWizard(ctx context.Context) (*appsettings.SettingsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsettings.SettingsResponse), args.Error(1)
}

func (m *MockSettingsManager) PrinterForProfile(ctx context.Context, profile string) (*appsettings.PrinterResponse, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsettings.PrinterResponse), args.Error(1)
}

type MockCredentialIssuer struct {
	mock.Mock
}

func (m *MockCredentialIssuer) GetCertificate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialIssuer) Sign(ctx context.Context, payload string) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialIssuer) EnsureKeys(ctx context.Context) (*bridge.EnsureKeysResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bridge.EnsureKeysResult), args.Error(1)
}

// serve runs one request through handler with the request ID middleware in
// front of it
func serve(method, target string, body any, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Handle(method, "/*path", handler)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

