package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nextpos/printing/internal/application/bridge"
	"github.com/nextpos/printing/internal/domain/credential"
)

const testPEM = "-----BEGIN CERTIFICATE-----\nMIIB\n-----END CERTIFICATE-----\n"

func TestBridgeHandler_GetCertificate(t *testing.T) {
	t.Run("returns the certificate", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("GetCertificate", mock.Anything).Return(testPEM, nil)

		w := serve(http.MethodGet, "/bridge/certificate", nil, NewBridgeHandler(issuer).GetCertificate)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testPEM, decode(t, w).Data.(map[string]any)["certificate"])
	})

	t.Run("not configured", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("GetCertificate", mock.Anything).Return("", credential.ErrMissingCertificate)

		w := serve(http.MethodGet, "/bridge/certificate", nil, NewBridgeHandler(issuer).GetCertificate)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "MISSING_CREDENTIAL", decode(t, w).Error.Code)
	})
}

func TestBridgeHandler_DownloadCertificate(t *testing.T) {
	issuer := new(MockCredentialIssuer)
	issuer.On("GetCertificate", mock.Anything).Return(testPEM, nil)

	w := serve(http.MethodGet, "/bridge/certificate/download", nil, NewBridgeHandler(issuer).DownloadCertificate)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-pem-file", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), CertificateFileName)
	assert.Equal(t, testPEM, w.Body.String())
}

func TestBridgeHandler_Sign(t *testing.T) {
	t.Run("JSON body", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("Sign", mock.Anything, "abc123").Return("c2ln", nil)

		w := serve(http.MethodPost, "/bridge/sign", `{"toSign":"abc123"}`, NewBridgeHandler(issuer).Sign)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "c2ln", decode(t, w).Data.(map[string]any)["signature"])
	})

	t.Run("form body", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("Sign", mock.Anything, "abc 123").Return("c2ln", nil)

		engine := gin.New()
		engine.POST("/bridge/sign", NewBridgeHandler(issuer).Sign)
		form := url.Values{"toSign": {"abc 123"}}
		req := httptest.NewRequest(http.MethodPost, "/bridge/sign", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		issuer.AssertExpectations(t)
	})

	t.Run("query string", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("Sign", mock.Anything, "q").Return("c2ln", nil)

		w := serve(http.MethodPost, "/bridge/sign?toSign=q", nil, NewBridgeHandler(issuer).Sign)

		assert.Equal(t, http.StatusOK, w.Code)
		issuer.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing payload", credential.ErrMissingPayload, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing key", credential.ErrMissingPrivateKey, http.StatusServiceUnavailable, "MISSING_CREDENTIAL"},
		{"bad key", credential.KeyLoadFailure(errors.New("asn1")), http.StatusInternalServerError, "KEY_LOAD_FAILURE"},
		{"signing", credential.SigningFailure(errors.New("rsa")), http.StatusInternalServerError, "SIGNING_FAILURE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := new(MockCredentialIssuer)
			issuer.On("Sign", mock.Anything, mock.Anything).Return("", tt.err)

			w := serve(http.MethodPost, "/bridge/sign", `{"toSign":"x"}`, NewBridgeHandler(issuer).Sign)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
		})
	}
}

func TestBridgeHandler_EnsureKeys(t *testing.T) {
	t.Run("generated", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("EnsureKeys", mock.Anything).Return(&bridge.EnsureKeysResult{Generated: true, KeyStore: "file"}, nil)

		w := serve(http.MethodPost, "/bridge/keys", nil, NewBridgeHandler(issuer).EnsureKeys)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, true, decode(t, w).Data.(map[string]any)["generated"])
	})

	t.Run("already present", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("EnsureKeys", mock.Anything).Return(&bridge.EnsureKeysResult{KeyStore: "file"}, nil)

		w := serve(http.MethodPost, "/bridge/keys", nil, NewBridgeHandler(issuer).EnsureKeys)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("read-only store", func(t *testing.T) {
		issuer := new(MockCredentialIssuer)
		issuer.On("EnsureKeys", mock.Anything).Return(nil, credential.ErrReadOnlyStore)

		w := serve(http.MethodPost, "/bridge/keys", nil, NewBridgeHandler(issuer).EnsureKeys)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_STATE", decode(t, w).Error.Code)
	})
}
