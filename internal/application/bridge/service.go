// Package bridge issues the publisher certificate and request signatures
// the browser print bridge uses to trust this service.
package bridge

import (
	"context"
	"crypto/rsa"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/domain/credential"
	"github.com/nextpos/printing/internal/infrastructure/logger"
	"github.com/nextpos/printing/internal/infrastructure/signing"
	"github.com/nextpos/printing/internal/infrastructure/telemetry"
)

const serviceName = "bridge"

// EnsureKeysResult reports whether a new key pair was created
type EnsureKeysResult struct {
	Generated   bool      `json:"generated"`
	KeyStore    string    `json:"key_store"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

// SignResponse is the signature returned to the bridge
type SignResponse struct {
	Signature string `json:"signature"`
}

// SignRequest is the payload the bridge asks us to sign
type SignRequest struct {
	ToSign string `json:"toSign" form:"toSign"`
}

// CredentialService serves the certificate and signs bridge requests
type CredentialService struct {
	store    credential.KeyStore
	generate signing.GenerateOptions
	logger   *zap.Logger

	mu        sync.Mutex
	cachedPEM string
	cachedKey *rsa.PrivateKey
}

// NewCredentialService creates a new CredentialService. generate controls
// the key pair EnsureKeys creates.
func NewCredentialService(store credential.KeyStore, generate signing.GenerateOptions, logger *zap.Logger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialService{store: store, generate: generate, logger: logger}
}

// GetCertificate returns the PEM publisher certificate
func (s *CredentialService) GetCertificate(ctx context.Context) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "get_certificate",
		telemetry.AttrKeyStore, s.store.Name())
	defer span.End()

	material, err := s.store.Load(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return "", credential.KeyLoadFailure(err)
	}
	if !material.HasCertificate() {
		return "", credential.ErrMissingCertificate
	}
	return material.CertificatePEM, nil
}

// Sign returns the base64 RSA-SHA1 signature of payload
func (s *CredentialService) Sign(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", credential.ErrMissingPayload
	}

	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "sign",
		telemetry.AttrKeyStore, s.store.Name(),
		telemetry.AttrPayloadSize, len(payload))
	defer span.End()

	key, err := s.privateKey(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}
	signature, err := signing.SignSHA1(key, payload)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Enrich(ctx, s.logger).Error("Failed to sign bridge payload", zap.Error(err))
		return "", credential.SigningFailure(err)
	}
	return signature, nil
}

// EnsureKeys generates and stores a key pair when the store has none.
// An existing private key is never replaced.
func (s *CredentialService) EnsureKeys(ctx context.Context) (*EnsureKeysResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "ensure_keys",
		telemetry.AttrKeyStore, s.store.Name())
	defer span.End()

	material, err := s.store.Load(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, credential.KeyLoadFailure(err)
	}
	if material.HasPrivateKey() {
		return &EnsureKeysResult{Generated: false, KeyStore: s.store.Name(), GeneratedAt: material.GeneratedAt}, nil
	}

	generated, err := signing.Generate(s.generate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.store.Save(ctx, generated); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Generated print bridge key pair",
		zap.String("key_store", s.store.Name()),
		zap.Time("generated_at", generated.GeneratedAt))
	return &EnsureKeysResult{Generated: true, KeyStore: s.store.Name(), GeneratedAt: generated.GeneratedAt}, nil
}

// privateKey loads and parses the stored key, reusing the parsed key while
// the stored PEM is unchanged
func (s *CredentialService) privateKey(ctx context.Context) (*rsa.PrivateKey, error) {
	material, err := s.store.Load(ctx)
	if err != nil {
		return nil, credential.KeyLoadFailure(err)
	}
	if !material.HasPrivateKey() {
		return nil, credential.ErrMissingPrivateKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cachedKey != nil && s.cachedPEM == material.PrivateKeyPEM {
		return s.cachedKey, nil
	}
	key, err := signing.ParsePrivateKey(material.PrivateKeyPEM)
	if err != nil {
		return nil, credential.KeyLoadFailure(err)
	}
	s.cachedPEM = material.PrivateKeyPEM
	s.cachedKey = key
	return key, nil
}
