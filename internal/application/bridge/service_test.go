package bridge_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nextpos/printing/internal/application/bridge"
	"github.com/nextpos/printing/internal/domain/credential"
	"github.com/nextpos/printing/internal/domain/shared"
	"github.com/nextpos/printing/internal/infrastructure/signing"
)

type MockKeyStore struct {
	mock.Mock
}

func (m *MockKeyStore) Name() string { return "mock" }

func (m *MockKeyStore) Load(ctx context.Context) (*credential.KeyMaterial, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credential.KeyMaterial), args.Error(1)
}

func (m *MockKeyStore) Save(ctx context.Context, material *credential.KeyMaterial) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

var testGenerate = signing.GenerateOptions{Bits: 1024, CommonName: "Test Bridge"}

var (
	materialOnce sync.Once
	material     *credential.KeyMaterial
)

func testMaterial(t *testing.T) *credential.KeyMaterial {
	t.Helper()
	materialOnce.Do(func() {
		var err error
		material, err = signing.Generate(testGenerate)
		require.NoError(t, err)
	})
	return material
}

func TestCredentialService_GetCertificate(t *testing.T) {
	t.Run("returns the PEM certificate", func(t *testing.T) {
		store := new(MockKeyStore)
		store.On("Load", mock.Anything).Return(testMaterial(t), nil)

		pem, err := bridge.NewCredentialService(store, testGenerate, nil).GetCertificate(context.Background())
		require.NoError(t, err)
		assert.Contains(t, pem, "BEGIN CERTIFICATE")
	})

	t.Run("missing certificate", func(t *testing.T) {
		store := new(MockKeyStore)
		store.On("Load", mock.Anything).Return(&credential.KeyMaterial{}, nil)

		_, err := bridge.NewCredentialService(store, testGenerate, nil).GetCertificate(context.Background())
		assert.ErrorIs(t, err, credential.ErrMissingCertificate)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockKeyStore)
		store.On("Load", mock.Anything).Return(nil, errors.New("permission denied"))

		_, err := bridge.NewCredentialService(store, testGenerate, nil).GetCertificate(context.Background())
		assert.True(t, shared.HasCode(err, credential.ErrCodeKeyLoadFailure))
	})
}

func TestCredentialService_Sign(t *testing.T) {
	t.Run("signature verifies against the certificate", func(t *testing.T) {
		m := testMaterial(t)
		store := new(MockKeyStore)
		store.On("Load", mock.Anything).Return(m, nil)
		svc := bridge.NewCredentialService(store, testGenerate, nil)

		sig, err := svc.Sign(context.Background(), "print-request-42")
		require.NoError(t, err)
		require.NoError(t, signing.VerifySHA1(m.CertificatePEM, "print-request-42", sig))

		// PKCS#1 v1.5 is deterministic, so the cached key yields the same signature
		again, err := svc.Sign(context.Background(), "print-request-42")
		require.NoError(t, err)
		assert.Equal(t, sig, again)
	})

	tests := []struct {
		name     string
		payload  string
		material *credential.KeyMaterial
		loadErr  error
		wantCode string
	}{
		{"empty payload", "", nil, nil, "INVALID_INPUT"},
		{"no private key", "x", &credential.KeyMaterial{CertificatePEM: "cert"}, nil, credential.ErrCodeMissingCredential},
		{"unparseable key", "x", &credential.KeyMaterial{PrivateKeyPEM: "not a key"}, nil, credential.ErrCodeKeyLoadFailure},
		{"store failure", "x", nil, errors.New("timeout"), credential.ErrCodeKeyLoadFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockKeyStore)
			if tt.material != nil || tt.loadErr != nil {
				store.On("Load", mock.Anything).Return(tt.material, tt.loadErr)
			}

			_, err := bridge.NewCredentialService(store, testGenerate, nil).Sign(context.Background(), tt.payload)
			require.Error(t, err)
			assert.True(t, shared.HasCode(err, tt.wantCode), err.Error())
		})
	}
}

func TestCredentialService_EnsureKeys(t *testing.T) {
	t.Run("generates when empty", func(t *testing.T) {
		store := new(MockKeyStore)
		store.On("Load", mock.Anything).Return(&credential.KeyMaterial{}, nil)
		store.On("Save", mock.Anything, mock.MatchedBy(func(m *credential.KeyMaterial) bool {
			return m.IsComplete()
		})).Return(nil)

		res, err := bridge.NewCredentialService(store, testGenerate, nil).EnsureKeys(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Generated)
		assert.Equal(t, "mock", res.KeyStore)
		store.AssertExpectations(t)
	})

	t.Run("keeps an existing key", func(t *testing.T) {
		store := new(MockKeyStore)
		store.On("Load", mock.Anything).Return(testMaterial(t), nil)

		res, err := bridge.NewCredentialService(store, testGenerate, nil).EnsureKeys(context.Background())
		require.NoError(t, err)
		assert.False(t, res.Generated)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("read-only store", func(t *testing.T) {
		store := new(MockKeyStore)
		store.On("Load", mock.Anything).Return(&credential.KeyMaterial{}, nil)
		store.On("Save", mock.Anything, mock.Anything).Return(credential.ErrReadOnlyStore)

		_, err := bridge.NewCredentialService(store, testGenerate, nil).EnsureKeys(context.Background())
		assert.ErrorIs(t, err, credential.ErrReadOnlyStore)
	})
}
