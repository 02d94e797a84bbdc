package keystore

import (
	"context"

	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/domain/credential"
	infraconfig "github.com/nextpos/printing/internal/infrastructure/config"
)

// Open returns the key store selected by bridge.key_store. The S3 store
// creates its bucket when it does not exist yet.
func Open(ctx context.Context, bridge infraconfig.BridgeConfig, storage *infraconfig.StorageConfig, logger *zap.Logger) (credential.KeyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch bridge.KeyStore {
	case infraconfig.KeyStoreConfig:
		return NewConfigKeyStore(bridge.PrivateKey, bridge.Certificate), nil
	case infraconfig.KeyStoreS3:
		store, err := NewS3KeyStore(storage, bridge.ObjectPrefix, WithS3Logger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := NewFileKeyStore(bridge.KeyDir, WithFileLogger(logger))
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
