package keystore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/domain/credential"
)

// File names inside the key directory
const (
	PrivateKeyFile  = "private-key.pem"
	CertificateFile = "digital-certificate.txt"
)

// FileKeyStore keeps the key pair as two PEM files in a directory
type FileKeyStore struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

var _ credential.KeyStore = (*FileKeyStore)(nil)

// FileKeyStoreOption is a functional option for configuring FileKeyStore
type FileKeyStoreOption func(*FileKeyStore)

// WithFileLogger sets a custom logger for FileKeyStore
func WithFileLogger(logger *zap.Logger) FileKeyStoreOption {
	return func(s *FileKeyStore) {
		s.logger = logger
	}
}

// NewFileKeyStore creates a store rooted at dir
func NewFileKeyStore(dir string, opts ...FileKeyStoreOption) (*FileKeyStore, error) {
	if dir == "" {
		return nil, errors.New("key directory is required")
	}
	s := &FileKeyStore{dir: dir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements credential.KeyStore
func (s *FileKeyStore) Name() string { return "file" }

// Load reads both files; a missing file leaves its field empty
func (s *FileKeyStore) Load(_ context.Context) (*credential.KeyMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := readOptional(filepath.Join(s.dir, PrivateKeyFile))
	if err != nil {
		return nil, err
	}
	cert, err := readOptional(filepath.Join(s.dir, CertificateFile))
	if err != nil {
		return nil, err
	}
	return &credential.KeyMaterial{PrivateKeyPEM: key, CertificatePEM: cert}, nil
}

// Save writes both files, the private key with owner-only permissions
func (s *FileKeyStore) Save(_ context.Context, material *credential.KeyMaterial) error {
	if material == nil {
		return errors.New("key material is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, PrivateKeyFile), material.PrivateKeyPEM, 0o600); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.dir, CertificateFile), material.CertificatePEM, 0o644); err != nil {
		return err
	}

	s.logger.Info("Print bridge key pair written", zap.String("dir", s.dir))
	return nil
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}

// writeAtomic writes to a temp file in the same directory and renames it
// over path so readers never see a partial key
func writeAtomic(path, content string, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
