// Package signing generates the print bridge key pair and produces the
// RSA-SHA1 signatures the bridge verifies against the publisher certificate.
package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // the print bridge protocol mandates SHA-1
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nextpos/printing/internal/domain/credential"
)

// Defaults for generated key pairs
const (
	DefaultKeyBits    = 2048
	DefaultValidity   = 10 * 365 * 24 * time.Hour
	DefaultCommonName = "NextPOS Print Bridge"
)

// GenerateOptions controls key pair generation
type GenerateOptions struct {
	Bits         int
	CommonName   string
	Organization string
	Validity     time.Duration
	Now          time.Time
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Bits == 0 {
		o.Bits = DefaultKeyBits
	}
	if o.CommonName == "" {
		o.CommonName = DefaultCommonName
	}
	if o.Validity <= 0 {
		o.Validity = DefaultValidity
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Generate creates an RSA key and a self-signed publisher certificate
func Generate(opts GenerateOptions) (*credential.KeyMaterial, error) {
	opts = opts.withDefaults()

	key, err := rsa.GenerateKey(rand.Reader, opts.Bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate serial: %w", err)
	}

	subject := pkix.Name{CommonName: opts.CommonName}
	if opts.Organization != "" {
		subject.Organization = []string{opts.Organization}
	}
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               subject,
		NotBefore:             opts.Now.UTC(),
		NotAfter:              opts.Now.Add(opts.Validity).UTC(),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return &credential.KeyMaterial{
		PrivateKeyPEM:  string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})),
		CertificatePEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
		GeneratedAt:    opts.Now,
	}, nil
}

// ParsePrivateKey decodes a PKCS#1 or PKCS#8 PEM RSA private key
func ParsePrivateKey(pemText string) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, nil
}

// SignSHA1 signs the UTF-8 bytes of payload with RSASSA-PKCS1-v1_5 over
// SHA-1 and returns the standard base64 encoding of the signature
func SignSHA1(key *rsa.PrivateKey, payload string) (string, error) {
	if key == nil {
		return "", errors.New("no private key")
	}
	digest := sha1.Sum([]byte(payload)) //nolint:gosec
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifySHA1 checks a base64 signature against a PEM certificate or public key
func VerifySHA1(publicPEM, payload, signature string) error {
	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicPEM))
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}
	digest := sha1.Sum([]byte(payload)) //nolint:gosec
	return rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig)
}

// ParseCertificate decodes the first certificate in a PEM document
func ParseCertificate(pemText string) (*x509.Certificate, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.New("no PEM certificate found")
	}
	return x509.ParseCertificate(block.Bytes)
}
