package credential

import "github.com/nextpos/printing/internal/domain/shared"

// Error codes surfaced by the print bridge credential operations
const (
	ErrCodeMissingCredential = "MISSING_CREDENTIAL"
	ErrCodeKeyLoadFailure    = "KEY_LOAD_FAILURE"
	ErrCodeSigningFailure    = "SIGNING_FAILURE"
)

var (
	ErrMissingCertificate = shared.NewDomainError(ErrCodeMissingCredential, "No print bridge certificate is configured")
	ErrMissingPrivateKey  = shared.NewDomainError(ErrCodeMissingCredential, "No print bridge private key is configured; generate a key pair first")
	ErrMissingPayload     = shared.NewDomainError("INVALID_INPUT", "Missing toSign parameter")
	ErrReadOnlyStore      = shared.NewDomainError("INVALID_STATE", "Key store is read-only")
)

// KeyLoadFailure wraps an error raised while reading or parsing key material
func KeyLoadFailure(cause error) *shared.DomainError {
	return shared.WrapDomainError(ErrCodeKeyLoadFailure, "Failed to load private key", cause)
}

// SigningFailure wraps an error raised by the signature primitive
func SigningFailure(cause error) *shared.DomainError {
	return shared.WrapDomainError(ErrCodeSigningFailure, "Signing failed", cause)
}
