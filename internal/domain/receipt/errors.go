package receipt

import (
	"fmt"

	"github.com/nextpos/printing/internal/domain/shared"
)

// Error codes raised by the rendering engine
const (
	ErrCodeInvalidConfiguration = "INVALID_CONFIGURATION"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeUnsupportedMarkup    = "UNSUPPORTED_MARKUP"
)

// Sentinel errors for use with errors.Is
var (
	ErrInvalidConfiguration = shared.NewDomainError(ErrCodeInvalidConfiguration, "Invalid render configuration")
	ErrMissingRequiredField = shared.NewDomainError(ErrCodeMissingRequiredField, "Invoice is missing a required field")
)

func invalidConfiguration(format string, args ...any) *shared.DomainError {
	return shared.NewDomainError(ErrCodeInvalidConfiguration, fmt.Sprintf(format, args...))
}

func missingField(field string) *shared.DomainError {
	return shared.NewDomainError(ErrCodeMissingRequiredField, fmt.Sprintf("Invoice is missing required field %q", field))
}

// unsupportedMarkup builds the warning passed to a MarkupWarningFunc.
// It is never returned as an error from rendering.
func unsupportedMarkup(tag string) *shared.DomainError {
	return shared.NewDomainError(ErrCodeUnsupportedMarkup, fmt.Sprintf("Unsupported markup <%s> stripped", tag))
}

// MarkupWarningFunc receives non-fatal markup warnings
type MarkupWarningFunc func(warning *shared.DomainError)
