package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-vendors/identity"
)

const (
	VendorErrorBadInput               = "VENDOR_BAD_INPUT"
	VendorErrorIdentifierUnresolvable = identity.VendorErrorIdentifierUnresolvable
	VendorErrorOrganizationRequired   = "VENDOR_ORGANIZATION_REQUIRED"
	VendorErrorSchemaInvalid          = "VENDOR_SCHEMA_INVALID"
	VendorErrorStorageFailure         = "VENDOR_STORAGE_FAILURE"
	VendorErrorCredentialsNotFound    = "VENDOR_CREDENTIALS_NOT_FOUND"
	VendorErrorTypeNotFound           = "VENDOR_TYPE_NOT_FOUND"
	VendorErrorInstanceNotFound       = "VENDOR_INSTANCE_NOT_FOUND"
	VendorErrorSlugConflict           = "VENDOR_SLUG_CONFLICT"
	VendorErrorInternal               = "VENDOR_INTERNAL_ERROR"
)

func vendorErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureVendorErrorEnvelope(richErr)
	}

	var schemaErr *SchemaValidationError
	switch {
	case errors.Is(err, ErrIdentifierUnresolvable):
		return wrapVendorError(err, goerrors.CategoryValidation, VendorErrorIdentifierUnresolvable)
	case errors.Is(err, ErrOrganizationRequired):
		return wrapVendorError(err, goerrors.CategoryBadInput, VendorErrorOrganizationRequired)
	case errors.As(err, &schemaErr):
		return wrapVendorError(err, goerrors.CategoryValidation, VendorErrorSchemaInvalid)
	case errors.Is(err, ErrCredentialsNotFound):
		return wrapVendorError(err, goerrors.CategoryNotFound, VendorErrorCredentialsNotFound)
	case errors.Is(err, ErrVendorTypeNotFound):
		return wrapVendorError(err, goerrors.CategoryNotFound, VendorErrorTypeNotFound)
	case errors.Is(err, ErrVendorInstanceNotFound):
		return wrapVendorError(err, goerrors.CategoryNotFound, VendorErrorInstanceNotFound)
	case errors.Is(err, ErrVendorSlugTaken):
		return wrapVendorError(err, goerrors.CategoryConflict, VendorErrorSlugConflict)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "constraint"), strings.Contains(msg, "unique"):
		return newVendorError(err.Error(), goerrors.CategoryConflict, VendorErrorStorageFailure)
	case strings.Contains(msg, "storage"), strings.Contains(msg, "transaction"), strings.Contains(msg, "connection refused"):
		return newVendorError(err.Error(), goerrors.CategoryInternal, VendorErrorStorageFailure)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newVendorError(err.Error(), goerrors.CategoryBadInput, VendorErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureVendorErrorEnvelope(mapped)
}

// WrapStorage tags persistence-layer failures so callers can distinguish a
// retryable transport failure from a validation problem. Rollback has
// already happened by the time this wraps.
func WrapStorage(err error, message string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(VendorErrorStorageFailure)
}

// wrapVendorError keeps the original error in the chain so callers can still
// match sentinels with errors.Is after mapping.
func wrapVendorError(err error, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureVendorErrorEnvelope(
		goerrors.Wrap(err, category, err.Error()).
			WithTextCode(textCode),
	)
}

func newVendorError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureVendorErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureVendorErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = vendorHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultVendorTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultVendorTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return VendorErrorBadInput
	case goerrors.CategoryNotFound:
		return VendorErrorTypeNotFound
	case goerrors.CategoryConflict:
		return VendorErrorSlugConflict
	default:
		return VendorErrorInternal
	}
}

func vendorHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
