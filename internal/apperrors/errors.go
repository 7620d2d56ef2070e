package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAssetNotFound indicates that an asset with the given ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrOperationNotFound indicates that an operation with the given ID does not exist.
	ErrOperationNotFound = errors.New("operation not found")

	// ErrTaxRuleNotFound indicates that an asset class has no tax rule configured.
	// Computation for that asset class is aborted; other classes continue.
	ErrTaxRuleNotFound = errors.New("tax rule not found for asset class")

	// ErrReportNotFound indicates that no cached report exists for the requested month.
	ErrReportNotFound = errors.New("report not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientQuantity indicates that a sell or withdraw operation exceeds
	// the tracked position. This signals missing buy operations upstream; the
	// sale is never clamped.
	ErrInsufficientQuantity = errors.New("insufficient quantity for sale")

	// ErrInvalidOperation indicates a malformed operation record (non-finite or
	// negative quantity/price where disallowed).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidPeriod indicates that a month parameter is missing or not in YYYY-MM format.
	ErrInvalidPeriod = errors.New("invalid month, want YYYY-MM")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data.
var (
	ErrFailedToRetrieveAssets     = errors.New("failed to retrieve assets")
	ErrFailedToRetrieveOperations = errors.New("failed to retrieve operations")
	ErrFailedToRetrieveTaxRules   = errors.New("failed to retrieve tax rules")
	ErrFailedToComputeReport      = errors.New("failed to compute tax report")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDecryptionFailed indicates that an encrypted operation field could not
	// be decrypted, usually because the encryption key changed.
	ErrDecryptionFailed = errors.New("failed to decrypt field")

	// ErrDataInconsistency indicates that the data is in an inconsistent state.
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
