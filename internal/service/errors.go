package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrSheetNotEditable is returned when a cost sheet in a terminal
	// status is modified
	ErrSheetNotEditable = errors.New("cost sheet can no longer be edited")

	// ErrSheetNotSubmitted is returned when approving or rejecting a
	// sheet that is not awaiting review
	ErrSheetNotSubmitted = errors.New("cost sheet is not awaiting review")

	// ErrRejectRequiresComments is returned when a rejection carries no
	// reviewer comments
	ErrRejectRequiresComments = errors.New("rejection requires reviewer comments")

	// ErrTransactionNotReviewable is returned when matching or excluding
	// a deposit that already left review
	ErrTransactionNotReviewable = errors.New("bank transaction is not in review")

	// ErrExcludeRequiresReason is returned when an exclusion carries no
	// operator reason
	ErrExcludeRequiresReason = errors.New("exclusion requires a reason")

	// ErrTransactionNotExcluded is returned when undoing an exclusion on
	// a deposit that is not excluded
	ErrTransactionNotExcluded = errors.New("bank transaction is not excluded")

	// ErrNoAdjustments is returned when a receipt voucher carries no
	// effective invoice adjustments
	ErrNoAdjustments = errors.New("receipt voucher has no effective adjustments")

	// ErrVoucherReconciled is returned when a match names a receipt
	// voucher that is already tied to a deposit
	ErrVoucherReconciled = errors.New("receipt voucher is already reconciled")
)
