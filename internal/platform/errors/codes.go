package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidRequest represents a malformed request payload.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// Authorization errors
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeActorMismatch   Code = "ACTOR_MISMATCH"

	// Treasury errors
	CodeTreasuryNotFound         Code = "TREASURY_NOT_FOUND"
	CodeTreasuryNoSigners        Code = "TREASURY_NO_SIGNERS"
	CodeTreasuryInvalidThreshold Code = "TREASURY_INVALID_THRESHOLD"
	CodeTreasuryNotSigner        Code = "TREASURY_NOT_SIGNER"
	CodeTreasuryNotOwner         Code = "TREASURY_NOT_OWNER"
	CodeTreasuryPaused           Code = "TREASURY_PAUSED"
	CodeTreasuryInvalidAmount    Code = "TREASURY_INVALID_AMOUNT"
	CodeInsufficientBalance      Code = "TREASURY_INSUFFICIENT_BALANCE"

	// Transaction errors
	CodeTransactionNotFound Code = "TRANSACTION_NOT_FOUND"
	CodeTxNotApprovable     Code = "TRANSACTION_NOT_APPROVABLE"
	CodeTxNotExecutable     Code = "TRANSACTION_NOT_EXECUTABLE"
	CodeTxDuplicateApproval Code = "TRANSACTION_DUPLICATE_APPROVAL"
	CodeTxExpired           Code = "TRANSACTION_EXPIRED"
	CodeTxRecipientRequired Code = "TRANSACTION_RECIPIENT_REQUIRED"

	// Budget errors
	CodeBudgetCategoryEmpty Code = "BUDGET_CATEGORY_EMPTY"
	CodeBudgetInvalidPeriod Code = "BUDGET_INVALID_PERIOD"
	CodeBudgetExceeded      Code = "BUDGET_EXCEEDED"

	// Allowance errors
	CodeAllowanceAdminNotSigner Code = "ALLOWANCE_ADMIN_NOT_SIGNER"
	CodeAllowanceInvalidPeriod  Code = "ALLOWANCE_INVALID_PERIOD"
	CodeAllowanceExceeded       Code = "ALLOWANCE_EXCEEDED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidRequest,
		CodeTreasuryNoSigners,
		CodeTreasuryInvalidThreshold,
		CodeTreasuryInvalidAmount,
		CodeTxRecipientRequired,
		CodeBudgetCategoryEmpty,
		CodeBudgetInvalidPeriod,
		CodeAllowanceInvalidPeriod:
		return http.StatusBadRequest

	// Unauthorized - caller identity missing or unverifiable
	case CodeUnauthenticated:
		return http.StatusUnauthorized

	// Forbidden - authenticated but lacking the required capability
	case CodeActorMismatch,
		CodeTreasuryNotSigner,
		CodeTreasuryNotOwner:
		return http.StatusForbidden

	// Not found - resource doesn't exist
	case CodeTreasuryNotFound,
		CodeTransactionNotFound:
		return http.StatusNotFound

	// Conflict - state doesn't allow the operation
	case CodeTreasuryPaused,
		CodeTxNotApprovable,
		CodeTxNotExecutable,
		CodeTxDuplicateApproval,
		CodeTxExpired,
		CodeInsufficientBalance,
		CodeBudgetExceeded,
		CodeAllowanceExceeded:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
