package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidDate    ErrCode = "INVALID_DATE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Plan-specific ─────────────────────────────────────────────────
	ErrNothingToPlan    ErrCode = "NOTHING_TO_PLAN"
	ErrDayNotInPlan     ErrCode = "DAY_NOT_IN_PLAN"
	ErrAssignmentLocked ErrCode = "ASSIGNMENT_LOCKED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password"
	case ErrTokenRequired:
		return "Authentication token is required"
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired"
	case ErrSessionInvalidated:
		return "Your session was invalidated by a newer login"
	case ErrValidation:
		return "One or more fields failed validation"
	case ErrInvalidID:
		return "The provided ID is not valid"
	case ErrInvalidPayload:
		return "The request payload could not be parsed"
	case ErrInvalidDate:
		return "The provided date is not valid"
	case ErrNotFound:
		return "The requested resource was not found"
	case ErrConflict:
		return "The resource already exists or conflicts with another"
	case ErrNothingToPlan:
		return "There are no exams to build a plan for"
	case ErrDayNotInPlan:
		return "The given date is not part of the generated plan"
	case ErrAssignmentLocked:
		return "Completed assignments cannot be modified this way"
	case ErrRateLimitExceeded:
		return "Too many requests, slow down"
	case ErrInternal:
		return "An internal error occurred"
	default:
		return "Unknown error"
	}
}
