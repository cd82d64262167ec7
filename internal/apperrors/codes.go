package apperrors

// Error codes grouped by domain
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"

	// Resources
	CodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	CodeEventNotFound        ErrorCode = "EVENT_NOT_FOUND"
	CodeFileNotFound         ErrorCode = "FILE_NOT_FOUND"
	CodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	// Workflow
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeUploadNotAllowed  ErrorCode = "UPLOAD_NOT_ALLOWED"

	// System
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	CodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
)
