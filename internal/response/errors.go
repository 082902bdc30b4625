package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Students ──────────────────────────────────────────────────────
	ErrStudentNotFound      ErrCode = "STUDENT_NOT_FOUND"
	ErrDuplicateAdmissionNo ErrCode = "DUPLICATE_ADMISSION_NO"
	ErrInvalidAdmissionYear ErrCode = "INVALID_ADMISSION_YEAR"

	// ─── Exams & marks ─────────────────────────────────────────────────
	ErrExamNotFound       ErrCode = "EXAM_NOT_FOUND"
	ErrNoSubjectsSelected ErrCode = "NO_SUBJECTS_SELECTED"
	ErrSubjectNotInExam   ErrCode = "SUBJECT_NOT_IN_EXAM"
	ErrScoreOutOfRange    ErrCode = "SCORE_OUT_OF_RANGE"

	// ─── Reports ───────────────────────────────────────────────────────
	ErrNoData         ErrCode = "NO_DATA"
	ErrExportNotReady ErrCode = "EXPORT_NOT_READY"
	ErrInvalidSetting ErrCode = "INVALID_SETTING"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

var messages = map[ErrCode]string{
	ErrInvalidCredentials: "Username or password is incorrect.",
	ErrTokenRequired:      "Authentication token is required.",
	ErrTokenInvalid:       "Authentication token is invalid.",
	ErrTokenExpired:       "Authentication token has expired.",

	ErrForbidden:        "You are not allowed to access this resource.",
	ErrPermissionDenied: "Permission denied.",

	ErrValidation:     "Validation failed. Please check your input.",
	ErrInvalidID:      "Invalid ID format.",
	ErrInvalidPayload: "Invalid request payload.",

	ErrNotFound:         "Resource not found.",
	ErrConflict:         "Resource already exists.",
	ErrDependencyExists: "The resource is still referenced by other data and cannot be deleted.",

	ErrStudentNotFound:      "Student not found.",
	ErrDuplicateAdmissionNo: "The admission number was taken by a concurrent registration. Please try again.",
	ErrInvalidAdmissionYear: "Admission year must be a non-negative number.",

	ErrExamNotFound:       "Exam not found.",
	ErrNoSubjectsSelected: "Select at least one subject.",
	ErrSubjectNotInExam:   "The subject is not configured for this exam and class.",
	ErrScoreOutOfRange:    "Score must be between 0 and the subject's maximum marks.",

	ErrNoData:         "No data is available for the selected class and exam.",
	ErrExportNotReady: "The export is not ready yet.",
	ErrInvalidSetting: "Unknown setting or value.",

	ErrRateLimitExceeded: "Too many requests. Please try again later.",

	ErrInternal: "Internal server error.",
}

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "An unexpected error occurred."
}
