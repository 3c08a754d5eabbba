package apperrors

import (
	"net/http"
)

// ErrNotFound - фабрика для "не найдено" (404), оборачивает ошибку репозитория
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrFederatedAccount - попытка входа по паролю в аккаунт, созданный через Google.
var ErrFederatedAccount = New(
	CodeInvalidOperation,
	"auth",
	"This account uses Google sign-in",
	http.StatusBadRequest,
)

// --- Profile status ---

// ErrUnknownRole - для роли нет движка статусов (worker/employer/agency).
var ErrUnknownRole = New(
	CodeUnknownRole,
	"profile_status",
	"No profile status engine for this role",
	http.StatusBadRequest,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrProfileNotFound = New(
	CodeNotFound,
	"profile",
	"Profile not found",
	http.StatusNotFound,
)

var ErrSkillsNotSupported = New(
	CodeInvalidOperation,
	"profile",
	"Skills are only available for worker profiles",
	http.StatusBadRequest,
)

// --- Documents ---

var ErrDocumentNotFound = New(
	CodeNotFound,
	"document",
	"Document not found",
	http.StatusNotFound,
)

// ErrSignatureImmutable - подпись нельзя перезагрузить после создания.
var ErrSignatureImmutable = New(
	CodeImmutable,
	"document",
	"Signature cannot be replaced once uploaded",
	http.StatusConflict,
)

var ErrDocumentAlreadyJudged = New(
	CodeInvalidStatus,
	"document",
	"Document has already been reviewed",
	http.StatusConflict,
)

var ErrRejectionReasonRequired = New(
	CodeValidationFailed,
	"document",
	"Rejection reason is required when rejecting a document",
	http.StatusBadRequest,
)

var ErrInvalidDocumentLabel = New(
	CodeValidationFailed,
	"document",
	"Unknown document label",
	http.StatusBadRequest,
)

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Connections ---

var ErrConnectionNotFound = New(
	CodeNotFound,
	"connection",
	"Connection request not found",
	http.StatusNotFound,
)

var ErrInvalidConnectionPair = New(
	CodeInvalidOperation,
	"connection",
	"Connection requests are only allowed between employer and worker, or worker and agency",
	http.StatusBadRequest,
)

var ErrConnectionAlreadyPending = New(
	CodeConflict,
	"connection",
	"A pending request between these accounts already exists",
	http.StatusConflict,
)

var ErrConnectionNotPending = New(
	CodeInvalidStatus,
	"connection",
	"Only pending requests can be changed",
	http.StatusConflict,
)

var ErrWorkerNotApproved = New(
	CodeForbidden,
	"connection",
	"Worker profile is not approved yet",
	http.StatusForbidden,
)

var ErrAccountRejected = New(
	CodeForbidden,
	"connection",
	"Account is rejected and cannot send requests",
	http.StatusForbidden,
)
