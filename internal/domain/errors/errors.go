package errors

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError carrying the same error code, so errors.Is works
// across WithDetails copies.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// Predefined error types
var (
	// Record errors
	ErrCafeNotFound = NewBaseError(
		http.StatusNotFound,
		"CAFE_NOT_FOUND",
		"指定されたカフェが見つかりません",
		"",
	)

	// Authentication errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"IDまたはパスワードが正しくありません",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"ログインが必要です",
		"",
	)

	// Wizard errors
	ErrWizardNotFound = NewBaseError(
		http.StatusNotFound,
		"WIZARD_NOT_FOUND",
		"編集セッションが見つかりません",
		"",
	)

	ErrSubmissionInProgress = NewBaseError(
		http.StatusConflict,
		"SUBMISSION_IN_PROGRESS",
		"登録処理を実行中です",
		"",
	)

	ErrInvalidStep = NewBaseError(
		http.StatusConflict,
		"INVALID_STEP",
		"この操作は現在のステップでは実行できません",
		"",
	)

	ErrConfirmationRequired = NewBaseError(
		http.StatusConflict,
		"CONFIRMATION_REQUIRED",
		"画像を削除するには確認が必要です",
		"",
	)

	ErrEmptyImageSlot = NewBaseError(
		http.StatusConflict,
		"EMPTY_IMAGE_SLOT",
		"画像が未設定のためキャプションを編集できません",
		"",
	)

	ErrUnknownImageCategory = NewBaseError(
		http.StatusBadRequest,
		"UNKNOWN_IMAGE_CATEGORY",
		"不明な画像カテゴリです",
		"",
	)

	ErrPreviewNotFound = NewBaseError(
		http.StatusNotFound,
		"PREVIEW_NOT_FOUND",
		"プレビューが見つかりません",
		"",
	)

	ErrImageTooLarge = NewBaseError(
		http.StatusRequestEntityTooLarge,
		"IMAGE_TOO_LARGE",
		"画像サイズが大きすぎます",
		"",
	)

	// Postal lookup errors
	ErrPostalCodeInvalid = NewBaseError(
		http.StatusBadRequest,
		"POSTAL_CODE_INVALID",
		"郵便番号は7桁で入力してください",
		"",
	)

	ErrPostalNotFound = NewBaseError(
		http.StatusNotFound,
		"POSTAL_NOT_FOUND",
		"住所が見つかりませんでした",
		"",
	)

	ErrPostalLookupFailed = NewBaseError(
		http.StatusBadGateway,
		"POSTAL_LOOKUP_FAILED",
		"住所検索に失敗しました",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"システム内部エラー",
		"",
	)
)

// ValidationError aggregates every violated field or image category.
type ValidationError struct {
	violations []string
}

// NewValidationError creates a validation error carrying all violations
func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{violations: append([]string(nil), violations...)}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.violations, ", ")
}

func (e *ValidationError) HTTPCode() int     { return http.StatusUnprocessableEntity }
func (e *ValidationError) ErrorCode() string { return "VALIDATION_FAILED" }
func (e *ValidationError) Message() string   { return strings.Join(e.violations, "\n") }
func (e *ValidationError) Details() string   { return "" }

// Violations returns a copy of the violation messages in detection order
func (e *ValidationError) Violations() []string {
	return append([]string(nil), e.violations...)
}

// MalformedInputError is returned when a request body or payload cannot be parsed.
type MalformedInputError struct {
	err     error
	details string
}

// NewMalformedInputError creates a malformed input error
func NewMalformedInputError(err error, details string) *MalformedInputError {
	return &MalformedInputError{err: err, details: details}
}

func (e *MalformedInputError) Error() string {
	if e.err == nil {
		return "malformed input: " + e.details
	}

	return errors.Wrap(e.err, "malformed input: "+e.details).Error()
}

func (e *MalformedInputError) Unwrap() error     { return e.err }
func (e *MalformedInputError) HTTPCode() int     { return http.StatusBadRequest }
func (e *MalformedInputError) ErrorCode() string { return "MALFORMED_INPUT" }
func (e *MalformedInputError) Message() string   { return "リクエストの形式が正しくありません" }
func (e *MalformedInputError) Details() string   { return e.details }

// Write steps reported by UpstreamWriteError
const (
	StepUploadImages      = "upload_images"
	StepInsertRecord      = "insert_record"
	StepUpdateRecord      = "update_record"
	StepSelectRecord      = "select_record"
	StepSnapshotImageRows = "snapshot_image_rows"
	StepDeleteImageRows   = "delete_image_rows"
	StepInsertImageRows   = "insert_image_rows"
)

// UpstreamWriteError reports a failed store or blob operation. It wraps the
// underlying error so callers can still match on it.
type UpstreamWriteError struct {
	err  error
	step string
}

// NewUpstreamWriteError creates an upstream write error for the given step
func NewUpstreamWriteError(step string, err error) *UpstreamWriteError {
	return &UpstreamWriteError{err: err, step: step}
}

func (e *UpstreamWriteError) Error() string {
	return errors.Wrap(e.err, e.step+" failed").Error()
}

func (e *UpstreamWriteError) Unwrap() error     { return e.err }
func (e *UpstreamWriteError) HTTPCode() int     { return http.StatusInternalServerError }
func (e *UpstreamWriteError) ErrorCode() string { return "UPSTREAM_WRITE_FAILED" }
func (e *UpstreamWriteError) Message() string   { return "保存処理でエラーが発生しました" }
func (e *UpstreamWriteError) Details() string   { return e.err.Error() }

// Step returns the protocol step that failed
func (e *UpstreamWriteError) Step() string { return e.step }

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed: "+e.details).Error()
}

func (e *DatabaseExecuteError) Unwrap() error { return e.err }

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "データベースの処理に失敗しました"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
