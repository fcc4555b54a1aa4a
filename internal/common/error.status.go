package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP status codes used by the API layer
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response messages
const (
	MsgSuccess = "Operation succeeded"
	MsgCreated = "Created"

	MsgBadRequest     = "Invalid request"
	MsgUnauthorized   = "Authentication required"
	MsgForbidden      = "Access denied"
	MsgNotFound       = "Resource not found"
	MsgConflict       = "Resource conflict"
	MsgInternalError  = "Internal server error"
	MsgTokenMissing   = "Missing bearer token"
	MsgTokenInvalid   = "Invalid bearer token"
	MsgTokenExpired   = "Bearer token expired"
	MsgInvalidFormat  = "Malformed payload"
	MsgValidation     = "Validation failed"
	MsgDatabaseError  = "Database error"
	MsgTooManyRequest = "Too many requests, retry later"
)

// ErrorCode is a hierarchical error code carried by every API error.
type ErrorCode struct {
	Code        string // e.g. ACL_001
	Category    string // e.g. Access
	SubCategory string // e.g. RowRange
	Description string
}

var (
	// System
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Internal system error",
	}

	// Authentication
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Bearer token problem",
	}
	ErrCodeAuthRole = ErrorCode{
		Code:        "AUTH_003",
		Category:    "Authentication",
		SubCategory: "Role",
		Description: "Role does not allow this action",
	}

	// Validation
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Input value rejected",
	}
	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Payload could not be decoded",
	}

	// Resources
	ErrCodeNotFound = ErrorCode{
		Code:        "RES_001",
		Category:    "Resource",
		SubCategory: "NotFound",
		Description: "Referenced entity does not exist",
	}
	ErrCodeConflict = ErrorCode{
		Code:        "RES_002",
		Category:    "Resource",
		SubCategory: "Conflict",
		Description: "Entity collides with existing data",
	}
	ErrCodeVersionConflict = ErrorCode{
		Code:        "RES_003",
		Category:    "Resource",
		SubCategory: "Version",
		Description: "Optimistic version check failed",
	}

	// Access control
	ErrCodeAccessDenied = ErrorCode{
		Code:        "ACL_001",
		Category:    "Access",
		SubCategory: "Denied",
		Description: "Principal may not read or write the target",
	}

	// Database
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Generic database error",
	}
	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Database connection error",
	}
	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Database query error",
	}
)

// Error is the structured error returned by services and rendered by handlers.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error by code, so a NotFound with a specific message
// still satisfies errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code
}

// NewError builds an *Error with every field populated.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Sentinels. Compare with errors.Is.
var (
	ErrTokenMissing = NewError(ErrCodeAuthToken, MsgTokenMissing, StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)
	ErrTokenExpired = NewError(ErrCodeAuthToken, MsgTokenExpired, StatusUnauthorized, nil)
	ErrRoleDenied   = NewError(ErrCodeAuthRole, MsgForbidden, StatusForbidden, nil)

	ErrInvalidInput  = NewError(ErrCodeValidationInput, MsgValidation, StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)

	ErrNotFound        = NewError(ErrCodeNotFound, MsgNotFound, StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, MsgConflict, StatusConflict, nil)
	ErrDuplicate       = NewError(ErrCodeConflict, "Duplicate key", StatusConflict, nil)
	ErrVersionConflict = NewError(ErrCodeVersionConflict, "Document version changed concurrently", StatusConflict, nil)
	ErrAccessDenied    = NewError(ErrCodeAccessDenied, MsgForbidden, StatusForbidden, nil)

	ErrMongoConnection = NewError(ErrCodeDatabaseConnection, "MongoDB connection error", StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabaseConnection, "MongoDB operation timed out", StatusServiceUnavailable, nil)
)

// NotFound reports a missing entity of the given kind.
func NotFound(entity string, details any) error {
	return NewError(ErrCodeNotFound, entity+" not found", StatusNotFound, details)
}

// Conflict reports a uniqueness or state collision.
func Conflict(message string, details any) error {
	return NewError(ErrCodeConflict, message, StatusConflict, details)
}

// AccessDenied reports that the principal is not allowed to touch the target.
func AccessDenied(reason string, details any) error {
	return NewError(ErrCodeAccessDenied, reason, StatusForbidden, details)
}

// Validation reports a rejected input value.
func Validation(message string, details any) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, details)
}

// InvalidFormat reports a payload that could not be decoded at all.
func InvalidFormat(message string, cause error) error {
	var details any
	if cause != nil {
		details = cause.Error()
	}
	return NewError(ErrCodeValidationFormat, message, StatusBadRequest, details)
}

// IsValidation matches both input and format validation failures.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code.Category == ErrCodeValidationInput.Category
}

// ConvertMongoError maps driver errors onto the API taxonomy.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var own *Error
	if errors.As(err, &own) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return NewError(ErrCodeConflict, "Duplicate key", StatusConflict, err.Error())
	}
	if mongo.IsTimeout(err) {
		return ErrMongoTimeout
	}
	if mongo.IsNetworkError(err) {
		return ErrMongoConnection
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewError(ErrCodeDatabaseQuery, cmdErr.Message, StatusInternalServerError, cmdErr.Name)
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err.Error())
}
