package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string identifier for a specific failure category.  Codes are
// stable and machine-routable; messages are presentational only.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every module.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
	CodeOK                    ErrorCode = "OK"
	CodeUnknown               ErrorCode = "UNKNOWN"
)

// Document module error codes.
const (
	ErrCodeDocumentNotFound       ErrorCode = "DOC_001"
	ErrCodeDocumentTypeInvalid    ErrorCode = "DOC_002"
	ErrCodeDocumentPayloadInvalid ErrorCode = "DOC_003"
	ErrCodeDocumentAlreadyExists  ErrorCode = "DOC_004"
	ErrCodeDocumentStoreFailed    ErrorCode = "DOC_005"
)

// Profile / aggregation module error codes.
const (
	ErrCodeProfileNotFound     ErrorCode = "PRF_001"
	ErrCodeProfileIncomplete   ErrorCode = "PRF_002"
	ErrCodeMergeInputInvalid   ErrorCode = "PRF_003"
	ErrCodeMergeNoOriginalDeed ErrorCode = "PRF_004"
)

// Run module error codes.
const (
	ErrCodeRunNotFound       ErrorCode = "RUN_001"
	ErrCodeRunAlreadyExists  ErrorCode = "RUN_002"
	ErrCodeRunNotReady       ErrorCode = "RUN_003"
	ErrCodeRunPersistFailed  ErrorCode = "RUN_004"
)

// External extraction collaborator error codes.
const (
	ErrCodeExtractionUnavailable ErrorCode = "EXT_001"
	ErrCodeExtractionFailed      ErrorCode = "EXT_002"
	ErrCodeExtractionBadPayload  ErrorCode = "EXT_003"
	ErrCodeExtractionTimeout     ErrorCode = "EXT_004"
)

// Messaging and object-storage infrastructure error codes.
const (
	ErrCodePublishFailed   ErrorCode = "MSG_001"
	ErrCodeConsumeFailed   ErrorCode = "MSG_002"
	ErrCodeStorageUpload   ErrorCode = "STO_001"
	ErrCodeStorageDownload ErrorCode = "STO_002"
	ErrCodeStorageNotFound ErrorCode = "STO_003"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes for the API layer.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDocumentNotFound:       http.StatusNotFound,
	ErrCodeDocumentTypeInvalid:    http.StatusBadRequest,
	ErrCodeDocumentPayloadInvalid: http.StatusUnprocessableEntity,
	ErrCodeDocumentAlreadyExists:  http.StatusConflict,
	ErrCodeDocumentStoreFailed:    http.StatusInternalServerError,

	ErrCodeProfileNotFound:     http.StatusNotFound,
	ErrCodeProfileIncomplete:   http.StatusUnprocessableEntity,
	ErrCodeMergeInputInvalid:   http.StatusBadRequest,
	ErrCodeMergeNoOriginalDeed: http.StatusUnprocessableEntity,

	ErrCodeRunNotFound:      http.StatusNotFound,
	ErrCodeRunAlreadyExists: http.StatusConflict,
	ErrCodeRunNotReady:      http.StatusConflict,
	ErrCodeRunPersistFailed: http.StatusInternalServerError,

	ErrCodeExtractionUnavailable: http.StatusServiceUnavailable,
	ErrCodeExtractionFailed:      http.StatusBadGateway,
	ErrCodeExtractionBadPayload:  http.StatusBadGateway,
	ErrCodeExtractionTimeout:     http.StatusGatewayTimeout,

	ErrCodePublishFailed:   http.StatusInternalServerError,
	ErrCodeConsumeFailed:   http.StatusInternalServerError,
	ErrCodeStorageUpload:   http.StatusInternalServerError,
	ErrCodeStorageDownload: http.StatusBadGateway,
	ErrCodeStorageNotFound: http.StatusNotFound,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode; unknown
// codes map to 500.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode ("DOC", "RUN", …).
func ModuleForCode(code ErrorCode) string {
	parts := strings.SplitN(string(code), "_", 2)
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
