// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Booking intake errors. These are business outcomes and never retried.
const (
	ErrCodeFieldValidationFailed   ErrorCode = "FIELD_VALIDATION_FAILED"
	ErrCodeTermsNotAccepted        ErrorCode = "TERMS_NOT_ACCEPTED"
	ErrCodeDuplicateEmail          ErrorCode = "DUPLICATE_EMAIL"
	ErrCodePasswordPolicyViolation ErrorCode = "PASSWORD_POLICY_VIOLATION"
	ErrCodePasswordMismatch        ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeSubmissionRejected      ErrorCode = "SUBMISSION_REJECTED"
	ErrCodeSubmissionTransport     ErrorCode = "SUBMISSION_TRANSPORT_FAILED"
	ErrCodeInvalidInput            ErrorCode = "INVALID_INPUT"
)

// Infrastructure errors.
const (
	ErrCodeIdentityLookupFailed          ErrorCode = "IDENTITY_LOOKUP_FAILED"
	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed          ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout                  ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable              ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeUnknownDashboard              ErrorCode = "UNKNOWN_DASHBOARD"
	ErrCodeNotificationSendFailed        ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal                      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value that is forwarded as a BPMN error variable.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewFieldValidationError reports missing or malformed draft fields.
func NewFieldValidationError(fieldErrors map[string]string) *StandardError {
	keys := make([]string, 0, len(fieldErrors))
	for k := range fieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e := newError(ErrCodeFieldValidationFailed, "Please fill in all required fields", strings.Join(keys, ","), false, nil)
	return e.WithMetadata("fieldErrors", fieldErrors)
}

func NewTermsNotAcceptedError() *StandardError {
	return newError(ErrCodeTermsNotAccepted, "You must accept the terms and conditions", "", false, nil)
}

// NewDuplicateEmailError covers confirmed duplicates and failed lookups alike.
func NewDuplicateEmailError(details string) *StandardError {
	return newError(ErrCodeDuplicateEmail, "This email is already in use", details, false, nil)
}

func NewPasswordPolicyError(unmet []string) *StandardError {
	e := newError(ErrCodePasswordPolicyViolation, "Password does not meet the requirements", strings.Join(unmet, ","), false, nil)
	return e.WithMetadata("unmetPasswordRequirements", unmet)
}

func NewPasswordMismatchError() *StandardError {
	return newError(ErrCodePasswordMismatch, "Passwords do not match", "", false, nil)
}

func NewSubmissionRejectedError(message string) *StandardError {
	return newError(ErrCodeSubmissionRejected, message, "", false, nil)
}

func NewSubmissionTransportError(err error) *StandardError {
	return newError(ErrCodeSubmissionTransport, "This email is already in use", detailsOf(err), false, err)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false, nil)
}

func NewIdentityLookupFailedError(table string, err error) *StandardError {
	return newError(ErrCodeIdentityLookupFailed, fmt.Sprintf("Identity lookup failed on %s", table), detailsOf(err), true, err)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection failed", detailsOf(err), true, err)
}

func NewQueryExecutionFailedError(query string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, fmt.Sprintf("Query %s failed", query), detailsOf(err), true, err)
}

func NewQueryTimeoutError(query string) *StandardError {
	return newError(ErrCodeQueryTimeout, fmt.Sprintf("Query %s timed out", query), "", true, nil)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", detailsOf(err), true, err)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection failed", detailsOf(err), true, err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, fmt.Sprintf("Search on %s failed", index), detailsOf(err), true, err)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, fmt.Sprintf("Search on %s timed out", index), "", true, nil)
}

func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Index not found", index, false, nil)
}

func NewUnknownDashboardError(dashboard string) *StandardError {
	return newError(ErrCodeUnknownDashboard, "Unknown dashboard", dashboard, false, nil)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", channel), detailsOf(err), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err), false, err)
}

// AsStandardError unwraps err into a StandardError, wrapping unknown errors as internal.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes modelled in the BPMN diagrams.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeFieldValidationFailed:   "FIELD_VALIDATION_FAILED",
	ErrCodeTermsNotAccepted:        "TERMS_NOT_ACCEPTED",
	ErrCodeDuplicateEmail:          "DUPLICATE_EMAIL",
	ErrCodePasswordPolicyViolation: "PASSWORD_POLICY_VIOLATION",
	ErrCodePasswordMismatch:        "PASSWORD_MISMATCH",
	ErrCodeSubmissionRejected:      "SUBMISSION_REJECTED",
	// transport failures surface to the requester as a duplicate email
	ErrCodeSubmissionTransport:           "DUPLICATE_EMAIL",
	ErrCodeInvalidInput:                  "INVALID_INPUT",
	ErrCodeIdentityLookupFailed:          "DUPLICATE_EMAIL",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeCacheUnavailable:              "CACHE_UNAVAILABLE",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchQueryFailed:             "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:                 "INDEX_NOT_FOUND",
	ErrCodeUnknownDashboard:              "UNKNOWN_DASHBOARD",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeCacheUnavailable:
		return 2

	default:
		// intake outcomes and fail-closed lookups are terminal
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PASSWORD") || strings.Contains(codeStr, "TERMS") ||
		strings.Contains(codeStr, "FIELD") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EMAIL") || strings.Contains(codeStr, "IDENTITY"):
		return "IDENTITY"
	case strings.Contains(codeStr, "SUBMISSION"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") ||
		strings.Contains(codeStr, "INDEX") || strings.Contains(codeStr, "DASHBOARD"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
