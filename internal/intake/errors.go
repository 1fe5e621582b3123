package intake

import (
	"errors"
	"fmt"
	"strings"

	apperrors "booking-workers/internal/common/errors"
)

// DuplicateEmailMessage is the single message shown for every duplicate-email outcome.
const DuplicateEmailMessage = "This email is already in use"

var (
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrFormClosed reports a response that arrived after the form was closed.
	ErrFormClosed = errors.New("form closed")
	// ErrSubmitInProgress rejects a second submit while one is in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")
)

// FieldValidationError carries every field that failed local validation.
type FieldValidationError struct {
	Fields FieldErrors
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%d field(s) failed validation", len(e.Fields))
}

// DuplicateEmailError is raised for a confirmed match, a failed lookup or a
// backend rejection that reads like a duplicate.
type DuplicateEmailError struct {
	Email string
	// Cause is set when the email could not be verified.
	Cause error
}

func (e *DuplicateEmailError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("email %s could not be verified: %v", e.Email, e.Cause)
	}
	return fmt.Sprintf("email %s is already in use", e.Email)
}

func (e *DuplicateEmailError) Unwrap() error { return e.Cause }

type PasswordPolicyError struct {
	Unmet []string
}

func (e *PasswordPolicyError) Error() string {
	return "password must contain: " + strings.Join(e.Unmet, ", ")
}

// SubmissionTransportError covers network failures and unreadable error bodies.
type SubmissionTransportError struct {
	Err error
}

func (e *SubmissionTransportError) Error() string {
	return "booking request submission failed: " + e.Err.Error()
}

func (e *SubmissionTransportError) Unwrap() error { return e.Err }

// SubmissionRejectedError is a non-duplicate rejection from the submission API.
type SubmissionRejectedError struct {
	Message string
}

func (e *SubmissionRejectedError) Error() string {
	return e.Message
}

// UserMessage is the text presented to the requester for err.
func UserMessage(err error) string {
	var (
		fieldErr    *FieldValidationError
		dupErr      *DuplicateEmailError
		policyErr   *PasswordPolicyError
		transport   *SubmissionTransportError
		rejectedErr *SubmissionRejectedError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fieldErr):
		return "Please fill in all required fields"
	case errors.Is(err, ErrTermsNotAccepted):
		return "You must accept the terms and conditions"
	case errors.As(err, &dupErr), errors.As(err, &transport):
		return DuplicateEmailMessage
	case errors.As(err, &policyErr):
		return "Password must contain: " + strings.Join(policyErr.Unmet, ", ")
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.As(err, &rejectedErr):
		return rejectedErr.Message
	default:
		return err.Error()
	}
}

// ToStandardError maps an intake outcome onto the platform error codes.
func ToStandardError(err error) *apperrors.StandardError {
	var (
		fieldErr    *FieldValidationError
		dupErr      *DuplicateEmailError
		policyErr   *PasswordPolicyError
		transport   *SubmissionTransportError
		rejectedErr *SubmissionRejectedError
	)
	switch {
	case errors.As(err, &fieldErr):
		return apperrors.NewFieldValidationError(fieldErr.Fields)
	case errors.Is(err, ErrTermsNotAccepted):
		return apperrors.NewTermsNotAcceptedError()
	case errors.As(err, &dupErr):
		return apperrors.NewDuplicateEmailError(dupErr.Error())
	case errors.As(err, &policyErr):
		return apperrors.NewPasswordPolicyError(policyErr.Unmet)
	case errors.Is(err, ErrPasswordMismatch):
		return apperrors.NewPasswordMismatchError()
	case errors.As(err, &transport):
		return apperrors.NewSubmissionTransportError(transport.Err)
	case errors.As(err, &rejectedErr):
		return apperrors.NewSubmissionRejectedError(rejectedErr.Message)
	default:
		return apperrors.AsStandardError(err)
	}
}

// Kind is the platform error code for err, or "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	return string(ToStandardError(err).Code)
}
