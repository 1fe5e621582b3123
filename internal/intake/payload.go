package intake

import (
	"errors"
	"strings"

	"booking-workers/internal/models"
)

// BuildPayload projects a validated draft onto the submission body.
func BuildPayload(draft models.BookingRequestDraft) models.BookingRequestPayload {
	return models.BookingRequestPayload{
		FullName:        draft.RequesterName,
		CompanyName:     draft.CompanyName,
		Email:           NormalizeEmail(draft.Email),
		Phone:           draft.Phone,
		ProjectPostcode: draft.Postcode,
		Password:        draft.Password,
		Bookings:        CompleteDateRanges(draft.BookingDateRanges),
		TeamSize:        models.ParseTeamSize(draft.TeamSize),
		BudgetPerPerson: models.ParseBudget(draft.BudgetPerNight),
		City:            draft.City,
		TermsAccepted:   draft.TermsAccepted,
	}
}

// DuplicateErrorCode is the structured code the submission API may send.
const DuplicateErrorCode = "DUPLICATE_EMAIL"

// duplicatePatterns match backend messages that mean the email is taken.
var duplicatePatterns = []string{"duplicate", "unique constraint", "already exists", "email"}

// ErrUnreadableRejection is returned by submitters when a non-2xx body cannot be parsed.
var ErrUnreadableRejection = errors.New("unreadable error response")

// RejectionError is a non-2xx answer from the submission API.
type RejectionError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// IsDuplicateMessage reports whether a backend message reads like a duplicate email.
func IsDuplicateMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, p := range duplicatePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// ClassifySubmissionError maps a submitter error onto the intake taxonomy.
func ClassifySubmissionError(email string, err error) error {
	if err == nil {
		return nil
	}
	var rej *RejectionError
	if !errors.As(err, &rej) {
		return &SubmissionTransportError{Err: err}
	}
	if rej.Code == DuplicateErrorCode || IsDuplicateMessage(rej.Message) {
		return &DuplicateEmailError{Email: email}
	}
	return &SubmissionRejectedError{Message: rej.Message}
}
