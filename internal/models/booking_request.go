package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormValue is a form field kept as the raw string the requester typed. Job
// variables may carry it as a JSON string, number or null.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("form value must be a string or number: %w", err)
		}
		*v = FormValue(n.String())
	}
	return nil
}

func (v FormValue) String() string { return string(v) }

// DateRangeEntry is one requested stay. ID is local to the draft and never persisted.
type DateRangeEntry struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Complete reports whether both dates are filled in.
func (e DateRangeEntry) Complete() bool {
	return e.StartDate != "" && e.EndDate != ""
}

// BookingRequestDraft is the in-progress booking request as entered by a contractor.
type BookingRequestDraft struct {
	RequesterName        string           `json:"requesterName" validate:"notblank"`
	CompanyName          string           `json:"companyName" validate:"notblank"`
	Email                string           `json:"email" validate:"notblank"`
	Phone                string           `json:"phone" validate:"notblank"`
	Password             string           `json:"password" validate:"notblank"`
	PasswordConfirmation string           `json:"passwordConfirmation" validate:"notblank"`
	City                 string           `json:"city" validate:"notblank"`
	Postcode             string           `json:"postcode" validate:"notblank"`
	TeamSize             FormValue        `json:"teamSize" validate:"notblank,positiveint"`
	BudgetPerNight       FormValue        `json:"budgetPerNight,omitempty"`
	BookingDateRanges    []DateRangeEntry `json:"bookingDateRanges"`
	TermsAccepted        bool             `json:"termsAccepted"`
}

// BookingDates is one stay as sent to the submission API.
type BookingDates struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// BookingRequestPayload is the body of POST /api/booking-requests.
type BookingRequestPayload struct {
	FullName        string         `json:"fullName"`
	CompanyName     string         `json:"companyName"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	ProjectPostcode string         `json:"projectPostcode"`
	Password        string         `json:"password"`
	Bookings        []BookingDates `json:"bookings"`
	TeamSize        *int           `json:"teamSize"`
	BudgetPerPerson *float64       `json:"budgetPerPerson"`
	City            string         `json:"city"`
	TermsAccepted   bool           `json:"termsAccepted"`
}

// ParseTeamSize returns nil when the value is not an integer.
func ParseTeamSize(v FormValue) *int {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		return nil
	}
	return &n
}

// ParseBudget returns nil for empty or non-numeric input.
func ParseBudget(v FormValue) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil {
		return nil
	}
	return &f
}
