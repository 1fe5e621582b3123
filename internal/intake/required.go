package intake

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"booking-workers/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var fieldLabels = map[string]string{
	"requesterName":        "Name",
	"companyName":          "Company name",
	"email":                "Email",
	"phone":                "Phone",
	"password":             "Password",
	"passwordConfirmation": "Password confirmation",
	"city":                 "City",
	"postcode":             "Postcode",
	"teamSize":             "Team size",
}

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("positiveint", positiveInt); err != nil {
		panic(err)
	}
	return v
}

// positiveInt accepts whole numbers above zero, surrounding spaces allowed.
func positiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n > 0
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if fe.Tag() == "positiveint" {
		return label + " must be a whole number greater than zero"
	}
	return label + " is required"
}

// ValidateRequiredFields returns one entry per blank or malformed required field.
// Date ranges pass if at least one entry is complete; otherwise every missing
// start and end date is flagged under its row key, or DateRangesKey when the
// draft has no rows at all.
func ValidateRequiredFields(draft models.BookingRequestDraft) FieldErrors {
	fe := FieldErrors{}

	if err := draftValidator.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			// only reachable on a programming error in the struct tags
			panic(err)
		}
		for _, v := range verrs {
			fe[v.Field()] = fieldMessage(v)
		}
	}

	if len(CompleteDateRanges(draft.BookingDateRanges)) > 0 {
		return fe
	}
	if len(draft.BookingDateRanges) == 0 {
		fe[DateRangesKey] = "At least one booking date range is required"
		return fe
	}
	for _, e := range draft.BookingDateRanges {
		if e.StartDate == "" {
			fe[StartDateKey(e.ID)] = "Start date is required"
		}
		if e.EndDate == "" {
			fe[EndDateKey(e.ID)] = "End date is required"
		}
	}
	return fe
}

// ValidateTerms fails with ErrTermsNotAccepted unless the terms box is ticked.
func ValidateTerms(draft models.BookingRequestDraft) error {
	if !draft.TermsAccepted {
		return ErrTermsNotAccepted
	}
	return nil
}

// ValidateDateOrder checks the complete date ranges: both dates must parse and
// the end may not fall before the start.
func ValidateDateOrder(draft models.BookingRequestDraft) FieldErrors {
	fe := FieldErrors{}
	for _, e := range draft.BookingDateRanges {
		if !e.Complete() {
			continue
		}
		start, err := models.ParseDay(e.StartDate)
		if err != nil {
			fe[StartDateKey(e.ID)] = "Start date is not a valid date"
		}
		end, err2 := models.ParseDay(e.EndDate)
		if err2 != nil {
			fe[EndDateKey(e.ID)] = "End date is not a valid date"
		}
		if err == nil && err2 == nil && end.Before(start) {
			fe[DateOrderKey(e.ID)] = "End date must not be before start date"
		}
	}
	return fe
}
