package validatebookingrequest

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/intake"
	"booking-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func createValidDraft() *models.BookingRequestDraft {
	return &models.BookingRequestDraft{
		RequesterName:        "Sam Carter",
		CompanyName:          "Carter Builds",
		Email:                " Test@Test.com ",
		Phone:                "07700900123",
		Password:             "Abcd123!",
		PasswordConfirmation: "Abcd123!",
		City:                 "Bristol",
		Postcode:             "BS1 4DJ",
		TeamSize:             "6",
		BookingDateRanges: []models.DateRangeEntry{
			{ID: "r1", StartDate: "2024-05-01", EndDate: "2024-05-08"},
			{ID: "r2"},
		},
		TermsAccepted: true,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{Draft: createValidDraft()})
	require.NoError(t, err)

	assert.True(t, out.IsValid)
	assert.Equal(t, "test@test.com", out.NormalizedEmail)
	assert.Equal(t, 1, out.BookingCount)
}

func TestHandler_Execute_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *models.BookingRequestDraft)
		wantCode apperrors.ErrorCode
		check    func(t *testing.T, err error)
	}{
		{
			name: "missing fields",
			mutate: func(d *models.BookingRequestDraft) {
				d.City = "  "
				d.TeamSize = ""
			},
			wantCode: apperrors.ErrCodeFieldValidationFailed,
			check: func(t *testing.T, err error) {
				var fe *intake.FieldValidationError
				require.ErrorAs(t, err, &fe)
				assert.Contains(t, fe.Fields, "city")
				assert.Contains(t, fe.Fields, "teamSize")
			},
		},
		{
			name:     "no date ranges",
			mutate:   func(d *models.BookingRequestDraft) { d.BookingDateRanges = nil },
			wantCode: apperrors.ErrCodeFieldValidationFailed,
			check: func(t *testing.T, err error) {
				var fe *intake.FieldValidationError
				require.ErrorAs(t, err, &fe)
				assert.Contains(t, fe.Fields, intake.DateRangesKey)
			},
		},
		{
			name:     "team size below one",
			mutate:   func(d *models.BookingRequestDraft) { d.TeamSize = "0" },
			wantCode: apperrors.ErrCodeFieldValidationFailed,
			check: func(t *testing.T, err error) {
				var fe *intake.FieldValidationError
				require.ErrorAs(t, err, &fe)
				assert.Contains(t, fe.Fields, "teamSize")
			},
		},
		{
			name: "date range without id",
			mutate: func(d *models.BookingRequestDraft) {
				d.BookingDateRanges = append(d.BookingDateRanges, models.DateRangeEntry{StartDate: "2024-07-01"})
			},
			wantCode: apperrors.ErrCodeInvalidInput,
		},
		{
			name:     "terms not accepted",
			mutate:   func(d *models.BookingRequestDraft) { d.TermsAccepted = false },
			wantCode: apperrors.ErrCodeTermsNotAccepted,
		},
		{
			name: "end before start",
			mutate: func(d *models.BookingRequestDraft) {
				d.BookingDateRanges[0].EndDate = "2024-04-20"
			},
			wantCode: apperrors.ErrCodeFieldValidationFailed,
			check: func(t *testing.T, err error) {
				var fe *intake.FieldValidationError
				require.ErrorAs(t, err, &fe)
				assert.Contains(t, fe.Fields, intake.DateOrderKey("r1"))
			},
		},
		{
			name: "weak password",
			mutate: func(d *models.BookingRequestDraft) {
				d.Password = "short"
				d.PasswordConfirmation = "short"
			},
			wantCode: apperrors.ErrCodePasswordPolicyViolation,
			check: func(t *testing.T, err error) {
				var pe *intake.PasswordPolicyError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, []string{
					intake.RequirementMinLength,
					intake.RequirementUppercase,
					intake.RequirementDigit,
					intake.RequirementSpecial,
				}, pe.Unmet)
			},
		},
		{
			name:     "confirmation mismatch",
			mutate:   func(d *models.BookingRequestDraft) { d.PasswordConfirmation = "Abcd123?" },
			wantCode: apperrors.ErrCodePasswordMismatch,
		},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := createValidDraft()
			tt.mutate(draft)

			out, err := h.Execute(context.Background(), &Input{Draft: draft})
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.wantCode, intake.ToStandardError(err).Code)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestHandler_Execute_MissingDraft(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.AsStandardError(err).Code)

	_, err = h.Execute(context.Background(), nil)
	assert.Error(t, err)
}

func TestInput_DecodesJobVariables(t *testing.T) {
	vars := `{"draft": {"requesterName": "Sam", "teamSize": 6, "budgetPerNight": null,
		"bookingDateRanges": [{"id": "r1", "startDate": "2024-05-01", "endDate": "2024-05-08"}],
		"termsAccepted": true}}`

	var input Input
	require.NoError(t, json.Unmarshal([]byte(vars), &input))
	require.NotNil(t, input.Draft)
	assert.Equal(t, models.FormValue("6"), input.Draft.TeamSize)
	assert.Equal(t, models.FormValue(""), input.Draft.BudgetPerNight)
}
