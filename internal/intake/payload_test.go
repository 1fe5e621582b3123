package intake

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload(t *testing.T) {
	d := validDraft()
	d.Email = "  Test@Test.com "
	d.BudgetPerNight = "45"
	AddDateRange(&d)
	partial := AddDateRange(&d)
	_ = SetDateRange(&d, partial, "2024-09-01", "")

	p := BuildPayload(d)

	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Equal(t, "test@test.com", p.Email)
	assert.Equal(t, "LS1 4AP", p.ProjectPostcode)
	require.Len(t, p.Bookings, 1)
	assert.Equal(t, "2024-05-01", p.Bookings[0].StartDate)
	require.NotNil(t, p.TeamSize)
	assert.Equal(t, 6, *p.TeamSize)
	require.NotNil(t, p.BudgetPerPerson)
	assert.Equal(t, 45.0, *p.BudgetPerPerson)
	assert.True(t, p.TermsAccepted)
}

func TestBuildPayload_NonNumericTeamSize(t *testing.T) {
	d := validDraft()
	d.TeamSize = "about ten"
	assert.Nil(t, BuildPayload(d).TeamSize)
	assert.Nil(t, BuildPayload(d).BudgetPerPerson)
}

func TestIsDuplicateMessage(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Duplicate key value violates constraint", true},
		{"violates UNIQUE CONSTRAINT users_email_key", true},
		{"User already exists", true},
		{"Email is invalid", true},
		{"Team size must be positive", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateMessage(tt.message))
		})
	}
}

func TestClassifySubmissionError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    string
		wantMessage string
	}{
		{
			name:        "structured duplicate code",
			err:         &RejectionError{StatusCode: 409, Message: "Conflict", Code: DuplicateErrorCode},
			wantKind:    "DUPLICATE_EMAIL",
			wantMessage: DuplicateEmailMessage,
		},
		{
			name:        "duplicate by message",
			err:         &RejectionError{StatusCode: 400, Message: "duplicate key value"},
			wantKind:    "DUPLICATE_EMAIL",
			wantMessage: DuplicateEmailMessage,
		},
		{
			name:        "other rejection shown verbatim",
			err:         fmt.Errorf("post: %w", &RejectionError{StatusCode: 422, Message: "Budget must be positive"}),
			wantKind:    "SUBMISSION_REJECTED",
			wantMessage: "Budget must be positive",
		},
		{
			name:        "unreadable body",
			err:         ErrUnreadableRejection,
			wantKind:    "SUBMISSION_TRANSPORT_FAILED",
			wantMessage: DuplicateEmailMessage,
		},
		{
			name:        "network failure",
			err:         errors.New("dial tcp: connection refused"),
			wantKind:    "SUBMISSION_TRANSPORT_FAILED",
			wantMessage: DuplicateEmailMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifySubmissionError("test@test.com", tt.err)
			assert.Equal(t, tt.wantKind, Kind(classified))
			assert.Equal(t, tt.wantMessage, UserMessage(classified))
		})
	}

	assert.NoError(t, ClassifySubmissionError("x", nil))
}
