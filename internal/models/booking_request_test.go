package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FormValue
	}{
		{name: "string", raw: `{"teamSize":"12"}`, want: "12"},
		{name: "number", raw: `{"teamSize":12}`, want: "12"},
		{name: "decimal", raw: `{"teamSize":2.5}`, want: "2.5"},
		{name: "null", raw: `{"teamSize":null}`, want: ""},
		{name: "absent", raw: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d BookingRequestDraft
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &d))
			assert.Equal(t, tt.want, d.TeamSize)
		})
	}

	var d BookingRequestDraft
	assert.Error(t, json.Unmarshal([]byte(`{"teamSize":true}`), &d))
}

func TestParseTeamSize(t *testing.T) {
	require.NotNil(t, ParseTeamSize("8"))
	assert.Equal(t, 8, *ParseTeamSize("8"))
	assert.Nil(t, ParseTeamSize("eight"))
	assert.Nil(t, ParseTeamSize(""))
}

func TestParseBudget(t *testing.T) {
	require.NotNil(t, ParseBudget("45.5"))
	assert.Equal(t, 45.5, *ParseBudget("45.5"))
	assert.Nil(t, ParseBudget(""))
	assert.Nil(t, ParseBudget("n/a"))
}

func TestPayloadEncodesNulls(t *testing.T) {
	raw, err := json.Marshal(BookingRequestPayload{Bookings: []BookingDates{}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"teamSize":null`)
	assert.Contains(t, string(raw), `"budgetPerPerson":null`)
}
