package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apptbot/models"
)

func TestParseExtraction_FencedObject(t *testing.T) {
	raw := "```json\n{\"summary\": \"Dentist\", \"start_time\": \"2024-06-11T15:00:00+05:30\", \"end_time\": null}\n```"

	p, err := ParseExtraction(raw)
	require.NoError(t, err)
	require.NotNil(t, p.Summary)
	require.NotNil(t, p.StartTime)
	assert.Equal(t, "Dentist", *p.Summary)
	assert.Equal(t, "2024-06-11T15:00:00+05:30", *p.StartTime)
	assert.Nil(t, p.EndTime)
	assert.Nil(t, p.DurationMinutes)
	assert.Nil(t, p.Timezone)
}

func TestParseExtraction_ProseAround(t *testing.T) {
	raw := `Sure! Here is the appointment: {"summary": "Sync", "start_time": "2024-06-11T10:00:00Z", "duration_minutes": 30} Let me know if you need more.`

	p, err := ParseExtraction(raw)
	require.NoError(t, err)
	assert.Equal(t, "Sync", *p.Summary)
	require.NotNil(t, p.DurationMinutes)
	assert.Equal(t, 30, *p.DurationMinutes)
}

func TestParseExtraction_NestedAndQuotedBraces(t *testing.T) {
	raw := `{"summary": "Plan {Q3} review", "meta": {"source": "chat"}, "start_time": "2024-06-11T10:00:00Z"} trailing }`

	p, err := ParseExtraction(raw)
	require.NoError(t, err)
	assert.Equal(t, "Plan {Q3} review", *p.Summary)
	assert.Equal(t, "2024-06-11T10:00:00Z", *p.StartTime)
}

func TestParseExtraction_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no object", "I could not understand the request."},
		{"empty", ""},
		{"unterminated", `{"summary": "Sync", "start_time": "2024-06-11T10:00:00Z"`},
		{"invalid json", `{summary: 'Sync'}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedExtraction)
		})
	}
}

func TestParseExtraction_NullLikeStrings(t *testing.T) {
	raw := `{"summary": "  ", "start_time": "null", "end_time": "None", "timezone": ""}`

	p, err := ParseExtraction(raw)
	require.NoError(t, err)
	assert.Nil(t, p.Summary)
	assert.Nil(t, p.StartTime)
	assert.Nil(t, p.EndTime)
	assert.Nil(t, p.Timezone)
}

func TestParseExtraction_DurationForms(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{`{"duration_minutes": 45}`, intPtr(45)},
		{`{"duration_minutes": "30"}`, intPtr(30)},
		{`{"duration_minutes": 29.6}`, intPtr(30)},
		{`{"duration_minutes": "half an hour"}`, nil},
		{`{"duration_minutes": null}`, nil},
	}
	for _, tt := range tests {
		p, err := ParseExtraction(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, p.DurationMinutes, tt.raw)
	}
}

func TestParseExtraction_TitleAlias(t *testing.T) {
	p, err := ParseExtraction(`{"title": "Standup", "start_time": "2024-06-11T09:00:00Z"}`)
	require.NoError(t, err)
	assert.Equal(t, "Standup", *p.Summary)
}

// An oracle answer with no start time is incomplete, not malformed.
func TestRequireFields_MissingStart(t *testing.T) {
	p, err := ParseExtraction(`{"summary": "Lunch", "start_time": null}`)
	require.NoError(t, err)

	err = RequireFields(p, models.FieldSummary, models.FieldStartTime)
	var incomplete *IncompleteExtractionError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{models.FieldStartTime}, incomplete.Missing)
	assert.Contains(t, err.Error(), "start_time")
}

func TestRequireFields_AllPresent(t *testing.T) {
	p, err := ParseExtraction(`{"summary": "Lunch", "start_time": "2024-06-11T12:00:00Z"}`)
	require.NoError(t, err)
	assert.NoError(t, RequireFields(p, models.FieldSummary, models.FieldStartTime))
}

func intPtr(n int) *int { return &n }
