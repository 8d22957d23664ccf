package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_Validation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name       string
		submission Submission
		wantErr    bool
		errMsg     string
	}{
		{
			name: "valid submission",
			submission: Submission{
				Company:         "Acme",
				Position:        "Engineer",
				Questions:       []string{"Tell me about yourself"},
				Answers:         []string{"I build things."},
				ConfidenceLevel: 60,
			},
		},
		{
			name:       "empty interview is valid",
			submission: Submission{},
		},
		{
			name: "confidence above range",
			submission: Submission{
				ConfidenceLevel: 101,
			},
			wantErr: true,
			errMsg:  "max",
		},
		{
			name: "confidence below range",
			submission: Submission{
				ConfidenceLevel: -1,
			},
			wantErr: true,
			errMsg:  "min",
		},
		{
			name: "blank question",
			submission: Submission{
				Questions: []string{"Tell me about yourself", ""},
				Answers:   []string{"", ""},
			},
			wantErr: true,
			errMsg:  "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.submission)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestComment_Validation(t *testing.T) {
	validate := validator.New()

	assert.NoError(t, validate.Struct(Comment{Title: "Note", Text: "Practice the STAR method"}))
	assert.Error(t, validate.Struct(Comment{Title: "", Text: "text"}))
	assert.Error(t, validate.Struct(Comment{Title: "Note", Text: ""}))
}

func TestInterviewRecordJSON(t *testing.T) {
	rec := InterviewRecord{
		ID:        uuid.New(),
		Type:      RecordTypeInterview,
		Title:     "Acme Interview",
		Score:     72,
		Status:    StatusCompleted,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Result: InterviewResult{
			OverallScore: 72,
			Strengths:    []string{"Completed all questions"},
		},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "interview", raw["type"])
	assert.Contains(t, raw, "questions_and_answers")

	result, ok := raw["result"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 72, result["overall_score"])
	assert.NotContains(t, result, "notes", "empty notes are omitted")
}
