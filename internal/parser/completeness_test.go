package parser

import (
	"testing"

	"github.com/shenikar/incident_intake/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateCompleteness(t *testing.T) {
	tests := []struct {
		name         string
		record       models.IncidentRecord
		wantComplete bool
		wantQuestion string
	}{
		{
			name:         "complete",
			record:       models.IncidentRecord{Date: "2025-03-15", Location: "Centro", Description: "choque"},
			wantComplete: true,
			wantQuestion: "",
		},
		{
			name:         "missing location and description",
			record:       models.IncidentRecord{Date: "2025-03-15"},
			wantQuestion: "¿Podrías indicar ubicación y descripción?",
		},
		{
			name:         "missing everything",
			record:       models.IncidentRecord{},
			wantQuestion: "¿Podrías indicar fecha y ubicación y descripción?",
		},
		{
			name:         "missing date only",
			record:       models.IncidentRecord{Location: "Centro", Description: "choque"},
			wantQuestion: "¿Podrías indicar fecha?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complete, question := EvaluateCompleteness(tt.record)
			assert.Equal(t, tt.wantComplete, complete)
			assert.Equal(t, tt.wantQuestion, question)
		})
	}
}

func TestApplyCompleteness(t *testing.T) {
	record := models.IncidentRecord{Complete: true, Question: "", Location: "Centro"}

	ApplyCompleteness(&record)

	assert.False(t, record.Complete)
	assert.Equal(t, "¿Podrías indicar fecha y descripción?", record.Question)
}
