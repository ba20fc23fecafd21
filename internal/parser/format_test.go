package parser

import (
	"testing"

	"github.com/shenikar/incident_intake/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatReadableResponse_Template(t *testing.T) {
	record := models.IncidentRecord{
		Date:        "2025-03-15",
		Location:    "Centro",
		Description: "choque leve",
		Injuries:    boolPtr(true),
		Owner:       false,
		Complete:    true,
	}

	want := "Fecha: 2025-03-15\n" +
		"Ubicación: Centro\n" +
		"Descripción: choque leve\n" +
		"Heridos: Sí\n" +
		"Titular: No\n" +
		"Completo: Sí"
	assert.Equal(t, want, FormatReadableResponse(record))
}

func TestFormatReadableResponse_WithQuestion(t *testing.T) {
	record := models.IncidentRecord{Location: "Centro", Question: "¿Podrías indicar fecha y descripción?"}

	got := FormatReadableResponse(record)

	assert.Contains(t, got, "Heridos: No")
	assert.Contains(t, got, "Completo: No\n\nPregunta: ¿Podrías indicar fecha y descripción?")
}

func TestFormatReadableResponse_ConversationalResponseWins(t *testing.T) {
	record := models.IncidentRecord{ConversationalResponse: strPtr("Lamento mucho lo ocurrido.")}
	assert.Equal(t, "Lamento mucho lo ocurrido.", FormatReadableResponse(record))

	blank := models.IncidentRecord{ConversationalResponse: strPtr("   "), Date: "2025-03-15"}
	assert.Contains(t, FormatReadableResponse(blank), "Fecha: 2025-03-15")
}
