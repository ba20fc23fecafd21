package parser

import (
	"fmt"
	"strings"

	"github.com/shenikar/incident_intake/internal/models"
)

// FormatReadableResponse собирает текст для пользователя.
// Если генератор дал собственный ответ, он используется как есть.
func FormatReadableResponse(record models.IncidentRecord) string {
	if record.ConversationalResponse != nil && strings.TrimSpace(*record.ConversationalResponse) != "" {
		return *record.ConversationalResponse
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fecha: %s\n", record.Date)
	fmt.Fprintf(&b, "Ubicación: %s\n", record.Location)
	fmt.Fprintf(&b, "Descripción: %s\n", record.Description)
	fmt.Fprintf(&b, "Heridos: %s\n", yesNo(record.HasInjuries()))
	fmt.Fprintf(&b, "Titular: %s\n", yesNo(record.Owner))
	fmt.Fprintf(&b, "Completo: %s", yesNo(record.Complete))
	if record.Question != "" {
		fmt.Fprintf(&b, "\n\nPregunta: %s", record.Question)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}
