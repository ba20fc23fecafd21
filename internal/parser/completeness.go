package parser

import (
	"fmt"
	"strings"

	"github.com/shenikar/incident_intake/internal/models"
)

// Названия обязательных полей в том порядке, в котором о них спрашиваем
const (
	fieldDate        = "fecha"
	fieldLocation    = "ubicación"
	fieldDescription = "descripción"
)

// EvaluateCompleteness проверяет обязательные поля (дата, место, описание)
// и формирует уточняющий вопрос о недостающих.
func EvaluateCompleteness(record models.IncidentRecord) (bool, string) {
	var missing []string
	if record.Date == "" {
		missing = append(missing, fieldDate)
	}
	if record.Location == "" {
		missing = append(missing, fieldLocation)
	}
	if record.Description == "" {
		missing = append(missing, fieldDescription)
	}

	if len(missing) == 0 {
		return true, ""
	}
	return false, fmt.Sprintf("¿Podrías indicar %s?", strings.Join(missing, " y "))
}

// ApplyCompleteness пересчитывает Complete и Question у записи
func ApplyCompleteness(record *models.IncidentRecord) {
	record.Complete, record.Question = EvaluateCompleteness(*record)
}
