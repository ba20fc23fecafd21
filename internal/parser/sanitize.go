package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shenikar/incident_intake/internal/models"
)

// ErrNoJSONObject возвращается, когда в ответе генератора нет объекта JSON
var ErrNoJSONObject = errors.New("no JSON object found in generator output")

// extractionPayload - поля, которые генератор должен вернуть. Указатели отличают отсутствующее поле от пустого.
type extractionPayload struct {
	Date                   *string `json:"date"`
	Location               *string `json:"location"`
	Description            *string `json:"description"`
	Injuries               *bool   `json:"injuries"`
	Owner                  *bool   `json:"owner"`
	Complete               *bool   `json:"complete"`
	Question               *string `json:"question"`
	ConversationalResponse *string `json:"conversationalResponse"`
}

// SanitizeJSON отрезает текст до первой "{" и после последней "}"
func SanitizeJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONObject
	}
	return raw[start : end+1], nil
}

// ParseExtraction очищает ответ генератора и разбирает его в запись.
// Отсутствующие строки становятся "", отсутствующие флаги - false.
func ParseExtraction(raw string) (models.IncidentRecord, error) {
	cleaned, err := SanitizeJSON(raw)
	if err != nil {
		return models.IncidentRecord{}, err
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return models.IncidentRecord{}, fmt.Errorf("invalid extraction JSON: %w", err)
	}

	injuries := valueOr(payload.Injuries, false)
	record := models.IncidentRecord{
		Date:        strings.TrimSpace(valueOr(payload.Date, "")),
		Location:    strings.TrimSpace(valueOr(payload.Location, "")),
		Description: strings.TrimSpace(valueOr(payload.Description, "")),
		Injuries:    &injuries,
		Owner:       valueOr(payload.Owner, false),
		Complete:    valueOr(payload.Complete, false),
		Question:    valueOr(payload.Question, ""),
	}
	if payload.ConversationalResponse != nil {
		record.ConversationalResponse = payload.ConversationalResponse
	}
	return record, nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
