package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_intake/internal/models"
)

// ProcessTextRequest DTO для обработки реплики пользователя
// @Description DTO для обработки реплики пользователя
type ProcessTextRequest struct {
	Text string `json:"text" validate:"required" example:"Se me prende fuego mi casa, no hay nadie dentro."`
	// OldData - запись, накопленная на предыдущих репликах
	OldData *models.IncidentRecord `json:"oldData,omitempty"`
	// UserTimeZone - IANA-зона пользователя; неизвестная зона заменяется зоной по умолчанию
	UserTimeZone string `json:"userTimeZone,omitempty" validate:"omitempty,max=64" example:"America/Argentina/Buenos_Aires"`
}

// ProcessTextResponse DTO ответа на реплику
// @Description DTO ответа на реплику
type ProcessTextResponse struct {
	JSON     models.IncidentRecord `json:"json"`
	Readable string                `json:"readable"`
}

// RequestResponse DTO сохранённого запроса
// @Description DTO сохранённого запроса
type RequestResponse struct {
	ID        uuid.UUID           `json:"id"`
	Text      string              `json:"text"`
	Response  ProcessTextResponse `json:"response"`
	Complete  bool                `json:"complete"`
	CreatedAt time.Time           `json:"createdAt"`
}
