package models

import (
	"time"

	"github.com/google/uuid"
)

// Request представляет сохранённое обращение пользователя вместе с ответом сервиса
type Request struct {
	ID        uuid.UUID     `json:"id"`
	Text      string        `json:"text"`
	Response  ProcessResult `json:"response"`
	Complete  bool          `json:"complete"`
	CreatedAt time.Time     `json:"created_at"`
}
