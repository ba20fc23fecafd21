package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_intake/internal/models"
)

const (
	webhookQueueKey = "webhook_events"

	// EventNewRequest - событие о новом обработанном запросе
	EventNewRequest = "new_request"
)

// RequestEvent - данные уведомления о новом запросе
type RequestEvent struct {
	Event     string                `json:"event"`
	RequestID uuid.UUID             `json:"request_id"`
	Text      string                `json:"text"`
	Complete  bool                  `json:"complete"`
	Record    models.IncidentRecord `json:"record"`
	Timestamp time.Time             `json:"timestamp"`
}

// WebhookPublisher - интерфейс для публикации уведомлений
type WebhookPublisher interface {
	Publish(ctx context.Context, event RequestEvent) error
}

// RedisWebhookPublisher кладёт события в очередь Redis, доставкой занимается WebhookWorker
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish добавляет событие в левую часть очереди (LPUSH), воркер забирает справа
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event RequestEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
