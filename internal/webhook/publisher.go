package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	incidentEventQueueKey = "incident_events"

	EventIncidentCreated       = "incident.created"
	EventIncidentStatusUpdated = "incident.status_updated"
)

// IncidentEvent - событие жизненного цикла инцидента для доставки подписчику
type IncidentEvent struct {
	Event      string    `json:"event"`
	IncidentID string    `json:"incident_id"`
	Type       string    `json:"type"`
	Severity   string    `json:"severity"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher - интерфейс публикации событий инцидентов
type EventPublisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisEventPublisher - реализация EventPublisher поверх очереди в Redis
type RedisEventPublisher struct {
	redisClient *redis.Client
}

// NewRedisEventPublisher создает новый RedisEventPublisher
func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{
		redisClient: client,
	}
}

// Publish публикует событие инцидента в очередь Redis
func (p *RedisEventPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, incidentEventQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event to Redis: %w", err)
	}
	return nil
}
