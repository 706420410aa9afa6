package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type EventType string

const (
	TenantCreated EventType = "tenant.created"
	TenantUpdated EventType = "tenant.updated"
	TenantDeleted EventType = "tenant.deleted"
)

// TenantEvent announces a committed tenant mutation. Consumers that own
// tenant-scoped data (clients, guards, sites) react to TenantDeleted.
type TenantEvent struct {
	OccurredAt time.Time
	Type       EventType
	Slug       string
	TenantID   int64
	IsActive   bool
}

type Producer interface {
	Publish(ctx context.Context, event TenantEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event TenantEvent) error {
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: EventFields(event),
	}).Err(); err != nil {
		return fmt.Errorf("publish tenant event: %w", err)
	}

	p.logger.InfoContext(ctx, "published tenant event",
		"event_type", event.Type,
		"tenant_id", event.TenantID,
		"stream", p.stream)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

// EventFields is the flat stream-entry encoding of event.
func EventFields(event TenantEvent) map[string]any {
	return map[string]any{
		"event_type":  string(event.Type),
		"tenant_id":   strconv.FormatInt(event.TenantID, 10),
		"slug":        event.Slug,
		"is_active":   strconv.FormatBool(event.IsActive),
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

// ParseEvent decodes a stream entry written by Publish.
func ParseEvent(msg redis.XMessage) (TenantEvent, error) {
	get := func(key string) (string, error) {
		raw, ok := msg.Values[key]
		if !ok {
			return "", fmt.Errorf("missing %s", key)
		}
		s, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("%s has type %T", key, raw)
		}
		return s, nil
	}

	eventType, err := get("event_type")
	if err != nil {
		return TenantEvent{}, err
	}
	idStr, err := get("tenant_id")
	if err != nil {
		return TenantEvent{}, err
	}
	tenantID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return TenantEvent{}, fmt.Errorf("parsing tenant_id: %w", err)
	}
	slug, err := get("slug")
	if err != nil {
		return TenantEvent{}, err
	}
	activeStr, err := get("is_active")
	if err != nil {
		return TenantEvent{}, err
	}
	isActive, err := strconv.ParseBool(activeStr)
	if err != nil {
		return TenantEvent{}, fmt.Errorf("parsing is_active: %w", err)
	}
	occurredStr, err := get("occurred_at")
	if err != nil {
		return TenantEvent{}, err
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, occurredStr)
	if err != nil {
		return TenantEvent{}, fmt.Errorf("parsing occurred_at: %w", err)
	}

	return TenantEvent{
		Type:       EventType(eventType),
		TenantID:   tenantID,
		Slug:       slug,
		IsActive:   isActive,
		OccurredAt: occurredAt,
	}, nil
}
