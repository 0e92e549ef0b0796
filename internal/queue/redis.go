package queue

import (
	"context"
	"fmt"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/domain/event"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Publisher announces storefront changes to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) (string, error) // Returns message ID
}

type RedisPublisher struct {
	redisClient  *redis.Client
	streamPrefix string
	maxLen       int64
}

func NewRedisPublisher(redisClient *redis.Client, cfg config.RedisConfig) *RedisPublisher {
	return &RedisPublisher{
		redisClient:  redisClient,
		streamPrefix: cfg.StreamPrefix,
		maxLen:       cfg.StreamMaxLen,
	}
}

// StreamName returns the stream an event type is appended to.
func (p *RedisPublisher) StreamName(eventType string) string {
	return p.streamPrefix + eventType
}

func (p *RedisPublisher) Publish(ctx context.Context, e event.Event) (string, error) {
	eventType := e.EventType()
	streamName := p.StreamName(eventType)

	value, err := e.EventValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"event_type": eventType,
			"event_data": string(value),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	messageID, err := p.redisClient.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add event to Redis stream %s: %w", streamName, err)
	}

	log.Debugf("Added event %s to stream %s with message ID: %s", eventType, streamName, messageID)
	return messageID, nil
}

// Record is one event read back from a stream.
type Record struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Event event.Event `json:"event"`
}

// Reader returns recently published events.
type Reader interface {
	Recent(ctx context.Context, eventType string, count int64) ([]Record, error)
}

// Stream both publishes and reads back events.
type Stream interface {
	Publisher
	Reader
}

// Recent returns up to count of the newest events of one type, newest first.
func (p *RedisPublisher) Recent(ctx context.Context, eventType string, count int64) ([]Record, error) {
	streamName := p.StreamName(eventType)
	messages, err := p.redisClient.XRevRangeN(ctx, streamName, "+", "-", count).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read Redis stream %s: %w", streamName, err)
	}

	records := make([]Record, 0, len(messages))
	for _, msg := range messages {
		record, err := recordFromMessage(msg)
		if err != nil {
			log.Warnf("⚠️ Skipping unreadable message %s in %s: %v", msg.ID, streamName, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func recordFromMessage(msg redis.XMessage) (Record, error) {
	eventType, _ := msg.Values["event_type"].(string)
	data, _ := msg.Values["event_data"].(string)
	if eventType == "" {
		return Record{}, fmt.Errorf("message %s has no event_type", msg.ID)
	}

	e, err := event.Decode(eventType, []byte(data))
	if err != nil {
		return Record{}, err
	}
	return Record{ID: msg.ID, Type: eventType, Event: e}, nil
}

type noopPublisher struct{}

// NewNoopPublisher drops every event; used when Redis is disabled.
func NewNoopPublisher() Stream {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, e event.Event) (string, error) {
	log.Debugf("Dropping event %s, no publisher configured", e.EventType())
	return "", nil
}

func (noopPublisher) Recent(ctx context.Context, eventType string, count int64) ([]Record, error) {
	return []Record{}, nil
}
