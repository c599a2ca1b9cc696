package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	projectChannelPrefix = "heritage:events:" // Per-project channel: heritage:events:{project_id}
	firehoseChannel      = "heritage:events:all"
)

// Publisher delivers transition events to external observers. Publishing is
// best effort; the ledger logs failures but never fails an operation over one.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher fans each event out to the project's channel and the firehose.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Publish(ctx, ProjectChannel(e.ProjectID), data)
	pipe.Publish(ctx, firehoseChannel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// ProjectChannel returns the pub/sub channel for one project's events.
func ProjectChannel(projectID int64) string {
	return fmt.Sprintf("%s%d", projectChannelPrefix, projectID)
}

// FirehoseChannel returns the channel carrying every event.
func FirehoseChannel() string {
	return firehoseChannel
}

// Noop drops all events. Used when no Redis is configured and in tests that
// do not observe events.
type Noop struct{}

func (Noop) Publish(ctx context.Context, e Event) error { return nil }
