package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "trendmcp:invocations"

// Entry is one tool invocation as written to the journal stream.
type Entry struct {
	Tool          string
	OK            bool
	Error         string
	LatencyMs     int64
	CorrelationID string
	At            time.Time
}

func (e Entry) values() map[string]any {
	return map[string]any{
		"tool":           e.Tool,
		"ok":             strconv.FormatBool(e.OK),
		"error":          e.Error,
		"latency_ms":     e.LatencyMs,
		"correlation_id": e.CorrelationID,
		"at":             e.At.UTC().Format(time.RFC3339Nano),
	}
}

// Publisher appends invocation entries to a capped Redis stream.
// The stream is an audit feed for downstream consumers and is never read here.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *slog.Logger
}

// New connects to Redis and verifies the connection.
func New(redisURL string, redisPassword string, stream string, maxLen int64, logger *slog.Logger) (*Publisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if redisPassword != "" {
		opt.Password = redisPassword
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if stream == "" {
		stream = DefaultStream
	}

	return &Publisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger.With("component", "journal"),
	}, nil
}

// Record appends e to the stream.
func (p *Publisher) Record(ctx context.Context, e Entry) error {
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Values: e.values(),
	}).Result()
	if err != nil {
		return fmt.Errorf("redis XADD failed: %w", err)
	}

	p.logger.Debug("invocation_journaled",
		"stream", p.stream,
		"entry_id", id,
		"tool_name", e.Tool,
	)
	return nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Noop discards entries. It is used when no Redis URL is configured.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error { return nil }

func (Noop) Close() error { return nil }
