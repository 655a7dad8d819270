package publisher

import (
	"context"
	"encoding/base64"
	"math/rand"
	"strconv"

	"github.com/redis/go-redis/v9"

	apperr "seoulfit/discoveryworker/pkg/errors"
)

// RedisPublisher writes product batches to Redis streams. Batches are
// base64-encoded and spread across `<prefix>:0..N-1` so consumers can fan
// out without coordinating on a single stream.
type RedisPublisher struct {
	client       *redis.Client
	ctx          context.Context
	streamPrefix string
	streamCount  int
	maxLength    int
}

// NewRedisPublisher connects to Redis and returns a stream publisher.
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount, maxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:       client,
		ctx:          ctx,
		streamPrefix: streamPrefix,
		streamCount:  streamCount,
		maxLength:    maxLength,
	}
}

// Publish appends one brand's batch to a randomly chosen shard stream.
// The payload is base64-encoded so binary-unsafe consumers stay happy.
func (p *RedisPublisher) Publish(brandID string, batch []byte) error {
	encoded := base64.StdEncoding.EncodeToString(batch)
	stream := p.streamPrefix + ":" + strconv.Itoa(rand.Intn(p.streamCount))

	err := p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			brandID: encoded,
		},
	}).Err()
	if err != nil {
		return apperr.NewPublisher(brandID, "failed to publish product batch to "+stream, err)
	}
	return nil
}

// TrimStreams trims every shard stream down to the configured maximum.
func (p *RedisPublisher) TrimStreams() error {
	streams, err := p.client.Keys(p.ctx, p.streamPrefix+":*").Result()
	if err != nil {
		return apperr.NewPublisher("", "failed to list product streams", err)
	}

	for _, stream := range streams {
		if err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.maxLength)).Err(); err != nil {
			return apperr.NewPublisher("", "failed to trim stream "+stream, err)
		}
	}
	return nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
