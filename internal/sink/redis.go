package sink

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
)

// RedisScheme is the endpoint scheme of the Redis sink.
const RedisScheme = "redis"

// RedisSink PUBLISHes the exchange body on a Redis channel.
type RedisSink struct {
	client  redis.Cmdable
	channel string
}

// NewRedisSink creates a Redis sink.
func NewRedisSink(client redis.Cmdable, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

// RedisSinkFromURI builds a Redis sink from "redis:<channel>".
func RedisSinkFromURI(u endpoint.URI, client redis.Cmdable) (*RedisSink, error) {
	if u.Scheme != RedisScheme {
		return nil, fmt.Errorf("%w: expected %s scheme, got %q", endpoint.ErrInvalidURI, RedisScheme, u.Scheme)
	}
	if err := u.RequireKnown(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("redis sink %s: redis is not configured", u.Path)
	}
	return NewRedisSink(client, u.Path), nil
}

// Type returns "redis".
func (s *RedisSink) Type() string {
	return RedisScheme
}

// Send publishes the body.
func (s *RedisSink) Send(ctx context.Context, ex *exchange.Exchange) error {
	if ex == nil {
		return fmt.Errorf("redis sink %s: nil exchange", s.channel)
	}
	if err := s.client.Publish(ctx, s.channel, ex.Body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.channel, err)
	}
	return nil
}
