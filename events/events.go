// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events publishes a record of every committed registry operation.
package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream committed operations are appended to.
const DefaultStream = "govhub.events"

// Event describes one committed operation.
type Event struct {
	Op       string
	Sender   string
	Proposal string
	Comment  string
	Detail   string
	Time     uint64
}

func (e Event) values() map[string]interface{} {
	v := map[string]interface{}{
		"op":     e.Op,
		"sender": e.Sender,
		"time":   strconv.FormatUint(e.Time, 10),
	}
	if e.Proposal != "" {
		v["proposal"] = e.Proposal
	}
	if e.Comment != "" {
		v["comment"] = e.Comment
	}
	if e.Detail != "" {
		v["detail"] = e.Detail
	}
	return v
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher appends events to a Redis stream.
type RedisPublisher struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewRedisPublisher connects to url. The stream is trimmed to roughly maxLen
// entries; zero keeps everything.
func NewRedisPublisher(ctx context.Context, url, stream string, maxLen int64) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisPublisherFromClient(rdb, stream, maxLen), nil
}

func NewRedisPublisherFromClient(rdb *redis.Client, stream string, maxLen int64) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (p *RedisPublisher) xaddArgs(e Event) *redis.XAddArgs {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: e.values(),
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return args
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if err := p.rdb.XAdd(ctx, p.xaddArgs(e)).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
