package events

import (
	"context"
	"sync"

	"rps_arena/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// LogSink writes each event as an EVENT_JSON log line.
type LogSink struct{}

func (LogSink) Notify(ctx context.Context, e Event) {
	payload, err := Encode(e)
	if err != nil {
		logger.Error("encode event", "event", e.Name(), "error", err)
		return
	}
	logger.Info("EVENT_JSON:"+string(payload), "event", e.Name(), "pin", e.MatchID())
}

// RedisSink publishes each event on a Redis channel.
type RedisSink struct {
	rdb     *redis.Client
	channel string
}

func NewRedisSink(rdb *redis.Client, channel string) *RedisSink {
	if channel == "" {
		channel = "rps:events"
	}
	return &RedisSink{rdb: rdb, channel: channel}
}

func (s *RedisSink) Notify(ctx context.Context, e Event) {
	payload, err := Encode(e)
	if err != nil {
		logger.Error("encode event", "event", e.Name(), "error", err)
		return
	}
	if err := s.rdb.Publish(ctx, s.channel, payload).Err(); err != nil {
		logger.Warn("publish event failed", "event", e.Name(), "pin", e.MatchID(), "error", err)
	}
}

// Recorder keeps every event it is notified of.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(ctx context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name())
	}
	return names
}
