package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBroker fans messages out through a Redis pub/sub channel so that
// every server process delivers them to its own Hub.
type RedisBroker struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	retry   time.Duration // first reconnect delay, doubled up to 30s
}

// NewRedisBroker wires rdb to the local hub.  Run must be started for
// messages from other processes (and this one) to reach the hub.
func NewRedisBroker(rdb *redis.Client, channel string, hub *Hub) *RedisBroker {
	return &RedisBroker{rdb: rdb, channel: channel, hub: hub}
}

// Publish sends msg to the Redis channel.
func (b *RedisBroker) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, payload).Err()
}

// Run subscribes to the channel and forwards every payload to the hub
// until ctx is cancelled.  A failed or dropped subscription is retried
// with back-off.  ready, if non-nil, is closed once the first
// subscription is confirmed.
func (b *RedisBroker) Run(ctx context.Context, ready chan<- struct{}) error {
	backoff := b.retry
	if backoff <= 0 {
		backoff = time.Second
	}
	wait := backoff
	for {
		err := b.listen(ctx, &ready)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			wait = backoff // the subscription was up; start over
		}
		log.Warn().Err(err).Str("channel", b.channel).Dur("retry_in", wait).Msg("notify: redis subscription lost")
		if !sleepCtx(ctx, wait) {
			return nil
		}
		if err != nil && wait < 30*time.Second {
			wait *= 2
		}
	}
}

// listen runs one subscription.  It returns nil when the subscription was
// confirmed and later closed, and the error when it never came up.
func (b *RedisBroker) listen(ctx context.Context, ready *chan<- struct{}) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	if *ready != nil {
		close(*ready)
		*ready = nil
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			b.hub.broadcast([]byte(m.Payload))
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
