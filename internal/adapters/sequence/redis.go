package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "pitchside:seq"
	defaultTTL       = 10 * time.Minute
)

// beginScript issues the next sequence number and records it as the
// latest for the view in one round trip.
var beginScript = redis.NewScript(`
local seq = redis.call('INCR', KEYS[1])
redis.call('SET', KEYS[2], seq, 'PX', ARGV[1])
return seq
`)

// RedisOption applies a configuration option to the Redis sequencer.
type RedisOption func(*Redis)

// WithKeyPrefix namespaces every key the sequencer writes.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithTTL sets how long a view remembers its latest token.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// Redis is a Sequencer shared by every replica behind a load balancer.
// Tokens come from one INCR counter, so they are comparable across
// processes; cancellation of a superseded request is still local to the
// process that runs it.
type Redis struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	pending *canceller
}

// NewRedis returns a sequencer backed by client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client:  client,
		prefix:  defaultKeyPrefix,
		ttl:     defaultTTL,
		pending: newCanceller(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) counterKey() string { return r.prefix + ":counter" }

func (r *Redis) viewKey(view string) string { return r.prefix + ":view:" + view }

// Begin implements Sequencer.
func (r *Redis) Begin(ctx context.Context, view string) (Token, context.Context, error) {
	if view == "" {
		return Token{}, nil, ErrEmptyView
	}
	seq, err := beginScript.Run(ctx, r.client,
		[]string{r.counterKey(), r.viewKey(view)}, r.ttl.Milliseconds()).Uint64()
	if err != nil {
		return Token{}, nil, fmt.Errorf("redis begin %s: %w", view, err)
	}

	t := Token{View: view, Seq: seq}
	reqCtx, cancel := context.WithCancelCause(ctx)
	if !r.pending.replace(view, seq, cancel) {
		cancel(ErrStale)
	}
	return t, reqCtx, nil
}

// IsLatest implements Sequencer.
func (r *Redis) IsLatest(ctx context.Context, t Token) (bool, error) {
	raw, err := r.client.Get(ctx, r.viewKey(t.View)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis latest %s: %w", t.View, err)
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("redis latest %s: %w", t.View, err)
	}
	return seq == t.Seq, nil
}

// End implements Sequencer. The view key is left to expire so replicas
// still see the latest token.
func (r *Redis) End(t Token) {
	r.pending.end(t)
}

// Ping checks the connection to redis.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
