package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/robotstudio/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key and the frame channel.
const DefaultPrefix = "robotstudio:"

// Store implements ports.SnapshotStore using Redis.
// Every published frame is also sent to a pub/sub channel so that renderers in
// other processes can follow the robot live.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of the stored frame and log.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix, letting several workspaces share one server.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options. Commands honour the deadline
// of the context they are given.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:                  address,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) latestKey() string {
	return s.prefix + "latest"
}

func (s *Store) logKey() string {
	return s.prefix + "log"
}

// Channel is the pub/sub channel frames are published on.
func (s *Store) Channel() string {
	return s.prefix + "frames"
}

// Publish stores the frame, appends its lines and broadcasts it, atomically.
func (s *Store) Publish(ctx context.Context, frame *domain.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.latestKey(), data, s.ttl)
	if frame.ResetLog {
		pipe.Del(ctx, s.logKey())
	}
	if len(frame.Lines) > 0 {
		lines := make([]any, len(frame.Lines))
		for i, l := range frame.Lines {
			lines[i] = l
		}
		pipe.RPush(ctx, s.logKey(), lines...)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, s.logKey(), s.ttl)
	}
	pipe.Publish(ctx, s.Channel(), data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Latest retrieves the most recent frame.
func (s *Store) Latest(ctx context.Context) (*domain.Frame, error) {
	val, err := s.client.Get(ctx, s.latestKey()).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return decodeFrame(val)
}

// Log returns the lines accumulated since the last reset.
func (s *Store) Log(ctx context.Context) ([]string, error) {
	lines, err := s.client.LRange(ctx, s.logKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read log from redis: %w", err)
	}
	return lines, nil
}

// Subscribe streams frames published by any process sharing the prefix.
// The channel is closed when ctx is done.
func (s *Store) Subscribe(ctx context.Context) (<-chan *domain.Frame, error) {
	sub := s.client.Subscribe(ctx, s.Channel())
	// Wait for the subscription confirmation so no frame published after
	// Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan *domain.Frame)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				frame, err := decodeFrame([]byte(msg.Payload))
				if err != nil {
					continue
				}
				select {
				case out <- frame:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decodeFrame(data []byte) (*domain.Frame, error) {
	var frame domain.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal frame: %w", err)
	}
	return &frame, nil
}
