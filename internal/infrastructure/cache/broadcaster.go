package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultRehydrationChannel is the pub/sub channel used when none is configured
	DefaultRehydrationChannel = "cpg:cache:rehydrate"

	defaultCloseTimeout = 5 * time.Second
)

// RehydrationMessage asks every instance to reload one kind
type RehydrationMessage struct {
	Kind      Kind   `json:"kind"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RehydrationBroadcaster fans rehydration requests out to the other
// instances through Redis Pub/Sub. Messages an instance published itself
// are ignored on receipt.
type RehydrationBroadcaster struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	origin     string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// BroadcasterOption is a functional option for configuring the broadcaster
type BroadcasterOption func(*RehydrationBroadcaster)

// WithBroadcastChannel sets the Pub/Sub channel name
func WithBroadcastChannel(channel string) BroadcasterOption {
	return func(b *RehydrationBroadcaster) {
		if channel != "" {
			b.channel = channel
		}
	}
}

// WithBroadcastLogger sets the logger
func WithBroadcastLogger(logger *zap.Logger) BroadcasterOption {
	return func(b *RehydrationBroadcaster) {
		b.logger = logger
	}
}

// NewRehydrationBroadcaster connects to Redis and creates a broadcaster
func NewRehydrationBroadcaster(cfg RedisConfig, opts ...BroadcasterOption) (*RehydrationBroadcaster, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	b := NewRehydrationBroadcasterWithClient(client, opts...)
	b.ownsClient = true
	return b, nil
}

// NewRehydrationBroadcasterWithClient creates a broadcaster on an existing client.
// The caller keeps ownership of the client.
func NewRehydrationBroadcasterWithClient(client *redis.Client, opts ...BroadcasterOption) *RehydrationBroadcaster {
	b := &RehydrationBroadcaster{
		client:  client,
		channel: DefaultRehydrationChannel,
		origin:  uuid.NewString(),
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Origin identifies this instance in published messages
func (b *RehydrationBroadcaster) Origin() string {
	return b.origin
}

// Publish announces that kind was rehydrated and should be reloaded elsewhere
func (b *RehydrationBroadcaster) Publish(ctx context.Context, kind Kind) error {
	data, err := json.Marshal(RehydrationMessage{
		Kind:      kind,
		Origin:    b.origin,
		Timestamp: time.Now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish rehydration message",
			zap.String("channel", b.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	b.logger.Debug("Published rehydration message",
		zap.String("kind", string(kind)),
		zap.String("channel", b.channel))
	return nil
}

// Subscribe blocks, invoking callback for every message published by
// another instance, until ctx is cancelled or Close is called.
func (b *RehydrationBroadcaster) Subscribe(ctx context.Context, callback func(kind Kind)) error {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	b.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	b.cancelFn = cancel
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.isRunning = false
		b.mu.Unlock()
		b.markDone()
	}()

	pubsub := b.client.Subscribe(subCtx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Info("Subscribed to cache rehydration channel", zap.String("channel", b.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			b.logger.Info("Cache rehydration subscription stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn("Cache rehydration channel closed")
				return nil
			}
			b.handle(msg.Payload, callback)
		}
	}
}

func (b *RehydrationBroadcaster) handle(payload string, callback func(kind Kind)) {
	var m RehydrationMessage
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		b.logger.Error("Failed to unmarshal rehydration message",
			zap.String("payload", payload),
			zap.Error(err))
		return
	}
	if m.Origin == b.origin {
		return
	}
	kind, err := ParseKind(string(m.Kind))
	if err != nil {
		b.logger.Warn("Ignoring rehydration message", zap.Error(err))
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in rehydration callback", zap.Any("panic", r))
			}
		}()
		callback(kind)
	}()
}

func (b *RehydrationBroadcaster) markDone() {
	b.doneOnce.Do(func() {
		close(b.doneCh)
	})
}

// Close stops the subscription and releases the client if owned
func (b *RehydrationBroadcaster) Close() error {
	b.mu.Lock()
	cancelFn := b.cancelFn
	b.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-b.doneCh:
		case <-time.After(defaultCloseTimeout):
			b.logger.Warn("Timeout waiting for subscription to stop")
		}
	}

	if b.ownsClient {
		return b.client.Close()
	}
	return nil
}
