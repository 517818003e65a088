// Package redisstore persists session snapshots in Redis, one string value
// per storage key. It implements the tracker's storage port for hosts that
// proxy captured interactions into a shared collector process; the TTL
// bounds how long an abandoned session survives.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/formpulse/behavior-tracker/internal/util/logger"
)

// Config defines the Redis connection for the snapshot store. Zero values
// get sensible defaults.
type Config struct {
	Address      string        `yaml:"address"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	SnapshotTTL  time.Duration `yaml:"snapshot_ttl"`
}

// Store wraps a redis.Client behind the three-method storage port. The port
// is synchronous, so each operation runs under its own short deadline.
type Store struct {
	client    *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
}

// New connects and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
	if cfg.SnapshotTTL == 0 {
		cfg.SnapshotTTL = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("redis snapshot store connected to %s (DB:%d)", cfg.Address, cfg.DB)
	return &Store{
		client:    client,
		ttl:       cfg.SnapshotTTL,
		opTimeout: cfg.ReadTimeout + cfg.WriteTimeout,
	}, nil
}

func (s *Store) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opTimeout)
}

// GetItem returns the snapshot under key, reporting false when absent or on
// any transport error (the tracker then starts a fresh session).
func (s *Store) GetItem(key string) (string, bool) {
	ctx, cancel := s.opCtx()
	defer cancel()

	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		logger.Warn("redis snapshot read failed for %s: %v", key, err)
		return "", false
	}
	return v, true
}

// SetItem writes the snapshot and refreshes its TTL.
func (s *Store) SetItem(key, value string) error {
	ctx, cancel := s.opCtx()
	defer cancel()

	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis snapshot write for %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the snapshot. Failures are logged; the session reset
// that triggered the delete proceeds regardless.
func (s *Store) RemoveItem(key string) {
	ctx, cancel := s.opCtx()
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("redis snapshot delete failed for %s: %v", key, err)
	}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
