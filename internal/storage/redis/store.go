package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/quotapace/internal/constants"
	"github.com/julianstephens/quotapace/internal/logger"
	"github.com/julianstephens/quotapace/internal/storage"
)

const (
	opTimeout = 5 * time.Second
	lockTTL   = 10 * time.Second
)

// ErrLocked is returned by SetMany when another process holds the write lock.
var ErrLocked = errors.New("store is locked by another quotapace process")

// Store keeps each value under its key as a plain Redis string.
type Store struct {
	url    string
	client *goredis.Client
	locker *redislock.Client
}

func New(url string) *Store {
	return &Store{url: url}
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}

	opts, err := goredis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.client = client
	s.locker = redislock.New(client)
	logger.Debug("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return nil
}

// Init and Load both just connect; Redis needs no schema.
func (s *Store) Init() error { return s.connect() }

func (s *Store) Load() error { return s.connect() }

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	s.locker = nil
	return err
}

func (s *Store) Get(key string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

func (s *Store) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany writes every pair in one MULTI/EXEC under a short-lived lock.
func (s *Store) SetMany(values map[string]string) error {
	if s.client == nil {
		return fmt.Errorf("storage not loaded")
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	lock, err := s.locker.Obtain(ctx, constants.AppName+":lock", lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrLocked
	}
	if err != nil {
		return fmt.Errorf("failed to obtain write lock: %w", err)
	}
	defer func() {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn("failed to release redis lock", "error", err)
		}
	}()

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s.client == nil {
		return fmt.Errorf("storage not loaded")
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.client.Del(ctx, key).Err()
}

func (s *Store) GetConfigPath() string {
	return "redis"
}
