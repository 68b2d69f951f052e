package routestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"route-publisher/core/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisStore struct {
	client   redis.UniversalClient
	logger   *zap.Logger
	observer ReadObserver
}

// NewRedis connects to Redis and verifies the connection with a PING.
func NewRedis(cfg Config, logger *zap.Logger, observer ReadObserver) (Store, redis.UniversalClient, error) {
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("routestore: redis ping: %w", err)
	}

	return NewRedisFromClient(client, logger, observer), client, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client redis.UniversalClient, logger *zap.Logger, observer ReadObserver) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisStore{client: client, logger: logger, observer: observer}
}

func buildOptions(cfg Config) (*redis.Options, error) {
	address := strings.TrimSpace(cfg.Address)
	if address == "" {
		return nil, fmt.Errorf("routestore: %w: redis address required", utils.ErrConfiguration)
	}

	var opts *redis.Options
	if strings.Contains(address, "://") {
		parsed, err := redis.ParseURL(address)
		if err != nil {
			return nil, fmt.Errorf("routestore: %w: invalid redis url: %v", utils.ErrConfiguration, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: address, DB: cfg.DB}
	}

	if cfg.Username != "" {
		opts.Username = cfg.Username
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return opts, nil
}

func (s *redisStore) Get(ctx context.Context, key string) *RouteConfig {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.readFailed("get", key, err)
		}
		return nil
	}

	var route RouteConfig
	if err := json.Unmarshal(payload, &route); err != nil {
		s.readFailed("decode", key, err)
		return nil
	}
	return &route
}

func (s *redisStore) Exists(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.readFailed("exists", key, err)
		return false
	}
	return n > 0
}

// SetMany writes every entry inside one MULTI/EXEC transaction.
func (s *redisStore) SetMany(ctx context.Context, entries map[string]RouteConfig, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	payloads := make(map[string][]byte, len(entries))
	for key, route := range entries {
		payload, err := json.Marshal(route)
		if err != nil {
			return fmt.Errorf("routestore: marshal %s: %w", key, err)
		}
		payloads[key] = payload
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, payload := range payloads {
			pipe.Set(ctx, key, payload, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("routestore: redis batch set: %w", err)
	}
	return nil
}

func (s *redisStore) readFailed(op, key string, err error) {
	s.logger.Warn("Route store read failed, treating as cache miss",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
	if s.observer != nil {
		s.observer.StoreReadFailed(op)
	}
}
