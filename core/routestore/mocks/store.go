package mocks

import (
	"context"
	"time"

	"route-publisher/core/routestore"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of routestore.Store
type Store struct {
	mock.Mock
}

func (m *Store) Get(ctx context.Context, key string) *routestore.RouteConfig {
	args := m.Called(ctx, key)
	switch v := args.Get(0).(type) {
	case *routestore.RouteConfig:
		return v
	case func(context.Context, string) *routestore.RouteConfig:
		return v(ctx, key)
	}
	return nil
}

func (m *Store) Exists(ctx context.Context, key string) bool {
	args := m.Called(ctx, key)
	if fn, ok := args.Get(0).(func(context.Context, string) bool); ok {
		return fn(ctx, key)
	}
	return args.Bool(0)
}

func (m *Store) SetMany(ctx context.Context, entries map[string]routestore.RouteConfig, ttl time.Duration) error {
	args := m.Called(ctx, entries, ttl)
	return args.Error(0)
}
