// Package services holds the logic shared by the HTTP handlers and the
// scheduled jobs: user provisioning, cached preference reads and daily
// motivation generation.
package services

import (
	"context"
	"time"
)

// JSONCache is the part of the Redis cache the services use.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (NopCache) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error                           { return nil }
