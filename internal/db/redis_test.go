package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedisConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := InitRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestInitRedisRejectsBadURL(t *testing.T) {
	_, err := InitRedis(context.Background(), "http://not-redis")
	assert.Error(t, err)
}

func TestInitPostgresRejectsBadURL(t *testing.T) {
	_, err := InitPostgres(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
