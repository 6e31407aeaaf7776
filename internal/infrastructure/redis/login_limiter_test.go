package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tours-api/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLoginLimiter_BloqueaTrasMaximo(t *testing.T) {
	_, rdb := newTestRedis(t)
	l := NewLoginLimiter(rdb, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Check(ctx, "a@x.com"))
		require.NoError(t, l.RegisterFailure(ctx, "a@x.com"))
	}
	assert.ErrorIs(t, l.Check(ctx, "a@x.com"), domain.ErrTooManyAttempts)
	assert.NoError(t, l.Check(ctx, "b@x.com"), "otra clave no se ve afectada")
}

func TestLoginLimiter_VentanaExpira(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLoginLimiter(rdb, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.RegisterFailure(ctx, "a@x.com"))
	require.ErrorIs(t, l.Check(ctx, "a@x.com"), domain.ErrTooManyAttempts)

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, l.Check(ctx, "a@x.com"))
}

func TestLoginLimiter_ResetLimpia(t *testing.T) {
	_, rdb := newTestRedis(t)
	l := NewLoginLimiter(rdb, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.RegisterFailure(ctx, "a@x.com"))
	require.NoError(t, l.Reset(ctx, "a@x.com"))
	assert.NoError(t, l.Check(ctx, "a@x.com"))
}

func TestLoginLimiter_RedisCaido(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLoginLimiter(rdb, 1, time.Minute)
	mr.Close()

	assert.ErrorIs(t, l.Check(context.Background(), "a@x.com"), ErrUnavailable)
}
