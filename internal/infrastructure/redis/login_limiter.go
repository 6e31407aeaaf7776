// Package redis implementa el limitador de inicios de sesión fallidos sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/domain"
)

var _ auth.LoginLimiter = (*LoginLimiter)(nil)

// ErrUnavailable Redis no respondió.
var ErrUnavailable = errors.New("redis no disponible")

const keyPrefix = "tours:signin:fail:"

// LoginLimiter cuenta fallos por clave en una ventana fija: el TTL se fija en el primer fallo.
// Al superar maxAttempts la clave queda bloqueada hasta que vence la ventana.
type LoginLimiter struct {
	rdb         redis.UniversalClient
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter construye el limitador.
func NewLoginLimiter(rdb redis.UniversalClient, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

// Check devuelve domain.ErrTooManyAttempts si la clave alcanzó el máximo de fallos.
func (l *LoginLimiter) Check(ctx context.Context, key string) error {
	count, err := l.rdb.Get(ctx, keyPrefix+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count >= int64(l.maxAttempts) {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// RegisterFailure incrementa el contador; la ventana empieza con el primer fallo.
func (l *LoginLimiter) RegisterFailure(ctx context.Context, key string) error {
	k := keyPrefix + key
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

// Reset borra el contador tras un login correcto.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
