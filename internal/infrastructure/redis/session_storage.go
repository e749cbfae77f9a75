// Package redis implementa el almacenamiento de sesiones de Fiber sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Investigacion-api/pkg/config"
)

var _ fiber.Storage = (*SessionStorage)(nil)

const (
	defaultOpTimeout = 3 * time.Second
	resetScanCount   = 100
)

// SessionStorage guarda cada sesión como una clave <prefix><session id> con TTL igual a la expiración.
type SessionStorage struct {
	client    redis.UniversalClient
	prefix    string
	opTimeout time.Duration
}

// NewClient abre un cliente Redis con la configuración de la app y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewSessionStorage construye el storage sobre un cliente ya abierto.
func NewSessionStorage(client redis.UniversalClient, prefix string) *SessionStorage {
	return &SessionStorage{client: client, prefix: prefix, opTimeout: defaultOpTimeout}
}

func (s *SessionStorage) key(id string) string {
	return s.prefix + id
}

func (s *SessionStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opTimeout)
}

// Get devuelve (nil, nil) si la sesión no existe o ya expiró.
func (s *SessionStorage) Get(id string) ([]byte, error) {
	if id == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	return val, nil
}

// Set guarda la sesión; exp <= 0 significa sin expiración.
func (s *SessionStorage) Set(id string, val []byte, exp time.Duration) error {
	if id == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	if exp < 0 {
		exp = 0
	}
	if err := s.client.Set(ctx, s.key(id), val, exp).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Delete elimina la sesión. Borrar una sesión inexistente no es error.
func (s *SessionStorage) Delete(id string) error {
	if id == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Reset elimina todas las sesiones con el prefijo configurado; el resto del keyspace no se toca.
func (s *SessionStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", resetScanCount).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan sessions: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis reset sessions: %w", err)
	}
	return nil
}

// Close cierra el cliente subyacente.
func (s *SessionStorage) Close() error {
	return s.client.Close()
}
