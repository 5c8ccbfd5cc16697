package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

const cacheKeyPrefix = "age:"

// RedisResultCache хранит успешные результаты по хэшу изображения с TTL.
type RedisResultCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

// NewRedisPool создаёт пул соединений к Redis. timeout ограничивает
// подключение и каждое чтение/запись, чтобы зависший Redis не держал запрос.
func NewRedisPool(address string, maxConnections int, timeout time.Duration) *redis.Pool {
	return redis.NewPool(func() (redis.Conn, error) {
		return redis.Dial("tcp", address,
			redis.DialConnectTimeout(timeout),
			redis.DialReadTimeout(timeout),
			redis.DialWriteTimeout(timeout),
		)
	}, maxConnections)
}

func NewRedisResultCache(pool *redis.Pool, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{pool: pool, ttl: ttl}
}

// Ping проверяет, что Redis доступен.
func (c *RedisResultCache) Ping(ctx context.Context) error {
	conn, err := c.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Do("PING")
	return err
}

// Get возвращает nil, nil если записи нет.
func (c *RedisResultCache) Get(ctx context.Context, key string) (*entity.PredictionResult, error) {
	conn, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", cacheKeyPrefix+key))
	if err == redis.ErrNil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var res entity.PredictionResult
	if err := json.Unmarshal(data, &res); err != nil {
		// битая запись равносильна промаху
		return nil, nil
	}
	return &res, nil
}

// Set сохраняет результат через SETEX.
func (c *RedisResultCache) Set(ctx context.Context, key string, result entity.PredictionResult) error {
	if !result.Success {
		return fmt.Errorf("refusing to cache failed result")
	}
	serialized, err := json.Marshal(result)
	if err != nil {
		return err
	}

	conn, err := c.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	ttl := int(c.ttl.Seconds())
	if ttl < 1 {
		ttl = 1
	}
	_, err = conn.Do("SETEX", cacheKeyPrefix+key, ttl, serialized)
	return err
}

// conn берёт соединение из пула. Контекст проверяется только до запроса.
func (c *RedisResultCache) conn(ctx context.Context) (redis.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn := c.pool.Get()
	if err := conn.Err(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Close закрывает пул
func (c *RedisResultCache) Close() error {
	return c.pool.Close()
}

var _ port.ResultCache = (*RedisResultCache)(nil)
