package cartstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage Redis 存储实现
// 每个存储键对应一个 string 值，跨进程共享同一浏览器令牌的信封。
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage 创建 Redis 存储
func NewRedisStorage(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		prefix: strings.TrimSpace(prefix),
		ttl:    ttl,
	}
}

// Load 读取信封串
func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.client == nil {
		return nil, false, nil
	}
	val, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Save 写入信封串（写入时刷新过期时间）
func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("redis storage unavailable")
	}
	return s.client.Set(ctx, s.buildKey(key), data, s.ttl).Err()
}

// Delete 删除信封串
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

func (s *RedisStorage) buildKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", s.prefix, key)
}
