// Package cache 提供分析结果的 JSON 缓存
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store 缓存接口；未命中返回 false 而不是错误
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RevenueKey 收入分析缓存键
func RevenueKey(gymOwnerID int64) string {
	return fmt.Sprintf("revenue_analytics_%d", gymOwnerID)
}

// AttendanceKey 签到分析缓存键
func AttendanceKey(gymOwnerID int64) string {
	return fmt.Sprintf("attendance_analytics_%d", gymOwnerID)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cache %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// NoopStore 不缓存，Redis 不可用时使用
type NoopStore struct{}

func (NoopStore) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NoopStore) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (NoopStore) Delete(context.Context, ...string) error { return nil }
