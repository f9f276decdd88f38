package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reminderKeyPrefix = "tutor_ledger:reminded:"

// RedisConfig - параметры подключения к Redis
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis возвращает клиент Redis, проверив соединение
func NewRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// RedisReminderCache хранит отметки в Redis, переживая рестарты и несколько реплик
type RedisReminderCache struct {
	client *redis.Client
}

func NewRedisReminderCache(client *redis.Client) *RedisReminderCache {
	return &RedisReminderCache{client: client}
}

func (c *RedisReminderCache) Claim(ctx context.Context, lessonID int64, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, reminderKey(lessonID), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim reminder: %w", err)
	}
	return ok, nil
}

func (c *RedisReminderCache) Release(ctx context.Context, lessonID int64) error {
	if err := c.client.Del(ctx, reminderKey(lessonID)).Err(); err != nil {
		return fmt.Errorf("release reminder: %w", err)
	}
	return nil
}

func reminderKey(lessonID int64) string {
	return fmt.Sprintf("%s%d", reminderKeyPrefix, lessonID)
}
