// Package cache хранит отметки об отправленных напоминаниях, чтобы не слать их на каждом опросе
package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryReminderCache - множество ID уроков с TTL в памяти процесса
type MemoryReminderCache struct {
	mu      sync.Mutex
	expires map[int64]time.Time
	now     func() time.Time
}

func NewMemoryReminderCache() *MemoryReminderCache {
	return &MemoryReminderCache{
		expires: make(map[int64]time.Time),
		now:     time.Now,
	}
}

// Claim отмечает урок как уведомлённый на ttl. false - отметка уже есть
func (c *MemoryReminderCache) Claim(_ context.Context, lessonID int64, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evict(now)

	if _, ok := c.expires[lessonID]; ok {
		return false, nil
	}
	c.expires[lessonID] = now.Add(ttl)
	return true, nil
}

// Release снимает отметку, чтобы урок снова попал в рассылку
func (c *MemoryReminderCache) Release(_ context.Context, lessonID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.expires, lessonID)
	return nil
}

func (c *MemoryReminderCache) evict(now time.Time) {
	for id, expiresAt := range c.expires {
		if !now.Before(expiresAt) {
			delete(c.expires, id)
		}
	}
}
