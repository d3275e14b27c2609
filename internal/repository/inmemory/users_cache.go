package inmemory

import (
	"sync"
	"time"

	userdomain "vigat-bahee/internal/domain/user"
)

type InMemoryUserCache struct {
	mu    sync.RWMutex
	items map[string]userItem
}

type userItem struct {
	value     userdomain.User
	expiresAt time.Time
}

func NewInMemoryUserCache() *InMemoryUserCache {
	return &InMemoryUserCache{
		items: make(map[string]userItem),
	}
}

func (c *InMemoryUserCache) GetByID(id string) (*userdomain.User, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[id]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, id)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *InMemoryUserCache) SetByID(id string, user *userdomain.User, ttl time.Duration) {
	if user == nil || ttl <= 0 {
		c.DeleteByID(id)
		return
	}

	c.mu.Lock()
	c.items[id] = userItem{
		value:     *user,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryUserCache) DeleteByID(id string) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}
