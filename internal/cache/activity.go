// Package cache keeps short-lived per-card transaction activity.
package cache

import (
	"sync"
	"time"
)

// DefaultMaxRecent is the number of transaction ids kept per card
const DefaultMaxRecent = 20

// Activity is the recent transaction history of a card
type Activity struct {
	CardID               string    `json:"card_id"`
	LastTransactionID    string    `json:"last_transaction_id"`
	LastTransactionAt    time.Time `json:"last_transaction_at"`
	Count                int       `json:"count"`
	RecentTransactionIDs []string  `json:"recent_transaction_ids"` // Newest first
	ExpiresAt            time.Time `json:"expires_at"`
}

// ActivityCache is an in-memory, TTL-bounded map of card activity. Each write
// pushes the expiry of that card's entry out by the TTL.
type ActivityCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	maxRecent int
	now       func() time.Time
	entries   map[string]*Activity
}

// NewActivityCache creates a cache whose entries live for ttl after their last write
func NewActivityCache(ttl time.Duration, maxRecent int) *ActivityCache {
	if maxRecent <= 0 {
		maxRecent = DefaultMaxRecent
	}
	return &ActivityCache{
		ttl:       ttl,
		maxRecent: maxRecent,
		now:       time.Now,
		entries:   make(map[string]*Activity),
	}
}

// Record adds a transaction to the card's activity
func (c *ActivityCache) Record(cardID, transactionID string, at time.Time) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry, ok := c.entries[cardID]
	if !ok || c.expired(entry, now) {
		entry = &Activity{CardID: cardID}
		c.entries[cardID] = entry
	}

	entry.LastTransactionID = transactionID
	entry.LastTransactionAt = at
	entry.Count++
	entry.RecentTransactionIDs = append([]string{transactionID}, entry.RecentTransactionIDs...)
	if len(entry.RecentTransactionIDs) > c.maxRecent {
		entry.RecentTransactionIDs = entry.RecentTransactionIDs[:c.maxRecent]
	}
	entry.ExpiresAt = now.Add(c.ttl)
}

// Get returns a copy of the card's activity
func (c *ActivityCache) Get(cardID string) (Activity, bool) {
	if c == nil {
		return Activity{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[cardID]
	if !ok {
		return Activity{}, false
	}
	if c.expired(entry, c.now()) {
		delete(c.entries, cardID)
		return Activity{}, false
	}

	out := *entry
	out.RecentTransactionIDs = append([]string(nil), entry.RecentTransactionIDs...)
	return out, true
}

// Len returns the number of live entries
func (c *ActivityCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, id)
		}
	}
	return len(c.entries)
}

// Clear drops every entry and returns how many were removed
func (c *ActivityCache) Clear() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]*Activity)
	return n
}

func (c *ActivityCache) expired(entry *Activity, now time.Time) bool {
	return c.ttl > 0 && !now.Before(entry.ExpiresAt)
}
