package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/use-agent/leadscrape/models"
)

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.ScrapeResponse
	createdAt time.Time
}

// Cache is an in-memory LRU of successful scrape responses. Entries expire
// after ttl no matter what max_age a caller asks for. It is safe for
// concurrent use.
type Cache struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

// New creates a Cache holding at most maxEntries responses for up to ttl.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, entry](maxEntries, nil, ttl),
		now: time.Now,
	}
}

// Key generates a cache key from the URL and whether a content digest
// was requested.
func Key(url string, includeContent bool) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.FormatBool(includeContent)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached response if it exists and is younger than maxAge.
// maxAge is in milliseconds. If maxAge <= 0, no cache lookup is performed.
func (c *Cache) Get(key string, maxAgeMs int) (*models.ScrapeResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}
	return e.response, true
}

// Set stores a response, evicting the least recently used entry when full.
func (c *Cache) Set(key string, resp *models.ScrapeResponse) {
	c.lru.Add(key, entry{response: resp, createdAt: c.now()})
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return c.lru.Len() }
