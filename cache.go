package main

import (
	"strings"

	"github.com/jellydator/ttlcache/v3"
)

// UploadCache maps a source URL (optionally namespaced by destination
// folder) to its re-hosted public URL. One cache lives for one pipeline
// invocation; entries never expire and nothing is persisted.
type UploadCache struct {
	entries    *ttlcache.Cache[string, string]
	namespaced bool
	hits       int
}

// NewUploadCache creates an empty cache. With namespaced set, the same
// source URL uploaded to two folders gets two entries.
func NewUploadCache(namespaced bool) *UploadCache {
	return &UploadCache{
		entries:    ttlcache.New[string, string](ttlcache.WithDisableTouchOnHit[string, string]()),
		namespaced: namespaced,
	}
}

// Key returns the cache key for a source URL and folder
func (c *UploadCache) Key(sourceURL, folder string) string {
	key := strings.TrimSpace(sourceURL)
	if c.namespaced {
		return folder + "|" + key
	}
	return key
}

// Get returns the public URL stored under key
func (c *UploadCache) Get(key string) (string, bool) {
	item := c.entries.Get(key)
	if item == nil {
		return "", false
	}
	c.hits++
	return item.Value(), true
}

// Set stores the public URL for key
func (c *UploadCache) Set(key, publicURL string) {
	c.entries.Set(key, publicURL, ttlcache.NoTTL)
}

// Len returns the number of distinct uploads recorded
func (c *UploadCache) Len() int {
	return c.entries.Len()
}

// Hits returns how many lookups were answered from the cache
func (c *UploadCache) Hits() int {
	return c.hits
}
