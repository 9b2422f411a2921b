package extract

import (
	"sync"
	"time"

	"github.com/ytget/video-downloader/internal/model"
)

type cacheEntry struct {
	preview *Preview
	expires time.Time
}

// cache is a TTL map of previews keyed by platform and URL. A nil cache is a no-op.
type cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(p model.Platform, url string) string {
	return string(p) + "|" + url
}

func (c *cache) get(p model.Platform, url string) (*Preview, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(p, url)
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.preview.clone(), true
}

func (c *cache) put(preview *Preview) {
	if c == nil || preview == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(preview.Platform, preview.URL)] = cacheEntry{
		preview: preview.clone(),
		expires: c.now().Add(c.ttl),
	}
}

// clone copies the playlist so callers can change selection and progress
// without touching the cached entry
func (p *Preview) clone() *Preview {
	c := *p
	c.Playlist = p.Playlist.Clone()
	return &c
}

func (c *cache) clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
