package decor

import (
	"sync"
	"time"
)

// PostCache is an in-memory cache of published blog posts with TTL. It
// backs the public blog listing, the feed and the sitemap; detail reads go
// to the store so comments are always fresh. Admin blog writes invalidate
// it.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]BlogPost, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, _, err := c.store.ListBlogPosts(BlogPostFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListPublished returns published posts, optionally filtered to those
// belonging to any of the given category slugs.
func (c *PostCache) ListPublished(categorySlugs []string) ([]BlogPost, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if len(categorySlugs) == 0 {
		return posts, nil
	}
	want := make(map[string]struct{}, len(categorySlugs))
	for _, s := range categorySlugs {
		want[s] = struct{}{}
	}
	var filtered []BlogPost
	for _, p := range posts {
		for _, cat := range p.Categories {
			if _, ok := want[cat.Slug]; ok {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}
