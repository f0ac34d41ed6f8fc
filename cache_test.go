package decor

import (
	"testing"
	"time"
)

func seedPosts(t *testing.T, s *Store) {
	t.Helper()
	if err := s.CreateBlogCategory(&BlogCategory{Name: "Mẹo vặt", Slug: "meo-vat"}); err != nil {
		t.Fatalf("CreateBlogCategory failed: %v", err)
	}
	posts := []struct {
		post *BlogPost
		cats []string
	}{
		{&BlogPost{Title: "Bài một", Slug: "bai-mot", Content: "x", AuthorName: "An", Status: StatusPublished, PublishedAt: "2024-01-01T00:00:00Z"}, []string{"meo-vat"}},
		{&BlogPost{Title: "Bài hai", Slug: "bai-hai", Content: "x", AuthorName: "An", Status: StatusPublished, PublishedAt: "2024-02-01T00:00:00Z"}, nil},
		{&BlogPost{Title: "Nháp", Slug: "nhap", Content: "x", AuthorName: "An", Status: StatusDraft}, nil},
	}
	for _, p := range posts {
		if err := s.CreateBlogPost(p.post, p.cats); err != nil {
			t.Fatalf("CreateBlogPost(%q) failed: %v", p.post.Slug, err)
		}
	}
}

func TestPostCacheServesPublishedOnly(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s)

	cache := NewPostCache(s, time.Minute)
	posts, err := cache.ListPublished(nil)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(posts))
	}
	for _, p := range posts {
		if p.Status != StatusPublished {
			t.Errorf("unexpected status %q in cache", p.Status)
		}
	}
}

func TestPostCacheCategoryFilter(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s)

	cache := NewPostCache(s, time.Minute)
	posts, err := cache.ListPublished([]string{"meo-vat"})
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "bai-mot" {
		t.Errorf("unexpected filtered posts: %+v", posts)
	}

	none, err := cache.ListPublished([]string{"khong-co"})
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no posts for unknown category, got %d", len(none))
	}
}

func TestPostCacheStaleUntilInvalidated(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s)

	cache := NewPostCache(s, time.Hour)
	if _, err := cache.ListPublished(nil); err != nil {
		t.Fatalf("warm-up failed: %v", err)
	}

	extra := &BlogPost{Title: "Bài ba", Slug: "bai-ba", Content: "x", AuthorName: "An", Status: StatusPublished, PublishedAt: "2024-03-01T00:00:00Z"}
	if err := s.CreateBlogPost(extra, nil); err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	posts, _ := cache.ListPublished(nil)
	if len(posts) != 2 {
		t.Fatalf("expected stale cache to still serve 2 posts, got %d", len(posts))
	}

	cache.Invalidate()
	posts, _ = cache.ListPublished(nil)
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts after invalidation, got %d", len(posts))
	}
}

func TestPostCacheExpiresByTTL(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s)

	cache := NewPostCache(s, 50*time.Millisecond)
	if _, err := cache.ListPublished(nil); err != nil {
		t.Fatalf("warm-up failed: %v", err)
	}

	extra := &BlogPost{Title: "Bài ba", Slug: "bai-ba", Content: "x", AuthorName: "An", Status: StatusPublished, PublishedAt: "2024-03-01T00:00:00Z"}
	if err := s.CreateBlogPost(extra, nil); err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	posts, _ := cache.ListPublished(nil)
	if len(posts) != 3 {
		t.Fatalf("expected reload after TTL, got %d posts", len(posts))
	}
}
