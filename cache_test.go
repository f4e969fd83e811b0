package main

import "testing"

func TestUploadCacheKey(t *testing.T) {
	flat := NewUploadCache(false)
	if got := flat.Key(" https://x.org/a.jpg ", "hero"); got != "https://x.org/a.jpg" {
		t.Errorf("Key() = %q, want trimmed URL", got)
	}

	namespaced := NewUploadCache(true)
	a := namespaced.Key("https://x.org/a.jpg", "articles")
	b := namespaced.Key("https://x.org/a.jpg", "articles/gallery")
	if a == b {
		t.Errorf("namespaced keys for different folders are equal: %q", a)
	}
}

func TestUploadCacheHits(t *testing.T) {
	cache := NewUploadCache(false)
	key := cache.Key("https://x.org/a.jpg", "hero")

	if _, ok := cache.Get(key); ok {
		t.Fatal("empty cache returned a value")
	}
	if cache.Hits() != 0 {
		t.Errorf("Hits() = %d after a miss, want 0", cache.Hits())
	}

	cache.Set(key, "https://cdn.example/uploads/hero/a.jpg")
	for i := 0; i < 3; i++ {
		got, ok := cache.Get(key)
		if !ok || got != "https://cdn.example/uploads/hero/a.jpg" {
			t.Fatalf("Get() = %q, %v", got, ok)
		}
	}

	if cache.Hits() != 3 {
		t.Errorf("Hits() = %d, want 3", cache.Hits())
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}
