package objstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method       string
	Path         string
	ContentType  string
	CacheControl string
	Body         []byte
}

// fakeS3 answers path-style S3 requests and records what it saw.
type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:       r.Method,
		Path:         r.URL.Path,
		ContentType:  r.Header.Get("Content-Type"),
		CacheControl: r.Header.Get("Cache-Control"),
		Body:         body,
	})
	status, respBody := f.status, f.body
	f.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
		return
	}
	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func newTestStore(t *testing.T, h http.Handler) *S3Store {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(),
		WithRegion("auto"),
		WithStaticCredentials("AKIDTEST", "secret"),
		WithEndpoint(srv.URL),
		WithPathStyle(),
		WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return store
}

func TestS3StorePutObject(t *testing.T) {
	fake := &fakeS3{}
	store := newTestStore(t, fake)

	err := store.PutObject(context.Background(), PutObjectInput{
		Bucket:       "charity",
		Key:          "hero/hero_1_slide.png",
		Body:         []byte("png-bytes"),
		ContentType:  "image/png",
		CacheControl: "public, max-age=31536000",
	})
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/charity/hero/hero_1_slide.png", req.Path)
	assert.Equal(t, "image/png", req.ContentType)
	assert.Equal(t, "public, max-age=31536000", req.CacheControl)
	assert.Equal(t, []byte("png-bytes"), req.Body)
}

func TestS3StorePutObjectAPIError(t *testing.T) {
	fake := &fakeS3{
		status: http.StatusForbidden,
		body:   `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`,
	}
	store := newTestStore(t, fake)

	err := store.PutObject(context.Background(), PutObjectInput{
		Bucket: "charity",
		Key:    "hero/x.png",
		Body:   []byte("x"),
	})
	require.Error(t, err)

	var ue *UploadError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "put", ue.Op)
	assert.Equal(t, "hero/x.png", ue.Key)
	assert.Equal(t, "AccessDenied", ue.Code)
}

func TestS3StoreDeleteObject(t *testing.T) {
	fake := &fakeS3{}
	store := newTestStore(t, fake)

	require.NoError(t, store.DeleteObject(context.Background(), "charity", "videos/v.mp4"))

	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodDelete, fake.requests[0].Method)
	assert.Equal(t, "/charity/videos/v.mp4", fake.requests[0].Path)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.FailKeys = map[string]error{"bad": errors.New("boom")}

	require.NoError(t, m.PutObject(ctx, PutObjectInput{Bucket: "b", Key: "k", Body: []byte("v")}))
	err := m.PutObject(ctx, PutObjectInput{Bucket: "b", Key: "bad"})
	var ue *UploadError
	require.ErrorAs(t, err, &ue)

	got, ok := m.Get("b", "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got.Body)
	assert.Equal(t, 1, m.Puts())
	assert.Equal(t, []string{"b/k"}, m.Keys())

	require.NoError(t, m.DeleteObject(ctx, "b", "k"))
	assert.Empty(t, m.Keys())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("VITE_AWS_S3_BUCKET_NAME", "")
	t.Setenv("AWS_S3_BUCKET_NAME", "plain-bucket")
	t.Setenv("VITE_R2_PUBLIC_URL", "https://vite.example")
	t.Setenv("R2_PUBLIC_URL", "https://plain.example")
	t.Setenv("VITE_AWS_S3_API_URL", "")
	t.Setenv("AWS_S3_API_URL", "https://acct.r2.cloudflarestorage.com")
	t.Setenv("AWS_REGION", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "plain-bucket", cfg.Bucket)
	assert.Equal(t, "https://vite.example", cfg.PublicURL)
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com", cfg.Endpoint)
	assert.Equal(t, "auto", cfg.Region)
}

func TestLoadConfigMissing(t *testing.T) {
	for _, k := range []string{"VITE_AWS_S3_BUCKET_NAME", "AWS_S3_BUCKET_NAME", "VITE_R2_PUBLIC_URL", "R2_PUBLIC_URL"} {
		t.Setenv(k, "")
	}

	_, err := LoadConfig()
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"AWS_S3_BUCKET_NAME", "R2_PUBLIC_URL"}, ce.Missing)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example/uploads/hero/a.png", PublicURL("https://cdn.example/", "/uploads/", "hero/a.png"))
	assert.Equal(t, "https://cdn.example/hero/a.png", PublicURL("https://cdn.example", "", "hero/a.png"))

	key, ok := KeyFromPublicURL("https://cdn.example", "uploads", "https://cdn.example/uploads/hero/a.png")
	assert.True(t, ok)
	assert.Equal(t, "hero/a.png", key)

	_, ok = KeyFromPublicURL("https://cdn.example", "uploads", "https://elsewhere.example/uploads/hero/a.png")
	assert.False(t, ok)
	_, ok = KeyFromPublicURL("https://cdn.example", "uploads", "https://cdn.example/uploads/")
	assert.False(t, ok)
}
