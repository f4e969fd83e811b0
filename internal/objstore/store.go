// Package objstore is the object storage collaborator used to re-host seed
// assets: an S3-compatible bucket (Cloudflare R2 in production) addressed
// by bucket and key.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/smithy-go"
)

// PutObjectInput describes one whole-object upload.
type PutObjectInput struct {
	Bucket       string
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// ObjectStore is the request/response surface the seeder needs.
type ObjectStore interface {
	PutObject(ctx context.Context, in PutObjectInput) error
	DeleteObject(ctx context.Context, bucket, key string) error
}

// UploadError wraps a failed put or delete. Code is the storage API error
// code when the backend returned one.
type UploadError struct {
	Op     string
	Bucket string
	Key    string
	Code   string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s s3://%s/%s: %s: %v", e.Op, e.Bucket, e.Key, e.Code, e.Err)
	}
	return fmt.Sprintf("%s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func newUploadError(op, bucket, key string, err error) *UploadError {
	ue := &UploadError{Op: op, Bucket: bucket, Key: key, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		ue.Code = apiErr.ErrorCode()
	}
	return ue
}

// MemoryStore keeps objects in memory. It backs --dry-run and tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]PutObjectInput
	puts    int
	// FailKeys makes PutObject fail for the listed keys.
	FailKeys map[string]error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]PutObjectInput)}
}

func (m *MemoryStore) PutObject(_ context.Context, in PutObjectInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.FailKeys[in.Key]; ok {
		return newUploadError("put", in.Bucket, in.Key, err)
	}
	m.puts++
	m.objects[in.Bucket+"/"+in.Key] = in
	return nil
}

func (m *MemoryStore) DeleteObject(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, bucket+"/"+key)
	return nil
}

// Get returns a stored object.
func (m *MemoryStore) Get(bucket, key string) (PutObjectInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	in, ok := m.objects[bucket+"/"+key]
	return in, ok
}

// Puts returns the number of successful PutObject calls.
func (m *MemoryStore) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.puts
}

// Keys returns every stored "bucket/key", sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
