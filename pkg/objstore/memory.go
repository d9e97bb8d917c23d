package objstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryObject is a stored object in MemoryStorage.
type MemoryObject struct {
	Body        []byte
	ContentType string
}

// MemoryStorage keeps objects in process memory. It backs tests and local development.
type MemoryStorage struct {
	mu      sync.RWMutex
	buckets map[string]map[string]MemoryObject
	uploads map[string]int
	checks  map[string]int

	// UploadHook, when set, is called before every upload and aborts it by returning an error.
	UploadHook func(bucket, key string) error
	// ExistsHook, when set, is called before every existence check and aborts it by returning an error.
	ExistsHook func(bucket, key string) error
}

type memoryBucket struct {
	name    string
	storage *MemoryStorage
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		buckets: map[string]map[string]MemoryObject{},
		uploads: map[string]int{},
		checks:  map[string]int{},
	}
}

func (s *MemoryStorage) Bucket(name string) Bucket {
	return &memoryBucket{name: name, storage: s}
}

// Get returns a copy of the object stored under key.
func (s *MemoryStorage) Get(bucket, key string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.buckets[bucket][key]
	if !ok {
		return MemoryObject{}, false
	}
	return MemoryObject{Body: append([]byte(nil), o.Body...), ContentType: o.ContentType}, true
}

// Keys returns all keys in bucket in lexical order.
func (s *MemoryStorage) Keys(bucket string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.buckets[bucket]))
	for k := range s.buckets[bucket] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Uploads returns the number of successful uploads made to bucket.
func (s *MemoryStorage) Uploads(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploads[bucket]
}

// ExistsChecks returns the number of existence checks made against bucket.
func (s *MemoryStorage) ExistsChecks(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checks[bucket]
}

func (b *memoryBucket) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if h := b.storage.ExistsHook; h != nil {
		if err := h(b.name, key); err != nil {
			return false, err
		}
	}
	b.storage.mu.Lock()
	defer b.storage.mu.Unlock()
	b.storage.checks[b.name]++
	_, ok := b.storage.buckets[b.name][key]
	return ok, nil
}

func (b *memoryBucket) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h := b.storage.UploadHook; h != nil {
		if err := h(b.name, key); err != nil {
			return err
		}
	}
	b.storage.mu.Lock()
	defer b.storage.mu.Unlock()
	objects, ok := b.storage.buckets[b.name]
	if !ok {
		objects = map[string]MemoryObject{}
		b.storage.buckets[b.name] = objects
	}
	objects[key] = MemoryObject{Body: append([]byte(nil), body...), ContentType: contentType}
	b.storage.uploads[b.name]++
	return nil
}

// ContentType returns the content type recorded for key, or an empty string when key is absent.
func (s *MemoryStorage) ContentType(bucket, key string) string {
	o, _ := s.Get(bucket, key)
	return o.ContentType
}
