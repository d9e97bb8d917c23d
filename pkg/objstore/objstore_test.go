package objstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSON(t *testing.T) {
	b, err := EncodeJSON(map[string]string{"email": "ünïcode<a@b.c>"})
	require.NoError(t, err)
	assert.Equal(t, `{"email":"ünïcode<a@b.c>"}`, string(b))
}

func TestPutJSON(t *testing.T) {
	s := NewMemoryStorage()
	err := PutJSON(context.Background(), s.Bucket("b"), "users/u1/user.json", map[string]string{"uid": "u1"})
	require.NoError(t, err)

	o, ok := s.Get("b", "users/u1/user.json")
	require.True(t, ok)
	assert.Equal(t, ContentTypeJSON, o.ContentType)
	assert.JSONEq(t, `{"uid":"u1"}`, string(o.Body))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	b := s.Bucket("main")

	exists, err := b.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, b.Upload(ctx, "k2", []byte("two"), "text/plain"))
	require.NoError(t, b.Upload(ctx, "k1", []byte("one"), "text/plain"))
	require.NoError(t, b.Upload(ctx, "k1", []byte("uno"), "text/plain"))

	exists, err = b.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, exists)

	o, ok := s.Get("main", "k1")
	require.True(t, ok)
	assert.Equal(t, "uno", string(o.Body))
	assert.Equal(t, []string{"k1", "k2"}, s.Keys("main"))
	assert.Equal(t, 3, s.Uploads("main"))
	assert.Equal(t, 2, s.ExistsChecks("main"))

	assert.Empty(t, s.Keys("other"))
	_, ok = s.Get("other", "k1")
	assert.False(t, ok)
}

func TestMemoryStorageHooks(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	boom := errors.New("boom")
	s.UploadHook = func(bucket, key string) error {
		if key == "bad" {
			return boom
		}
		return nil
	}
	s.ExistsHook = func(bucket, key string) error { return boom }
	b := s.Bucket("main")

	assert.ErrorIs(t, b.Upload(ctx, "bad", []byte("x"), ContentTypeJSON), boom)
	require.NoError(t, b.Upload(ctx, "good", []byte("x"), ContentTypeJSON))
	assert.Equal(t, []string{"good"}, s.Keys("main"))

	_, err := b.Exists(ctx, "good")
	assert.ErrorIs(t, err, boom)
}

func TestMemoryStorageCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStorage()
	assert.ErrorIs(t, s.Bucket("main").Upload(ctx, "k", nil, ContentTypeJSON), context.Canceled)
	assert.Empty(t, s.Keys("main"))
}
