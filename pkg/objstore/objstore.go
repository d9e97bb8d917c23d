// Package objstore provides a minimal key/value view of object storage buckets:
// per-key existence checks and whole-object uploads.
package objstore

import (
	"bytes"
	"context"
	"encoding/json"
)

const ContentTypeJSON = "application/json"

// Storage hands out buckets by name. Implementations must be safe for concurrent use.
type Storage interface {
	Bucket(name string) Bucket
}

// Bucket is a flat key namespace inside Storage.
type Bucket interface {
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
	// Upload stores body under key, replacing any previous object.
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// EncodeJSON serializes v as UTF-8 JSON without escaping non-ASCII or HTML characters
// and without a trailing newline.
func EncodeJSON(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PutJSON encodes v and uploads it under key as application/json.
func PutJSON(ctx context.Context, b Bucket, key string, v interface{}) error {
	body, err := EncodeJSON(v)
	if err != nil {
		return err
	}
	return b.Upload(ctx, key, body, ContentTypeJSON)
}
