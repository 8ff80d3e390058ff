// Package gcs provides a Google Cloud Storage backed implementation of
// core.ArtifactStore. Packaged documents are written as publicly addressable
// HTML objects so the returned reference can be served in an iframe directly.
package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/saxenashivang/interactive-learning/core"
)

// Options configures the GCS artifact store.
type Options struct {
	// Bucket is the target bucket name. Required.
	Bucket string
	// Prefix is an optional object key prefix (e.g. "artifacts").
	Prefix string
	// PublicBaseURL overrides the default https://storage.googleapis.com
	// base, e.g. a CDN domain or an emulator endpoint.
	PublicBaseURL string
	// ClientOptions are passed through to the storage client, e.g.
	// option.WithEndpoint for an emulator.
	ClientOptions []option.ClientOption
}

// Store persists packaged documents in a GCS bucket.
type Store struct {
	client *storage.Client
	opts   Options
}

// NewStore creates a GCS artifact store. Construction dials the storage API
// and can fail.
func NewStore(ctx context.Context, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{
		Prefix:        "artifacts",
		PublicBaseURL: "https://storage.googleapis.com",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Bucket == "" {
		return nil, &core.ConfigurationError{Setting: "artifact_bucket", Reason: "bucket name is required"}
	}

	client, err := storage.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Store{client: client, opts: opts}, nil
}

// NewStoreFromClient creates a GCS artifact store from an existing client.
func NewStoreFromClient(client *storage.Client, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{
		Prefix:        "artifacts",
		PublicBaseURL: "https://storage.googleapis.com",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Bucket == "" {
		return nil, &core.ConfigurationError{Setting: "artifact_bucket", Reason: "bucket name is required"}
	}
	return &Store{client: client, opts: opts}, nil
}

// Put writes the document under a fresh uuid key and returns its public URL.
func (s *Store) Put(ctx context.Context, data []byte) (string, error) {
	key := s.objectKey(uuid.NewString())

	w := s.client.Bucket(s.opts.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = "text/html; charset=utf-8"
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", &core.StorageError{Op: "put", Cause: err}
	}
	if err := w.Close(); err != nil {
		return "", &core.StorageError{Op: "put", Cause: err}
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.PublicBaseURL, "/"), s.opts.Bucket, key), nil
}

// Get reads back a document previously stored by Put. The reference can be
// the full public URL or the bare object key.
func (s *Store) Get(ctx context.Context, ref string) ([]byte, error) {
	key := s.keyFromRef(ref)
	r, err := s.client.Bucket(s.opts.Bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, &core.StorageError{Op: "get", Cause: err}
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &core.StorageError{Op: "get", Cause: err}
	}
	return data, nil
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.client.Close() }

func (s *Store) objectKey(id string) string {
	if s.opts.Prefix == "" {
		return id + ".html"
	}
	return strings.TrimRight(s.opts.Prefix, "/") + "/" + id + ".html"
}

func (s *Store) keyFromRef(ref string) string {
	base := strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + s.opts.Bucket + "/"
	if strings.HasPrefix(ref, base) {
		return strings.TrimPrefix(ref, base)
	}
	return ref
}
