package gcs

import (
	"context"
	"fmt"
	"path"
	"strings"
)

const scheme = "gs://"

// Store provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type Store interface {
	// Fetch downloads object bytes from a gs:// URI.
	Fetch(ctx context.Context, uri string) ([]byte, error)

	// Upload copies a local file to bucket/objectName and returns its URI.
	Upload(ctx context.Context, bucket, objectName, filePath string) (string, error)

	// List returns every object under a gs://bucket/prefix URI.
	List(ctx context.Context, prefixURI string) ([]Object, error)
}

// Object names one object in a bucket.
type Object struct {
	Bucket string
	Name   string
}

// URI returns the gs:// form of the object.
func (o Object) URI() string {
	return scheme + o.Bucket + "/" + o.Name
}

// Filename is the last path element of the object name,
// e.g. "gs://bucket/folder/file.pdf" -> "file.pdf".
func (o Object) Filename() string {
	return path.Base(o.Name)
}

// IsURI reports whether s looks like a gs:// URI.
func IsURI(s string) bool {
	return strings.HasPrefix(s, scheme)
}

// ParseURI splits gs://bucket/path/to/object.
func ParseURI(uri string) (Object, error) {
	return parseURI(uri, false)
}

// ParsePrefixURI is like ParseURI but accepts gs://bucket and gs://bucket/.
func ParsePrefixURI(uri string) (Object, error) {
	return parseURI(uri, true)
}

func parseURI(uri string, allowEmptyObject bool) (Object, error) {
	if !IsURI(uri) {
		return Object{}, fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, scheme)
	bucket, name, _ := strings.Cut(trimmed, "/")
	if bucket == "" {
		return Object{}, fmt.Errorf("invalid GCS URI (no bucket): %s", uri)
	}
	if name == "" && !allowEmptyObject {
		return Object{}, fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return Object{Bucket: bucket, Name: name}, nil
}
