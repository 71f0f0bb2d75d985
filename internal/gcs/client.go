package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const uploadTimeout = 2 * time.Minute

var _ Store = (*Client)(nil)

// Options configures how the storage client authenticates.
type Options struct {
	// CredentialsFile is a service account key. Empty uses Application
	// Default Credentials (gcloud auth application-default login).
	CredentialsFile string
	// Endpoint overrides the API endpoint, e.g. a local emulator.
	// Requests to a custom endpoint are sent unauthenticated.
	Endpoint string
}

// Client is the Store backed by Google Cloud Storage.
type Client struct {
	storage *storage.Client
}

// NewClient creates a storage client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	}

	sc, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Client{storage: sc}, nil
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	return c.storage.Close()
}

// Fetch downloads the file bytes from the given GCS URI.
func (c *Client) Fetch(ctx context.Context, uri string) ([]byte, error) {
	obj, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	rc, err := c.storage.Bucket(obj.Bucket).Object(obj.Name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading object %s/%s: %w", obj.Bucket, obj.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading bytes: %w", err)
	}
	return data, nil
}

// Upload copies a local file to the bucket under objectName.
func (c *Client) Upload(ctx context.Context, bucket, objectName, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := c.storage.Bucket(bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType(objectName)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy file to GCS writer: %w", err)
	}
	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return Object{Bucket: bucket, Name: objectName}.URI(), nil
}

// List returns every object whose name starts with the prefix in prefixURI.
// "Directory" placeholder objects ending in "/" are skipped.
func (c *Client) List(ctx context.Context, prefixURI string) ([]Object, error) {
	prefix, err := ParsePrefixURI(prefixURI)
	if err != nil {
		return nil, err
	}

	it := c.storage.Bucket(prefix.Bucket).Objects(ctx, &storage.Query{Prefix: prefix.Name})
	var objects []Object
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("List: %s: %w", prefixURI, err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		objects = append(objects, Object{Bucket: attrs.Bucket, Name: attrs.Name})
	}
	return objects, nil
}

// contentType guesses from the extension; .log is served as plain text.
func contentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == ".log" {
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
