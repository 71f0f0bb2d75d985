package pipeline_test

import (
	"context"

	"github.com/dvloznov/txnscan/internal/gcs"
)

// MockExtractor is a mock implementation of pipeline.TextExtractor.
type MockExtractor struct {
	ExtractTextFunc func(ctx context.Context, name string, data []byte) (string, error)
}

func (m *MockExtractor) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	if m.ExtractTextFunc != nil {
		return m.ExtractTextFunc(ctx, name, data)
	}
	return string(data), nil
}

// MockStore is a mock implementation of gcs.Store.
type MockStore struct {
	FetchFunc  func(ctx context.Context, uri string) ([]byte, error)
	UploadFunc func(ctx context.Context, bucket, objectName, filePath string) (string, error)
	ListFunc   func(ctx context.Context, prefixURI string) ([]gcs.Object, error)
}

func (m *MockStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, uri)
	}
	return nil, nil
}

func (m *MockStore) Upload(ctx context.Context, bucket, objectName, filePath string) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, bucket, objectName, filePath)
	}
	return gcs.Object{Bucket: bucket, Name: objectName}.URI(), nil
}

func (m *MockStore) List(ctx context.Context, prefixURI string) ([]gcs.Object, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, prefixURI)
	}
	return nil, nil
}
