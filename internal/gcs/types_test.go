package gcs

import (
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    Object
		wantErr bool
	}{
		{"gs://bucket/file.pdf", Object{"bucket", "file.pdf"}, false},
		{"gs://bucket/folder/sub/file.log", Object{"bucket", "folder/sub/file.log"}, false},
		{"gs://bucket", Object{}, true},
		{"gs://bucket/", Object{}, true},
		{"gs:///file.pdf", Object{}, true},
		{"s3://bucket/file.pdf", Object{}, true},
		{"/local/file.pdf", Object{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ParseURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseURI(%q) = %+v, want %+v", tt.uri, got, tt.want)
			}
		})
	}
}

func TestParsePrefixURI(t *testing.T) {
	got, err := ParsePrefixURI("gs://bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Object{Bucket: "bucket"}) {
		t.Errorf("got %+v", got)
	}

	got, err = ParsePrefixURI("gs://bucket/logs/2024/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "logs/2024/" {
		t.Errorf("got name %q", got.Name)
	}

	if _, err := ParsePrefixURI("bucket/logs"); err == nil {
		t.Error("expected error for missing scheme")
	}
}

func TestObject(t *testing.T) {
	o := Object{Bucket: "bucket", Name: "folder/file.pdf"}
	if o.URI() != "gs://bucket/folder/file.pdf" {
		t.Errorf("URI() = %q", o.URI())
	}
	if o.Filename() != "file.pdf" {
		t.Errorf("Filename() = %q", o.Filename())
	}
	if !IsURI(o.URI()) || IsURI("file.pdf") {
		t.Error("IsURI mismatch")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"generated/20260101/transactions_fixed.log": "text/plain; charset=utf-8",
		"generated/20260101/transactions.pdf":       "application/pdf",
		"blob.unknownext":                           "application/octet-stream",
	}
	for name, want := range tests {
		if got := contentType(name); got != want {
			t.Errorf("contentType(%q) = %q, want %q", name, got, want)
		}
	}
}
