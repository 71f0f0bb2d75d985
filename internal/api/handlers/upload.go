package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxUploadBytes bounds multipart bodies.
const MaxUploadBytes = 32 << 20

// upload is the optional "file" part of a form.
type upload struct {
	Filename string
	Data     []byte
}

// readUpload parses a multipart or urlencoded form and returns the "file"
// part, or nil when none was sent.
func readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read file part: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read file part: %w", err)
	}
	return &upload{Filename: header.Filename, Data: data}, nil
}
